package driver

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ufwctl/ufwctl/internal/rule"
	"github.com/ufwctl/ufwctl/internal/utils/iputil"
)

// columnGap splits listing rows on runs of two or more spaces, the gap
// the front-end prints between the To, Action and From columns.
var columnGap = regexp.MustCompile(`\s{2,}`)

// isRuleHeader reports whether line is the rule table header of a
// status listing ("To ... Action ... From").
// isRuleHeader 判断该行是否为状态列表的规则表头。
func isRuleHeader(line string) bool {
	return strings.HasPrefix(line, "To") && strings.HasSuffix(line, "From")
}

// ParseStatus extracts the state lines from `status verbose` output.
// Collection stops at the rule table header; the numbered listing is
// parsed separately by ParseNumbered.
// ParseStatus 从 `status verbose` 输出中提取状态行。
// 收集在规则表头处停止；编号列表由 ParseNumbered 单独解析。
func ParseStatus(text string) *Status {
	st := &Status{}
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if isRuleHeader(line) {
			break
		}
		switch {
		case strings.HasPrefix(line, "Status:"):
			st.Active = strings.TrimSpace(strings.TrimPrefix(line, "Status:")) == "active"
		case strings.HasPrefix(line, "Logging:"):
			st.Logging = strings.TrimSpace(strings.TrimPrefix(line, "Logging:"))
		case strings.HasPrefix(line, "Default:"):
			st.Default = strings.TrimSpace(strings.TrimPrefix(line, "Default:"))
		case strings.HasPrefix(line, "New profiles:"):
			st.Profiles = strings.TrimSpace(strings.TrimPrefix(line, "New profiles:"))
		}
	}
	return st
}

// ParseNumbered extracts the rule rows from `status numbered` output.
// Rows are recognized by their "[ N]" prefix; everything else (status
// lines, headers, blanks) is skipped.
// ParseNumbered 从 `status numbered` 输出中提取规则行。
// 通过 "[ N]" 前缀识别行；其余内容（状态行、表头、空行）被跳过。
func ParseNumbered(text string) []ListedRule {
	var rules []ListedRule
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "[") {
			continue
		}
		closing := strings.Index(line, "]")
		if closing < 0 {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(line[1:closing]))
		if err != nil {
			continue
		}
		rules = append(rules, parseRuleRow(n, strings.TrimSpace(line[closing+1:])))
	}
	return rules
}

// parseRuleRow splits one listing row body into its columns. A trailing
// "# text" cell becomes the comment.
func parseRuleRow(n int, body string) ListedRule {
	lr := ListedRule{Number: n}
	if i := strings.Index(body, "#"); i >= 0 {
		lr.Comment = strings.TrimSpace(body[i+1:])
		body = strings.TrimSpace(body[:i])
	}
	cols := columnGap.Split(body, -1)
	switch len(cols) {
	case 0:
	case 1:
		lr.To = cols[0]
	case 2:
		lr.To, lr.Action = cols[0], cols[1]
	default:
		lr.To, lr.Action, lr.From = cols[0], cols[1], cols[2]
	}
	return lr
}

// Rule converts the listed row into the normalized model. ok is false
// for rows the model does not express: routed rules, port lists,
// application profiles with spaces, and source-side port selectors.
// Those rows still display and still delete by number.
// Rule 将列表行转换为标准化模型。对于模型无法表达的行（路由规则、端口列表、
// 含空格的应用配置、源端端口选择器），ok 为 false。这些行仍可显示并按编号删除。
func (l ListedRule) Rule() (rule.Rule, bool) {
	fields := strings.Fields(l.Action)
	if len(fields) == 0 {
		return rule.Rule{}, false
	}
	action, err := rule.ParseAction(fields[0])
	if err != nil {
		return rule.Rule{}, false
	}
	direction := rule.DirectionIn
	if len(fields) > 1 {
		direction, err = rule.ParseDirection(fields[1])
		if err != nil {
			return rule.Rule{}, false
		}
	}
	toAddr, port, proto, ok := parseEndpoint(l.To)
	if !ok {
		return rule.Rule{}, false
	}
	fromAddr, fromPort, fromProto, ok := parseEndpoint(l.From)
	if !ok || fromPort != "" || fromProto != "" {
		return rule.Rule{}, false
	}
	r, err := rule.New(string(action), string(direction), proto, port, fromAddr, toAddr, l.Comment)
	if err != nil {
		return rule.Rule{}, false
	}
	return r, true
}

// parseEndpoint decodes one endpoint cell of a listing row. Cells carry
// an address, a port specification with optional protocol, or both:
// "Anywhere", "22/tcp", "10.0.0.0/8", "10.0.0.5 22/tcp", "Anywhere/udp",
// "OpenSSH". Trailing annotations like "(v6)" are stripped.
// parseEndpoint 解码列表行中的一个端点单元格。单元格可携带地址、
// 带可选协议的端口规格，或两者兼有。"(v6)" 等尾部注记会被剥离。
func parseEndpoint(cell string) (addr, port, proto string, ok bool) {
	s := strings.TrimSpace(cell)
	for strings.HasSuffix(s, ")") {
		i := strings.LastIndex(s, "(")
		if i < 0 {
			break
		}
		s = strings.TrimSpace(s[:i])
	}
	if s == "" || strings.EqualFold(s, "Anywhere") {
		return "", "", "", true
	}
	if rest, found := cutAnywhere(s); found {
		proto, ok = parseProtoToken(rest)
		return "", "", proto, ok
	}
	fields := strings.Fields(s)
	if len(fields) > 2 {
		return "", "", "", false
	}
	if iputil.IsValidCIDR(fields[0]) {
		addr = fields[0]
		if len(fields) == 2 {
			port, proto, ok = splitPortProto(fields[1])
			return addr, port, proto, ok
		}
		return addr, "", "", true
	}
	if len(fields) == 2 {
		return "", "", "", false
	}
	port, proto, ok = splitPortProto(fields[0])
	return "", port, proto, ok
}

// cutAnywhere strips a leading "Anywhere/" and returns the remainder.
func cutAnywhere(s string) (string, bool) {
	const prefix = "anywhere/"
	if len(s) > len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return "", false
}

func parseProtoToken(s string) (string, bool) {
	p := strings.ToLower(strings.TrimSpace(s))
	if p == "tcp" || p == "udp" {
		return p, true
	}
	return "", false
}

// splitPortProto splits "22/tcp" into its port and protocol parts. Port
// validity is left to the rule constructor.
func splitPortProto(s string) (port, proto string, ok bool) {
	if p, pr, found := strings.Cut(s, "/"); found {
		pr, ok = parseProtoToken(pr)
		if !ok {
			return "", "", false
		}
		return p, pr, true
	}
	return s, "", true
}

// ParseAdded extracts the recorded rules from `show added` output.
// Each rule line echoes the command that created it ("ufw allow 22/tcp",
// "ufw allow in proto tcp from 10.0.0.0/24 to any port 443"); the
// header line and rules the model does not express (routed rules,
// interface bindings) are skipped.
// ParseAdded 从 `show added` 输出中提取已记录的规则。每条规则行回显创建它的命令；
// 表头行以及模型无法表达的规则（路由规则、接口绑定）被跳过。
func ParseAdded(text string) rule.RuleSet {
	var rules rule.RuleSet
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		body, found := strings.CutPrefix(line, "ufw ")
		if !found {
			continue
		}
		if r, ok := parseAddedRule(body); ok {
			rules = append(rules, r)
		}
	}
	return rules
}

// parseAddedRule decodes one echoed rule command, without the leading
// "ufw". The grammar mirrors RuleArgs: a short form with a bare port
// specification, and an extended form built from keyword pairs.
func parseAddedRule(body string) (rule.Rule, bool) {
	comment := ""
	if i := strings.Index(body, " comment "); i >= 0 {
		comment = strings.Trim(strings.TrimSpace(body[i+len(" comment "):]), "'")
		body = strings.TrimSpace(body[:i])
	}
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return rule.Rule{}, false
	}
	action, err := rule.ParseAction(fields[0])
	if err != nil {
		return rule.Rule{}, false
	}
	fields = fields[1:]
	direction := string(rule.DirectionIn)
	if len(fields) > 0 && (fields[0] == "in" || fields[0] == "out") {
		direction = fields[0]
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return rule.Rule{}, false
	}
	if !addedKeyword(fields[0]) {
		// Short form: a single port specification.
		// 短格式：单个端口规格。
		if len(fields) != 1 {
			return rule.Rule{}, false
		}
		port, proto, ok := splitPortProto(fields[0])
		if !ok {
			return rule.Rule{}, false
		}
		r, err := rule.New(string(action), direction, proto, port, "", "", comment)
		if err != nil {
			return rule.Rule{}, false
		}
		return r, true
	}
	var proto, from, to, port string
	for i := 0; i < len(fields); i += 2 {
		if i+1 >= len(fields) {
			return rule.Rule{}, false
		}
		switch fields[i] {
		case "proto":
			proto = fields[i+1]
		case "from":
			from = fields[i+1]
		case "to":
			to = fields[i+1]
		case "port":
			port = fields[i+1]
		default:
			return rule.Rule{}, false
		}
	}
	if strings.EqualFold(from, "any") {
		from = ""
	}
	if strings.EqualFold(to, "any") {
		to = ""
	}
	r, err := rule.New(string(action), direction, proto, port, from, to, comment)
	if err != nil {
		return rule.Rule{}, false
	}
	return r, true
}

// addedKeyword reports whether tok opens a keyword pair of the
// extended rule command form.
func addedKeyword(tok string) bool {
	switch tok {
	case "proto", "from", "to", "port", "on":
		return true
	}
	return false
}

// parseVersion extracts the bare version from `--version` output, e.g.
// "ufw 0.36.2\nCopyright ..." yields "0.36.2".
// parseVersion 从 `--version` 输出中提取版本号。
func parseVersion(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	if _, v, found := strings.Cut(line, " "); found {
		return strings.TrimSpace(v)
	}
	return line
}
