// Package rule defines the normalized in-memory model of a firewall rule
// set together with its equality and canonical ordering semantics.
// Package rule 定义防火墙规则集的标准化内存模型及其相等性和规范排序语义。
package rule

import (
	"strconv"
	"strings"

	"github.com/ufwctl/ufwctl/internal/utils/iputil"
	"github.com/ufwctl/ufwctl/pkg/errors"
)

// Action is the verdict a rule applies to matching traffic.
// Action 是规则对匹配流量施加的裁决。
type Action string

const (
	ActionAllow  Action = "allow"
	ActionDeny   Action = "deny"
	ActionReject Action = "reject"
	ActionLimit  Action = "limit"
)

// Direction is the traffic direction a rule matches.
// Direction 是规则匹配的流量方向。
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Protocol is the transport protocol a rule matches.
// Protocol 是规则匹配的传输协议。
type Protocol string

const (
	ProtocolTCP Protocol = "tcp"
	ProtocolUDP Protocol = "udp"
	ProtocolAny Protocol = "any"
)

// ParseAction parses a rule action string.
// ParseAction 解析规则动作字符串。
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionAllow:
		return ActionAllow, nil
	case ActionDeny:
		return ActionDeny, nil
	case ActionReject:
		return ActionReject, nil
	case ActionLimit:
		return ActionLimit, nil
	default:
		return "", errors.NewActionError(s)
	}
}

// ParseDirection parses a traffic direction string. Empty input defaults
// to inbound, matching the external tool's convention.
// ParseDirection 解析流量方向字符串。空输入默认为入站，与外部工具的约定一致。
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionIn, "":
		return DirectionIn, nil
	case DirectionOut:
		return DirectionOut, nil
	default:
		return "", errors.NewDirectionError(s)
	}
}

// ParseProtocol parses a transport protocol string. Empty input defaults
// to any.
// ParseProtocol 解析传输协议字符串。空输入默认为 any。
func ParseProtocol(s string) (Protocol, error) {
	switch Protocol(strings.ToLower(strings.TrimSpace(s))) {
	case ProtocolTCP:
		return ProtocolTCP, nil
	case ProtocolUDP:
		return ProtocolUDP, nil
	case ProtocolAny, "":
		return ProtocolAny, nil
	default:
		return "", errors.NewProtocolError(s)
	}
}

// Rule is one firewall permission entry. Values are immutable by
// convention: edits produce a new Rule rather than mutating in place.
// Rule 是一条防火墙许可条目。按约定其值不可变：编辑产生新的 Rule 而不是就地修改。
type Rule struct {
	Action    Action
	Direction Direction
	Protocol  Protocol
	// Port is a port number, a start:end range, or a named service.
	// May be empty when From/To selectors carry the match instead.
	// Port 是端口号、start:end 范围或服务名。当 From/To 选择器承担匹配时可为空。
	Port string
	// From and To are CIDR blocks or "any". Empty means any.
	// From 和 To 是 CIDR 网段或 "any"。为空表示任意。
	From string
	To   string
	// Comment is free text preserved on round-trip. It never affects
	// equivalence.
	// Comment 是在导出导入往返中保留的自由文本，不影响等价性。
	Comment string
}

// New builds a validated Rule from raw field values.
// New 从原始字段值构建经过验证的 Rule。
func New(action, direction, protocol, port, from, to, comment string) (Rule, error) {
	act, err := ParseAction(action)
	if err != nil {
		return Rule{}, err
	}
	dir, err := ParseDirection(direction)
	if err != nil {
		return Rule{}, err
	}
	proto, err := ParseProtocol(protocol)
	if err != nil {
		return Rule{}, err
	}
	portSpec := strings.TrimSpace(port)
	if err := ValidatePortSpec(portSpec); err != nil {
		return Rule{}, err
	}
	fromAddr := strings.TrimSpace(from)
	if err := validateAddr(fromAddr); err != nil {
		return Rule{}, err
	}
	toAddr := strings.TrimSpace(to)
	if err := validateAddr(toAddr); err != nil {
		return Rule{}, err
	}
	if portSpec == "" && normalizeAddr(fromAddr) == "" && normalizeAddr(toAddr) == "" {
		return Rule{}, errors.NewPortError("rule requires a port or a from/to selector")
	}
	return Rule{
		Action:    act,
		Direction: dir,
		Protocol:  proto,
		Port:      portSpec,
		From:      fromAddr,
		To:        toAddr,
		Comment:   strings.TrimSpace(comment),
	}, nil
}

// GuardRule returns the administrative access rule for the given port.
// It is always allow/in/tcp so a baseline reset can never cut off the
// operator's session.
// GuardRule 返回指定端口的管理访问规则。它始终是 allow/in/tcp，
// 以保证基线重置不会切断操作员的会话。
func GuardRule(port uint16) Rule {
	return Rule{
		Action:    ActionAllow,
		Direction: DirectionIn,
		Protocol:  ProtocolTCP,
		Port:      strconv.Itoa(int(port)),
		Comment:   "ufwctl: administrative access",
	}
}

// ValidatePortSpec checks a port specification. Valid forms are empty,
// a number 1-65535, a start:end range, or a named service.
// ValidatePortSpec 校验端口规格。合法形式为空、1-65535 的数字、start:end 范围或服务名。
func ValidatePortSpec(spec string) error {
	if spec == "" {
		return nil
	}
	if n, err := strconv.Atoi(spec); err == nil {
		if n < 1 || n > 65535 {
			return errors.NewPortError(spec)
		}
		return nil
	}
	if start, end, ok := strings.Cut(spec, ":"); ok {
		lo, err1 := strconv.Atoi(start)
		hi, err2 := strconv.Atoi(end)
		if err1 != nil || err2 != nil || lo < 1 || hi > 65535 || lo >= hi {
			return errors.NewPortError(spec)
		}
		return nil
	}
	if !isServiceName(spec) {
		return errors.NewPortError(spec)
	}
	return nil
}

// isServiceName reports whether s looks like an /etc/services style name.
func isServiceName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9', c == '-':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func validateAddr(addr string) error {
	if addr == "" || strings.EqualFold(addr, "any") {
		return nil
	}
	if !iputil.IsValidCIDR(addr) {
		return errors.NewAddressError(addr)
	}
	return nil
}

// normalizeAddr maps the empty string, "any" and equivalent CIDR
// spellings to one canonical form so equivalence checks see through
// notation differences (e.g. 1.2.3.4 vs 1.2.3.4/32).
func normalizeAddr(addr string) string {
	a := strings.ToLower(strings.TrimSpace(addr))
	if a == "" || a == "any" {
		return ""
	}
	return iputil.NormalizeCIDR(a)
}

// Equivalent reports structural equality with other, ignoring Comment.
// Address fields are compared in normalized form.
// Equivalent 判断与 other 的结构相等性，忽略 Comment。地址字段按标准化形式比较。
func (r Rule) Equivalent(other Rule) bool {
	return r.Action == other.Action &&
		r.Direction == other.Direction &&
		r.Protocol == other.Protocol &&
		r.Port == other.Port &&
		normalizeAddr(r.From) == normalizeAddr(other.From) &&
		normalizeAddr(r.To) == normalizeAddr(other.To)
}

// String renders the rule in the compact human-readable form used in
// logs and diagnostics, e.g. "allow in 22/tcp from 10.0.0.0/8".
// String 以日志和诊断信息中使用的紧凑可读形式渲染规则。
func (r Rule) String() string {
	var b strings.Builder
	b.WriteString(string(r.Action))
	b.WriteByte(' ')
	b.WriteString(string(r.Direction))
	if r.Port != "" {
		b.WriteByte(' ')
		b.WriteString(r.Port)
		if r.Protocol != ProtocolAny {
			b.WriteByte('/')
			b.WriteString(string(r.Protocol))
		}
	} else if r.Protocol != ProtocolAny {
		b.WriteString(" proto ")
		b.WriteString(string(r.Protocol))
	}
	if r.From != "" {
		b.WriteString(" from ")
		b.WriteString(r.From)
	}
	if r.To != "" {
		b.WriteString(" to ")
		b.WriteString(r.To)
	}
	return b.String()
}

// OrderKey is the canonical sort key of a rule. Keys order by direction,
// protocol, port, from, to, action. Numeric ports order by value and come
// before every non-numeric port specification.
// OrderKey 是规则的规范排序键。按方向、协议、端口、源、目的、动作排序。
// 数字端口按数值排序，并排在所有非数字端口规格之前。
type OrderKey struct {
	Direction  string
	Protocol   string
	PortNumber int
	PortText   string
	// PortParsed marks a numeric port. Unparsable ports sort last.
	// PortParsed 标记数字端口。不可解析的端口排在最后。
	PortParsed bool
	From       string
	To         string
	Action     string
}

// SortKey derives the canonical ordering key for r. Pure and total.
// SortKey 推导 r 的规范排序键。纯函数且对所有输入有定义。
func (r Rule) SortKey() OrderKey {
	key := OrderKey{
		Direction: string(r.Direction),
		Protocol:  string(r.Protocol),
		PortText:  r.Port,
		From:      r.From,
		To:        r.To,
		Action:    string(r.Action),
	}
	if n, err := strconv.Atoi(r.Port); err == nil {
		key.PortParsed = true
		key.PortNumber = n
	}
	return key
}

// Compare orders two rules by their sort keys. It returns a negative
// value when a sorts before b, zero on equal keys, positive otherwise.
// Compare 按排序键比较两条规则。a 在前返回负值，键相等返回零，否则返回正值。
func Compare(a, b Rule) int {
	ka, kb := a.SortKey(), b.SortKey()
	if c := strings.Compare(ka.Direction, kb.Direction); c != 0 {
		return c
	}
	if c := strings.Compare(ka.Protocol, kb.Protocol); c != 0 {
		return c
	}
	if c := comparePort(ka, kb); c != 0 {
		return c
	}
	if c := strings.Compare(ka.From, kb.From); c != 0 {
		return c
	}
	if c := strings.Compare(ka.To, kb.To); c != 0 {
		return c
	}
	return strings.Compare(ka.Action, kb.Action)
}

func comparePort(a, b OrderKey) int {
	switch {
	case a.PortParsed && b.PortParsed:
		return a.PortNumber - b.PortNumber
	case a.PortParsed:
		return -1
	case b.PortParsed:
		return 1
	default:
		return strings.Compare(a.PortText, b.PortText)
	}
}
