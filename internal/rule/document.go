package rule

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ufwctl/ufwctl/pkg/errors"
)

// DocumentHeader is written at the top of every exported rule document.
// It is deterministic so that organizing a document twice yields
// byte-identical output.
// DocumentHeader 写在每个导出的规则文档顶部。它是确定性的，
// 因此对文档执行两次整理会产生逐字节相同的输出。
const DocumentHeader = "# ufwctl rule document\n# Edit with care: unknown keys are rejected on import.\n"

// documentEntry mirrors one mapping entry of the rule document.
type documentEntry struct {
	Action    string `yaml:"action"`
	Direction string `yaml:"direction"`
	Protocol  string `yaml:"protocol,omitempty"`
	Port      string `yaml:"port,omitempty"`
	From      string `yaml:"from,omitempty"`
	To        string `yaml:"to,omitempty"`
	Comment   string `yaml:"comment,omitempty"`
}

// knownDocumentKeys lists the only keys a rule document entry may carry.
// Anything else is rejected so an operator never imports a rule they did
// not intend.
// knownDocumentKeys 列出规则文档条目允许携带的全部键。
// 其他键一律拒绝，避免操作员导入非预期的规则。
var knownDocumentKeys = map[string]bool{
	"action":    true,
	"direction": true,
	"protocol":  true,
	"port":      true,
	"from":      true,
	"to":        true,
	"comment":   true,
}

// MarshalDocument renders rules as the portable YAML rule document in
// canonical order, deduplicated, with the generated header and a rule
// count comment.
// MarshalDocument 将规则以规范顺序、去重后渲染为可移植的 YAML 规则文档，
// 并带有生成的文件头和规则数量注释。
func MarshalDocument(rules RuleSet) ([]byte, error) {
	canonical := rules.Canonicalize()

	var buf bytes.Buffer
	buf.WriteString(DocumentHeader)
	fmt.Fprintf(&buf, "# Rules: %d\n", len(canonical))

	if len(canonical) == 0 {
		buf.WriteString("[]\n")
		return buf.Bytes(), nil
	}

	entries := make([]documentEntry, 0, len(canonical))
	for _, r := range canonical {
		entries = append(entries, documentEntry{
			Action:    string(r.Action),
			Direction: string(r.Direction),
			Protocol:  string(r.Protocol),
			Port:      r.Port,
			From:      r.From,
			To:        r.To,
			Comment:   r.Comment,
		})
	}

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalDocument parses a rule document. source names the document in
// error messages. Malformed entries and unknown keys fail with a parse
// error naming the offending entry and line; nothing is returned on
// failure.
// UnmarshalDocument 解析规则文档。source 用于在错误信息中标识文档。
// 畸形条目和未知键会以指明出错条目和行号的解析错误失败，失败时不返回任何规则。
func UnmarshalDocument(data []byte, source string) (RuleSet, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.NewParseError(source, 0, err.Error())
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		// Empty or comment-only document.
		return RuleSet{}, nil
	}

	seq := root.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, errors.NewParseError(source, 0, "document root must be a sequence of rule mappings")
	}

	rules := make(RuleSet, 0, len(seq.Content))
	for i, node := range seq.Content {
		entry := i + 1
		if node.Kind != yaml.MappingNode {
			return nil, errors.NewParseError(source, entry, fmt.Sprintf("rule entry must be a mapping (line %d)", node.Line))
		}
		for j := 0; j+1 < len(node.Content); j += 2 {
			keyNode := node.Content[j]
			if !knownDocumentKeys[keyNode.Value] {
				return nil, errors.NewParseError(source, entry, fmt.Sprintf("unknown key %q (line %d)", keyNode.Value, keyNode.Line))
			}
		}

		var doc documentEntry
		if err := node.Decode(&doc); err != nil {
			return nil, errors.NewParseError(source, entry, err.Error())
		}
		r, err := New(doc.Action, doc.Direction, doc.Protocol, doc.Port, doc.From, doc.To, doc.Comment)
		if err != nil {
			return nil, errors.NewParseError(source, entry, fmt.Sprintf("%v (line %d)", err, node.Line))
		}
		rules = append(rules, r)
	}
	return rules, nil
}
