package storage

import (
	"github.com/ufwctl/ufwctl/internal/rule"
)

// Store is the interface for persisting rule documents
// Store 是用于持久化规则文档的接口。
type Store interface {
	// Export writes rules to path as a canonical rule document.
	// Export 将规则以规范化文档形式写入 path。
	Export(rules rule.RuleSet, path string) error
	// Import parses the rule document at path.
	// Import 解析 path 处的规则文档。
	Import(path string) (rule.RuleSet, error)
	// Organize rewrites the document at path in canonical order, in place.
	// Organize 将 path 处的文档按规范顺序原地重写。
	Organize(path string) error
	// Backup snapshots rules into the backup directory and returns the
	// written path.
	// Backup 将规则快照写入备份目录并返回写入的路径。
	Backup(rules rule.RuleSet) (string, error)
}
