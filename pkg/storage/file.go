package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ufwctl/ufwctl/internal/rule"
	"github.com/ufwctl/ufwctl/internal/utils/fileutil"
	"github.com/ufwctl/ufwctl/pkg/errors"
)

const (
	backupDirName    = "backup"
	backupTimeFormat = "20060102-150405"
)

// YAMLStore implements the Store interface using local YAML rule documents
// YAMLStore 使用本地 YAML 规则文档实现 Store 接口。
type YAMLStore struct {
	mu       sync.RWMutex
	rulesDir string // directory for documents and the backup/ subdirectory / 文档及 backup/ 子目录所在目录
}

// NewYAMLStore creates a new YAML-based rule document store.
// NewYAMLStore 创建一个新的基于 YAML 的规则文档存储。
func NewYAMLStore(rulesDir string) *YAMLStore {
	return &YAMLStore{rulesDir: rulesDir}
}

// Export writes rules to path in canonical sort order, deduplicated.
// Export 将规则去重后按规范排序写入 path。
func (s *YAMLStore) Export(rules rule.RuleSet, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeDocument(rules, path)
}

// Import reads and parses the rule document at path.
// Import 读取并解析 path 处的规则文档。
func (s *YAMLStore) Import(path string) (rule.RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readDocument(path)
}

// Organize reads, dedups, canonically sorts, and rewrites the same file in
// place. Running it twice produces byte-identical output on the second run.
// Organize 读取、去重、按规范排序后原地重写同一文件。
// 连续运行两次时，第二次输出逐字节相同。
func (s *YAMLStore) Organize(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.readDocument(path)
	if err != nil {
		return err
	}
	return s.writeDocument(rules, path)
}

// Backup snapshots rules into the backup subdirectory with a timestamped
// filename and returns the written path.
// Backup 将规则以带时间戳的文件名快照到备份子目录，并返回写入的路径。
func (s *YAMLStore) Backup(rules rule.RuleSet) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.rulesDir, backupDirName)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", errors.NewIOError(dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("rules-%s.yaml", time.Now().Format(backupTimeFormat)))
	if err := s.writeDocument(rules, path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *YAMLStore) readDocument(path string) (rule.RuleSet, error) {
	safePath := filepath.Clean(path)      // Sanitize path to prevent directory traversal
	content, err := os.ReadFile(safePath) // #nosec G304 // path is sanitized with filepath.Clean
	if err != nil {
		return nil, errors.NewIOError(safePath, err)
	}
	return rule.UnmarshalDocument(content, safePath)
}

func (s *YAMLStore) writeDocument(rules rule.RuleSet, path string) error {
	data, err := rule.MarshalDocument(rules)
	if err != nil {
		return errors.NewIOError(path, err)
	}

	safePath := filepath.Clean(path) // Sanitize path to prevent directory traversal
	if dir := filepath.Dir(safePath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError(safePath, err)
		}
	}
	if err := fileutil.AtomicWriteFile(safePath, data, 0600); err != nil {
		return errors.NewIOError(safePath, err)
	}
	return nil
}
