package config

import (
	"path/filepath"

	"github.com/ufwctl/ufwctl/internal/runtime"
)

/**
 * GetConfigPath resolves the configuration file path.
 * It prioritizes the CLI flag (runtime.ConfigPath) over the default.
 * GetConfigPath 解析配置文件路径。
 * 优先使用 CLI 标志 (runtime.ConfigPath)，其次是默认值。
 */
func GetConfigPath() string {
	if runtime.ConfigPath != "" {
		return runtime.ConfigPath
	}
	return DefaultConfigPath
}

/**
 * LoadActive loads the configuration from the active path, falling back to
 * the built-in defaults when no configuration file exists yet.
 * LoadActive 从当前生效路径加载配置，配置文件尚不存在时回退到内置默认值。
 */
func LoadActive() *GlobalConfig {
	cfg, err := LoadGlobalConfig(GetConfigPath())
	if err != nil {
		return Default()
	}
	return cfg
}

/**
 * ResolveDocumentPath resolves a rule document path. Relative names are
 * placed under the configured rules directory; absolute paths pass through.
 * ResolveDocumentPath 解析规则文档路径。相对名称放在配置的规则目录下，绝对路径原样通过。
 */
func ResolveDocumentPath(cfg *GlobalConfig, name string) string {
	if name == "" {
		name = DefaultExportFile
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(cfg.Base.RulesDir, name)
}
