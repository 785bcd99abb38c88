package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ufwctl/ufwctl/internal/utils/fileutil"
	"github.com/ufwctl/ufwctl/internal/utils/logger"
	"github.com/ufwctl/ufwctl/pkg/errors"
)

// DefaultConfigTemplate defines the default configuration file structure with bilingual comments.
// This template is written on first run so a fresh install ships with documented settings.
const DefaultConfigTemplate = `# ufwctl Configuration File / ufwctl 配置文件
#

# Base Configuration / 基础配置
base:
  # Rules Directory: Where exported rule documents are stored.
  # The backup/ subdirectory receives pre-import snapshots.
  # 规则目录：导出的规则文档存放位置。backup/ 子目录存放导入前的快照。
  rules_dir: "/etc/ufwctl/rules"

  # Backup Enabled: Export a timestamped snapshot of the live rule set
  # before any destructive import.
  # 启用备份：在任何破坏性导入之前，导出带时间戳的现行规则集快照。
  backup_enabled: true

  # Guard Port: Fallback administrative access port used when session
  # detection fails.
  # 守护端口：会话检测失败时使用的管理访问端口回退值。
  guard_port: 22

  # Firewall Binary: Name or path of the firewall control utility.
  # 防火墙二进制：防火墙控制工具的名称或路径。
  ufw_binary: "ufw"

# Logging Configuration / 日志配置
logging:
  enabled: true
  # Log level: debug, info, warn, error
  # 日志级别：debug, info, warn, error
  level: "info"
  # Operation log file path
  # 操作日志文件路径
  path: "/var/log/ufwctl/ufwctl.log"
  # Error log file path (warn and above; empty disables the second file)
  # 错误日志文件路径（warn 及以上级别；留空则禁用第二个文件）
  error_path: "/var/log/ufwctl/error.log"
  # Max size in MB before rotation / 轮转前的最大大小 (MB)
  max_size: 10
  # Max number of old files to keep / 保留的旧文件最大数量
  max_backups: 3
  # Max number of days to keep old files / 保留旧文件的最大天数
  max_age: 30
  # Whether to compress old files / 是否压缩旧文件
  compress: true

# Metrics Configuration / 监控指标配置
# Gauges are written as a textfile for the node_exporter textfile collector.
# 指标以文本文件形式写出，供 node_exporter textfile 收集器使用。
metrics:
  textfile_enabled: false
  textfile_path: ""
`

// GlobalConfig represents the top-level configuration structure.
// GlobalConfig 表示顶级配置结构。
type GlobalConfig struct {
	Base    BaseConfig           `yaml:"base"`
	Logging logger.LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig        `yaml:"metrics"`
}

// BaseConfig defines the base firewall management settings.
// BaseConfig 定义基础防火墙管理设置。
type BaseConfig struct {
	// Directory holding rule documents and the backup/ subdirectory.
	// RulesDir: 存放规则文档和 backup/ 子目录的目录。
	RulesDir string `yaml:"rules_dir"`
	// Write a pre-import snapshot of the live rules.
	// BackupEnabled: 是否在导入前写出现行规则快照。
	BackupEnabled bool `yaml:"backup_enabled"`
	// Fallback administrative access port when detection fails.
	// GuardPort: 检测失败时的管理访问端口回退值。
	GuardPort uint16 `yaml:"guard_port"`
	// Name or path of the firewall control utility.
	// UFWBinary: 防火墙控制工具的名称或路径。
	UFWBinary string `yaml:"ufw_binary"`
}

// MetricsConfig defines the configuration for metrics collection.
// MetricsConfig 定义指标收集配置。
type MetricsConfig struct {
	TextfileEnabled bool   `yaml:"textfile_enabled"`
	TextfilePath    string `yaml:"textfile_path"`
}

// Default returns the built-in configuration defaults.
// Default 返回内置的默认配置。
func Default() *GlobalConfig {
	return &GlobalConfig{
		Base: BaseConfig{
			RulesDir:      DefaultRulesDir,
			BackupEnabled: true,
			GuardPort:     DefaultGuardPort,
			UFWBinary:     DefaultUFWBinary,
		},
		Logging: logger.LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Path:       DefaultLogPath,
			ErrorPath:  DefaultErrorLogPath,
			MaxSize:    10, // 10MB
			MaxBackups: 3,
			MaxAge:     30, // 30 days
			Compress:   true,
		},
		Metrics: MetricsConfig{
			TextfileEnabled: false,
		},
	}
}

// LoadGlobalConfig loads the configuration from a YAML file. Values start
// from the built-in defaults so a sparse file stays valid.
// LoadGlobalConfig 从 YAML 文件加载配置。取值从内置默认值出发，因此稀疏文件依然有效。
func LoadGlobalConfig(path string) (*GlobalConfig, error) {
	safePath := filepath.Clean(path) // Sanitize path to prevent directory traversal
	data, err := os.ReadFile(safePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrConfigNotFound, safePath)
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Validate configuration / 验证配置
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveGlobalConfig writes the configuration back to disk atomically.
// SaveGlobalConfig 以原子方式将配置写回磁盘。
func SaveGlobalConfig(path string, cfg *GlobalConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(path, data, 0600)
}

// EnsureDefaultConfig writes the documented default configuration file if
// none exists yet. Existing files are never touched.
// EnsureDefaultConfig 在配置文件尚不存在时写出带文档注释的默认配置。已有文件绝不改动。
func EnsureDefaultConfig(path string) error {
	safePath := filepath.Clean(path)
	if _, err := os.Stat(safePath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(safePath), 0750); err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(safePath, []byte(DefaultConfigTemplate), 0600)
}

// Validate checks the configuration for values the rest of the system
// cannot work with.
// Validate 检查配置中其余系统无法处理的值。
func (cfg *GlobalConfig) Validate() error {
	if cfg.Base.RulesDir == "" {
		return errors.NewConfigError("base.rules_dir", cfg.Base.RulesDir)
	}
	if cfg.Base.GuardPort == 0 {
		return errors.NewConfigError("base.guard_port", cfg.Base.GuardPort)
	}
	if cfg.Base.UFWBinary == "" {
		return errors.NewConfigError("base.ufw_binary", cfg.Base.UFWBinary)
	}
	switch cfg.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.NewConfigError("logging.level", cfg.Logging.Level)
	}
	if cfg.Logging.MaxSize < 0 {
		return errors.NewConfigError("logging.max_size", cfg.Logging.MaxSize)
	}
	if cfg.Metrics.TextfileEnabled && cfg.Metrics.TextfilePath == "" {
		return errors.NewConfigError("metrics.textfile_path", cfg.Metrics.TextfilePath)
	}
	return nil
}

// BackupDir returns the directory receiving pre-import rule snapshots.
// BackupDir 返回接收导入前规则快照的目录。
func (cfg *GlobalConfig) BackupDir() string {
	return filepath.Join(cfg.Base.RulesDir, BackupDirName)
}

// EnsureDirectories creates the rules, backup and log directories.
// EnsureDirectories 创建规则、备份和日志目录。
func (cfg *GlobalConfig) EnsureDirectories() error {
	dirs := []string{cfg.Base.RulesDir, cfg.BackupDir()}
	if cfg.Logging.Path != "" {
		dirs = append(dirs, filepath.Dir(cfg.Logging.Path))
	}
	if cfg.Logging.ErrorPath != "" {
		dirs = append(dirs, filepath.Dir(cfg.Logging.ErrorPath))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError(dir, err)
		}
	}
	return nil
}
