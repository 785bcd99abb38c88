package config

const (
	// DefaultConfigPath is the standard location for the ufwctl configuration file.
	// DefaultConfigPath 是 ufwctl 配置文件的标准位置。
	DefaultConfigPath = "/etc/ufwctl/config.yaml"

	// DefaultRulesDir is the directory holding exported rule documents.
	// DefaultRulesDir 是存放导出规则文档的目录。
	DefaultRulesDir = "/etc/ufwctl/rules"

	// BackupDirName is the subdirectory of the rules directory that receives
	// pre-import snapshots of the live rule set.
	// BackupDirName 是规则目录下接收导入前现行规则集快照的子目录。
	BackupDirName = "backup"

	// DefaultLogPath is the operation log location.
	// DefaultLogPath 是操作日志的位置。
	DefaultLogPath = "/var/log/ufwctl/ufwctl.log"

	// DefaultErrorLogPath is the error log location (warn level and above).
	// DefaultErrorLogPath 是错误日志的位置（warn 及以上级别）。
	DefaultErrorLogPath = "/var/log/ufwctl/error.log"

	// DefaultGuardPort is the fallback administrative access port used when
	// session detection fails.
	// DefaultGuardPort 是会话检测失败时使用的管理访问端口回退值。
	DefaultGuardPort = 22

	// DefaultUFWBinary is the firewall control utility invoked by the driver.
	// DefaultUFWBinary 是驱动调用的防火墙控制工具。
	DefaultUFWBinary = "ufw"

	// DefaultExportFile is the rule document name used when no explicit
	// output path is given.
	// DefaultExportFile 是未指定输出路径时使用的规则文档名称。
	DefaultExportFile = "rules.yaml"
)
