package runtime

// ConfigPath stores the path to the configuration file provided via CLI flags.
// ConfigPath 存储通过 CLI 标志提供的配置文件路径。
var ConfigPath string

// AssumeYes skips interactive confirmation prompts when set via the --yes flag.
// AssumeYes 在通过 --yes 标志设置后跳过交互式确认提示。
var AssumeYes bool
