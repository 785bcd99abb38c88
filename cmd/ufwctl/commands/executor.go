package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ufwctl/ufwctl/cmd/ufwctl/commands/common"
	"github.com/ufwctl/ufwctl/internal/config"
	"github.com/ufwctl/ufwctl/internal/driver"
	"github.com/ufwctl/ufwctl/internal/metrics"
	"github.com/ufwctl/ufwctl/internal/utils/logger"
	"github.com/ufwctl/ufwctl/pkg/storage"
)

// CommandExecutor 统一的命令执行器，处理所有命令的通用逻辑
// CommandExecutor handles the common logic shared by every command
type CommandExecutor struct {
	cmd *cobra.Command
}

// NewCommandExecutor 创建新的命令执行器
// NewCommandExecutor creates a new command executor
func NewCommandExecutor(cmd *cobra.Command) *CommandExecutor {
	return &CommandExecutor{
		cmd: cmd,
	}
}

// LoadConfig 加载当前生效的配置
// LoadConfig loads the active configuration
func (e *CommandExecutor) LoadConfig() *config.GlobalConfig {
	return config.LoadActive()
}

// Store 返回规则目录上的文档存储
// Store returns the document store over the configured rules directory
func (e *CommandExecutor) Store(cfg *config.GlobalConfig) storage.Store {
	return storage.NewYAMLStore(cfg.Base.RulesDir)
}

// ExecuteWithDriver 以 root 预检执行变更类命令
// ExecuteWithDriver runs a mutating command body after the root pre-check
func (e *CommandExecutor) ExecuteWithDriver(execFunc func(ctx context.Context, drv driver.Driver, cfg *config.GlobalConfig) error) {
	common.EnsureRoot()
	e.executeWithDriver(execFunc)
}

// ExecuteReadOnly 执行只读命令（驱动自身的权限错误作为兜底）
// ExecuteReadOnly runs a read-only command body (driver permission errors backstop)
func (e *CommandExecutor) ExecuteReadOnly(execFunc func(ctx context.Context, drv driver.Driver, cfg *config.GlobalConfig) error) {
	e.executeWithDriver(execFunc)
}

func (e *CommandExecutor) executeWithDriver(execFunc func(ctx context.Context, drv driver.Driver, cfg *config.GlobalConfig) error) {
	cfg := e.LoadConfig()
	drv := common.GetDriver(cfg)
	if err := execFunc(e.cmd.Context(), drv, cfg); err != nil {
		e.cmd.PrintErrln(err)
		os.Exit(1)
	}
	e.flushMetrics(cfg)
}

// Do 执行核心逻辑
// Do executes the core logic
func (e *CommandExecutor) Do(f func() error) {
	if err := f(); err != nil {
		e.cmd.PrintErrln(err)
		os.Exit(1)
	}
}

// flushMetrics 将指标快照写入 textfile（启用时）
// flushMetrics writes the metrics snapshot to the textfile when enabled
func (e *CommandExecutor) flushMetrics(cfg *config.GlobalConfig) {
	if err := metrics.Flush(cfg.Metrics); err != nil {
		logger.Get(e.cmd.Context()).Warnf("⚠️ Failed to write metrics textfile: %v", err)
	}
}

// PrintSuccess 打印成功消息
// PrintSuccess prints success message
func (e *CommandExecutor) PrintSuccess(msg string) {
	e.cmd.Println("[OK] " + msg)
}

// PrintError 打印错误消息
// PrintError prints error message
func (e *CommandExecutor) PrintError(msg string) {
	e.cmd.PrintErrln("[ERROR] " + msg)
}

// PrintWarning 打印警告消息
// PrintWarning prints warning message
func (e *CommandExecutor) PrintWarning(msg string) {
	e.cmd.PrintErrln("[WARN]  " + msg)
}
