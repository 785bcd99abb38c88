package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ufwctl/ufwctl/cmd/ufwctl/commands/common"
	"github.com/ufwctl/ufwctl/internal/config"
	"github.com/ufwctl/ufwctl/internal/core"
	"github.com/ufwctl/ufwctl/internal/driver"
	"github.com/ufwctl/ufwctl/internal/guard"
)

var initGuardPort uint16

// InitCmd 实现 'init' 命令（基线初始化）
// InitCmd implements the 'init' command (baseline initialization)
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the firewall with baseline policies",
	// Short: 以基线策略初始化防火墙
	Long: `Initialize the firewall: reset, deny incoming, allow outgoing,
guard the administrative access port, then enable enforcement.
初始化防火墙：重置、默认拒绝入站、默认允许出站、
保护管理访问端口，然后启用防火墙。

The administrative access port is detected from the SSH daemon
configuration and listening sockets; --port overrides detection.
管理访问端口从 SSH 守护进程配置和监听套接字中检测，--port 可覆盖检测。

[WARN]  This resets the firewall: all existing rules are removed first.
[WARN]  此操作会重置防火墙：所有既有规则会先被移除。`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("[WARNING] This will reset the firewall and remove all existing rules!")
		if !common.AskConfirmation("Are you sure you want to initialize the firewall?") {
			fmt.Println("[CANCELLED] Initialization cancelled")
			return
		}

		var detector core.PortDetector = guard.NewDetector()
		if cmd.Flags().Changed("port") {
			if err := common.ValidatePort(int(initGuardPort)); err != nil {
				cmd.PrintErrln(err)
				return
			}
			detector = core.StaticPort(initGuardPort)
		}

		executor := NewCommandExecutor(cmd)
		executor.ExecuteWithDriver(func(ctx context.Context, drv driver.Driver, cfg *config.GlobalConfig) error {
			// First run: materialize the default config and directories so
			// later commands find a documented setup.
			// 首次运行：落地默认配置和目录，便于后续命令使用。
			if err := config.EnsureDefaultConfig(config.GetConfigPath()); err != nil {
				return fmt.Errorf("[ERROR] Failed to write default configuration: %v", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("[ERROR] Failed to create data directories: %v", err)
			}

			report := core.RunBaselineInit(ctx, drv, detector, cfg.Base.GuardPort)
			cmd.Print(core.RenderReport(report))
			if report.Failed() {
				return fmt.Errorf("[ERROR] Baseline initialization failed: %v", report.FirstError())
			}
			return nil
		})
	},
}

func init() {
	InitCmd.Flags().Uint16Var(&initGuardPort, "port", 0, "Override administrative access port detection")
}
