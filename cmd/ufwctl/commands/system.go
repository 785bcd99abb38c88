package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ufwctl/ufwctl/cmd/ufwctl/commands/common"
	"github.com/ufwctl/ufwctl/internal/config"
	"github.com/ufwctl/ufwctl/internal/core"
	"github.com/ufwctl/ufwctl/internal/driver"
)

// EnableCmd 实现 'enable' 命令（启用防火墙）
// EnableCmd implements the 'enable' command (activate the firewall)
var EnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable the firewall",
	// Short: 启用防火墙
	Long: `Enable the firewall with the current rule set.
以当前规则集启用防火墙。`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		executor := NewCommandExecutor(cmd)
		executor.ExecuteWithDriver(func(ctx context.Context, drv driver.Driver, cfg *config.GlobalConfig) error {
			if err := core.EnableFirewall(ctx, drv); err != nil {
				return fmt.Errorf("[ERROR] Failed to enable firewall: %v", err)
			}
			executor.PrintSuccess("Firewall enabled")
			return nil
		})
	},
}

// DisableCmd 实现 'disable' 命令（停用防火墙，保留规则）
// DisableCmd implements the 'disable' command (deactivate, rules kept)
var DisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable the firewall",
	// Short: 停用防火墙
	Long: `Disable the firewall. Rules are kept and re-applied on enable.
停用防火墙。规则会被保留，并在启用时重新生效。`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		executor := NewCommandExecutor(cmd)
		executor.ExecuteWithDriver(func(ctx context.Context, drv driver.Driver, cfg *config.GlobalConfig) error {
			if err := core.DisableFirewall(ctx, drv); err != nil {
				return fmt.Errorf("[ERROR] Failed to disable firewall: %v", err)
			}
			executor.PrintSuccess("Firewall disabled")
			return nil
		})
	},
}

// ReloadCmd 实现 'reload' 命令（重新应用当前规则集）
// ReloadCmd implements the 'reload' command (re-apply the current rule set)
var ReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the firewall rules",
	// Short: 重载防火墙规则
	Long: `Re-apply the current rule set without disabling the firewall.
在不停用防火墙的情况下重新应用当前规则集。`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		executor := NewCommandExecutor(cmd)
		executor.ExecuteWithDriver(func(ctx context.Context, drv driver.Driver, cfg *config.GlobalConfig) error {
			if err := core.ReloadFirewall(ctx, drv); err != nil {
				return fmt.Errorf("[ERROR] Failed to reload firewall: %v", err)
			}
			executor.PrintSuccess("Firewall reloaded")
			return nil
		})
	},
}

// ResetCmd 实现 'reset' 命令（清空所有规则并停用）
// ResetCmd implements the 'reset' command (remove all rules and disable)
var ResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the firewall (remove all rules, disable)",
	// Short: 重置防火墙（移除所有规则并停用）
	Long: `Reset the firewall: every rule is removed and enforcement is
disabled. Run 'ufwctl init' afterwards to restore baseline policies.
重置防火墙：移除所有规则并停用防火墙。
之后可运行 'ufwctl init' 恢复基线策略。

[WARN]  A reset leaves the host without firewall protection.
[WARN]  重置后主机将失去防火墙防护。`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("[WARNING] This will remove all rules and disable the firewall!")
		if !common.AskConfirmation("Are you sure you want to reset the firewall?") {
			fmt.Println("[CANCELLED] Reset cancelled")
			return
		}

		executor := NewCommandExecutor(cmd)
		executor.ExecuteWithDriver(func(ctx context.Context, drv driver.Driver, cfg *config.GlobalConfig) error {
			if err := core.ResetFirewall(ctx, drv); err != nil {
				return fmt.Errorf("[ERROR] Failed to reset firewall: %v", err)
			}
			executor.PrintSuccess("Firewall reset. Run 'ufwctl init' to restore baseline policies.")
			return nil
		})
	},
}
