package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ufwctl/ufwctl/internal/config"
	"github.com/ufwctl/ufwctl/internal/core"
	"github.com/ufwctl/ufwctl/internal/driver"
)

// StatusCmd 实现 'status' 命令
// StatusCmd implements the 'status' command
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show firewall state and rules",
	// Short: 显示防火墙状态和规则
	Long: `Show the firewall state and the numbered rule listing.
Use -v for the default policy, logging and profile lines as well.
显示防火墙状态和编号规则列表。
使用 -v 同时显示默认策略、日志和配置文件策略行。`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")

		executor := NewCommandExecutor(cmd)
		executor.ExecuteReadOnly(func(ctx context.Context, drv driver.Driver, cfg *config.GlobalConfig) error {
			status, err := core.FetchStatus(ctx, drv)
			if err != nil {
				return fmt.Errorf("[ERROR] Failed to read firewall status: %v", err)
			}
			cmd.Print(core.RenderStatus(status, verbose))
			return nil
		})
	},
}

func init() {
	StatusCmd.Flags().BoolP("verbose", "v", false, "Show default policy, logging and profile details")
}
