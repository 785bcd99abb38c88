package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ufwctl/ufwctl/cmd/ufwctl/commands/common"
	"github.com/ufwctl/ufwctl/internal/config"
	"github.com/ufwctl/ufwctl/internal/version"
)

// VersionCmd 实现 'version' 命令
// VersionCmd implements the 'version' command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	// Short: 显示版本信息
	Long: `Show version information for ufwctl and the firewall front-end.
显示 ufwctl 及防火墙前端的版本信息。`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("ufwctl version %s\n", version.Version)

		// Front-end version is informational: its absence is not an error.
		// 前端版本仅供参考：不存在时不视为错误。
		cfg := config.LoadActive()
		drv := common.GetDriver(cfg)
		if v, err := drv.Version(context.Background()); err == nil && v != "" {
			cmd.Printf("ufw version %s\n", v)
		}
	},
}
