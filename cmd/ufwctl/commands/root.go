package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ufwctl/ufwctl/internal/config"
	"github.com/ufwctl/ufwctl/internal/runtime"
	"github.com/ufwctl/ufwctl/internal/utils/logger"
)

var RootCmd = &cobra.Command{
	Use:   "ufwctl",
	Short: "A safety-first manager for the host firewall",
	// Short: 一个安全优先的主机防火墙管理器
	Long: `ufwctl manages the host firewall through the ufw front-end.
It guards the administrative access port before enabling enforcement,
and keeps rules as portable YAML documents for export, import and review.
ufwctl 通过 ufw 前端管理主机防火墙。
它在启用防火墙之前保护管理访问端口，
并将规则保存为可移植的 YAML 文档，便于导出、导入和审查。`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load configuration to get logging settings
		// 加载配置以获取日志设置
		globalCfg, err := config.LoadGlobalConfig(config.GetConfigPath())
		if err != nil {
			// If config fails to load, use default logging config (console only)
			// 如果加载配置失败，使用默认日志配置（仅控制台）
			logger.Init(logger.LoggingConfig{
				Enabled: true,
				Level:   "info",
			})
		} else {
			logger.Init(globalCfg.Logging)
		}

		// Inject logger into context
		// 将 Logger 注入 Context
		ctx := logger.WithContext(cmd.Context(), logger.Get(nil))
		cmd.SetContext(ctx)
	},
	// Running ufwctl with no subcommand opens the interactive menu.
	// 不带子命令运行 ufwctl 时打开交互式菜单。
	Run: MenuCmd.Run,
}

func init() {
	// Config file path
	// 配置文件路径
	RootCmd.PersistentFlags().StringVarP(&runtime.ConfigPath, "config", "c", "", fmt.Sprintf("Path to configuration file (default: %s)", config.DefaultConfigPath))

	// Assume-yes for scripted use
	// 脚本化使用时自动确认
	RootCmd.PersistentFlags().BoolVarP(&runtime.AssumeYes, "yes", "y", false, "Assume yes on confirmation prompts")

	// Register interactive menu (also the default action)
	// 注册交互式菜单（也是默认动作）
	RootCmd.AddCommand(MenuCmd)

	// Register baseline initialization
	// 注册基线初始化命令
	RootCmd.AddCommand(InitCmd)

	// Register single-rule commands (allow/deny/reject/limit/delete)
	// 注册单规则命令（允许/拒绝/驳回/限速/删除）
	RootCmd.AddCommand(AllowCmd)
	RootCmd.AddCommand(DenyCmd)
	RootCmd.AddCommand(RejectCmd)
	RootCmd.AddCommand(LimitCmd)
	RootCmd.AddCommand(DeleteCmd)

	// Register rule document management commands
	// 注册规则文档管理命令
	RootCmd.AddCommand(RulesCmd)

	// Register status and firewall state commands
	// 注册状态与防火墙开关命令
	RootCmd.AddCommand(StatusCmd)
	RootCmd.AddCommand(EnableCmd)
	RootCmd.AddCommand(DisableCmd)
	RootCmd.AddCommand(ReloadCmd)
	RootCmd.AddCommand(ResetCmd)

	// Register log viewing and version commands
	// 注册日志查看与版本命令
	RootCmd.AddCommand(LogsCmd)
	RootCmd.AddCommand(VersionCmd)

	// Disable powershell completion (Linux-focused project doesn't need it)
	// 禁用 powershell 补全（Linux 项目不需要）
	RootCmd.CompletionOptions.DisableDescriptions = true
}

// createCustomCompletionCmd creates a custom completion command without powershell.
// createCustomCompletionCmd 创建不含 powershell 的自定义补全命令。
func createCustomCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generate shell autocompletion script",
		Long: `Generate shell autocompletion script for ufwctl.
生成 ufwctl 的 shell 自动补全脚本。

Supported shells:
  bash - Generate for bash
  zsh  - Generate for zsh
  fish - Generate for fish

Examples:
  ufwctl completion bash > /etc/bash_completion.d/ufwctl
  ufwctl completion zsh  > "${fpath[1]}/_ufwctl"
  ufwctl completion fish > ~/.config/fish/completions/ufwctl.fish`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			shell := args[0]
			switch shell {
			case "bash":
				if err := RootCmd.GenBashCompletionV2(os.Stdout, true); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					os.Exit(1)
				}
			case "zsh":
				if err := RootCmd.GenZshCompletion(os.Stdout); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					os.Exit(1)
				}
			case "fish":
				if err := RootCmd.GenFishCompletion(os.Stdout, true); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					os.Exit(1)
				}
			default:
				fmt.Fprintf(os.Stderr, "Error: Unsupported shell: %s\nSupported: bash, zsh, fish\n", shell)
				os.Exit(1)
			}
		},
	}
}

func Execute() {
	// Replace default completion command with custom one (no powershell)
	// 用自定义补全命令替换默认命令（不含 powershell）
	for _, cmd := range RootCmd.Commands() {
		if cmd.Use == "completion" {
			RootCmd.RemoveCommand(cmd)
			break
		}
	}
	RootCmd.AddCommand(createCustomCompletionCmd())

	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
