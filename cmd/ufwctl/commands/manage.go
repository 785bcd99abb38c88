package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ufwctl/ufwctl/cmd/ufwctl/commands/common"
	"github.com/ufwctl/ufwctl/internal/config"
	"github.com/ufwctl/ufwctl/internal/core"
	"github.com/ufwctl/ufwctl/internal/driver"
	"github.com/ufwctl/ufwctl/internal/filter"
)

// RulesCmd 实现 'rules' 命令组（规则文档管理）
// RulesCmd implements the 'rules' command group (rule document management)
var RulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Rule document management commands",
	// Short: 规则文档管理命令
	Long: `Manage rules as portable YAML documents: export the live set,
import a document, normalize one in place, or list live rules.
将规则作为可移植的 YAML 文档管理：导出现行规则集、
导入文档、就地整理文档或列出现行规则。`,
}

// rulesExportCmd rules export 子命令
// rulesExportCmd rules export subcommand
var rulesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export live rules to a YAML document",
	// Short: 将现行规则导出为 YAML 文档
	Long: `Export the live rule set to a YAML document in canonical order.
Relative output names are placed under the configured rules directory.
将现行规则集以规范顺序导出为 YAML 文档。
相对输出名称放在配置的规则目录下。

Examples:
  ufwctl rules export
  ufwctl rules export --output web-tier.yaml
  ufwctl rules export --filter 'action == "allow" && protocol == "tcp"'`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		flt := compileFilterFlag(cmd)

		executor := NewCommandExecutor(cmd)
		executor.ExecuteReadOnly(func(ctx context.Context, drv driver.Driver, cfg *config.GlobalConfig) error {
			store := executor.Store(cfg)
			path := config.ResolveDocumentPath(cfg, output)
			rules, err := core.ExportRules(ctx, drv, store, path, flt)
			if err != nil {
				return fmt.Errorf("[ERROR] Failed to export rules: %v", err)
			}
			executor.PrintSuccess(fmt.Sprintf("Exported %d rules to %s", len(rules), path))
			return nil
		})
	},
}

// rulesImportCmd rules import 子命令
// rulesImportCmd rules import subcommand
var rulesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import rules from a YAML document",
	// Short: 从 YAML 文档导入规则
	Long: `Import rules from a YAML document into the live firewall.
A snapshot of the live rule set is written to the backup directory first.
Per-rule failures are reported and do not stop the batch.
从 YAML 文档将规则导入现行防火墙。
导入前会先将现行规则集快照写入备份目录。
单条规则的失败会被报告，但不会中止整批导入。

Use --dry-run to parse and list the document without touching the firewall.
使用 --dry-run 仅解析并列出文档内容，而不触碰防火墙。`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		if !dryRun {
			fmt.Println("[WARNING] This will apply every rule in the document to the live firewall!")
			if !common.AskConfirmation("Are you sure you want to import?") {
				fmt.Println("[CANCELLED] Import cancelled")
				return
			}
		}

		executor := NewCommandExecutor(cmd)
		run := executor.ExecuteWithDriver
		if dryRun {
			run = executor.ExecuteReadOnly
		}
		run(func(ctx context.Context, drv driver.Driver, cfg *config.GlobalConfig) error {
			store := executor.Store(cfg)
			path := config.ResolveDocumentPath(cfg, args[0])
			report, err := core.ImportRules(ctx, drv, store, path, core.ImportOptions{
				DryRun: dryRun,
				Backup: cfg.Base.BackupEnabled,
			})
			if err != nil {
				return fmt.Errorf("[ERROR] Failed to import rules: %v", err)
			}
			cmd.Print(core.RenderImportReport(report))
			if report.Aborted != nil {
				return fmt.Errorf("[ERROR] Import aborted: %v", report.Aborted)
			}
			return nil
		})
	},
}

// rulesOrganizeCmd rules organize 子命令
// rulesOrganizeCmd rules organize subcommand
var rulesOrganizeCmd = &cobra.Command{
	Use:   "organize <file>",
	Short: "Normalize a rule document in place",
	// Short: 就地整理规则文档
	Long: `Rewrite a rule document in canonical order with duplicates removed.
Organizing an already organized document changes nothing.
以规范顺序重写规则文档并去除重复项。
对已整理的文档再次整理不会产生任何变化。`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		executor := NewCommandExecutor(cmd)
		executor.Do(func() error {
			cfg := executor.LoadConfig()
			store := executor.Store(cfg)
			path := config.ResolveDocumentPath(cfg, args[0])
			if err := core.OrganizeDocument(cmd.Context(), store, path); err != nil {
				return fmt.Errorf("[ERROR] Failed to organize document: %v", err)
			}
			executor.PrintSuccess("Organized " + path)
			return nil
		})
	},
}

// rulesListCmd rules list 子命令
// rulesListCmd rules list subcommand
var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List live rules",
	// Short: 列出现行规则
	Long: `List the live rules expressible in the portable rule model.
Rows the model cannot express appear in 'status' instead.
列出可用可移植规则模型表达的现行规则。
模型无法表达的行会出现在 'status' 输出中。

Examples:
  ufwctl rules list
  ufwctl rules list --filter 'port == "22"'`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		flt := compileFilterFlag(cmd)

		executor := NewCommandExecutor(cmd)
		executor.ExecuteReadOnly(func(ctx context.Context, drv driver.Driver, cfg *config.GlobalConfig) error {
			rules, err := core.LiveRules(ctx, drv)
			if err != nil {
				return fmt.Errorf("[ERROR] Failed to list rules: %v", err)
			}
			if flt != nil {
				if rules, err = flt.Apply(rules); err != nil {
					return fmt.Errorf("[ERROR] Failed to evaluate filter: %v", err)
				}
			}
			cmd.Print(core.RenderRules(rules))
			return nil
		})
	},
}

func init() {
	rulesExportCmd.Flags().StringP("output", "o", "", fmt.Sprintf("Output document name or path (default: %s)", config.DefaultExportFile))
	rulesExportCmd.Flags().String("filter", "", "Export only rules matching the expression")
	rulesImportCmd.Flags().Bool("dry-run", false, "Parse and list the document without applying")
	rulesListCmd.Flags().String("filter", "", "List only rules matching the expression")

	RulesCmd.AddCommand(rulesExportCmd)
	RulesCmd.AddCommand(rulesImportCmd)
	RulesCmd.AddCommand(rulesOrganizeCmd)
	RulesCmd.AddCommand(rulesListCmd)
}

// compileFilterFlag 编译 --filter 表达式，非法表达式立即报错退出
// compileFilterFlag compiles the --filter expression, exiting on an invalid one
func compileFilterFlag(cmd *cobra.Command) *filter.Filter {
	src, _ := cmd.Flags().GetString("filter")
	if src == "" {
		return nil
	}
	flt, err := filter.Compile(src)
	if err != nil {
		cmd.PrintErrln("[ERROR] " + err.Error())
		os.Exit(1)
	}
	return flt
}
