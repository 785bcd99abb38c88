package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ufwctl/ufwctl/cmd/ufwctl/commands/common"
	"github.com/ufwctl/ufwctl/internal/config"
	"github.com/ufwctl/ufwctl/internal/core"
	"github.com/ufwctl/ufwctl/internal/driver"
	"github.com/ufwctl/ufwctl/internal/filter"
	"github.com/ufwctl/ufwctl/internal/guard"
	"github.com/ufwctl/ufwctl/internal/rule"
	"github.com/ufwctl/ufwctl/internal/utils/iputil"
)

// Menu action identifiers.
// 菜单动作标识。
const (
	menuInit    = "init"
	menuAddRule = "add"
	menuDelete  = "delete"
	menuManage  = "manage"
	menuStatus  = "status"
	menuQuit    = "quit"

	manageExport   = "export"
	manageImport   = "import"
	manageOrganize = "organize"
	manageList     = "list"
	manageBack     = "back"
)

// Menu color palette and styles.
// 菜单配色与样式。
var (
	menuColorAccent = lipgloss.Color("#7AA2F7")
	menuColorGood   = lipgloss.Color("#9ECE6A")
	menuColorAlert  = lipgloss.Color("#F7768E")
	menuColorMuted  = lipgloss.Color("#565F89")

	menuStyleTitle = lipgloss.NewStyle().
			Foreground(menuColorAccent).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(menuColorMuted)

	menuStyleGood  = lipgloss.NewStyle().Foreground(menuColorGood)
	menuStyleAlert = lipgloss.NewStyle().Foreground(menuColorAlert).Bold(true)
	menuStyleMuted = lipgloss.NewStyle().Foreground(menuColorMuted)
)

// MenuCmd 实现 'menu' 命令（交互式管理菜单，也是默认动作）
// MenuCmd implements the 'menu' command (interactive menu, also the default action)
var MenuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive firewall management menu",
	// Short: 交互式防火墙管理菜单
	Long: `Open the interactive management menu. The menu walks through the
same operations as the subcommands: initialization, rule changes,
document management and status.
打开交互式管理菜单。菜单提供与子命令相同的操作：
初始化、规则变更、文档管理和状态查看。`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		common.EnsureRoot()

		executor := NewCommandExecutor(cmd)
		manager := config.NewConfigManager(config.GetConfigPath())

		if err := runMenuLoop(cmd.Context(), executor, manager); err != nil {
			cmd.PrintErrln("[ERROR] " + err.Error())
			os.Exit(1)
		}
	},
}

// runMenuLoop 运行主菜单循环，直到用户退出
// runMenuLoop runs the main menu loop until the user quits
func runMenuLoop(ctx context.Context, executor *CommandExecutor, manager *config.ConfigManager) error {
	fmt.Println(menuStyleTitle.Render(" ufwctl firewall management "))

	for {
		// Re-read the configuration on every pass so that edits to
		// config.yaml take effect between menu actions.
		// 每轮循环重新读取配置，config.yaml 的修改在下一个菜单动作生效。
		if err := manager.LoadConfig(); err != nil {
			manager.UpdateConfig(config.Default())
		}
		cfg := manager.GetConfig()
		drv := common.GetDriver(cfg)

		var choice string
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("What would you like to do?").
				Options(
					huh.NewOption("Initialize firewall (baseline policies)", menuInit),
					huh.NewOption("Add a rule", menuAddRule),
					huh.NewOption("Delete a rule", menuDelete),
					huh.NewOption("Manage rule documents", menuManage),
					huh.NewOption("Show status", menuStatus),
					huh.NewOption("Quit", menuQuit),
				).
				Value(&choice),
		))
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		var err error
		switch choice {
		case menuInit:
			err = menuRunInit(ctx, executor, drv, cfg)
		case menuAddRule:
			err = menuRunAddRule(ctx, executor, drv, cfg)
		case menuDelete:
			err = menuRunDelete(ctx, executor, drv, cfg)
		case menuManage:
			err = menuRunManage(ctx, executor, drv, cfg)
		case menuStatus:
			err = menuRunStatus(ctx, drv)
		case menuQuit:
			fmt.Println(menuStyleMuted.Render("Bye."))
			return nil
		}

		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				// An aborted sub-form returns to the menu, not to the shell.
				// 子表单被中止时返回菜单，而不是退出到 shell。
				continue
			}
			fmt.Println(menuStyleAlert.Render("✘ " + err.Error()))
		}
	}
}

// menuConfirm 以 huh 确认框请求用户确认
// menuConfirm asks for confirmation with a huh confirm field
func menuConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	)).Run()
	return ok, err
}

// menuRunInit 菜单动作：基线初始化
// menuRunInit menu action: baseline initialization
func menuRunInit(ctx context.Context, executor *CommandExecutor, drv driver.Driver, cfg *config.GlobalConfig) error {
	ok, err := menuConfirm("Reset the firewall and apply baseline policies?")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println(menuStyleMuted.Render("Initialization cancelled."))
		return nil
	}

	report := core.RunBaselineInit(ctx, drv, guard.NewDetector(), cfg.Base.GuardPort)
	fmt.Print(core.RenderReport(report))
	executor.flushMetrics(cfg)
	if report.Failed() {
		return report.FirstError()
	}
	fmt.Println(menuStyleGood.Render("✔ Firewall initialized."))
	return nil
}

// menuRunAddRule 菜单动作：通过表单添加一条规则
// menuRunAddRule menu action: add one rule through a form
func menuRunAddRule(ctx context.Context, executor *CommandExecutor, drv driver.Driver, cfg *config.GlobalConfig) error {
	var (
		action    string
		portSpec  string
		direction string
		from      string
		to        string
		comment   string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Action").
				Options(
					huh.NewOption("allow (permit traffic)", string(rule.ActionAllow)),
					huh.NewOption("deny (drop silently)", string(rule.ActionDeny)),
					huh.NewOption("reject (refuse with response)", string(rule.ActionReject)),
					huh.NewOption("limit (rate-limit connections)", string(rule.ActionLimit)),
				).
				Value(&action),
			huh.NewInput().
				Title("Port").
				Placeholder("80/tcp, 53, 6000:6007, ssh").
				Validate(func(s string) error {
					_, _, err := common.ParsePortSpec(s)
					return err
				}).
				Value(&portSpec),
			huh.NewSelect[string]().
				Title("Direction").
				Options(
					huh.NewOption("in (incoming traffic)", string(rule.DirectionIn)),
					huh.NewOption("out (outgoing traffic)", string(rule.DirectionOut)),
				).
				Value(&direction),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("From (optional)").
				Placeholder("10.0.0.0/8, empty for any").
				Validate(validateOptionalAddr).
				Value(&from),
			huh.NewInput().
				Title("To (optional)").
				Placeholder("192.168.1.10, empty for any").
				Validate(validateOptionalAddr).
				Value(&to),
			huh.NewInput().
				Title("Comment (optional)").
				Value(&comment),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	port, proto, err := common.ParsePortSpec(portSpec)
	if err != nil {
		return err
	}
	r, err := rule.New(action, direction, proto, port, from, to, comment)
	if err != nil {
		return err
	}

	ok, err := menuConfirm("Apply rule '" + r.String() + "'?")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println(menuStyleMuted.Render("Rule discarded."))
		return nil
	}

	if err := core.AddRule(ctx, drv, r); err != nil {
		return err
	}
	executor.flushMetrics(cfg)
	fmt.Println(menuStyleGood.Render("✔ Rule applied: " + r.String()))
	return nil
}

// menuRunDelete 菜单动作：先显示编号列表，再按编号删除
// menuRunDelete menu action: show the numbered listing, then delete by number
func menuRunDelete(ctx context.Context, executor *CommandExecutor, drv driver.Driver, cfg *config.GlobalConfig) error {
	status, err := core.FetchStatus(ctx, drv)
	if err != nil {
		return err
	}
	if len(status.Rules) == 0 {
		fmt.Println(menuStyleMuted.Render("No rules to delete."))
		return nil
	}

	fmt.Print(core.RenderStatus(status, false))

	var numberText string
	err = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Rule number to delete").
			Validate(func(s string) error {
				n, ok := common.ParseRuleNumber(s)
				if !ok {
					return fmt.Errorf("enter a rule number from the listing")
				}
				for _, row := range status.Rules {
					if row.Number == n {
						return nil
					}
				}
				return fmt.Errorf("no rule at position %d", n)
			}).
			Value(&numberText),
	)).Run()
	if err != nil {
		return err
	}

	n, _ := strconv.Atoi(numberText)
	ok, err := menuConfirm(fmt.Sprintf("Delete rule %d?", n))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println(menuStyleMuted.Render("Deletion cancelled."))
		return nil
	}

	if err := core.DeleteRule(ctx, drv, driver.SelectNumber(n)); err != nil {
		return err
	}
	executor.flushMetrics(cfg)
	fmt.Println(menuStyleGood.Render(fmt.Sprintf("✔ Rule %d deleted.", n)))
	return nil
}

// menuRunManage 菜单动作：规则文档管理子菜单
// menuRunManage menu action: rule document management submenu
func menuRunManage(ctx context.Context, executor *CommandExecutor, drv driver.Driver, cfg *config.GlobalConfig) error {
	var choice string
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Rule documents").
			Options(
				huh.NewOption("Export live rules to a document", manageExport),
				huh.NewOption("Import rules from a document", manageImport),
				huh.NewOption("Organize a document in place", manageOrganize),
				huh.NewOption("List live rules", manageList),
				huh.NewOption("Back", manageBack),
			).
			Value(&choice),
	)).Run()
	if err != nil {
		return err
	}

	store := executor.Store(cfg)

	switch choice {
	case manageExport:
		var output, filterSrc string
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Output document").
				Placeholder(config.DefaultExportFile).
				Value(&output),
			huh.NewInput().
				Title("Filter expression (optional)").
				Placeholder(`action == "allow"`).
				Validate(validateOptionalFilter).
				Value(&filterSrc),
		)).Run()
		if err != nil {
			return err
		}

		var flt *filter.Filter
		if filterSrc != "" {
			if flt, err = filter.Compile(filterSrc); err != nil {
				return err
			}
		}
		path := config.ResolveDocumentPath(cfg, output)
		rules, err := core.ExportRules(ctx, drv, store, path, flt)
		if err != nil {
			return err
		}
		executor.flushMetrics(cfg)
		fmt.Println(menuStyleGood.Render(fmt.Sprintf("✔ Exported %d rules to %s", len(rules), path)))

	case manageImport:
		var document string
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Document to import").
				Placeholder(config.DefaultExportFile).
				Value(&document),
		)).Run()
		if err != nil {
			return err
		}

		ok, err := menuConfirm("Apply every rule in the document to the live firewall?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(menuStyleMuted.Render("Import cancelled."))
			return nil
		}

		path := config.ResolveDocumentPath(cfg, document)
		report, err := core.ImportRules(ctx, drv, store, path, core.ImportOptions{
			Backup: cfg.Base.BackupEnabled,
		})
		if err != nil {
			return err
		}
		fmt.Print(core.RenderImportReport(report))
		executor.flushMetrics(cfg)
		if report.Aborted != nil {
			return report.Aborted
		}

	case manageOrganize:
		var document string
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Document to organize").
				Placeholder(config.DefaultExportFile).
				Value(&document),
		)).Run()
		if err != nil {
			return err
		}

		path := config.ResolveDocumentPath(cfg, document)
		if err := core.OrganizeDocument(ctx, store, path); err != nil {
			return err
		}
		fmt.Println(menuStyleGood.Render("✔ Organized " + path))

	case manageList:
		rules, err := core.LiveRules(ctx, drv)
		if err != nil {
			return err
		}
		fmt.Print(core.RenderRules(rules))

	case manageBack:
	}
	return nil
}

// menuRunStatus 菜单动作：显示详细状态
// menuRunStatus menu action: show verbose status
func menuRunStatus(ctx context.Context, drv driver.Driver) error {
	status, err := core.FetchStatus(ctx, drv)
	if err != nil {
		return err
	}
	fmt.Print(core.RenderStatus(status, true))
	return nil
}

// validateOptionalAddr 校验可选的地址输入（空、any 或 CIDR/IP）
// validateOptionalAddr validates an optional address input (empty, any, or CIDR/IP)
func validateOptionalAddr(s string) error {
	if s == "" || s == "any" {
		return nil
	}
	if !iputil.IsValidCIDR(s) {
		return fmt.Errorf("enter an IP or CIDR block, or leave empty for any")
	}
	return nil
}

// validateOptionalFilter 校验可选的过滤表达式输入
// validateOptionalFilter validates an optional filter expression input
func validateOptionalFilter(s string) error {
	if s == "" {
		return nil
	}
	_, err := filter.Compile(s)
	return err
}
