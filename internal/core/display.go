package core

import (
	"fmt"
	"strings"

	"github.com/ufwctl/ufwctl/internal/driver"
	"github.com/ufwctl/ufwctl/internal/rule"
	"github.com/ufwctl/ufwctl/internal/utils/fmtutil"
)

// Status string constants.
// 状态字符串常量。
const (
	statusActive   = "active"
	statusInactive = "inactive"

	anywhere = "anywhere"
)

// RenderStatus renders the firewall state and the numbered rule listing the
// way the interactive layer prints them.
// RenderStatus 按交互层的打印方式渲染防火墙状态和带编号的规则列表。
func RenderStatus(status *driver.Status, verbose bool) string {
	var b strings.Builder

	state := statusInactive
	if status.Active {
		state = statusActive
	}
	fmt.Fprintf(&b, "[STATE]  Firewall: %s\n", state)
	if verbose {
		if status.Default != "" {
			fmt.Fprintf(&b, "[SHIELD] Default: %s\n", status.Default)
		}
		if status.Logging != "" {
			fmt.Fprintf(&b, "[LOG]    Logging: %s\n", status.Logging)
		}
		if status.Profiles != "" {
			fmt.Fprintf(&b, "[APP]    New profiles: %s\n", status.Profiles)
		}
	}

	if len(status.Rules) == 0 {
		b.WriteString("\nNo rules defined.\n")
		return b.String()
	}

	b.WriteByte('\n')
	fmt.Fprintf(&b, "%-6s %-28s %-12s %-24s %s\n", "Num", "To", "Action", "From", "Comment")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 84))
	for _, r := range status.Rules {
		fmt.Fprintf(&b, "[%4d] %-28s %-12s %-24s %s\n", r.Number, r.To, r.Action, r.From, r.Comment)
	}
	return b.String()
}

// RenderRules renders model rules as a table, one row per rule.
// RenderRules 将模型规则渲染为表格，每条规则一行。
func RenderRules(rules rule.RuleSet) string {
	if len(rules) == 0 {
		return "No rules.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %-10s %-6s %-12s %-20s %-20s %s\n",
		"Action", "Direction", "Proto", "Port", "From", "To", "Comment")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 90))
	for _, r := range rules {
		fmt.Fprintf(&b, "%-8s %-10s %-6s %-12s %-20s %-20s %s\n",
			r.Action,
			r.Direction,
			orAny(string(r.Protocol)),
			orAny(r.Port),
			orAnywhere(r.From),
			orAnywhere(r.To),
			r.Comment,
		)
	}
	return b.String()
}

// RenderReport renders a baseline initialization report, one line per step.
// RenderReport 渲染基线初始化报告，每个步骤一行。
func RenderReport(report *Report) string {
	var b strings.Builder

	source := "fallback"
	if report.PortDetected {
		source = "detected"
	}
	fmt.Fprintf(&b, "[GUARD] Administrative access port: %d (%s)\n\n", report.GuardPort, source)

	for _, s := range report.Steps {
		switch {
		case s.Skipped:
			fmt.Fprintf(&b, "[SKIP] %s\n", s.Name)
		case s.Err != nil:
			fmt.Fprintf(&b, "[FAIL] %-24s %v\n", s.Name, s.Err)
		default:
			fmt.Fprintf(&b, "[ OK ] %s\n", s.Name)
		}
	}

	if report.Failed() {
		fmt.Fprintf(&b, "\nBaseline initialization failed: %v\n", report.FirstError())
	} else {
		fmt.Fprintf(&b, "\nBaseline initialization complete in %s.\n", fmtutil.FormatDuration(report.Elapsed))
	}
	return b.String()
}

// RenderImportReport renders a batch import report, one line per rule.
// RenderImportReport 渲染批量导入报告，每条规则一行。
func RenderImportReport(report *ImportReport) string {
	var b strings.Builder

	if report.DryRun {
		fmt.Fprintf(&b, "[DRY]  Parsed %d rules from %s, nothing applied.\n", len(report.Outcomes), report.Source)
		for _, o := range report.Outcomes {
			fmt.Fprintf(&b, "  - %s\n", o.Rule)
		}
		return b.String()
	}

	if report.BackupPath != "" {
		fmt.Fprintf(&b, "[SAVE] Live rules backed up to %s\n", report.BackupPath)
	}
	for _, o := range report.Outcomes {
		switch {
		case o.Skipped:
			fmt.Fprintf(&b, "[SKIP] %s\n", o.Rule)
		case o.Err != nil:
			fmt.Fprintf(&b, "[FAIL] %s: %v\n", o.Rule, o.Err)
		default:
			fmt.Fprintf(&b, "[ OK ] %s\n", o.Rule)
		}
	}

	fmt.Fprintf(&b, "\n%d applied, %d failed", report.Succeeded(), report.Failed())
	if report.Aborted != nil {
		fmt.Fprintf(&b, " (batch aborted: %v)", report.Aborted)
	}
	b.WriteByte('\n')
	return b.String()
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}

func orAnywhere(s string) string {
	if s == "" {
		return anywhere
	}
	return s
}
