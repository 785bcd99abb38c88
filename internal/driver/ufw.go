package driver

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ufwctl/ufwctl/internal/rule"
	"github.com/ufwctl/ufwctl/pkg/errors"
)

// DefaultBinary is the front-end executable used when none is
// configured.
const DefaultBinary = "ufw"

// UFWDriver drives the external ufw utility. Destructive subcommands
// run with --force: confirmation happens in this tool, never inside
// the front-end.
// UFWDriver 驱动外部 ufw 工具。破坏性子命令附带 --force 运行：
// 确认在本工具中完成，绝不在前端内部进行。
type UFWDriver struct {
	binary string
	runner CommandRunner
}

// NewUFWDriver creates a driver for the given binary path. An empty
// path selects DefaultBinary.
// NewUFWDriver 为给定的二进制路径创建驱动。路径为空时使用 DefaultBinary。
func NewUFWDriver(binary string) *UFWDriver {
	if binary == "" {
		binary = DefaultBinary
	}
	return &UFWDriver{binary: binary, runner: DefaultCommandRunner}
}

// SetRunner sets the command runner for testing.
// SetRunner 设置用于测试的命令执行器。
func (d *UFWDriver) SetRunner(r CommandRunner) {
	d.runner = r
}

func (d *UFWDriver) Reset(ctx context.Context) error {
	return d.run(ctx, "--force", "reset")
}

func (d *UFWDriver) Enable(ctx context.Context) error {
	return d.run(ctx, "--force", "enable")
}

func (d *UFWDriver) Disable(ctx context.Context) error {
	return d.run(ctx, "disable")
}

func (d *UFWDriver) Reload(ctx context.Context) error {
	return d.run(ctx, "reload")
}

func (d *UFWDriver) SetDefaultPolicy(ctx context.Context, direction rule.Direction, policy rule.Action) error {
	target, err := PolicyTarget(direction)
	if err != nil {
		return err
	}
	return d.run(ctx, "default", string(policy), target)
}

// Apply installs r. A non-zero exit that is not a permission or
// availability failure becomes an ApplyError carrying the tool's
// diagnostic output.
// Apply 安装规则 r。非权限、非可用性的非零退出会成为携带工具诊断输出的 ApplyError。
func (d *UFWDriver) Apply(ctx context.Context, r rule.Rule) error {
	out, err := d.runner.Run(ctx, d.binary, RuleArgs(r)...)
	if err != nil {
		if fatal := d.classify(ctx, err, out); fatal != nil {
			return fatal
		}
		return errors.NewApplyError(r.String(), diagnostic(out, err))
	}
	return nil
}

// Remove deletes the rule identified by sel. A position beyond the
// listing or a specification matching nothing yields ErrRuleNotFound.
// The front-end reports a non-matching specification on stdout with a
// zero exit, so the success path is checked for the marker too.
// Remove 删除 sel 标识的规则。超出列表的位置或无匹配的描述产生 ErrRuleNotFound。
// 前端对无匹配的描述在 stdout 报告且以零退出，因此成功路径也要检查该标记。
func (d *UFWDriver) Remove(ctx context.Context, sel Selector) error {
	var args []string
	switch {
	case sel.Number > 0:
		args = []string{"--force", "delete", strconv.Itoa(sel.Number)}
	case sel.Rule != nil:
		args = append([]string{"delete"}, RuleArgs(*sel.Rule)...)
	default:
		return errors.NewNotFoundError(sel.String())
	}
	out, err := d.runner.Run(ctx, d.binary, args...)
	if err != nil {
		if fatal := d.classify(ctx, err, out); fatal != nil {
			return fatal
		}
		if removeMissedMatch(out) {
			return errors.NewNotFoundError(sel.String())
		}
		return errors.NewApplyError("delete "+sel.String(), diagnostic(out, err))
	}
	if removeMissedMatch(out) {
		return errors.NewNotFoundError(sel.String())
	}
	return nil
}

// removeMissedMatch reports whether delete output says nothing matched.
func removeMissedMatch(out []byte) bool {
	low := strings.ToLower(string(out))
	return strings.Contains(low, "non-existent") ||
		strings.Contains(low, "invalid position") ||
		strings.Contains(low, "could not find")
}

// List returns a fresh snapshot of the live rules expressible in the
// normalized model, in listing order. While the firewall is inactive
// the front-end prints only "Status: inactive", so the snapshot is
// empty; use ListAdded to read rules before enabling.
func (d *UFWDriver) List(ctx context.Context) (rule.RuleSet, error) {
	out, err := d.output(ctx, "status", "numbered")
	if err != nil {
		return nil, err
	}
	listed := ParseNumbered(string(out))
	rules := make(rule.RuleSet, 0, len(listed))
	for _, row := range listed {
		if r, ok := row.Rule(); ok {
			rules = append(rules, r)
		}
	}
	return rules, nil
}

// ListAdded returns the rules the front-end has recorded, parsed from
// `show added`. Unlike the status listing this works while the
// firewall is inactive, which is what the baseline verification needs
// right after a reset.
// ListAdded 返回前端已记录的规则，解析自 `show added`。与状态列表不同，
// 它在防火墙未激活时也可用，这正是重置后基线验证所需要的。
func (d *UFWDriver) ListAdded(ctx context.Context) (rule.RuleSet, error) {
	out, err := d.output(ctx, "show", "added")
	if err != nil {
		return nil, err
	}
	return ParseAdded(string(out)), nil
}

// Status combines the verbose state lines with the numbered listing,
// mirroring how the front-end reports them separately.
// Status 将 verbose 状态行与编号列表组合，与前端分别报告它们的方式一致。
func (d *UFWDriver) Status(ctx context.Context) (*Status, error) {
	out, err := d.output(ctx, "status", "verbose")
	if err != nil {
		return nil, err
	}
	st := ParseStatus(string(out))
	numbered, err := d.output(ctx, "status", "numbered")
	if err != nil {
		return nil, err
	}
	st.Rules = ParseNumbered(string(numbered))
	return st, nil
}

func (d *UFWDriver) Version(ctx context.Context) (string, error) {
	out, err := d.output(ctx, "--version")
	if err != nil {
		return "", err
	}
	return parseVersion(string(out)), nil
}

// run executes a mutating subcommand, mapping failures onto the shared
// error taxonomy.
func (d *UFWDriver) run(ctx context.Context, args ...string) error {
	out, err := d.runner.Run(ctx, d.binary, args...)
	if err != nil {
		if fatal := d.classify(ctx, err, out); fatal != nil {
			return fatal
		}
		return fmt.Errorf("%s %s: %s", d.binary, strings.Join(args, " "), diagnostic(out, err))
	}
	return nil
}

// output executes a read-only subcommand. Stderr of a failed Output
// call lives on the exit error, not in the returned bytes.
func (d *UFWDriver) output(ctx context.Context, args ...string) ([]byte, error) {
	out, err := d.runner.Output(ctx, d.binary, args...)
	if err != nil {
		diag := out
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			diag = exitErr.Stderr
		}
		if fatal := d.classify(ctx, err, diag); fatal != nil {
			return nil, fatal
		}
		return nil, fmt.Errorf("%s %s: %s", d.binary, strings.Join(args, " "), diagnostic(diag, err))
	}
	return out, nil
}

// classify maps a runner failure onto the fatal error classes: context
// cancellation, a missing front-end binary, and insufficient privilege.
// It returns nil for everything else so callers can apply their own
// per-operation mapping.
// classify 将执行失败映射到致命错误类别：上下文取消、前端二进制缺失、权限不足。
// 其余情况返回 nil，由调用方进行各自的按操作映射。
func (d *UFWDriver) classify(ctx context.Context, err error, out []byte) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, exec.ErrNotFound) {
		return errors.NewDriverUnavailableError(d.binary, err)
	}
	low := strings.ToLower(string(out))
	if strings.Contains(low, "you need to be root") || strings.Contains(low, "permission denied") {
		return errors.NewPermissionError(diagnostic(out, err))
	}
	return nil
}

// diagnostic reduces a failed command's captured output to the message
// worth surfacing: the trimmed tool output when present, the raw error
// text otherwise.
func diagnostic(out []byte, err error) string {
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return msg
	}
	return err.Error()
}

// RuleArgs renders r as front-end rule arguments. Rules without address
// selectors use the short form; a from/to selector switches to the
// extended form.
// RuleArgs 将 r 渲染为前端规则参数。没有地址选择器的规则使用简短形式；
// 存在 from/to 选择器时切换到扩展形式。
func RuleArgs(r rule.Rule) []string {
	if r.From == "" && r.To == "" {
		args := []string{string(r.Action)}
		if r.Direction != rule.DirectionIn {
			args = append(args, string(r.Direction))
		}
		spec := r.Port
		if r.Protocol != rule.ProtocolAny {
			spec += "/" + string(r.Protocol)
		}
		args = append(args, spec)
		if r.Comment != "" {
			args = append(args, "comment", r.Comment)
		}
		return args
	}
	args := []string{string(r.Action), string(r.Direction)}
	if r.Protocol != rule.ProtocolAny {
		args = append(args, "proto", string(r.Protocol))
	}
	if r.From != "" {
		args = append(args, "from", r.From)
	}
	switch {
	case r.To != "" && r.Port != "":
		args = append(args, "to", r.To, "port", r.Port)
	case r.To != "":
		args = append(args, "to", r.To)
	case r.Port != "":
		args = append(args, "to", "any", "port", r.Port)
	}
	if r.Comment != "" {
		args = append(args, "comment", r.Comment)
	}
	return args
}
