package driver

import (
	"context"
	"os/exec"
)

// CommandRunner abstracts shell command execution so UFWDriver can be
// exercised against a fake in tests.
// CommandRunner 抽象 shell 命令执行，使 UFWDriver 可以在测试中使用伪实现。
type CommandRunner interface {
	// Run executes a command and returns its combined stdout and stderr.
	// The collected output is returned even when the command exits
	// non-zero so callers can surface the tool's own diagnostic.
	// Run 执行命令并返回合并的 stdout 与 stderr。
	// 即使命令以非零退出，也会返回已收集的输出，供调用方呈现工具自身的诊断信息。
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	// Output executes a command and returns its stdout only.
	// Output 执行命令并仅返回其 stdout。
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RealCommandRunner executes actual shell commands.
// RealCommandRunner 执行真实的 shell 命令。
type RealCommandRunner struct{}

// DefaultCommandRunner is the default command runner.
var DefaultCommandRunner CommandRunner = &RealCommandRunner{}

func (r *RealCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

func (r *RealCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
