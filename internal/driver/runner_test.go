package driver

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRealCommandRunnerRun verifies Run captures stdout and stderr
// combined, and still returns the collected output on non-zero exit.
// TestRealCommandRunnerRun 验证 Run 合并捕获 stdout 与 stderr，且非零退出时仍返回已收集的输出。
func TestRealCommandRunnerRun(t *testing.T) {
	ctx := context.Background()

	out, err := DefaultCommandRunner.Run(ctx, "sh", "-c", "echo visible; echo diagnostic 1>&2")
	require.NoError(t, err)
	assert.Contains(t, string(out), "visible")
	assert.Contains(t, string(out), "diagnostic")

	out, err = DefaultCommandRunner.Run(ctx, "sh", "-c", "echo failure detail; exit 3")
	require.Error(t, err)
	assert.Contains(t, string(out), "failure detail")
}

// TestRealCommandRunnerOutput verifies Output returns stdout only.
func TestRealCommandRunnerOutput(t *testing.T) {
	out, err := DefaultCommandRunner.Output(context.Background(), "sh", "-c", "echo visible; echo hidden 1>&2")
	require.NoError(t, err)
	assert.Contains(t, string(out), "visible")
	assert.NotContains(t, string(out), "hidden")
}

func TestRealCommandRunnerMissingBinary(t *testing.T) {
	_, err := DefaultCommandRunner.Run(context.Background(), "ufwctl-no-such-binary")
	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}
