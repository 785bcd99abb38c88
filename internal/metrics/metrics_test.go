package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufwctl/ufwctl/internal/config"
	"github.com/ufwctl/ufwctl/internal/rule"
)

func mustRule(t *testing.T, action, direction, protocol, port string) rule.Rule {
	t.Helper()
	r, err := rule.New(action, direction, protocol, port, "", "", "")
	require.NoError(t, err)
	return r
}

// TestWriteTextfile verifies the gauges land in the exposition file and the
// temp file does not survive the rename.
// TestWriteTextfile 验证指标写入文本文件且临时文件在重命名后不再存在。
func TestWriteTextfile(t *testing.T) {
	SetRuleGauges(rule.RuleSet{
		mustRule(t, "allow", "in", "tcp", "22"),
		mustRule(t, "allow", "in", "tcp", "80"),
		mustRule(t, "deny", "out", "udp", "53"),
	})
	SetFirewallActive(true)
	SetApplyResults(4, 1)
	SetGuardPort(2222)

	path := filepath.Join(t.TempDir(), "ufwctl.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `ufwctl_rules_count{action="allow"} 2`)
	assert.Contains(t, out, `ufwctl_rules_count{action="deny"} 1`)
	assert.Contains(t, out, `ufwctl_rules_direction_count{direction="in"} 2`)
	assert.Contains(t, out, `ufwctl_rules_direction_count{direction="out"} 1`)
	assert.Contains(t, out, `ufwctl_apply_results{result="success"} 4`)
	assert.Contains(t, out, `ufwctl_apply_results{result="failure"} 1`)
	assert.Contains(t, out, "ufwctl_firewall_active 1")
	assert.Contains(t, out, "ufwctl_guard_port 2222")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

// TestSetRuleGaugesReset verifies stale label values are dropped on refresh.
// TestSetRuleGaugesReset 验证刷新时丢弃过期的标签值。
func TestSetRuleGaugesReset(t *testing.T) {
	SetRuleGauges(rule.RuleSet{mustRule(t, "reject", "in", "", "8080")})
	SetRuleGauges(rule.RuleSet{mustRule(t, "limit", "in", "tcp", "22")})

	path := filepath.Join(t.TempDir(), "ufwctl.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `ufwctl_rules_count{action="limit"} 1`)
	assert.NotContains(t, out, `action="reject"`)
}

// TestFlushGate verifies the configuration gate short-circuits cleanly.
// TestFlushGate 验证配置开关能正确短路。
func TestFlushGate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "off.prom")
	require.NoError(t, Flush(config.MetricsConfig{TextfileEnabled: false, TextfilePath: path}))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, Flush(config.MetricsConfig{TextfileEnabled: true, TextfilePath: ""}))

	on := filepath.Join(t.TempDir(), "on.prom")
	require.NoError(t, Flush(config.MetricsConfig{TextfileEnabled: true, TextfilePath: on}))
	_, err = os.Stat(on)
	require.NoError(t, err)
}

// TestWriteTextfileBadPath verifies the create failure is surfaced.
// TestWriteTextfileBadPath 验证创建失败会被上报。
func TestWriteTextfileBadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "ufwctl.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create")
}
