package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufwctl/ufwctl/internal/rule"
	"github.com/ufwctl/ufwctl/pkg/errors"
)

// TestMockDriverLifecycle walks a mock through apply, remove and reset
// and checks both the state and the recorded call order.
// TestMockDriverLifecycle 让 mock 经历 apply、remove 与 reset，并检查状态和记录的调用顺序。
func TestMockDriverLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMockDriver()

	ssh := rule.GuardRule(22)
	web := rule.Rule{Action: rule.ActionAllow, Direction: rule.DirectionIn, Protocol: rule.ProtocolTCP, Port: "80"}

	require.NoError(t, m.Apply(ctx, ssh))
	require.NoError(t, m.Apply(ctx, web))
	require.NoError(t, m.Enable(ctx))

	rules, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.True(t, m.ActiveState)

	require.NoError(t, m.Remove(ctx, SelectNumber(1)))
	rules, err = m.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "80", rules[0].Port)

	require.NoError(t, m.Reset(ctx))
	rules, err = m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)
	assert.False(t, m.ActiveState)

	assert.Equal(t, []string{
		"apply allow in 22/tcp",
		"apply allow in 80/tcp",
		"enable",
		"list",
		"remove #1",
		"list",
		"reset",
		"list",
	}, m.Calls)
}

func TestMockDriverRemove(t *testing.T) {
	ctx := context.Background()
	m := NewMockDriver()
	web := rule.Rule{Action: rule.ActionAllow, Direction: rule.DirectionIn, Protocol: rule.ProtocolTCP, Port: "80"}
	require.NoError(t, m.Apply(ctx, web))

	// Equivalent specification matches regardless of comment.
	// 等价的规则描述无论注释如何都能匹配。
	commented := web
	commented.Comment = "web"
	require.NoError(t, m.Remove(ctx, SelectRule(commented)))
	assert.Empty(t, m.Rules)

	assert.ErrorIs(t, m.Remove(ctx, SelectRule(web)), errors.ErrRuleNotFound)
	assert.ErrorIs(t, m.Remove(ctx, SelectNumber(5)), errors.ErrRuleNotFound)
	assert.ErrorIs(t, m.Remove(ctx, Selector{}), errors.ErrRuleNotFound)
}

func TestMockDriverFailureInjection(t *testing.T) {
	ctx := context.Background()
	m := NewMockDriver()

	bad := rule.Rule{Action: rule.ActionAllow, Direction: rule.DirectionIn, Protocol: rule.ProtocolTCP, Port: "8080"}
	m.ApplyErr[bad.String()] = errors.NewApplyError(bad.String(), "simulated failure")

	err := m.Apply(ctx, bad)
	assert.ErrorIs(t, err, errors.ErrApplyFailed)
	assert.Empty(t, m.Rules)

	good := rule.Rule{Action: rule.ActionAllow, Direction: rule.DirectionIn, Protocol: rule.ProtocolTCP, Port: "80"}
	require.NoError(t, m.Apply(ctx, good))
	require.Len(t, m.Rules, 1)
}

func TestMockDriverStatus(t *testing.T) {
	ctx := context.Background()
	m := NewMockDriver()
	require.NoError(t, m.SetDefaultPolicy(ctx, rule.DirectionIn, rule.ActionDeny))
	require.NoError(t, m.Apply(ctx, rule.GuardRule(2222)))
	require.NoError(t, m.Enable(ctx))

	st, err := m.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.Active)
	assert.Equal(t, "deny (incoming), allow (outgoing)", st.Default)
	require.Len(t, st.Rules, 1)
	assert.Equal(t, 1, st.Rules[0].Number)
	assert.Equal(t, "2222/tcp", st.Rules[0].To)
	assert.Equal(t, "ALLOW IN", st.Rules[0].Action)
	assert.Equal(t, "Anywhere", st.Rules[0].From)

	v, err := m.Version(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, v)
}

// TestMockDriverListInactive verifies the status listing serves nothing
// until the firewall is enabled, while the recorded-rules listing always
// does, matching the front-end.
// TestMockDriverListInactive 验证状态列表在防火墙启用前不返回内容，
// 而已记录规则列表始终返回，与前端一致。
func TestMockDriverListInactive(t *testing.T) {
	ctx := context.Background()
	m := NewMockDriver()
	require.NoError(t, m.Apply(ctx, rule.GuardRule(22)))

	rules, err := m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)

	added, err := m.ListAdded(ctx)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.True(t, added.Contains(rule.GuardRule(22)))

	require.NoError(t, m.Enable(ctx))
	rules, err = m.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
}

// TestMockDriverListIsolation verifies the listings hand out copies so
// callers cannot mutate the mock's state behind its back.
func TestMockDriverListIsolation(t *testing.T) {
	ctx := context.Background()
	m := NewMockDriver()
	require.NoError(t, m.Apply(ctx, rule.GuardRule(22)))
	require.NoError(t, m.Enable(ctx))

	rules, err := m.List(ctx)
	require.NoError(t, err)
	rules[0].Port = "9999"

	again, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "22", again[0].Port)

	added, err := m.ListAdded(ctx)
	require.NoError(t, err)
	added[0].Port = "9999"

	again, err = m.ListAdded(ctx)
	require.NoError(t, err)
	assert.Equal(t, "22", again[0].Port)
}
