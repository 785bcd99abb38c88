package rule

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDedup tests duplicate removal with first-seen comment retention
// TestDedup 测试去重及保留首个注释
func TestDedup(t *testing.T) {
	t.Run("bare rule first keeps empty comment", func(t *testing.T) {
		set := RuleSet{
			{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "80"},
			{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "80", Comment: "web"},
		}
		out := set.Dedup()
		require.Len(t, out, 1)
		assert.Equal(t, "", out[0].Comment)
	})

	t.Run("commented rule first keeps its comment", func(t *testing.T) {
		set := RuleSet{
			{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "80", Comment: "web"},
			{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "80"},
		}
		out := set.Dedup()
		require.Len(t, out, 1)
		assert.Equal(t, "web", out[0].Comment)
	})

	t.Run("distinct rules survive", func(t *testing.T) {
		set := RuleSet{
			{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "80"},
			{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "443"},
			{Action: ActionDeny, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "80"},
		}
		assert.Len(t, set.Dedup(), 3)
	})

	t.Run("duplicate cidr spellings collapse", func(t *testing.T) {
		set := RuleSet{
			{Action: ActionDeny, Direction: DirectionIn, Protocol: ProtocolAny, From: "192.0.2.7", Comment: "first"},
			{Action: ActionDeny, Direction: DirectionIn, Protocol: ProtocolAny, From: "192.0.2.7/32", Comment: "second"},
		}
		out := set.Dedup()
		require.Len(t, out, 1)
		assert.Equal(t, "first", out[0].Comment)
	})

	t.Run("does not mutate receiver", func(t *testing.T) {
		set := RuleSet{
			{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "80"},
			{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "80"},
		}
		_ = set.Dedup()
		assert.Len(t, set, 2)
	})
}

// TestCanonicalize tests the canonical sort plus dedup pipeline
// TestCanonicalize 测试规范排序加去重流程
func TestCanonicalize(t *testing.T) {
	set := RuleSet{
		{Action: ActionDeny, Direction: DirectionOut, Protocol: ProtocolTCP, Port: "25"},
		{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "ssh"},
		{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "443"},
		{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "22", Comment: "keep me"},
		{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "22", Comment: "dropped duplicate"},
		{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolUDP, Port: "53"},
	}

	out := set.Canonicalize()
	require.Len(t, out, 5)

	// Monotone by Compare / 按 Compare 单调排列
	ordered := sort.SliceIsSorted(out, func(i, j int) bool {
		return Compare(out[i], out[j]) < 0
	})
	assert.True(t, ordered, "canonical output must be sorted")

	assert.Equal(t, "22", out[0].Port)
	assert.Equal(t, "keep me", out[0].Comment)
	assert.Equal(t, "443", out[1].Port)
	assert.Equal(t, "ssh", out[2].Port)
	assert.Equal(t, ProtocolUDP, out[3].Protocol)
	assert.Equal(t, DirectionOut, out[4].Direction)
}

// TestCanonicalizeIdempotent tests that a second pass changes nothing
// TestCanonicalizeIdempotent 测试第二次执行不产生任何变化
func TestCanonicalizeIdempotent(t *testing.T) {
	set := RuleSet{
		{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "8080"},
		{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "80"},
		{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "8080"},
	}
	once := set.Canonicalize()
	twice := once.Canonicalize()
	assert.Equal(t, once, twice)
}

// TestContains tests equivalence-based membership
// TestContains 测试基于等价性的成员判断
func TestContains(t *testing.T) {
	set := RuleSet{
		{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "22", Comment: "ssh"},
	}

	assert.True(t, set.Contains(Rule{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "22"}))
	assert.False(t, set.Contains(Rule{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "23"}))
	assert.Equal(t, 0, set.IndexOf(Rule{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "22"}))
	assert.Equal(t, -1, set.IndexOf(Rule{Action: ActionDeny, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "22"}))
}

// TestSetEquivalent tests order and comment insensitive set comparison
// TestSetEquivalent 测试与顺序和注释无关的集合比较
func TestSetEquivalent(t *testing.T) {
	a := RuleSet{
		{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "22", Comment: "ssh"},
		{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "80"},
	}
	b := RuleSet{
		{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "80", Comment: "web"},
		{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "22"},
	}

	assert.True(t, a.Equivalent(b))

	c := append(RuleSet{}, b...)
	c = append(c, Rule{Action: ActionDeny, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "23"})
	assert.False(t, a.Equivalent(c))
}
