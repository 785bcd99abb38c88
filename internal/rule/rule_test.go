package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufwctl/ufwctl/pkg/errors"
)

// TestParseAction tests action parsing and normalization
// TestParseAction 测试动作解析和标准化
func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Action
		wantErr bool
	}{
		{"allow", "allow", ActionAllow, false},
		{"deny uppercase", "DENY", ActionDeny, false},
		{"reject mixed case", "Reject", ActionReject, false},
		{"limit padded", "  limit  ", ActionLimit, false},
		{"empty", "", "", true},
		{"unknown", "accept", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidAction)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestParseDirection tests direction parsing with the inbound default
// TestParseDirection 测试方向解析及默认入站行为
func TestParseDirection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Direction
		wantErr bool
	}{
		{"in", "in", DirectionIn, false},
		{"out uppercase", "OUT", DirectionOut, false},
		{"empty defaults to in", "", DirectionIn, false},
		{"unknown", "both", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidDirection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestParseProtocol tests protocol parsing with the any default
// TestParseProtocol 测试协议解析及默认 any 行为
func TestParseProtocol(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Protocol
		wantErr bool
	}{
		{"tcp", "tcp", ProtocolTCP, false},
		{"udp uppercase", "UDP", ProtocolUDP, false},
		{"any", "any", ProtocolAny, false},
		{"empty defaults to any", "", ProtocolAny, false},
		{"unknown", "icmp", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProtocol(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidProtocol)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestValidatePortSpec tests port specification validation
// TestValidatePortSpec 测试端口规格校验
func TestValidatePortSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{"empty", "", false},
		{"single port", "22", false},
		{"max port", "65535", false},
		{"zero", "0", true},
		{"negative", "-1", true},
		{"too large", "65536", true},
		{"range", "8000:8100", false},
		{"inverted range", "8100:8000", true},
		{"degenerate range", "80:80", true},
		{"range with garbage", "8080:abc", true},
		{"named service", "ssh", false},
		{"named service with digits", "http-alt", false},
		{"leading digit service", "1x", true},
		{"leading hyphen", "-ssh", true},
		{"spaces", "2 2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePortSpec(tt.spec)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidPort)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestNew tests rule construction and field normalization
// TestNew 测试规则构建和字段标准化
func TestNew(t *testing.T) {
	t.Run("valid rule", func(t *testing.T) {
		r, err := New("allow", "in", "tcp", " 22 ", "10.0.0.0/8", "", " ops access ")
		require.NoError(t, err)
		assert.Equal(t, ActionAllow, r.Action)
		assert.Equal(t, DirectionIn, r.Direction)
		assert.Equal(t, ProtocolTCP, r.Protocol)
		assert.Equal(t, "22", r.Port)
		assert.Equal(t, "10.0.0.0/8", r.From)
		assert.Equal(t, "ops access", r.Comment)
	})

	t.Run("defaults", func(t *testing.T) {
		r, err := New("deny", "", "", "8080", "", "", "")
		require.NoError(t, err)
		assert.Equal(t, DirectionIn, r.Direction)
		assert.Equal(t, ProtocolAny, r.Protocol)
	})

	t.Run("address only rule", func(t *testing.T) {
		r, err := New("deny", "in", "", "", "203.0.113.0/24", "", "")
		require.NoError(t, err)
		assert.Equal(t, "", r.Port)
		assert.Equal(t, "203.0.113.0/24", r.From)
	})

	t.Run("invalid action", func(t *testing.T) {
		_, err := New("drop", "in", "tcp", "22", "", "", "")
		assert.ErrorIs(t, err, errors.ErrInvalidAction)
	})

	t.Run("invalid port", func(t *testing.T) {
		_, err := New("allow", "in", "tcp", "99999", "", "", "")
		assert.ErrorIs(t, err, errors.ErrInvalidPort)
	})

	t.Run("invalid from address", func(t *testing.T) {
		_, err := New("allow", "in", "tcp", "22", "not-an-ip", "", "")
		assert.ErrorIs(t, err, errors.ErrInvalidAddress)
	})

	t.Run("no selectors at all", func(t *testing.T) {
		_, err := New("allow", "in", "tcp", "", "", "", "")
		assert.ErrorIs(t, err, errors.ErrInvalidPort)
	})

	t.Run("any addresses do not count as selectors", func(t *testing.T) {
		_, err := New("allow", "in", "tcp", "", "any", "any", "")
		assert.ErrorIs(t, err, errors.ErrInvalidPort)
	})
}

// TestGuardRule tests the administrative access rule constructor
// TestGuardRule 测试管理访问规则构造器
func TestGuardRule(t *testing.T) {
	r := GuardRule(2222)
	assert.Equal(t, ActionAllow, r.Action)
	assert.Equal(t, DirectionIn, r.Direction)
	assert.Equal(t, ProtocolTCP, r.Protocol)
	assert.Equal(t, "2222", r.Port)
	assert.NotEmpty(t, r.Comment)
}

// TestEquivalent tests structural equality ignoring comments
// TestEquivalent 测试忽略注释的结构相等性
func TestEquivalent(t *testing.T) {
	base := Rule{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "80"}

	tests := []struct {
		name  string
		a, b  Rule
		equal bool
	}{
		{
			name:  "identical",
			a:     base,
			b:     base,
			equal: true,
		},
		{
			name:  "comment ignored",
			a:     base,
			b:     Rule{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "80", Comment: "web"},
			equal: true,
		},
		{
			name:  "host and cidr spelling",
			a:     Rule{Action: ActionDeny, Direction: DirectionIn, Protocol: ProtocolAny, From: "192.0.2.7"},
			b:     Rule{Action: ActionDeny, Direction: DirectionIn, Protocol: ProtocolAny, From: "192.0.2.7/32"},
			equal: true,
		},
		{
			name:  "any equals empty address",
			a:     Rule{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "443", From: "any"},
			b:     Rule{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "443"},
			equal: true,
		},
		{
			name:  "different port",
			a:     base,
			b:     Rule{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "81"},
			equal: false,
		},
		{
			name:  "different action",
			a:     base,
			b:     Rule{Action: ActionDeny, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "80"},
			equal: false,
		},
		{
			name:  "different direction",
			a:     base,
			b:     Rule{Action: ActionAllow, Direction: DirectionOut, Protocol: ProtocolTCP, Port: "80"},
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equivalent(tt.b))
			assert.Equal(t, tt.equal, tt.b.Equivalent(tt.a))
		})
	}
}

// TestRuleString tests the compact display form
// TestRuleString 测试紧凑显示形式
func TestRuleString(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		want string
	}{
		{
			name: "port with protocol",
			rule: Rule{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "22"},
			want: "allow in 22/tcp",
		},
		{
			name: "port any protocol",
			rule: Rule{Action: ActionLimit, Direction: DirectionIn, Protocol: ProtocolAny, Port: "22"},
			want: "limit in 22",
		},
		{
			name: "address only",
			rule: Rule{Action: ActionDeny, Direction: DirectionIn, Protocol: ProtocolAny, From: "203.0.113.0/24"},
			want: "deny in from 203.0.113.0/24",
		},
		{
			name: "full form",
			rule: Rule{Action: ActionAllow, Direction: DirectionOut, Protocol: ProtocolUDP, Port: "53", From: "10.0.0.0/8", To: "any"},
			want: "allow out 53/udp from 10.0.0.0/8 to any",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.String())
		})
	}
}

// TestCompare tests the canonical ordering
// TestCompare 测试规范排序
func TestCompare(t *testing.T) {
	mk := func(action Action, direction Direction, protocol Protocol, port string) Rule {
		return Rule{Action: action, Direction: direction, Protocol: protocol, Port: port}
	}

	tests := []struct {
		name string
		a, b Rule
		want int
	}{
		{
			name: "direction before everything",
			a:    mk(ActionDeny, DirectionIn, ProtocolUDP, "9999"),
			b:    mk(ActionAllow, DirectionOut, ProtocolTCP, "1"),
			want: -1,
		},
		{
			name: "protocol within direction",
			a:    mk(ActionAllow, DirectionIn, ProtocolTCP, "80"),
			b:    mk(ActionAllow, DirectionIn, ProtocolUDP, "53"),
			want: -1,
		},
		{
			name: "numeric ports compare by value",
			a:    mk(ActionAllow, DirectionIn, ProtocolTCP, "99"),
			b:    mk(ActionAllow, DirectionIn, ProtocolTCP, "100"),
			want: -1,
		},
		{
			name: "numeric sorts before named service",
			a:    mk(ActionAllow, DirectionIn, ProtocolTCP, "65535"),
			b:    mk(ActionAllow, DirectionIn, ProtocolTCP, "ssh"),
			want: -1,
		},
		{
			name: "numeric sorts before range",
			a:    mk(ActionAllow, DirectionIn, ProtocolTCP, "8080"),
			b:    mk(ActionAllow, DirectionIn, ProtocolTCP, "100:200"),
			want: -1,
		},
		{
			name: "unparsable ports compare as strings",
			a:    mk(ActionAllow, DirectionIn, ProtocolTCP, "http"),
			b:    mk(ActionAllow, DirectionIn, ProtocolTCP, "ssh"),
			want: -1,
		},
		{
			name: "action breaks remaining ties",
			a:    mk(ActionAllow, DirectionIn, ProtocolTCP, "80"),
			b:    mk(ActionDeny, DirectionIn, ProtocolTCP, "80"),
			want: -1,
		},
		{
			name: "equal keys",
			a:    mk(ActionAllow, DirectionIn, ProtocolTCP, "80"),
			b:    mk(ActionAllow, DirectionIn, ProtocolTCP, "80"),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b)
			switch {
			case tt.want < 0:
				assert.Negative(t, got)
				assert.Positive(t, Compare(tt.b, tt.a))
			case tt.want > 0:
				assert.Positive(t, got)
			default:
				assert.Zero(t, got)
			}
		})
	}
}

// TestSortKey tests sort key derivation
// TestSortKey 测试排序键推导
func TestSortKey(t *testing.T) {
	numeric := Rule{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "443"}
	key := numeric.SortKey()
	assert.True(t, key.PortParsed)
	assert.Equal(t, 443, key.PortNumber)

	named := Rule{Action: ActionAllow, Direction: DirectionIn, Protocol: ProtocolTCP, Port: "https"}
	key = named.SortKey()
	assert.False(t, key.PortParsed)
	assert.Equal(t, "https", key.PortText)
}
