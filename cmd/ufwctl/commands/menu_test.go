package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMenuAddressValidation tests the menu's optional address validator.
// TestMenuAddressValidation 测试菜单的可选地址校验。
func TestMenuAddressValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Empty means any", "", false},
		{"Literal any", "any", false},
		{"IPv4 CIDR", "10.0.0.0/8", false},
		{"Bare IPv4", "192.168.1.10", false},
		{"IPv6 CIDR", "2001:db8::/32", false},
		{"Garbage", "not-an-address", true},
		{"Bad prefix", "10.0.0.0/40", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOptionalAddr(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestMenuFilterValidation tests the menu's optional filter validator.
// TestMenuFilterValidation 测试菜单的可选筛选表达式校验。
func TestMenuFilterValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Empty means no filter", "", false},
		{"Action match", `action == "allow"`, false},
		{"Combined match", `action == "allow" && protocol == "tcp"`, false},
		{"Unknown field", `nonsense == "x"`, true},
		{"Syntax error", "((", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOptionalFilter(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
