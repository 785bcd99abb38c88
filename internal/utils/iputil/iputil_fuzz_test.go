package iputil

import (
	"testing"
)

// FuzzParseCIDR tests ParseCIDR with random inputs
// FuzzParseCIDR 使用随机输入测试 ParseCIDR
func FuzzParseCIDR(f *testing.F) {
	// Add seed corpus
	// 添加种子语料库
	seedCorpus := []string{
		"192.168.1.1",
		"192.168.1.0/24",
		"10.0.0.1",
		"10.0.0.0/8",
		"172.16.0.1",
		"172.16.0.0/12",
		"::1",
		"2001:db8::1",
		"2001:db8::/32",
		"fe80::1",
		"fe80::/10",
		"0.0.0.0",
		"0.0.0.0/0",
		"::",
		"::/0",
		"255.255.255.255",
		"255.255.255.255/32",
		"",
		"invalid",
		"192.168.1.1/33",
		"192.168.1.1/-1",
		"192.168.1.1/abc",
	}

	for _, seed := range seedCorpus {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		// ParseCIDR should not panic on any input
		// ParseCIDR 不应在任何输入上发生 panic
		ipNet, err := ParseCIDR(input)

		if err != nil {
			// If error, ipNet should be nil
			// 如果出错，ipNet 应为 nil
			if ipNet != nil {
				t.Errorf("ParseCIDR(%q) returned non-nil with error: %v", input, err)
			}
			return
		}

		// If no error, ipNet should be valid
		// 如果没有错误，ipNet 应有效
		if ipNet == nil {
			t.Errorf("ParseCIDR(%q) returned nil without error", input)
			return
		}

		// Verify the IP is valid
		// 验证 IP 有效
		if ipNet.IP == nil {
			t.Errorf("ParseCIDR(%q) returned nil IP", input)
			return
		}

		// Verify the mask is valid
		// 验证掩码有效
		if ipNet.Mask == nil {
			t.Errorf("ParseCIDR(%q) returned nil Mask", input)
			return
		}

		// Verify the result can be parsed again
		// 验证结果可以再次解析
		_, err = ParseCIDR(ipNet.String())
		if err != nil {
			t.Errorf("ParseCIDR(%q) result %q cannot be re-parsed: %v", input, ipNet.String(), err)
		}
	})
}

// FuzzNormalizeCIDR tests NormalizeCIDR with random inputs
// FuzzNormalizeCIDR 使用随机输入测试 NormalizeCIDR
func FuzzNormalizeCIDR(f *testing.F) {
	seedCorpus := []string{
		"192.168.1.1",
		"192.168.1.0/24",
		"10.0.0.1",
		"::1",
		"2001:db8::1",
		"invalid",
		"",
		"0.0.0.0",
		"255.255.255.255",
	}

	for _, seed := range seedCorpus {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		// NormalizeCIDR should not panic on any input
		// NormalizeCIDR 不应在任何输入上发生 panic
		result := NormalizeCIDR(input)

		// Normalization must be idempotent
		// 规范化必须是幂等的
		if again := NormalizeCIDR(result); again != result {
			t.Errorf("NormalizeCIDR not idempotent: %q -> %q -> %q", input, result, again)
		}
	})
}

// FuzzIsValidIP tests IsValidIP with random inputs
// FuzzIsValidIP 使用随机输入测试 IsValidIP
func FuzzIsValidIP(f *testing.F) {
	seedCorpus := []string{
		"192.168.1.1",
		"10.0.0.1",
		"::1",
		"2001:db8::1",
		"invalid",
		"",
		"0.0.0.0",
		"255.255.255.255",
		"256.256.256.256",
	}

	for _, seed := range seedCorpus {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		// IsValidIP should not panic on any input
		// IsValidIP 不应在任何输入上发生 panic
		result := IsValidIP(input)

		// A valid IP is always a valid CIDR operand too
		// 有效 IP 同时也应是有效的 CIDR 操作数
		if result && !IsValidCIDR(input) {
			t.Errorf("IsValidIP(%q) true but IsValidCIDR false", input)
		}
	})
}

// FuzzIsValidCIDR tests IsValidCIDR with random inputs
// FuzzIsValidCIDR 使用随机输入测试 IsValidCIDR
func FuzzIsValidCIDR(f *testing.F) {
	seedCorpus := []string{
		"192.168.1.1",
		"192.168.1.0/24",
		"10.0.0.1",
		"::1",
		"2001:db8::/32",
		"invalid",
		"",
		"0.0.0.0/0",
		"::/0",
	}

	for _, seed := range seedCorpus {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		// IsValidCIDR should not panic on any input
		// IsValidCIDR 不应在任何输入上发生 panic
		result := IsValidCIDR(input)

		// Valid inputs normalize to themselves on second pass
		// 有效输入在第二次规范化时应保持稳定
		if result {
			norm := NormalizeCIDR(input)
			if !IsValidCIDR(norm) {
				t.Errorf("normalized form %q of %q is not valid", norm, input)
			}
		}
	})
}
