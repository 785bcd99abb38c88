package iputil

import (
	"fmt"
	"net"
)

// NormalizeCIDR ensures the IP string is in CIDR format.
// It parses the string to ensure it is a valid CIDR or IP.
// If it's a single IP, it appends /32 (IPv4) or /128 (IPv6).
// If it's already a CIDR, it returns the canonical form (e.g. 1.2.3.4/32 -> 1.2.3.4/32).
// Returns the original string if parsing fails.
// NormalizeCIDR 确保 IP 字符串采用 CIDR 格式。
// 它解析字符串以确保其为有效的 CIDR 或 IP。
// 如果是单个 IP，则追加 /32 (IPv4) 或 /128 (IPv6)。
// 如果已经是 CIDR，则返回规范形式（例如 1.2.3.4/32 -> 1.2.3.4/32）。
// 如果解析失败，则返回原始字符串。
func NormalizeCIDR(ipStr string) string {
	ipNet, err := ParseCIDR(ipStr)
	if err == nil {
		return ipNet.String()
	}
	return ipStr
}

// ParseCIDR parses a CIDR string or a single IP.
// If single IP, returns the corresponding /32 or /128 subnet.
// ParseCIDR 解析 CIDR 字符串或单个 IP。如果是单个 IP，则返回相应的 /32 或 /128 子网。
func ParseCIDR(s string) (*net.IPNet, error) {
	_, ipNet, err := net.ParseCIDR(s)
	if err == nil {
		return ipNet, nil
	}

	ip := net.ParseIP(s)
	if ip == nil {
		return nil, fmt.Errorf("invalid CIDR or IP")
	}

	maskBits := 32
	if ip.To4() == nil {
		maskBits = 128
	}
	return &net.IPNet{
		IP:   ip,
		Mask: net.CIDRMask(maskBits, maskBits),
	}, nil
}

// IsValidIP checks if the string is a valid IP address.
// IsValidIP 检查字符串是否为有效的 IP 地址。
func IsValidIP(s string) bool {
	return net.ParseIP(s) != nil
}

// IsValidCIDR checks if the string is a valid CIDR.
// IsValidCIDR 检查字符串是否为有效的 CIDR。
func IsValidCIDR(s string) bool {
	_, err := ParseCIDR(s)
	return err == nil
}
