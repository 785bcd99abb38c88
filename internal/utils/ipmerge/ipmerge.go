// Package ipmerge collapses address lists into a minimal set of CIDR blocks.
// Package ipmerge 将地址列表合并为最小的 CIDR 块集合。
package ipmerge

import (
	"encoding/binary"
	"math/bits"
	"net/netip"
	"sort"
)

type ipRange struct {
	start netip.Addr
	end   netip.Addr
}

// MergeCIDRs minimizes a list of CIDR or bare-IP strings: overlapping and
// adjacent blocks are combined, and the result is re-expressed as the fewest
// covering prefixes. Entries that parse as neither a prefix nor an address
// are dropped. IPv4 and IPv6 are merged independently.
// MergeCIDRs 最小化 CIDR 或裸 IP 字符串列表：合并重叠与相邻的块，
// 并以最少的覆盖前缀重新表达结果。既不是前缀也不是地址的条目会被丢弃。
// IPv4 与 IPv6 分别合并。
func MergeCIDRs(cidrs []string) ([]string, error) {
	var v4, v6 []ipRange

	for _, c := range cidrs {
		if c == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(c)
		if err != nil {
			addr, err := netip.ParseAddr(c)
			if err != nil {
				continue
			}
			prefix = netip.PrefixFrom(addr, addr.BitLen())
		} else {
			prefix = prefix.Masked()
		}

		r := ipRange{start: prefix.Addr(), end: lastIP(prefix)}
		if r.start.Is4() {
			v4 = append(v4, r)
		} else {
			v6 = append(v6, r)
		}
	}

	var result []string
	for _, r := range mergeRanges(v4) {
		result = append(result, rangeToCIDRs(r.start, r.end)...)
	}
	for _, r := range mergeRanges(v6) {
		result = append(result, rangeToCIDRs(r.start, r.end)...)
	}
	return result, nil
}

// mergeRanges combines overlapping and directly adjacent ranges. Input
// ordering does not matter; output is sorted by start address.
func mergeRanges(ranges []ipRange) []ipRange {
	if len(ranges) == 0 {
		return nil
	}
	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].start.Less(ranges[j].start)
	})

	var merged []ipRange
	current := ranges[0]
	for _, next := range ranges[1:] {
		overlap := next.start.Compare(current.end) <= 0
		adjacent := current.end.Next().IsValid() && next.start == current.end.Next()
		if overlap || adjacent {
			if current.end.Less(next.end) {
				current.end = next.end
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// rangeToCIDRs re-expresses an inclusive address range as the minimal
// sequence of aligned prefixes, greedily taking the largest block that both
// starts at the cursor and stays within the range.
func rangeToCIDRs(start, end netip.Addr) []string {
	var cidrs []string
	for start.IsValid() && start.Compare(end) <= 0 {
		bitLen := start.BitLen()
		for hostBits := trailingZeros(start); hostBits >= 0; hostBits-- {
			p := netip.PrefixFrom(start, bitLen-hostBits)
			last := lastIP(p)
			if last.Compare(end) > 0 {
				continue
			}
			cidrs = append(cidrs, p.String())
			if last == end {
				return cidrs
			}
			start = last.Next()
			break
		}
	}
	return cidrs
}

// lastIP returns the highest address covered by p.
func lastIP(p netip.Prefix) netip.Addr {
	if p.IsSingleIP() {
		return p.Addr()
	}
	if p.Addr().Is4() {
		b := p.Addr().As4()
		v := binary.BigEndian.Uint32(b[:]) | (1<<(32-p.Bits()) - 1)
		binary.BigEndian.PutUint32(b[:], v)
		return netip.AddrFrom4(b)
	}
	b := p.Addr().As16()
	hostBits := 128 - p.Bits()
	for i := 15; i >= 0 && hostBits > 0; i-- {
		if hostBits >= 8 {
			b[i] = 0xFF
			hostBits -= 8
			continue
		}
		b[i] |= 0xFF >> (8 - hostBits)
		hostBits = 0
	}
	return netip.AddrFrom16(b)
}

// trailingZeros reports the alignment of ip, the number of low bits that are
// zero (32 or 128 for the all-zeros address).
func trailingZeros(ip netip.Addr) int {
	if ip.Is4() {
		b := ip.As4()
		v := binary.BigEndian.Uint32(b[:])
		if v == 0 {
			return 32
		}
		return bits.TrailingZeros32(v)
	}
	b := ip.As16()
	low := binary.BigEndian.Uint64(b[8:])
	if low != 0 {
		return bits.TrailingZeros64(low)
	}
	high := binary.BigEndian.Uint64(b[:8])
	if high == 0 {
		return 128
	}
	return 64 + bits.TrailingZeros64(high)
}
