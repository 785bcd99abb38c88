package rule

import "sort"

// RuleSet is an ordered collection of rules. Order is insertion order
// until Canonicalize establishes the canonical one. A RuleSet is built
// fresh for every operation and never cached across them.
// RuleSet 是规则的有序集合。在 Canonicalize 建立规范顺序之前保持插入顺序。
// 每次操作都会重新构建 RuleSet，绝不跨操作缓存。
type RuleSet []Rule

// Dedup returns a copy with equivalent duplicates removed. The first
// occurrence of each equivalence class survives, so the first-seen
// comment wins.
// Dedup 返回移除等价重复项后的副本。每个等价类保留首个出现的规则，因此首个注释胜出。
func (s RuleSet) Dedup() RuleSet {
	out := make(RuleSet, 0, len(s))
	for _, r := range s {
		if !out.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}

// Canonicalize returns a deduplicated, canonically sorted copy. Dedup
// runs first, in insertion order, so comment retention is decided before
// sorting; the sort itself is stable.
// Canonicalize 返回去重并按规范顺序排序的副本。先按插入顺序去重，
// 使注释保留在排序之前确定；排序本身是稳定的。
func (s RuleSet) Canonicalize() RuleSet {
	out := s.Dedup()
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j]) < 0
	})
	return out
}

// Contains reports whether the set holds a rule equivalent to r.
// Contains 判断集合中是否存在与 r 等价的规则。
func (s RuleSet) Contains(r Rule) bool {
	return s.IndexOf(r) >= 0
}

// IndexOf returns the position of the first rule equivalent to r, or -1.
// IndexOf 返回与 r 等价的第一条规则的位置，不存在时返回 -1。
func (s RuleSet) IndexOf(r Rule) int {
	for i, candidate := range s {
		if candidate.Equivalent(r) {
			return i
		}
	}
	return -1
}

// Equivalent reports whether two sets contain the same rules up to rule
// equivalence, regardless of order and comments.
// Equivalent 判断两个集合在规则等价意义下是否包含相同规则，与顺序和注释无关。
func (s RuleSet) Equivalent(other RuleSet) bool {
	a, b := s.Dedup(), other.Dedup()
	if len(a) != len(b) {
		return false
	}
	for _, r := range a {
		if !b.Contains(r) {
			return false
		}
	}
	return true
}
