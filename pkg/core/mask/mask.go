// Package mask parses the authored "which regions are active" directive.
//
// The directive is a comma-separated list of 1-based region indices such as
// "1,3". Parsing never fails: tokens that are not positive integers within the
// region count are dropped, so a typo disables a region instead of breaking the
// page. The result is always ascending and free of duplicates, which keeps
// regions in left-to-right / top-to-bottom order whatever order the author
// typed them in.
package mask

import (
	"slices"
	"strconv"
	"strings"
)

// Parse returns the enabled region indices for a layout with regionCount regions.
//
// A nil mask means the directive is absent and every region is enabled. A
// non-nil mask, including a pointer to the empty string, is parsed as written;
// an explicit empty directive therefore enables no regions.
func Parse(m *string, regionCount int) []int {
	if regionCount <= 0 {
		return []int{}
	}
	if m == nil {
		return All(regionCount)
	}

	seen := make(map[int]bool)
	out := []int{}
	for _, tok := range strings.Split(*m, ",") {
		n, ok := index(tok)
		if !ok || n > regionCount || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// All returns 1..regionCount.
func All(regionCount int) []int {
	out := make([]int, 0, max(regionCount, 0))
	for i := 1; i <= regionCount; i++ {
		out = append(out, i)
	}
	return out
}

// MaxIndex returns the largest positive index mentioned in the mask, ignoring
// region bounds. It returns 0 for a nil mask or a mask without valid indices.
func MaxIndex(m *string) int {
	if m == nil {
		return 0
	}
	hi := 0
	for _, tok := range strings.Split(*m, ",") {
		if n, ok := index(tok); ok && n > hi {
			hi = n
		}
	}
	return hi
}

// Format renders indices back into directive form ("1,3").
func Format(indices []int) string {
	parts := make([]string, len(indices))
	for i, n := range indices {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func index(tok string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
