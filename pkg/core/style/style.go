// Package style composes the class-token sequences of a layout container and
// its regions.
//
// Composition order is fixed:
//
//  1. the structural class derived from the variant (container) or from the
//     region's slot prefix (region),
//  2. the variant's default tokens,
//  3. authored override tokens, in argument order.
//
// Overrides come last so they win in any cascade that resolves by source
// order. Tokens are never deduplicated or reordered; the presentation layer
// treats repeated classes as a no-op.
package style

import (
	"strings"

	"github.com/matzehuels/slotframe/pkg/core/slot"
	"github.com/matzehuels/slotframe/pkg/core/variant"
)

// Container returns the container's class tokens for variant v followed by
// the authored container overrides.
func Container(v variant.Variant, overrides ...string) []string {
	out := make([]string, 0, 1+len(v.ContainerTokens))
	out = append(out, v.ContainerClass)
	out = append(out, v.ContainerTokens...)
	return appendOverrides(out, overrides)
}

// Region returns the class tokens of the region at the 1-based index followed
// by the authored overrides for that region.
func Region(v variant.Variant, index int, overrides ...string) []string {
	defaults := v.DefaultTokens(index)
	out := make([]string, 0, 1+len(defaults))
	out = append(out, slot.Prefix(v.SlotBase, v.Label(index)))
	out = append(out, defaults...)
	return appendOverrides(out, overrides)
}

// Tokens splits free-text authored styles into tokens on whitespace.
func Tokens(s string) []string {
	return strings.Fields(s)
}

// Join renders a token sequence as a class attribute value.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}

func appendOverrides(out []string, overrides []string) []string {
	for _, o := range overrides {
		out = append(out, Tokens(o)...)
	}
	return out
}
