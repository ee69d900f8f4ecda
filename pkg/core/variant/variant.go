package variant

import (
	"slices"
	"strconv"
)

// Region counts for the splitter variants, whose number of regions is authored
// per instance rather than fixed by the catalog.
const (
	// MaxSplitRegions is the largest number of regions a splitter instance can have.
	MaxSplitRegions = 8

	// DefaultSplitRegions is used when a splitter request does not say how many
	// regions it has.
	DefaultSplitRegions = 2
)

// Wrap tells whether regions may wrap onto several lines on narrow viewports.
type Wrap uint8

const (
	WrapFixed Wrap = iota
	WrapAllowed
)

// String returns "fixed" or "wrap-allowed".
func (w Wrap) String() string {
	if w == WrapAllowed {
		return "wrap-allowed"
	}
	return "fixed"
}

// Split identifies the nesting splitters. Fixed-ratio variants use SplitNone.
type Split uint8

const (
	SplitNone Split = iota
	SplitColumns
	SplitRows
)

// String returns the split direction name.
func (s Split) String() string {
	switch s {
	case SplitColumns:
		return "columns"
	case SplitRows:
		return "rows"
	default:
		return "none"
	}
}

// Variant is one entry of the closed layout catalog.
//
// Variants are values. The catalog hands out copies, so mutating a returned
// Variant never affects other callers.
type Variant struct {
	// ID is the stable identifier used in layout requests ("fifty-fifty").
	ID string
	// ComponentName is the CMS rendering name bound to this variant ("ContainerFiftyFifty").
	ComponentName string
	// Description is a one-line human summary for listings.
	Description string

	// RegionCount is the fixed number of regions, or 0 for splitters.
	RegionCount int
	// Ratios holds one size per region for fixed variants.
	Ratios []Size
	// Labels names each region of a fixed variant; splitters use the 1-based index.
	Labels []string
	// SlotBase is the first segment of every slot key ("container", "column", "row").
	SlotBase string

	// ContainerClass is the structural class of the outer container.
	ContainerClass string
	// ContainerTokens are the default style tokens of the outer container.
	ContainerTokens []string
	// RegionTokens holds default style tokens per region index (0-based).
	// Splitters declare a single entry that applies to every region.
	RegionTokens [][]string

	Wrap  Wrap
	Split Split
}

// Dynamic reports whether the region count is authored per instance.
func (v Variant) Dynamic() bool { return v.Split != SplitNone }

// Regions returns the effective region count for an instance that asked for
// requested regions. Fixed variants ignore the request. Splitters fall back to
// [DefaultSplitRegions] when requested is not positive and clamp to
// [MaxSplitRegions].
func (v Variant) Regions(requested int) int {
	if !v.Dynamic() {
		return v.RegionCount
	}
	switch {
	case requested <= 0:
		return DefaultSplitRegions
	case requested > MaxSplitRegions:
		return MaxSplitRegions
	default:
		return requested
	}
}

// Label returns the label of the region at the 1-based index.
func (v Variant) Label(index int) string {
	if !v.Dynamic() && index >= 1 && index <= len(v.Labels) {
		return v.Labels[index-1]
	}
	return strconv.Itoa(index)
}

// Ratio returns the catalog size of the region at the 1-based index.
// Row bands are always full width; column splitter regions are sized by
// authored tokens, which the catalog cannot know, so they report [Auto].
func (v Variant) Ratio(index int) Size {
	switch v.Split {
	case SplitRows:
		return Full()
	case SplitColumns:
		return Auto()
	}
	if index >= 1 && index <= len(v.Ratios) {
		return v.Ratios[index-1]
	}
	return Auto()
}

// DefaultTokens returns a copy of the default style tokens of the region at the
// 1-based index.
func (v Variant) DefaultTokens(index int) []string {
	if v.Dynamic() {
		if len(v.RegionTokens) == 0 {
			return nil
		}
		return slices.Clone(v.RegionTokens[0])
	}
	if index < 1 || index > len(v.RegionTokens) {
		return nil
	}
	return slices.Clone(v.RegionTokens[index-1])
}

// clone deep-copies the slices so catalog entries cannot be mutated through a
// returned value.
func (v Variant) clone() Variant {
	v.Ratios = slices.Clone(v.Ratios)
	v.Labels = slices.Clone(v.Labels)
	v.ContainerTokens = slices.Clone(v.ContainerTokens)
	tokens := make([][]string, len(v.RegionTokens))
	for i, t := range v.RegionTokens {
		tokens[i] = slices.Clone(t)
	}
	v.RegionTokens = tokens
	return v
}
