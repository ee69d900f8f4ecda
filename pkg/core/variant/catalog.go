package variant

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/slotframe/pkg/errors"
)

// Variant identifiers. These strings are what page authors and layout
// requests refer to; they never change once shipped.
const (
	Quarters       = "quarters"
	ThirtySeventy  = "thirty-seventy"
	FortySixty     = "forty-sixty"
	FiftyFifty     = "fifty-fifty"
	SixtyForty     = "sixty-forty"
	FullWidth      = "full-width"
	FullBleed      = "full-bleed"
	ColumnSplitter = "column-splitter"
	RowSplitter    = "row-splitter"
)

// =============================================================================
// Catalog - hand-authored, read-only after init
// =============================================================================

var (
	catalog     map[string]Variant
	byComponent map[string]string
)

func init() {
	entries := []Variant{
		{
			ID:              Quarters,
			ComponentName:   "ContainerQuarters",
			Description:     "Four equal columns",
			RegionCount:     4,
			Ratios:          []Size{Fraction(1, 4), Fraction(1, 4), Fraction(1, 4), Fraction(1, 4)},
			Labels:          []string{"quarter-1", "quarter-2", "quarter-3", "quarter-4"},
			SlotBase:        "container",
			ContainerClass:  "container-quarters",
			ContainerTokens: []string{"flex", "flex-wrap"},
			RegionTokens: [][]string{
				{"w-full", "md:w-1/2", "lg:w-1/4", "px-3"},
				{"w-full", "md:w-1/2", "lg:w-1/4", "px-3"},
				{"w-full", "md:w-1/2", "lg:w-1/4", "px-3"},
				{"w-full", "md:w-1/2", "lg:w-1/4", "px-3"},
			},
			Wrap: WrapAllowed,
		},
		twoColumn(ThirtySeventy, "ContainerThirtySeventy", "30/70 split",
			Fraction(3, 10), Fraction(7, 10), "thirty-left", "seventy-right", "md:w-[30%]", "md:w-[70%]"),
		twoColumn(FortySixty, "ContainerFortySixty", "40/60 split",
			Fraction(2, 5), Fraction(3, 5), "forty-left", "sixty-right", "md:w-2/5", "md:w-3/5"),
		twoColumn(FiftyFifty, "ContainerFiftyFifty", "Two equal columns",
			Fraction(1, 2), Fraction(1, 2), "fifty-left", "fifty-right", "md:w-1/2", "md:w-1/2"),
		twoColumn(SixtyForty, "ContainerSixtyForty", "60/40 split",
			Fraction(3, 5), Fraction(2, 5), "sixty-left", "forty-right", "md:w-3/5", "md:w-2/5"),
		{
			ID:              FullWidth,
			ComponentName:   "ContainerFullWidth",
			Description:     "Single region inside the page gutters",
			RegionCount:     1,
			Ratios:          []Size{Full()},
			Labels:          []string{"full-width"},
			SlotBase:        "container",
			ContainerClass:  "container-full-width",
			ContainerTokens: []string{"container", "mx-auto", "px-4"},
			RegionTokens:    [][]string{{"w-full"}},
			Wrap:            WrapFixed,
		},
		{
			ID:              FullBleed,
			ComponentName:   "ContainerFullBleed",
			Description:     "Single edge-to-edge region without horizontal gutters",
			RegionCount:     1,
			Ratios:          []Size{Full()},
			Labels:          []string{"full-bleed"},
			SlotBase:        "container",
			ContainerClass:  "container-full-bleed",
			ContainerTokens: []string{"w-full", "px-0", "gap-0"},
			RegionTokens:    [][]string{{"w-full", "px-0"}},
			Wrap:            WrapFixed,
		},
		{
			ID:              ColumnSplitter,
			ComponentName:   "ColumnSplitter",
			Description:     "1-8 side-by-side columns sized by authored width tokens",
			SlotBase:        "column",
			ContainerClass:  "column-splitter",
			ContainerTokens: []string{"flex", "flex-wrap"},
			RegionTokens:    [][]string{{}},
			Wrap:            WrapAllowed,
			Split:           SplitColumns,
		},
		{
			ID:              RowSplitter,
			ComponentName:   "RowSplitter",
			Description:     "1-8 stacked full-width bands",
			SlotBase:        "row",
			ContainerClass:  "row-splitter",
			ContainerTokens: []string{"flex", "flex-col"},
			RegionTokens:    [][]string{{"w-full"}},
			Wrap:            WrapFixed,
			Split:           SplitRows,
		},
	}

	catalog = make(map[string]Variant, len(entries))
	byComponent = make(map[string]string, len(entries))
	for _, v := range entries {
		if err := validate(v); err != nil {
			panic(err)
		}
		catalog[v.ID] = v
		byComponent[strings.ToLower(v.ComponentName)] = v.ID
	}
}

func twoColumn(id, component, desc string, left, right Size, leftLabel, rightLabel, leftWidth, rightWidth string) Variant {
	return Variant{
		ID:              id,
		ComponentName:   component,
		Description:     desc,
		RegionCount:     2,
		Ratios:          []Size{left, right},
		Labels:          []string{leftLabel, rightLabel},
		SlotBase:        "container",
		ContainerClass:  "container-" + id,
		ContainerTokens: []string{"flex", "flex-col", "md:flex-row"},
		RegionTokens: [][]string{
			{"w-full", leftWidth, "px-3"},
			{"w-full", rightWidth, "px-3"},
		},
		Wrap: WrapFixed,
	}
}

// validate checks the structural invariants of a catalog entry.
func validate(v Variant) error {
	if v.Dynamic() {
		if v.RegionCount != 0 || len(v.Ratios) != 0 || len(v.RegionTokens) != 1 {
			return fmt.Errorf("variant %s: splitters declare no fixed regions and one token set", v.ID)
		}
		return nil
	}
	if v.RegionCount < 1 || len(v.Ratios) != v.RegionCount ||
		len(v.Labels) != v.RegionCount || len(v.RegionTokens) != v.RegionCount {
		return fmt.Errorf("variant %s: ratios, labels and tokens must match region count %d", v.ID, v.RegionCount)
	}
	if v.RegionCount == 1 {
		if v.Ratios[0].Kind != SizeFull {
			return fmt.Errorf("variant %s: single-region variants use the full size", v.ID)
		}
		return nil
	}
	if num, den := SumFractions(v.Ratios); num != den {
		return fmt.Errorf("variant %s: ratios sum to %d/%d, want 1", v.ID, num, den)
	}
	return nil
}

// =============================================================================
// Lookup
// =============================================================================

// Lookup returns the catalog entry for id.
// It fails with [errors.ErrCodeUnknownVariant] when id is not cataloged.
func Lookup(id string) (Variant, error) {
	v, ok := catalog[id]
	if !ok {
		return Variant{}, errors.New(errors.ErrCodeUnknownVariant, "unknown layout variant %q", id)
	}
	return v.clone(), nil
}

// ByComponentName maps a CMS rendering name to its variant. Matching is
// case-insensitive. ok is false for components that are not layout containers.
func ByComponentName(name string) (Variant, bool) {
	id, ok := byComponent[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Variant{}, false
	}
	return catalog[id].clone(), true
}

// IDs returns all variant identifiers in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// All returns every catalog entry sorted by ID.
func All() []Variant {
	ids := IDs()
	out := make([]Variant, len(ids))
	for i, id := range ids {
		out[i] = catalog[id].clone()
	}
	return out
}
