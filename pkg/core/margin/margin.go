// Package margin resolves the vertical spacing tokens of a layout container.
package margin

import "github.com/matzehuels/slotframe/pkg/core/variant"

// Zero tokens emitted when an author excludes a margin.
const (
	ZeroTop    = "mt-0"
	ZeroBottom = "mb-0"
)

// Margins holds the top and bottom spacing tokens of a container.
type Margins struct {
	Top    string
	Bottom string
}

var (
	columns = Margins{Top: "mt-4", Bottom: "mb-4"}
	full    = Margins{Top: "mt-8", Bottom: "mb-8"}
)

// defaults is keyed by variant id. Full-width and full-bleed sections use a
// larger vertical rhythm than column layouts.
var defaults = map[string]Margins{
	variant.Quarters:       columns,
	variant.ThirtySeventy:  columns,
	variant.FortySixty:     columns,
	variant.FiftyFifty:     columns,
	variant.SixtyForty:     columns,
	variant.FullWidth:      full,
	variant.FullBleed:      full,
	variant.ColumnSplitter: columns,
	variant.RowSplitter:    columns,
}

// Default returns the variant's default margins.
func Default(v variant.Variant) Margins {
	if m, ok := defaults[v.ID]; ok {
		return m
	}
	return columns
}

// Resolve returns the margins of a container, replacing each side the author
// excluded with its zero token.
func Resolve(v variant.Variant, excludeTop, excludeBottom bool) Margins {
	m := Default(v)
	if excludeTop {
		m.Top = ZeroTop
	}
	if excludeBottom {
		m.Bottom = ZeroBottom
	}
	return m
}
