// Package variant holds the closed catalog of layout variants.
//
// # Overview
//
// Every layout a page author can place is one entry of a fixed, hand-authored
// table. An entry declares how many regions the layout has, how wide each
// region is, how its regions are labeled in slot keys, and which default style
// tokens its container and regions carry:
//
//	quarters         4 x 1/4
//	thirty-seventy   3/10, 7/10
//	forty-sixty      2/5, 3/5
//	fifty-fifty      1/2, 1/2
//	sixty-forty      3/5, 2/5
//	full-width       full
//	full-bleed       full, no horizontal gutters
//	column-splitter  1-8 columns, widths authored per column
//	row-splitter     1-8 full-width bands
//
// Adding a ratio is a new catalog entry, not new code: the resolver in
// [github.com/matzehuels/slotframe/pkg/core/layout] is driven entirely by this
// table.
//
// # Sizes
//
// Region widths are [Size] values. Fractions are exact rationals, so the
// invariant "ratios sum to 1" is checked without floating point tolerance when
// the catalog is built. Single-region variants use the [Full] sentinel, column
// splitter regions carry the author's raw width token ([Authored]) and fall
// back to [Auto].
//
// # Lookup
//
// [Lookup] fails with errors.ErrCodeUnknownVariant for ids outside the
// catalog. [ByComponentName] maps CMS rendering names such as
// "ContainerFiftyFifty" to their variant. The catalog is built once at init
// and never mutated; all accessors return copies.
package variant
