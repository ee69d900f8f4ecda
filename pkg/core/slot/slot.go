// Package slot derives the names under which layout regions are handed to the
// content-placement mechanism.
//
// A slot key has the shape
//
//	<base>-<label>-<discriminator>
//
// where base comes from the layout variant ("container", "column", "row"), label
// names the region within the variant ("fifty-left", "3") and discriminator tells
// apart several instances of the same variant on one page. Keys are part of the
// wire contract: the placement mechanism persists content assignments by key, so
// the same authored configuration must always yield the same keys.
package slot

// Key returns the slot key for one region of a layout instance.
//
// An empty discriminator still yields a syntactically valid key ending in "-";
// upstream authoring parameters make the discriminator optional.
func Key(base, discriminator, label string) string {
	return Prefix(base, label) + "-" + discriminator
}

// Prefix returns the discriminator-independent part of a key, "<base>-<label>".
// It doubles as the structural style class of the region.
func Prefix(base, label string) string {
	return base + "-" + label
}
