package layout

import (
	"github.com/matzehuels/slotframe/pkg/core/variant"
)

// Request is one layout instance as configured by a page author.
type Request struct {
	// Variant is the catalog id of the layout.
	Variant string `json:"variant" bson:"variant"`

	// Discriminator distinguishes instances of the same variant on one page.
	// Nested layouts receive their parent region's slot key here.
	Discriminator string `json:"discriminator,omitempty" bson:"discriminator,omitempty"`

	// RegionCount is the number of regions of a splitter instance.
	// Fixed variants ignore it.
	RegionCount int `json:"region_count,omitempty" bson:"region_count,omitempty"`

	// EnabledMask lists the active regions ("1,3"). nil enables all regions;
	// a pointer to "" enables none.
	EnabledMask *string `json:"enabled_mask,omitempty" bson:"enabled_mask,omitempty"`

	// RegionStyles and RegionWidths hold per-region override tokens keyed by
	// 1-based index. Widths size column splitter regions.
	RegionStyles map[int]string `json:"region_styles,omitempty" bson:"region_styles,omitempty"`
	RegionWidths map[int]string `json:"region_widths,omitempty" bson:"region_widths,omitempty"`

	// ContainerStyles are free-text override tokens for the outer container.
	ContainerStyles string `json:"container_styles,omitempty" bson:"container_styles,omitempty"`

	ExcludeTopMargin    bool `json:"exclude_top_margin,omitempty" bson:"exclude_top_margin,omitempty"`
	ExcludeBottomMargin bool `json:"exclude_bottom_margin,omitempty" bson:"exclude_bottom_margin,omitempty"`

	// RenderingID becomes the container's element id.
	RenderingID string `json:"rendering_id,omitempty" bson:"rendering_id,omitempty"`
}

// Mask returns a pointer to s for use as [Request.EnabledMask].
func Mask(s string) *string { return &s }

// Tree is a resolved layout. It is a plain value with no retained identity.
type Tree struct {
	Variant         string   `json:"variant" bson:"variant"`
	ContainerID     string   `json:"container_id,omitempty" bson:"container_id,omitempty"`
	ContainerTokens []string `json:"container_tokens" bson:"container_tokens"`
	MarginTop       string   `json:"margin_top" bson:"margin_top"`
	MarginBottom    string   `json:"margin_bottom" bson:"margin_bottom"`
	Regions         []Region `json:"regions" bson:"regions"`
}

// Region is one enabled region of a [Tree].
type Region struct {
	Index   int          `json:"index" bson:"index"`
	SlotKey string       `json:"slot_key" bson:"slot_key"`
	Size    variant.Size `json:"size" bson:"size"`
	Tokens  []string     `json:"tokens" bson:"tokens"`
}

// ClassList returns the full container class sequence a host emits: margins
// first, then the composed container tokens, so authored overrides stay last.
func (t Tree) ClassList() []string {
	out := make([]string, 0, 2+len(t.ContainerTokens))
	out = append(out, t.MarginTop, t.MarginBottom)
	return append(out, t.ContainerTokens...)
}

// SlotKeys returns the slot keys of all regions in order.
func (t Tree) SlotKeys() []string {
	keys := make([]string, len(t.Regions))
	for i, r := range t.Regions {
		keys[i] = r.SlotKey
	}
	return keys
}

// Region returns the region with the given 1-based index, if enabled.
func (t Tree) Region(index int) (Region, bool) {
	for _, r := range t.Regions {
		if r.Index == index {
			return r, true
		}
	}
	return Region{}, false
}
