package layout

import (
	"github.com/matzehuels/slotframe/pkg/core/margin"
	"github.com/matzehuels/slotframe/pkg/core/mask"
	"github.com/matzehuels/slotframe/pkg/core/slot"
	"github.com/matzehuels/slotframe/pkg/core/style"
	"github.com/matzehuels/slotframe/pkg/core/variant"
)

// Resolve computes the layout tree for req.
//
// The only error is errors.ErrCodeUnknownVariant, returned when req.Variant is
// not cataloged. Every other malformed input degrades to a default: bad mask
// tokens and out-of-range override indices are ignored, and an empty
// discriminator yields keys ending in "-".
func Resolve(req Request) (Tree, error) {
	v, err := variant.Lookup(req.Variant)
	if err != nil {
		return Tree{}, err
	}

	enabled := mask.Parse(req.EnabledMask, v.Regions(req.RegionCount))

	regions := make([]Region, 0, len(enabled))
	for _, i := range enabled {
		regions = append(regions, resolveRegion(v, i, req))
	}

	m := margin.Resolve(v, req.ExcludeTopMargin, req.ExcludeBottomMargin)

	return Tree{
		Variant:         v.ID,
		ContainerID:     req.RenderingID,
		ContainerTokens: style.Container(v, req.ContainerStyles),
		MarginTop:       m.Top,
		MarginBottom:    m.Bottom,
		Regions:         regions,
	}, nil
}

func resolveRegion(v variant.Variant, i int, req Request) Region {
	r := Region{
		Index:   i,
		SlotKey: slot.Key(v.SlotBase, req.Discriminator, v.Label(i)),
		Size:    v.Ratio(i),
	}
	if v.Split == variant.SplitColumns {
		width := req.RegionWidths[i]
		r.Size = variant.Authored(width)
		r.Tokens = style.Region(v, i, width, req.RegionStyles[i])
		return r
	}
	r.Tokens = style.Region(v, i, req.RegionStyles[i])
	return r
}
