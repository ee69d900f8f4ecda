// Package params normalizes loosely typed authoring parameters into layout
// requests.
//
// CMS renderings carry their configuration as a flat string map. This package
// is the only place that reads those strings; everything downstream works on
// the typed [layout.Request]. Recognized keys:
//
//	DynamicPlaceholderId   discriminator (absent -> "")
//	EnabledPlaceholders    enabled mask, splitters only (absent -> all)
//	ColumnWidth{N}         width tokens of column N, column splitter only
//	Styles{N}              style tokens of region N, splitters only
//	GridParameters         container grid tokens, placed before styles
//	styles                 container style tokens
//	excludeTopMargin       "1" excludes the top margin
//	excludeBottomMargin    "1" excludes the bottom margin
//	RenderingIdentifier    container element id
//
// Unknown keys are ignored.
package params

import (
	"strconv"
	"strings"

	"github.com/matzehuels/slotframe/pkg/core/layout"
	"github.com/matzehuels/slotframe/pkg/core/mask"
	"github.com/matzehuels/slotframe/pkg/core/variant"
	"github.com/matzehuels/slotframe/pkg/errors"
)

// Authoring parameter keys.
const (
	KeyDiscriminator     = "DynamicPlaceholderId"
	KeyEnabled           = "EnabledPlaceholders"
	KeyColumnWidthPrefix = "ColumnWidth"
	KeyStylesPrefix      = "Styles"
	KeyGridParameters    = "GridParameters"
	KeyStyles            = "styles"
	KeyExcludeTopMargin  = "excludeTopMargin"
	KeyExcludeBottom     = "excludeBottomMargin"
	KeyRenderingID       = "RenderingIdentifier"
)

// Request builds the layout request for variant id from authoring parameters.
// It fails only with errors.ErrCodeUnknownVariant.
func Request(id string, p map[string]string) (layout.Request, error) {
	v, err := variant.Lookup(id)
	if err != nil {
		return layout.Request{}, err
	}
	return build(v, p), nil
}

// ForComponent builds the layout request for a CMS rendering name such as
// "ColumnSplitter". ok is false when the component is not a layout container.
func ForComponent(component string, p map[string]string) (req layout.Request, ok bool) {
	v, ok := variant.ByComponentName(component)
	if !ok {
		return layout.Request{}, false
	}
	return build(v, p), true
}

func build(v variant.Variant, p map[string]string) layout.Request {
	req := layout.Request{
		Variant:             v.ID,
		Discriminator:       strings.TrimSpace(p[KeyDiscriminator]),
		ContainerStyles:     containerStyles(p),
		ExcludeTopMargin:    flag(p[KeyExcludeTopMargin]),
		ExcludeBottomMargin: flag(p[KeyExcludeBottom]),
		RenderingID:         strings.TrimSpace(p[KeyRenderingID]),
	}
	if !v.Dynamic() {
		return req
	}

	if m, ok := p[KeyEnabled]; ok {
		req.EnabledMask = &m
	}
	req.RegionStyles = indexed(p, KeyStylesPrefix)
	if v.Split == variant.SplitColumns {
		req.RegionWidths = indexed(p, KeyColumnWidthPrefix)
	}
	req.RegionCount = inferRegionCount(req)
	return req
}

// inferRegionCount returns the highest region index the parameters mention,
// bounded by variant.MaxSplitRegions, or 0 when none is mentioned.
func inferRegionCount(req layout.Request) int {
	hi := mask.MaxIndex(req.EnabledMask)
	for _, m := range []map[int]string{req.RegionStyles, req.RegionWidths} {
		for n := range m {
			hi = max(hi, n)
		}
	}
	return min(hi, variant.MaxSplitRegions)
}

// indexed collects "<prefix>{N}" keys into a map keyed by N. Keys whose
// suffix is not a positive integer are ignored.
func indexed(p map[string]string, prefix string) map[int]string {
	var out map[int]string
	for k, val := range p {
		suffix, ok := strings.CutPrefix(k, prefix)
		if !ok || suffix == "" {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil || n < 1 {
			continue
		}
		if out == nil {
			out = make(map[int]string)
		}
		out[n] = strings.TrimSpace(val)
	}
	return out
}

func containerStyles(p map[string]string) string {
	grid := strings.TrimSpace(p[KeyGridParameters])
	styles := strings.TrimSpace(p[KeyStyles])
	switch {
	case grid == "":
		return styles
	case styles == "":
		return grid
	default:
		return grid + " " + styles
	}
}

// flag reports whether an authoring checkbox is set. Only "1" counts.
func flag(s string) bool {
	return strings.TrimSpace(s) == "1"
}

// FromPairs parses "key=value" pairs, as given on the command line, into a
// parameter map. Later pairs override earlier ones.
func FromPairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, val, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "parameter %q must have the form key=value", pair)
		}
		out[k] = val
	}
	return out, nil
}
