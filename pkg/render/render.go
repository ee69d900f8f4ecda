package render

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/slotframe/pkg/compose"
	"github.com/matzehuels/slotframe/pkg/errors"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists every supported format.
var Formats = []string{FormatJSON, FormatHTML, FormatDOT, FormatSVG, FormatPNG, FormatPDF}

// ContentTypes maps formats to their MIME types.
var ContentTypes = map[string]string{
	FormatJSON: "application/json",
	FormatHTML: "text/html; charset=utf-8",
	FormatDOT:  "text/vnd.graphviz",
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
}

// Options configures rendering.
type Options struct {
	// Standalone wraps the HTML skeleton in a complete document.
	Standalone bool
	// Scale is the PNG resolution factor. Zero means 2.
	Scale float64
}

// ParseFormats splits a comma-separated format list, dropping duplicates.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no output format given")
	}
	return out, nil
}

// ValidateFormat checks that f is a supported format.
func ValidateFormat(f string) error {
	if !slices.Contains(Formats, f) {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", f, strings.Join(Formats, ", "))
	}
	return nil
}

// Render produces a single artifact.
func Render(ctx context.Context, doc *compose.Document, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return JSON(doc)
	case FormatHTML:
		return HTML(doc, opts.Standalone)
	case FormatDOT:
		return []byte(DOT(doc)), nil
	case FormatSVG, FormatPNG, FormatPDF:
		svg, err := SVG(ctx, DOT(doc))
		if err != nil {
			return nil, err
		}
		return fromSVG(ctx, svg, format, opts)
	}
	return nil, ValidateFormat(format)
}

// RenderAll produces one artifact per format. The diagram is laid out once
// and shared by the svg, png and pdf outputs.
func RenderAll(ctx context.Context, doc *compose.Document, formats []string, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(formats))
	var svg []byte
	for _, f := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			data []byte
			err  error
		)
		switch f {
		case FormatSVG, FormatPNG, FormatPDF:
			if svg == nil {
				svg, err = SVG(ctx, DOT(doc))
			}
			if err == nil {
				data, err = fromSVG(ctx, svg, f, opts)
			}
		default:
			data, err = Render(ctx, doc, f, opts)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		out[f] = data
	}
	return out, nil
}

func fromSVG(ctx context.Context, svg []byte, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatPDF:
		return ToPDF(ctx, svg)
	case FormatPNG:
		scale := opts.Scale
		if scale <= 0 {
			scale = 2
		}
		return ToPNG(ctx, svg, scale)
	}
	return svg, nil
}

// JSON encodes the document as indented JSON.
func JSON(doc *compose.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return append(data, '\n'), nil
}
