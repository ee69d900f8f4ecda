// Package pipeline provides the compose → render pipeline for slotframe.
//
// The CLI and the HTTP server both run pages through this package so they
// share caching, defaults and instrumentation.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Compose: resolve every layout on the page into a [compose.Document]
//  2. Render: turn the document into artifacts (html, json, dot, svg, png, pdf)
//
// Both stages are cached by content hash: the document by page hash, each
// artifact by document hash and render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Page:    p,
//	    Formats: []string{"html"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html := result.Artifacts["html"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slotframe/pkg/cache"
	"github.com/matzehuels/slotframe/pkg/compose"
	"github.com/matzehuels/slotframe/pkg/errors"
	"github.com/matzehuels/slotframe/pkg/page"
	"github.com/matzehuels/slotframe/pkg/render"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = render.FormatHTML

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Page is the page to compose. Required.
	Page *page.Page `json:"-"`

	// Compose options
	MaxDepth int `json:"max_depth,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Standalone bool     `json:"standalone,omitempty"`
	Scale      float64  `json:"scale,omitempty"`

	// Refresh bypasses cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the composed page.
	Document *compose.Document

	// PageHash and DocumentHash are the content hashes used as cache keys.
	PageHash     string
	DocumentHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Layouts     int
	Issues      int
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ComposeHit bool // Whether the document came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Page == nil {
		return errors.New(errors.ErrCodeInvalidInput, "page is required")
	}
	if err := o.Page.Validate(); err != nil {
		return err
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = compose.DefaultMaxDepth
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	for _, f := range o.Formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// ComposeOptions returns the compose stage options.
func (o *Options) ComposeOptions() compose.Options {
	return compose.Options{MaxDepth: o.MaxDepth}
}

// RenderOptions returns the render stage options.
func (o *Options) RenderOptions() render.Options {
	return render.Options{Standalone: o.Standalone, Scale: o.Scale}
}

// DocumentKeyOpts returns cache key options for the composed document.
func (o *Options) DocumentKeyOpts() cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{MaxDepth: o.MaxDepth}
}

// ArtifactKeyOpts returns cache key options for one rendered format. Options
// that do not affect the format are left out so they do not split the cache.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case render.FormatHTML:
		opts.Standalone = o.Standalone
	case render.FormatPNG:
		opts.Scale = o.Scale
	}
	return opts
}
