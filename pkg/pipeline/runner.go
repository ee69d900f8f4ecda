package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slotframe/pkg/cache"
	"github.com/matzehuels/slotframe/pkg/compose"
	"github.com/matzehuels/slotframe/pkg/observability"
	"github.com/matzehuels/slotframe/pkg/page"
	"github.com/matzehuels/slotframe/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute composes and renders a page.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	logger := r.logger(opts)
	result := &Result{PageHash: page.Hash(opts.Page)}

	// Stage 1: Compose
	composeStart := time.Now()
	doc, docData, hit, err := r.compose(ctx, result.PageHash, opts)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	result.Document = doc
	result.DocumentHash = cache.Hash(docData)
	result.Stats.ComposeTime = time.Since(composeStart)
	result.Stats.Layouts = doc.Layouts()
	result.Stats.Issues = len(doc.Issues)
	result.CacheInfo.ComposeHit = hit

	logger.Info("composed page",
		"page", doc.Page,
		"layouts", result.Stats.Layouts,
		"issues", result.Stats.Issues,
		"cached", hit,
		"duration", result.Stats.ComposeTime)
	for _, is := range doc.Issues {
		logger.Warn(is.Message, "path", is.Path, "component", is.Component, "level", is.Level)
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, doc, result.DocumentHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Compose composes a page with caching and returns cache hit info.
func (r *Runner) Compose(ctx context.Context, opts Options) (*compose.Document, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	doc, _, hit, err := r.compose(ctx, page.Hash(opts.Page), opts)
	return doc, hit, err
}

func (r *Runner) compose(ctx context.Context, pageHash string, opts Options) (*compose.Document, []byte, bool, error) {
	key := r.Keyer.DocumentKey(pageHash, opts.DocumentKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var doc compose.Document
			if err := json.Unmarshal(data, &doc); err == nil {
				hooks.OnCacheHit(ctx, cache.KeyTypeDocument)
				return &doc, data, true, nil
			}
			// Undecodable entries fall through to recompute.
		} else if err != nil {
			r.logger(opts).Debug("cache read failed", "key", key, "err", err)
		}
		hooks.OnCacheMiss(ctx, cache.KeyTypeDocument)
	}

	doc, err := compose.Compose(ctx, opts.Page, opts.ComposeOptions())
	if err != nil {
		return nil, nil, false, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, false, fmt.Errorf("serialize document: %w", err)
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLDocument); err != nil {
		r.logger(opts).Debug("cache write failed", "key", key, "err", err)
	} else {
		hooks.OnCacheSet(ctx, cache.KeyTypeDocument, len(data))
	}
	return doc, data, false, nil
}

// RenderWithCacheInfo renders doc in every requested format and reports
// whether all artifacts came from cache. docHash keys the artifacts.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *compose.Document, docHash string, opts Options) (map[string][]byte, bool, error) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				hooks.OnCacheHit(ctx, cache.KeyTypeArtifact)
				artifacts[format] = data
				continue
			}
			hooks.OnCacheMiss(ctx, cache.KeyTypeArtifact)
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	composeHooks := observability.Compose()
	composeHooks.OnRenderStart(ctx, missing)
	start := time.Now()
	rendered, err := render.RenderAll(ctx, doc, missing, opts.RenderOptions())
	composeHooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			hooks.OnCacheSet(ctx, cache.KeyTypeArtifact, len(data))
		}
	}
	return artifacts, false, nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
