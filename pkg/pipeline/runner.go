package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kindredlab/kindred/pkg/cache"
	"github.com/kindredlab/kindred/pkg/graph"
	"github.com/kindredlab/kindred/pkg/kin"
	"github.com/kindredlab/kindred/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
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

// Execute runs the complete validate → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, g *kin.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Graph:     g,
		Artifacts: make(map[string][]byte),
	}
	result.Stats.PersonCount = g.PersonCount()
	result.Stats.PartnershipCount = g.PartnershipCount()

	// Stage 1: Validate
	validateStart := time.Now()
	graphHash, validateHit, err := r.ValidateWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	result.GraphHash = graphHash
	result.Stats.ValidateTime = time.Since(validateStart)
	result.CacheInfo.ValidateHit = validateHit

	r.Logger.Info("validated graph",
		"people", g.PersonCount(),
		"partnerships", g.PartnershipCount(),
		"duration", result.Stats.ValidateTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"orientation", l.Orientation,
		"nodes", len(l.Nodes),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ValidateWithCacheInfo checks the graph's structural invariants and
// returns its content hash. A cache hit means byte-identical input was
// already validated, so the check is skipped entirely.
func (r *Runner) ValidateWithCacheInfo(ctx context.Context, g *kin.Graph, opts Options) (string, bool, error) {
	r.applyLogger(&opts)

	data, err := graph.MarshalGraph(g)
	if err != nil {
		return "", false, fmt.Errorf("serialize graph: %w", err)
	}
	graphHash := cache.Hash(data)
	cacheKey := r.Keyer.GraphKey(graphHash)

	if !opts.Refresh {
		if _, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "graph")
			return graphHash, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	observability.Pipeline().OnValidateStart(ctx, g.PersonCount())
	start := time.Now()
	verr := kin.Validate(g)
	observability.Pipeline().OnValidateComplete(ctx, g.PersonCount(), time.Since(start), verr)
	if verr != nil {
		return "", false, verr
	}

	if !opts.Refresh {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.GraphTTL)
		observability.Cache().OnCacheSet(ctx, "graph", len(data))
	}

	return graphHash, false, nil
}

// Validate is a convenience wrapper that calls ValidateWithCacheInfo and discards the cache hit info.
func (r *Runner) Validate(ctx context.Context, g *kin.Graph) error {
	_, _, err := r.ValidateWithCacheInfo(ctx, g, Options{})
	return err
}

// GenerateLayoutWithCacheInfo generates a layout with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, g *kin.Graph, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key
	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return graph.Layout{}, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	graphHash := cache.Hash(graphData)
	cacheKey := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := graph.UnmarshalLayout(data)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	// Generate layout
	observability.Pipeline().OnLayoutStart(ctx, opts.Orientation, g.PersonCount())
	start := time.Now()
	l, err := GenerateLayout(g, opts)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Orientation, time.Since(start), err)
	if err != nil {
		return graph.Layout{}, false, err
	}

	// Cache the result
	if data, err := graph.MarshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return l, false, nil
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, g *kin.Graph, opts Options) (graph.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, g *kin.Graph, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		} else {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered := make(map[string][]byte)
	for _, format := range opts.Formats {
		observability.Pipeline().OnRenderStart(ctx, format)
		start := time.Now()

		single := opts
		single.Formats = []string{format}
		out, err := RenderFromLayout(l, g, single)
		size := 0
		if err == nil {
			size = len(out[format])
		}
		observability.Pipeline().OnRenderComplete(ctx, format, size, time.Since(start), err)
		if err != nil {
			return nil, false, err
		}
		rendered[format] = out[format]
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, g *kin.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, g, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
