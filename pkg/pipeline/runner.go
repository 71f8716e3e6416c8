package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidegraph/pkg/board"
	"github.com/matzehuels/slidegraph/pkg/cache"
	"github.com/matzehuels/slidegraph/pkg/explore"
	"github.com/matzehuels/slidegraph/pkg/graph"
	"github.com/matzehuels/slidegraph/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
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

// Execute runs the complete explore → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Explore
	exploreStart := time.Now()
	b, start, g, exploreHit, err := r.ExploreWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Board, result.Start, result.Graph = b, start, g
	result.Stats.ExploreTime = time.Since(exploreStart)
	result.Stats.States = g.Len()
	result.Stats.Edges = g.EdgeCount()
	result.Stats.Truncated = g.Truncated
	result.CacheInfo.ExploreHit = exploreHit
	result.GraphHash = graphHash(b, g)

	opts.Logger.Info("explored states",
		"states", g.Len(),
		"edges", g.EdgeCount(),
		"cached", exploreHit,
		"duration", result.Stats.ExploreTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, b, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.LayoutNodes = len(l.Nodes)
	result.Stats.LayoutEdges = len(l.Edges)
	result.Stats.LayoutTruncated = l.Truncated
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("computed layout",
		"nodes", len(l.Nodes),
		"edges", len(l.Edges),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ExploreWithCacheInfo parses and explores the board with caching and
// returns cache hit info. Truncated graphs are logged at warn level but are
// not errors.
func (r *Runner) ExploreWithCacheInfo(ctx context.Context, opts Options) (*board.Board, board.State, *explore.Graph, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForExplore(); err != nil {
		return nil, nil, nil, false, err
	}

	canonical, err := canonicalBoard(opts.Board)
	if err != nil {
		return nil, nil, nil, false, err
	}
	cacheKey := r.Keyer.GraphKey(cache.Hash([]byte(canonical)), opts.GraphKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			b, g, err := graph.ReadGraph(bytes.NewReader(data))
			if err == nil && g.Len() > 0 {
				observability.Cache().OnCacheHit(ctx, "graph")
				return b, g.States[0].Clone(), g, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	hooks := observability.Explore()
	hooks.OnExploreStart(ctx, opts.MaxStates)
	t0 := time.Now()

	b, start, g, err := Explore(opts)
	if err != nil {
		return nil, nil, nil, false, err
	}
	hooks.OnExploreComplete(ctx, g.Len(), g.EdgeCount(), g.Truncated, time.Since(t0))

	if g.Truncated {
		opts.Logger.Warn("state budget exhausted; graph is partial",
			"max_states", opts.MaxStates,
			"states", g.Len())
	}

	if data, err := graph.MarshalGraph(b, g); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.GraphTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		} else {
			opts.Logger.Debug("cache write failed", "key", cacheKey, "err", err)
		}
	}

	return b, start, g, false, nil
}

// Explore is a convenience wrapper that calls ExploreWithCacheInfo and discards the cache hit info.
func (r *Runner) Explore(ctx context.Context, opts Options) (*board.Board, *explore.Graph, error) {
	b, _, g, _, err := r.ExploreWithCacheInfo(ctx, opts)
	return b, g, err
}

// ComputeLayoutWithCacheInfo selects and positions a subset with caching and
// returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, b *board.Board, g *explore.Graph, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(graphHash(b, g), opts.LayoutKeyOpts())

	// Try cache first
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := graph.UnmarshalLayout(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				// Rendering hints are not part of the key.
				cached.NodeSize = opts.NodeSize
				cached.EdgeOpacity = opts.EdgeOpacity
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Layout()
	t0 := time.Now()

	l, s, err := ComputeLayout(ctx, b, g, opts)
	if s != nil {
		observability.Explore().OnSelect(ctx, opts.Depth(), s.Len(), len(s.Edges), s.Truncated)
		hooks.OnLayoutStart(ctx, s.Len(), len(s.Edges), opts.Iterations)
	}
	hooks.OnLayoutComplete(ctx, len(l.Nodes), time.Since(t0), err)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if l.Truncated {
		opts.Logger.Warn("node cap reached; layout shows a partial subset",
			"max_nodes", opts.MaxNodes,
			"max_depth", opts.Depth())
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return l, false, nil
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, b *board.Board, g *explore.Graph, opts Options) (graph.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, b, g, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from layout data
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		if !allCached {
			break
		}
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Layout()
	hooks.OnRenderStart(ctx, opts.Formats)
	t0 := time.Now()

	rendered, err := Render(l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(t0), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
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

// graphHash is the content hash of the serialized graph, or "" if it cannot
// be serialized.
func graphHash(b *board.Board, g *explore.Graph) string {
	data, err := graph.MarshalGraph(b, g)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
