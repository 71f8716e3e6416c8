// Package pipeline runs the explore → layout → render pipeline for slidegraph.
//
// The CLI and the HTTP API both drive boards through this package, so
// defaults, validation, and caching behave the same on every entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Explore: Parse the board text and enumerate the reachable state graph
//  2. Layout: Select a depth-bounded subset and position it in 3-D
//  3. Render: Produce artifacts (layout JSON, DOT, SVG, PNG, board thumbnail)
//
// Each stage can be run independently or as part of the complete pipeline.
// A [Runner] adds content-addressed caching in front of every stage: graphs
// are keyed by a hash of the canonical board text, layouts by a hash of the
// graph, and artifacts by a hash of the layout.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Board:    boardText,
//	    MaxDepth: pipeline.Int(12),
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	b, g, err := runner.Explore(ctx, opts)
//	l, err := runner.ComputeLayout(ctx, b, g, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidegraph/pkg/board"
	"github.com/matzehuels/slidegraph/pkg/cache"
	errs "github.com/matzehuels/slidegraph/pkg/errors"
	"github.com/matzehuels/slidegraph/pkg/explore"
	"github.com/matzehuels/slidegraph/pkg/graph"
	"github.com/matzehuels/slidegraph/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxStates bounds exploration. Most 6x6 puzzles have far fewer
	// reachable states.
	DefaultMaxStates = 100_000

	// DefaultMaxDepth is the BFS depth shown in a layout.
	DefaultMaxDepth = 30

	// DefaultMaxNodes caps the layout subset. Layout cost is quadratic in
	// this number.
	DefaultMaxNodes = 1000

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultNodeSize and DefaultEdgeOpacity are the rendering hints stored
	// in layouts.
	DefaultNodeSize    = 3.0
	DefaultEdgeOpacity = 0.35
)

// Format constants for output formats.
const (
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatBoard = "board"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatDOT:   true,
	FormatSVG:   true,
	FormatPNG:   true,
	FormatBoard: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Explore options
	Board     string `json:"board"`
	MaxStates int    `json:"max_states,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`

	// Layout options. A nil MaxDepth or Seed selects the default; an
	// explicit zero is kept, so MaxDepth 0 lays out the start state alone.
	MaxDepth    *int    `json:"max_depth,omitempty"`
	MaxNodes    int     `json:"max_nodes,omitempty"`
	Seed        *uint64 `json:"seed,omitempty"`
	Iterations  int     `json:"iterations,omitempty"`
	ViewRadius  float64 `json:"view_radius,omitempty"`
	MinDistance float64 `json:"min_distance,omitempty"`
	NodeSize    float64 `json:"node_size,omitempty"`
	EdgeOpacity float64 `json:"edge_opacity,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Path     []int    `json:"path,omitempty"`  // Walk to highlight, as node IDs
	State    int      `json:"state,omitempty"` // Node drawn by the board format
	Labels   bool     `json:"labels,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	CellSize int      `json:"cell_size,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger                    `json:"-"`
	Workers  int                            `json:"-"`
	Snapshot func(int, map[int]layout.Vec3) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Board and Start are the parsed puzzle.
	Board *board.Board
	Start board.State

	// Graph is the explored state graph.
	Graph *explore.Graph

	// GraphHash is the content hash of the serialized graph.
	GraphHash string

	// Layout is the positioned subset.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	States          int
	Edges           int
	LayoutNodes     int
	LayoutEdges     int
	Truncated       bool // Exploration stopped at MaxStates
	LayoutTruncated bool // Subset stopped at MaxNodes
	ExploreTime     time.Duration
	LayoutTime      time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ExploreHit bool // Whether the graph came from cache
	LayoutHit  bool // Whether the layout came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg, png, board)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForExplore(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForExplore checks the board text and exploration budget.
func (o *Options) ValidateForExplore() error {
	if err := errs.ValidateBoardText(o.Board); err != nil {
		return err
	}
	if o.MaxStates == 0 {
		o.MaxStates = DefaultMaxStates
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return errs.ValidateLimits(o.MaxStates, 0, 1)
}

// SetLayoutDefaults sets default values for subset selection and layout.
func (o *Options) SetLayoutDefaults() {
	def := layout.DefaultOptions()
	if o.MaxDepth == nil {
		o.MaxDepth = Int(DefaultMaxDepth)
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.Seed == nil {
		o.Seed = Uint64(DefaultSeed)
	}
	if o.Iterations == 0 {
		o.Iterations = def.Iterations
	}
	if o.ViewRadius == 0 {
		o.ViewRadius = def.ViewRadius
	}
	if o.MinDistance == 0 {
		o.MinDistance = def.MinDistance
	}
	if o.NodeSize == 0 {
		o.NodeSize = DefaultNodeSize
	}
	if o.EdgeOpacity == 0 {
		o.EdgeOpacity = DefaultEdgeOpacity
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errs.ValidateLimits(1, o.Depth(), o.MaxNodes); err != nil {
		return err
	}
	if o.Iterations < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "iterations must not be negative, got %d", o.Iterations)
	}
	if o.ViewRadius < 0 || o.MinDistance < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "view radius and min distance must not be negative")
	}
	if o.EdgeOpacity < 0 || o.EdgeOpacity > 1 {
		return errs.New(errs.ErrCodeInvalidInput, "edge opacity must be within [0, 1], got %g", o.EdgeOpacity)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.State < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "state must not be negative, got %d", o.State)
	}
	return ValidateFormats(o.Formats)
}

// Int returns a pointer to v, for setting MaxDepth.
func Int(v int) *int { return &v }

// Uint64 returns a pointer to v, for setting Seed.
func Uint64(v uint64) *uint64 { return &v }

// Depth returns the subset depth, or DefaultMaxDepth when MaxDepth is unset.
func (o *Options) Depth() int {
	if o.MaxDepth == nil {
		return DefaultMaxDepth
	}
	return *o.MaxDepth
}

// RandSeed returns the layout seed, or DefaultSeed when Seed is unset.
func (o *Options) RandSeed() uint64 {
	if o.Seed == nil {
		return DefaultSeed
	}
	return *o.Seed
}

// LayoutOptions returns the force-layout parameters for these options.
func (o *Options) LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	opts.Iterations = o.Iterations
	opts.ViewRadius = o.ViewRadius
	opts.MinDistance = o.MinDistance
	opts.Seed = o.RandSeed()
	opts.Workers = o.Workers
	opts.Snapshot = o.Snapshot
	return opts
}

// GraphKeyOpts returns cache key options for exploration.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{MaxStates: o.MaxStates}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		MaxDepth:    o.Depth(),
		MaxNodes:    o.MaxNodes,
		Seed:        o.RandSeed(),
		Iterations:  o.Iterations,
		ViewRadius:  o.ViewRadius,
		MinDistance: o.MinDistance,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatBoard:
		k.CellSize = o.CellSize
		k.State = o.State
	case FormatDOT, FormatSVG, FormatPNG:
		k.Scale = o.Scale
		k.Path = o.Path
		k.Labels = o.Labels
	}
	return k
}
