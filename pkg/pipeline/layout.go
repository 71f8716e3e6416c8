package pipeline

import (
	"context"

	"github.com/matzehuels/slidegraph/pkg/board"
	"github.com/matzehuels/slidegraph/pkg/explore"
	"github.com/matzehuels/slidegraph/pkg/graph"
	"github.com/matzehuels/slidegraph/pkg/layout"
	"github.com/matzehuels/slidegraph/pkg/subset"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout selects the depth-bounded subset of g and positions it.
// The returned layout carries the board, the subset's depths and the
// rendering hints from opts.
func ComputeLayout(ctx context.Context, b *board.Board, g *explore.Graph, opts Options) (graph.Layout, *subset.Subset, error) {
	s := subset.Select(g, opts.Depth(), opts.MaxNodes)

	pos, err := layout.ComputeContext(ctx, s.Nodes, s.Edges, opts.LayoutOptions())
	if err != nil {
		return graph.Layout{}, s, err
	}

	l := graph.NewLayout(b, g, s, pos)
	l.Seed = opts.RandSeed()
	l.ViewRadius = opts.ViewRadius
	l.NodeSize = opts.NodeSize
	l.EdgeOpacity = opts.EdgeOpacity
	return l, s, nil
}
