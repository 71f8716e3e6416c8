package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/slidegraph/pkg/graph"
	"github.com/matzehuels/slidegraph/pkg/layout"
	"github.com/matzehuels/slidegraph/pkg/render"
)

const (
	// DefaultScale is the number of points per layout unit.
	DefaultScale = 3.0

	// DefaultNodeSize is the node diameter in layout units.
	DefaultNodeSize = 3.0

	// DefaultEdgeOpacity is used when the layout carries no hint.
	DefaultEdgeOpacity = 0.35
)

// Options configures node-link rendering.
type Options struct {
	// Projection views the 3-D layout. Nil means render.DefaultProjection.
	Projection *render.Projection

	// Scale is points (DOT) or pixels (PNG) per layout unit.
	Scale float64

	// Path highlights a walk through the graph, given as node IDs.
	Path []int

	// Labels prints node IDs next to each node.
	Labels bool
}

func (o Options) withDefaults() Options {
	if o.Projection == nil {
		p := render.DefaultProjection
		o.Projection = &p
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	return o
}

// point is a projected node ready for drawing.
type point struct {
	node  graph.Node
	x, y  float64
	depth float64
}

func project(l graph.Layout, opts Options) []point {
	pts := make([]point, len(l.Nodes))
	for i, n := range l.Nodes {
		x, y, d := opts.Projection.Project(layout.Vec3{X: n.X, Y: n.Y, Z: n.Z})
		pts[i] = point{node: n, x: x * opts.Scale, y: y * opts.Scale, depth: d}
	}
	return pts
}

// pathEdges returns consecutive pairs of path as an undirected set.
func pathEdges(path []int) map[[2]int]bool {
	out := make(map[[2]int]bool, len(path))
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if a > b {
			a, b = b, a
		}
		out[[2]int{a, b}] = true
	}
	return out
}

func nodeSize(l graph.Layout) float64 {
	if l.NodeSize > 0 {
		return l.NodeSize
	}
	return DefaultNodeSize
}

func edgeAlpha(l graph.Layout) uint8 {
	op := l.EdgeOpacity
	if op <= 0 || op > 1 {
		op = DefaultEdgeOpacity
	}
	return uint8(math.Round(op * 255))
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// ToDOT converts a layout to an undirected Graphviz graph with pinned node
// positions. Edges whose endpoints are missing are dropped.
func ToDOT(l graph.Layout, opts Options) string {
	opts = opts.withDefaults()
	onPath := make(map[int]bool, len(opts.Path))
	for _, id := range opts.Path {
		onPath[id] = true
	}
	walked := pathEdges(opts.Path)

	width := nodeSize(l) * opts.Scale / 72

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fixedsize=true, width=%s, penwidth=0, label=\"\"];\n", fmtFloat(width))
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=0.6];\n", render.Hex(color.RGBA{0x64, 0x74, 0x8b, edgeAlpha(l)}))
	buf.WriteString("\n")

	for _, p := range project(l, opts) {
		fill := render.DepthColor(p.node.Depth, l.MaxDepth)
		if onPath[p.node.ID] && p.node.Depth > 0 {
			fill = render.PathColor
		}
		fmt.Fprintf(&buf, "  %d [pos=\"%s,%s!\", fillcolor=%q", p.node.ID, fmtFloat(p.x), fmtFloat(p.y), render.Hex(fill))
		if opts.Labels {
			fmt.Fprintf(&buf, ", xlabel=\"%d\", fontsize=8", p.node.ID)
		}
		buf.WriteString("];\n")
	}

	buf.WriteString("\n")
	for _, e := range l.DrawableEdges() {
		a, b := e.From, e.To
		if a > b {
			a, b = b, a
		}
		if walked[[2]int{a, b}] {
			fmt.Fprintf(&buf, "  %d -- %d [color=%q, penwidth=2];\n", e.From, e.To, render.Hex(render.PathColor))
			continue
		}
		fmt.Fprintf(&buf, "  %d -- %d;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz's neato engine, which
// honors the pinned positions written by ToDOT.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's fixed-unit svg tag with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
