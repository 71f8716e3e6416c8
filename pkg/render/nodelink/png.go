package nodelink

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"slices"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/matzehuels/slidegraph/pkg/fonts"
	"github.com/matzehuels/slidegraph/pkg/graph"
	"github.com/matzehuels/slidegraph/pkg/render"
)

// DefaultImageSize is the PNG edge length in pixels.
const DefaultImageSize = 800

// RenderPNG rasterizes the projected layout into a square image of
// DefaultImageSize pixels. Nodes are painted back to front.
func RenderPNG(l graph.Layout, opts Options) ([]byte, error) {
	if len(l.Nodes) == 0 {
		return nil, graph.ErrEmptyLayout
	}
	// Scale is refit to the canvas below; project in layout units.
	scale := opts.Scale
	opts.Scale = 1
	opts = opts.withDefaults()
	pts := project(l, opts)

	size := float64(DefaultImageSize)
	margin := size * 0.05
	extent := 0.0
	for _, p := range pts {
		extent = math.Max(extent, math.Max(math.Abs(p.x), math.Abs(p.y)))
	}
	fit := 1.0
	if extent > 0 {
		fit = (size/2 - margin) / extent
	}
	if scale > 0 {
		fit = math.Min(fit, scale)
	}
	toScreen := func(p point) (float64, float64) {
		return size/2 + p.x*fit, size/2 - p.y*fit
	}

	dc := gg.NewContext(DefaultImageSize, DefaultImageSize)
	dc.SetColor(color.White)
	dc.Clear()

	byID := make(map[int]point, len(pts))
	for _, p := range pts {
		byID[p.node.ID] = p
	}

	dc.SetLineWidth(1)
	dc.SetColor(color.RGBA{0x64, 0x74, 0x8b, edgeAlpha(l)})
	for _, e := range l.DrawableEdges() {
		x1, y1 := toScreen(byID[e.From])
		x2, y2 := toScreen(byID[e.To])
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	onPath := make(map[int]bool, len(opts.Path))
	if len(opts.Path) > 1 {
		dc.SetLineWidth(3)
		dc.SetColor(render.PathColor)
		for i := 1; i < len(opts.Path); i++ {
			a, okA := byID[opts.Path[i-1]]
			b, okB := byID[opts.Path[i]]
			if !okA || !okB {
				continue
			}
			x1, y1 := toScreen(a)
			x2, y2 := toScreen(b)
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
		}
	}
	for _, id := range opts.Path {
		onPath[id] = true
	}

	order := slices.Clone(pts)
	slices.SortStableFunc(order, func(a, b point) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})

	r := math.Max(nodeSize(l)*fit/2, 1.5)
	if opts.Labels {
		dc.SetFontFace(fonts.Bold(11))
	}
	for _, p := range order {
		fill := render.DepthColor(p.node.Depth, l.MaxDepth)
		if onPath[p.node.ID] && p.node.Depth > 0 {
			fill = render.PathColor
		}
		x, y := toScreen(p)
		dc.DrawCircle(x, y, r)
		dc.SetColor(fill)
		dc.Fill()
		if opts.Labels {
			dc.SetColor(color.Black)
			dc.DrawStringAnchored(strconv.Itoa(p.node.ID), x+r+2, y, 0, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
