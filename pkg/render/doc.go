// Package render turns positioned state graphs and boards into images.
//
// # Overview
//
// Layouts are three-dimensional; renderers view them through a fixed
// [Projection] and color nodes by BFS depth with [DepthColor]. The
// subpackages produce the actual outputs:
//
//   - [nodelink]: Graphviz DOT with pinned positions, SVG via go-graphviz,
//     and a rasterized PNG of the same projection
//   - [boardimg]: PNG thumbnails of a single board state
//
// # Usage
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(l, nodelink.Options{})
//	thumb, err := boardimg.Render(b, state, boardimg.Options{})
//
// [nodelink]: github.com/matzehuels/slidegraph/pkg/render/nodelink
// [boardimg]: github.com/matzehuels/slidegraph/pkg/render/boardimg
package render
