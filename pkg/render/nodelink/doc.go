// Package nodelink renders positioned state graphs as node-link diagrams.
//
// # Overview
//
// Layout coordinates are three-dimensional. [ToDOT] projects them through a
// [render.Projection] and pins every node with a `pos="x,y!"` attribute, so
// Graphviz's neato engine draws the computed layout instead of inventing its
// own. Nodes are small filled circles colored by BFS depth; the start state
// is red. A walk passed in [Options.Path] is drawn on top in green.
//
// # Usage
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [RenderPNG] rasterizes the same projection directly with fogleman/gg and
// needs no Graphviz at all.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering and [github.com/fogleman/gg] for PNG output.
package nodelink
