// Package pkg provides the core libraries for slidegraph, a state-space
// explorer and 3-D layout engine for sliding-block puzzles.
//
// # Overview
//
// A Rush Hour board is a grid of straight vehicles that slide along their own
// axis. Every reachable placement of the vehicles is a node of an undirected
// graph whose edges are single-cell slides. The pkg directory is organized
// into four areas:
//
//  1. Domain logic: [board], [explore], [subset], [layout], [cursor]
//  2. Serialization: [graph] (graph.json and layout.json)
//  3. Orchestration: [pipeline] (explore → layout → render, with caching)
//  4. Infrastructure: [cache], [session], [config], [observability], [api]
//
// # Architecture
//
// The typical data flow:
//
//	Board text
//	     ↓
//	[board] package (parse into vehicles + start state)
//	     ↓
//	[explore] package (breadth-first enumeration under a state budget)
//	     ↓
//	[subset] package (depth-bounded, node-capped selection from the start)
//	     ↓
//	[layout] package (force-directed 3-D positions)
//	     ↓
//	[render] packages (DOT/SVG/PNG node-link views, board thumbnails)
//
// # Quick Start
//
//	b, start, err := board.Parse(text)
//	if err != nil {
//	    return err
//	}
//	g := explore.Explore(b, start, 100_000)
//	s := subset.Select(g, 30, 1000)
//	pos := layout.Compute(s.Nodes, s.Edges, layout.DefaultOptions())
//
// Most callers use [pipeline.Runner] instead, which adds validation, caching
// and rendering on top of the same steps.
//
// # Determinism
//
// Parsing, move generation, exploration and selection are fully
// deterministic. The layout's only randomness is its initial scatter, which
// is driven by a seed; equal inputs and seeds give identical layouts and
// therefore identical cache keys.
package pkg
