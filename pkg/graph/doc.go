// Package graph provides the serialization types for explored state graphs
// and their positioned subsets.
//
// This package defines the canonical wire format used for JSON files, API
// responses, caching and walk sessions.
//
// # Core Types
//
//   - [Graph]: an explored state space (graph.json)
//   - [Layout]: a positioned, depth-bounded subset (layout.json)
//   - [Board], [Vehicle]: the puzzle definition shared by both
//
// # Graph Serialization
//
//	{
//	  "board": {"height": 6, "width": 6, "vehicles": [
//	    {"name": "A", "orientation": "horizontal", "fixed": 3, "length": 2, "index": 0}
//	  ]},
//	  "start": [2],
//	  "states": [[2], [1], [3]],
//	  "edges": [[1, 2], [0], [0]],
//	  "max_states": 10000,
//	  "truncated": false
//	}
//
// Common operations:
//
//	b, g, _ := graph.ReadGraphFile("graph.json")  // File → board + graph
//	graph.WriteGraphFile(b, g, "graph.json")      // board + graph → File
//	data, _ := graph.MarshalGraph(b, g)           // board + graph → []byte
//
// Reading always validates: the board is rebuilt with [board.New], every
// state is checked for overlap and bounds, and every edge must point at an
// existing state. A file that passes is safe to hand to the cursor and the
// subset selector.
//
// # Layout Serialization
//
// A [Layout] carries one node per selected state with its BFS depth, 3-D
// position and offsets, plus the undirected edges between them. Renderers
// should draw [Layout.DrawableEdges], which skips edges whose endpoints were
// not selected.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
