package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/slidegraph/pkg/board"
	"github.com/matzehuels/slidegraph/pkg/explore"
	"github.com/matzehuels/slidegraph/pkg/layout"
	"github.com/matzehuels/slidegraph/pkg/subset"
)

// =============================================================================
// Layout - Positioned Subset (layout.json)
// =============================================================================

// Layout is the serialized, positioned subset handed to renderers.
//
// NodeSize and EdgeOpacity are rendering hints only; nothing in the layout
// computation reads them.
type Layout struct {
	Board Board  `json:"board" bson:"board"`
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`

	MaxDepth       int     `json:"max_depth" bson:"max_depth"`
	MaxNodes       int     `json:"max_nodes" bson:"max_nodes"`
	Seed           uint64  `json:"seed" bson:"seed"`
	ViewRadius     float64 `json:"view_radius" bson:"view_radius"`
	NodeSize       float64 `json:"node_size,omitempty" bson:"node_size,omitempty"`
	EdgeOpacity    float64 `json:"edge_opacity,omitempty" bson:"edge_opacity,omitempty"`
	Truncated      bool    `json:"truncated" bson:"truncated"`
	GraphTruncated bool    `json:"graph_truncated" bson:"graph_truncated"`
}

// Node is one positioned state.
type Node struct {
	ID    int     `json:"id" bson:"id"`
	Depth int     `json:"depth" bson:"depth"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	Z     float64 `json:"z" bson:"z"`
	State []int   `json:"state" bson:"state"`
}

// Edge is an undirected pair of node IDs.
type Edge struct {
	From int `json:"from" bson:"from"`
	To   int `json:"to" bson:"to"`
}

// NewLayout assembles a Layout from the pipeline stages. Nodes follow the
// subset order; nodes without a position are placed at the origin.
func NewLayout(b *board.Board, g *explore.Graph, s *subset.Subset, pos map[int]layout.Vec3) Layout {
	out := Layout{
		Board:          FromBoard(b),
		Nodes:          make([]Node, 0, s.Len()),
		Edges:          make([]Edge, len(s.Edges)),
		MaxDepth:       s.MaxDepth,
		MaxNodes:       s.MaxNodes,
		Truncated:      s.Truncated,
		GraphTruncated: g.Truncated,
	}
	for _, id := range s.Nodes {
		p := pos[id]
		n := Node{ID: id, Depth: s.Depth[id], X: p.X, Y: p.Y, Z: p.Z}
		if id >= 0 && id < g.Len() {
			n.State = []int(g.States[id].Clone())
		}
		out.Nodes = append(out.Nodes, n)
	}
	for i, e := range s.Edges {
		out.Edges[i] = Edge{From: e.From, To: e.To}
	}
	return out
}

// Positions returns the node coordinates keyed by ID.
func (l *Layout) Positions() map[int]layout.Vec3 {
	out := make(map[int]layout.Vec3, len(l.Nodes))
	for _, n := range l.Nodes {
		out[n.ID] = layout.Vec3{X: n.X, Y: n.Y, Z: n.Z}
	}
	return out
}

// Node returns the node with the given ID.
func (l *Layout) Node(id int) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// DrawableEdges returns the edges whose endpoints are both present.
// Others are skipped silently.
func (l *Layout) DrawableEdges() []Edge {
	ids := make(map[int]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		ids[n.ID] = true
	}
	out := make([]Edge, 0, len(l.Edges))
	for _, e := range l.Edges {
		if ids[e.From] && ids[e.To] {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// It requires at least one node and unique node IDs.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if len(l.Nodes) == 0 {
		return Layout{}, ErrEmptyLayout
	}
	seen := make(map[int]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		if seen[n.ID] {
			return Layout{}, fmt.Errorf("node %d: %w", n.ID, ErrDuplicateID)
		}
		seen[n.ID] = true
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
