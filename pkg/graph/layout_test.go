package graph

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/slidegraph/pkg/layout"
	"github.com/matzehuels/slidegraph/pkg/subset"
)

func TestNewLayout(t *testing.T) {
	b, g := sample(t, 10_000)
	sub := subset.Select(g, 2, 100)
	pos := layout.Compute(sub.Nodes, sub.Edges, layout.Options{Seed: 1, Iterations: 50})

	l := NewLayout(b, g, sub, pos)
	if len(l.Nodes) != 7 || len(l.Edges) != 6 {
		t.Fatalf("nodes/edges = %d/%d, want 7/6", len(l.Nodes), len(l.Edges))
	}
	if l.MaxDepth != 2 || l.MaxNodes != 100 || l.Truncated || l.GraphTruncated {
		t.Errorf("header = %+v", l)
	}

	root, ok := l.Node(0)
	if !ok || root.Depth != 0 || !slices.Equal(root.State, []int{2, 4, 4}) {
		t.Errorf("root = %+v, %v", root, ok)
	}
	for id, p := range l.Positions() {
		if p != pos[id] {
			t.Errorf("node %d position %v, want %v", id, p, pos[id])
		}
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	b, g := sample(t, 10_000)
	sub := subset.Select(g, 3, 10)
	pos := layout.Compute(sub.Nodes, sub.Edges, layout.Options{Seed: 2, Iterations: 30})

	l := NewLayout(b, g, sub, pos)
	l.Seed, l.ViewRadius, l.NodeSize, l.EdgeOpacity = 2, 100, 1.5, 0.4

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}

	if got.Seed != 2 || got.NodeSize != 1.5 || got.EdgeOpacity != 0.4 || !got.Truncated {
		t.Errorf("header mismatch: %+v", got)
	}
	if len(got.Nodes) != len(l.Nodes) {
		t.Fatalf("nodes = %d, want %d", len(got.Nodes), len(l.Nodes))
	}
	for i := range l.Nodes {
		if got.Nodes[i].X != l.Nodes[i].X || got.Nodes[i].ID != l.Nodes[i].ID {
			t.Errorf("node %d mismatch", i)
		}
	}
}

func TestUnmarshalLayoutErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"no nodes", `{"nodes": []}`, ErrEmptyLayout},
		{"duplicate", `{"nodes": [{"id": 1}, {"id": 1}]}`, ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalLayout([]byte(tt.input)); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := UnmarshalLayout([]byte("{")); err == nil {
		t.Error("expected syntax error")
	}
}

func TestDrawableEdges(t *testing.T) {
	l := Layout{
		Nodes: []Node{{ID: 0}, {ID: 1}, {ID: 2}},
		Edges: []Edge{{From: 0, To: 1}, {From: 1, To: 7}, {From: 1, To: 2}},
	}
	want := []Edge{{From: 0, To: 1}, {From: 1, To: 2}}
	if got := l.DrawableEdges(); !slices.Equal(got, want) {
		t.Errorf("DrawableEdges = %v, want %v", got, want)
	}
}
