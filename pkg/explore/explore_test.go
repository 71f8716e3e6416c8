package explore

import (
	"slices"
	"testing"

	"github.com/matzehuels/slidegraph/pkg/board"
)

const sampleBoard = `
......
......
......
..AA..
..CB..
..CB..
`

func sample(t *testing.T) (*board.Board, board.State) {
	t.Helper()
	b, s, err := board.Parse(sampleBoard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return b, s
}

func TestExploreFull(t *testing.T) {
	b, start := sample(t)
	g := Explore(b, start, 100_000)

	if g.Len() != 89 {
		t.Errorf("states = %d, want 89", g.Len())
	}
	if g.EdgeCount() != 336 {
		t.Errorf("edges = %d, want 336", g.EdgeCount())
	}
	if g.Truncated {
		t.Error("full exploration should not be truncated")
	}

	wantStates := []board.State{
		{2, 4, 4}, {1, 4, 4}, {3, 4, 4}, {0, 4, 4}, {1, 3, 4}, {4, 4, 4},
	}
	for i, want := range wantStates {
		if !g.States[i].Equal(want) {
			t.Errorf("states[%d] = %v, want %v", i, g.States[i], want)
		}
	}

	wantEdges := [][]int{{1, 2}, {3, 0, 4}, {0, 5, 6}, {1, 7, 8}}
	for i, want := range wantEdges {
		if !slices.Equal(g.Edges[i], want) {
			t.Errorf("edges[%d] = %v, want %v", i, g.Edges[i], want)
		}
	}
}

func TestExploreInvariants(t *testing.T) {
	b, start := sample(t)
	g := Explore(b, start, 100_000)

	seen := make(map[string]bool, g.Len())
	for i, s := range g.States {
		if err := b.Validate(s); err != nil {
			t.Errorf("state %d %v invalid: %v", i, s, err)
		}
		if seen[s.Key()] {
			t.Errorf("state %v discovered twice", s)
		}
		seen[s.Key()] = true
	}

	for u, out := range g.Edges {
		for _, v := range out {
			if !g.HasEdge(v, u) {
				t.Errorf("edge %d->%d has no reverse", u, v)
			}
			diff := 0
			for k := range g.States[u] {
				d := g.States[u][k] - g.States[v][k]
				if d != 0 {
					diff++
					if d != 1 && d != -1 {
						t.Errorf("edge %d->%d moves vehicle %d by %d", u, v, k, d)
					}
				}
			}
			if diff != 1 {
				t.Errorf("edge %d->%d changes %d vehicles, want 1", u, v, diff)
			}
		}
	}
}

func TestExploreDeterministic(t *testing.T) {
	b, start := sample(t)
	g1 := Explore(b, start, 100_000)
	g2 := Explore(b, start, 100_000)

	if g1.Len() != g2.Len() {
		t.Fatalf("lengths differ: %d vs %d", g1.Len(), g2.Len())
	}
	for i := range g1.States {
		if !g1.States[i].Equal(g2.States[i]) {
			t.Fatalf("state %d differs: %v vs %v", i, g1.States[i], g2.States[i])
		}
		if !slices.Equal(g1.Edges[i], g2.Edges[i]) {
			t.Fatalf("edges %d differ: %v vs %v", i, g1.Edges[i], g2.Edges[i])
		}
	}
}

func TestExploreBudget(t *testing.T) {
	b, start := sample(t)

	tests := []struct {
		name      string
		maxStates int
		wantLen   int
		wantEdges [][]int
	}{
		{"clamped to one", 0, 1, [][]int{nil}},
		{"one", 1, 1, [][]int{nil}},
		{"drops second neighbor", 2, 2, [][]int{{1}, nil}},
		{"stubs keep inbound edges", 3, 3, [][]int{{1, 2}, nil, nil}},
		{
			name:      "ten",
			maxStates: 10,
			wantLen:   10,
			wantEdges: [][]int{{1, 2}, {3, 0, 4}, {0, 5, 6}, {1, 7, 8}, {7, 9, 1}, nil, nil, nil, nil, nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Explore(b, start, tt.maxStates)
			if g.Len() != tt.wantLen {
				t.Fatalf("states = %d, want %d", g.Len(), tt.wantLen)
			}
			if !g.Truncated {
				t.Error("Truncated = false, want true")
			}
			for i, want := range tt.wantEdges {
				if !slices.Equal(g.Edges[i], want) {
					t.Errorf("edges[%d] = %v, want %v", i, g.Edges[i], want)
				}
			}
			for _, out := range g.Edges {
				for _, v := range out {
					if v < 0 || v >= g.Len() {
						t.Errorf("edge target %d out of range", v)
					}
				}
			}
		})
	}
}

func TestExploreExactBudget(t *testing.T) {
	b, start := sample(t)
	g := Explore(b, start, 89)
	if g.Len() != 89 {
		t.Fatalf("states = %d, want 89", g.Len())
	}
	// The last state fills the budget while others are still queued.
	if !g.Truncated {
		t.Error("Truncated = false with unexpanded states")
	}

	g = Explore(b, start, 90)
	if g.Truncated || g.EdgeCount() != 336 {
		t.Errorf("budget 90: truncated=%v edges=%d", g.Truncated, g.EdgeCount())
	}
}

func TestExploreStuckBoard(t *testing.T) {
	b, start, err := board.Parse("AB\nAB")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g := Explore(b, start, 1)
	if g.Len() != 1 || g.EdgeCount() != 0 {
		t.Errorf("graph = %d states, %d edges; want 1, 0", g.Len(), g.EdgeCount())
	}
	if g.Truncated {
		t.Error("Truncated = true for a board with no moves")
	}

	b, start = sample(t)
	if g := Explore(b, start, 1); !g.Truncated {
		t.Error("budget 1 on a movable board should be truncated")
	}
}

func TestExploreDoesNotAliasStart(t *testing.T) {
	b, start := sample(t)
	g := Explore(b, start, 10)
	start[0] = 0
	if !g.States[0].Equal(board.State{2, 4, 4}) {
		t.Errorf("states[0] = %v after mutating caller's start", g.States[0])
	}
}

func TestGraphLookups(t *testing.T) {
	b, start := sample(t)
	g := Explore(b, start, 100_000)

	if i, ok := g.Index(board.State{1, 3, 4}); !ok || i != 4 {
		t.Errorf("Index([1 3 4]) = %d, %v; want 4, true", i, ok)
	}
	if _, ok := g.Index(board.State{2, 3, 4}); ok {
		t.Error("Index should not find an overlapping state")
	}
	if g.Neighbors(-1) != nil || g.Neighbors(g.Len()) != nil {
		t.Error("Neighbors out of range should be nil")
	}

	var nilGraph *Graph
	if nilGraph.Len() != 0 || nilGraph.EdgeCount() != 0 {
		t.Error("nil graph should be empty")
	}
}

func TestStats(t *testing.T) {
	b, start := sample(t)

	full := Explore(b, start, 100_000).Stats()
	if full.States != 89 || full.Edges != 336 || full.UndirectedEdges != 168 || full.Expanded != 89 {
		t.Errorf("full stats = %+v", full)
	}
	if full.BranchingFactor < 3.77 || full.BranchingFactor > 3.78 {
		t.Errorf("branching factor = %f, want ~3.775", full.BranchingFactor)
	}

	capped := Explore(b, start, 10).Stats()
	want := Stats{States: 10, Edges: 14, UndirectedEdges: 10, Expanded: 5, BranchingFactor: 2.8, Truncated: true}
	if capped != want {
		t.Errorf("capped stats = %+v, want %+v", capped, want)
	}
}
