package explore

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"

	"github.com/matzehuels/slidegraph/pkg/board"
)

// Graph is the explored state space. States[i] is the configuration with
// index i; Edges[i] lists the indices reachable from it by one move, in move
// order. The graph is immutable once returned.
type Graph struct {
	States    []board.State
	Edges     [][]int
	MaxStates int
	Truncated bool
}

// Len returns the number of discovered states.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.States)
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, e := range g.Edges {
		n += len(e)
	}
	return n
}

// Neighbors returns the out-edges of state i, or nil when i is out of range.
func (g *Graph) Neighbors(i int) []int {
	if g == nil || i < 0 || i >= len(g.Edges) {
		return nil
	}
	return g.Edges[i]
}

// HasEdge reports whether the graph holds the directed edge from→to.
func (g *Graph) HasEdge(from, to int) bool {
	for _, v := range g.Neighbors(from) {
		if v == to {
			return true
		}
	}
	return false
}

// Index returns the index assigned to s, if it was discovered.
func (g *Graph) Index(s board.State) (int, bool) {
	if g == nil {
		return 0, false
	}
	for i, st := range g.States {
		if st.Equal(s) {
			return i, true
		}
	}
	return 0, false
}

// stateTable is the per-run arena mapping state keys to indices.
type stateTable struct {
	index  map[string]int
	states []board.State
	edges  [][]int
}

func newStateTable(start board.State) *stateTable {
	t := &stateTable{index: make(map[string]int)}
	t.add(start)
	return t
}

func (t *stateTable) add(s board.State) int {
	id := len(t.states)
	t.index[s.Key()] = id
	t.states = append(t.states, s)
	t.edges = append(t.edges, nil)
	return id
}

func (t *stateTable) len() int { return len(t.states) }

// Explore enumerates the states reachable from start, up to maxStates of them.
// A maxStates below 1 is treated as 1. The start state must be valid for b;
// use [board.Board.Validate] first when it comes from an untrusted source.
func Explore(b *board.Board, start board.State, maxStates int) *Graph {
	maxStates = max(maxStates, 1)

	table := newStateTable(start.Clone())
	queue := linkedlistqueue.New()
	queue.Enqueue(0)
	truncated := false

	for !queue.Empty() && table.len() < maxStates {
		v, _ := queue.Dequeue()
		u := v.(int)

		for _, next := range board.Neighbors(b, table.states[u]) {
			if id, seen := table.index[next.Key()]; seen {
				table.edges[u] = append(table.edges[u], id)
				continue
			}
			if table.len() >= maxStates {
				truncated = true
				continue
			}
			id := table.add(next)
			table.edges[u] = append(table.edges[u], id)
			queue.Enqueue(id)
		}
	}
	// Unexpanded stubs only lose information if they have moves.
	for !truncated && !queue.Empty() {
		v, _ := queue.Dequeue()
		if len(board.Neighbors(b, table.states[v.(int)])) > 0 {
			truncated = true
		}
	}

	return &Graph{
		States:    table.states,
		Edges:     table.edges,
		MaxStates: maxStates,
		Truncated: truncated,
	}
}
