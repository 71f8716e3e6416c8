// Package subset selects a depth-bounded, node-capped slice of a state graph
// for rendering.
//
// Nodes are chosen breadth-first from the root: every node at depth d is
// considered before any node at depth d+1, so the result is always a
// connected ball around the start state. The selected nodes carry their BFS
// depth, and the edges between them are reduced to one undirected pair each.
package subset

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"

	"github.com/matzehuels/slidegraph/pkg/explore"
)

// Edge is an undirected pair of state indices with From < To.
type Edge struct {
	From int
	To   int
}

// Subset is the render-oriented view of a [explore.Graph].
type Subset struct {
	// Nodes lists the selected state indices, depth ascending.
	Nodes []int
	// Depth maps each selected index to its hop distance from the root.
	Depth map[int]int
	// Edges are the induced undirected edges in selected-node order.
	Edges []Edge

	MaxDepth int
	MaxNodes int
	// Truncated is set when MaxNodes cut off a node within MaxDepth.
	Truncated bool
}

// Len returns the number of selected nodes.
func (s *Subset) Len() int { return len(s.Nodes) }

// Contains reports whether state index i was selected.
func (s *Subset) Contains(i int) bool {
	_, ok := s.Depth[i]
	return ok
}

// Pairs returns the edges as index pairs.
func (s *Subset) Pairs() [][2]int {
	out := make([][2]int, len(s.Edges))
	for i, e := range s.Edges {
		out[i] = [2]int{e.From, e.To}
	}
	return out
}

// Depths returns the BFS hop distance of every state from index 0, or -1 for
// states not reachable through g's edges. Edges pointing outside the graph are
// ignored.
func Depths(g *explore.Graph) []int {
	depth, _ := bfs(g)
	return depth
}

// bfs returns the depth table and the order in which states were reached.
func bfs(g *explore.Graph) ([]int, []int) {
	n := g.Len()
	depth := make([]int, n)
	for i := range depth {
		depth[i] = -1
	}
	if n == 0 {
		return depth, nil
	}

	order := make([]int, 0, n)
	depth[0] = 0
	queue := linkedlistqueue.New()
	queue.Enqueue(0)
	for !queue.Empty() {
		v, _ := queue.Dequeue()
		u := v.(int)
		order = append(order, u)
		for _, w := range g.Neighbors(u) {
			if w < 0 || w >= n || depth[w] >= 0 {
				continue
			}
			depth[w] = depth[u] + 1
			queue.Enqueue(w)
		}
	}
	return depth, order
}

// Select picks at most maxNodes states within maxDepth hops of the root,
// filling depth by depth in discovery order, and keeps the edges whose
// endpoints were both picked. A negative maxDepth or a maxNodes below 1
// yields an empty subset.
func Select(g *explore.Graph, maxDepth, maxNodes int) *Subset {
	s := &Subset{
		Depth:    make(map[int]int),
		MaxDepth: maxDepth,
		MaxNodes: maxNodes,
	}
	if maxDepth < 0 || maxNodes < 1 || g.Len() == 0 {
		return s
	}

	depth, order := bfs(g)

	// BFS order is already depth-ascending, so the first maxNodes entries
	// within maxDepth are exactly the bucket fill.
	for _, u := range order {
		if depth[u] > maxDepth {
			break
		}
		if len(s.Nodes) == maxNodes {
			s.Truncated = true
			break
		}
		s.Nodes = append(s.Nodes, u)
		s.Depth[u] = depth[u]
	}

	seen := make(map[Edge]bool)
	for _, u := range s.Nodes {
		for _, v := range g.Neighbors(u) {
			if !s.Contains(v) || v == u {
				continue
			}
			e := Edge{From: min(u, v), To: max(u, v)}
			if seen[e] {
				continue
			}
			seen[e] = true
			s.Edges = append(s.Edges, e)
		}
	}
	return s
}
