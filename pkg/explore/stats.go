package explore

// Stats summarizes a graph for logging and the CLI.
type Stats struct {
	States          int     `json:"states"`
	Edges           int     `json:"edges"`
	UndirectedEdges int     `json:"undirected_edges"`
	Expanded        int     `json:"expanded"`
	BranchingFactor float64 `json:"branching_factor"`
	Truncated       bool    `json:"truncated"`
}

// Stats computes summary counts. Expanded counts states with at least one
// out-edge; BranchingFactor is the mean out-degree over those states.
func (g *Graph) Stats() Stats {
	st := Stats{States: g.Len(), Truncated: g != nil && g.Truncated}
	if g == nil {
		return st
	}
	for u, out := range g.Edges {
		st.Edges += len(out)
		if len(out) > 0 {
			st.Expanded++
		}
		for _, v := range out {
			if u < v || !g.HasEdge(v, u) {
				st.UndirectedEdges++
			}
		}
	}
	if st.Expanded > 0 {
		st.BranchingFactor = float64(st.Edges) / float64(st.Expanded)
	}
	return st
}
