package layout_test

import (
	"fmt"
	"math"

	"github.com/matzehuels/slidegraph/pkg/layout"
	"github.com/matzehuels/slidegraph/pkg/subset"
)

func ExampleCompute() {
	nodes := []int{0, 1, 2, 3}
	edges := []subset.Edge{{From: 0, To: 1}, {From: 0, To: 2}, {From: 0, To: 3}}

	pos := layout.Compute(nodes, edges, layout.Options{Seed: 1, ViewRadius: 50})

	fmt.Println("nodes:", len(pos))
	fmt.Println("radius:", math.Round(layout.MaxRadius(pos)))
	fmt.Println("separated:", layout.MinSeparation(pos) >= 4-1e-6)
	// Output:
	// nodes: 4
	// radius: 50
	// separated: true
}
