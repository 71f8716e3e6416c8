package explore_test

import (
	"fmt"

	"github.com/matzehuels/slidegraph/pkg/board"
	"github.com/matzehuels/slidegraph/pkg/explore"
)

func ExampleExplore() {
	b, start, _ := board.Parse("AA.\n..B\n..B")
	g := explore.Explore(b, start, 1000)

	for i, s := range g.States {
		fmt.Println(i, s, g.Edges[i])
	}
	fmt.Println("truncated:", g.Truncated)
	// Output:
	// 0 [0 1] [1 2]
	// 1 [1 1] [0]
	// 2 [0 0] [0]
	// truncated: false
}
