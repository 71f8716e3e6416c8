package board_test

import (
	"fmt"

	"github.com/matzehuels/slidegraph/pkg/board"
)

func ExampleParse() {
	b, start, err := board.Parse("AA.\n..B\n..B")
	if err != nil {
		panic(err)
	}
	for _, v := range b.Vehicles {
		fmt.Printf("%c %s fixed=%d len=%d\n", v.Name, v.Orientation, v.Fixed, v.Length)
	}
	fmt.Println("start:", start)
	// Output:
	// A horizontal fixed=0 len=2
	// B vertical fixed=2 len=2
	// start: [0 1]
}

func ExampleMoves() {
	b, start, _ := board.Parse("AA.\n..B\n..B")
	for _, m := range board.Moves(b, start) {
		fmt.Println(m, "->", m.State)
	}
	// Output:
	// A+1 -> [1 1]
	// B-1 -> [0 0]
}

func ExampleBoard_Format() {
	b, _, _ := board.Parse("AA.\n..B\n..B")
	fmt.Println(b.Format(board.State{0, 0}))
	// Output:
	// AAB
	// ..B
	// ...
}
