package board

import (
	"testing"
)

func TestNeighborsSample(t *testing.T) {
	b, start := mustParse(t, sampleBoard)

	got := Neighbors(b, start)
	want := []State{{1, 4, 4}, {3, 4, 4}}
	if len(got) != len(want) {
		t.Fatalf("neighbors = %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("neighbor[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if !start.Equal(State{2, 4, 4}) {
		t.Errorf("Neighbors mutated its input: %v", start)
	}
}

func TestMovesOrder(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"sample", sampleBoard, []string{"A-1", "A+1"}},
		{"horizontal then vertical", "AA.\n..B\n..B", []string{"A+1", "B-1"}},
		{"blocked", "AAB\nCCB", nil},
		{"both directions", ".AA.\n....", []string{"A-1", "A+1"}},
		{"vertical both", ".\nA\nA\n.", []string{"A-1", "A+1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, s := mustParse(t, tt.input)
			moves := Moves(b, s)
			if len(moves) != len(tt.want) {
				t.Fatalf("moves = %v, want %v", moves, tt.want)
			}
			for i, m := range moves {
				if m.String() != tt.want[i] {
					t.Errorf("move[%d] = %s, want %s", i, m, tt.want[i])
				}
				if err := b.Validate(m.State); err != nil {
					t.Errorf("move %s produced invalid state: %v", m, err)
				}
			}
		})
	}
}

func TestMovesReversible(t *testing.T) {
	b, start := mustParse(t, sampleBoard)

	frontier := []State{start}
	seen := map[string]bool{start.Key(): true}
	for len(frontier) > 0 {
		s := frontier[0]
		frontier = frontier[1:]
		for _, n := range Neighbors(b, s) {
			back := false
			for _, nn := range Neighbors(b, n) {
				if nn.Equal(s) {
					back = true
					break
				}
			}
			if !back {
				t.Fatalf("%v -> %v has no inverse move", s, n)
			}
			if !seen[n.Key()] {
				seen[n.Key()] = true
				frontier = append(frontier, n)
			}
		}
	}
	if len(seen) != 89 {
		t.Errorf("reachable states = %d, want 89", len(seen))
	}
}
