package board

import "fmt"

// Move is a unit-step slide of one vehicle. Delta is -1 for left/up and +1
// for right/down; State is the resulting configuration.
type Move struct {
	Vehicle int
	Name    rune
	Delta   int
	State   State
}

// String formats the move as the vehicle symbol and signed step, e.g. "A+1".
func (m Move) String() string {
	return fmt.Sprintf("%c%+d", m.Name, m.Delta)
}

// Moves returns every legal unit-step move from s.
//
// The occupancy grid is built once; then each vehicle, in index order, checks
// the cell just before its leading edge and the cell just past its trailing
// edge. Each vehicle contributes zero, one or two moves, left/up first. The
// order is stable so that exploration is reproducible.
func Moves(b *Board, s State) []Move {
	grid := b.occupancy(s)
	moves := make([]Move, 0, 2*len(b.Vehicles))

	for i, v := range b.Vehicles {
		if i >= len(s) {
			break
		}
		off := s[i]
		if before := off - 1; before >= 0 && grid[b.cell(v, before)] < 0 {
			moves = append(moves, step(v, s, -1))
		}
		if after := off + v.Length; after < b.extent(v) && grid[b.cell(v, after)] < 0 {
			moves = append(moves, step(v, s, +1))
		}
	}
	return moves
}

// Neighbors returns the states reachable from s by one unit-step move, in
// the same order as [Moves].
func Neighbors(b *Board, s State) []State {
	moves := Moves(b, s)
	out := make([]State, len(moves))
	for i, m := range moves {
		out[i] = m.State
	}
	return out
}

func step(v Vehicle, s State, delta int) Move {
	next := s.Clone()
	next[v.Index] += delta
	return Move{Vehicle: v.Index, Name: v.Name, Delta: delta, State: next}
}
