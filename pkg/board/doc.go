// Package board models sliding-block puzzle boards.
//
// A [Board] is an immutable grid of Height×Width cells occupied by straight
// [Vehicle] pieces. Each vehicle slides along a single free axis: horizontal
// vehicles stay in their row, vertical vehicles stay in their column. A
// [State] assigns every vehicle its leading-edge offset along that axis, so a
// Board plus a State fully determines which cell each vehicle covers.
//
// # Board Text
//
// Boards are described as text, one row per line:
//
//	......
//	......
//	......
//	..AA..
//	..CB..
//	..CB..
//
// The '.' marker (and any whitespace) denotes an empty cell; every other
// character is a cell of the vehicle with that symbol. Shorter rows are
// right-padded with empty cells and blank lines around the grid are ignored.
// [Parse] converts the text into a Board and its initial State.
//
// Vehicle indices are assigned by sorting symbols in ascending order. State
// vectors are addressed by index, never by symbol, so this ordering is part of
// the State format.
//
// # Moves
//
// [Moves] and [Neighbors] generate every legal unit-step move from a State:
// one vehicle sliding one cell into adjacent empty space. Results are ordered
// by vehicle index, with left/up before right/down, which makes state-space
// exploration reproducible.
package board
