package board

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Empty is the board-text marker for an unoccupied cell.
const Empty = '.'

// Orientation is the free axis of a vehicle.
type Orientation int

const (
	// Horizontal vehicles occupy a single row and slide left or right.
	Horizontal Orientation = iota
	// Vertical vehicles occupy a single column and slide up or down.
	Vertical
)

// String returns "horizontal" or "vertical".
func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Vehicle is a straight-line occupant of the board.
//
// Fixed is the row (horizontal) or column (vertical) the vehicle never
// leaves. Index is the vehicle's position in [Board.Vehicles] and the offset
// of its entry in every [State].
type Vehicle struct {
	Name        rune
	Orientation Orientation
	Fixed       int
	Length      int
	Index       int
}

// Board is the static puzzle definition. It is immutable once built by
// [Parse] or [New] and safe to share between goroutines.
type Board struct {
	Height   int
	Width    int
	Vehicles []Vehicle
}

// New builds a board from an explicit vehicle list. Vehicle indices are
// reassigned to match slice positions. It returns a *ParseError when the
// dimensions are empty, a symbol is reserved or repeated, a vehicle is shorter
// than two cells, or a fixed row/column lies outside the grid.
func New(height, width int, vehicles []Vehicle) (*Board, error) {
	if height <= 0 {
		return nil, &ParseError{Row: -1, Col: -1, Err: ErrEmptyBoard}
	}
	if width <= 0 {
		return nil, &ParseError{Row: -1, Col: -1, Err: ErrZeroWidth}
	}

	seen := make(map[rune]bool, len(vehicles))
	vs := make([]Vehicle, len(vehicles))
	for i, v := range vehicles {
		if isEmptyCell(v.Name) || v.Name == 0 {
			return nil, &ParseError{Symbol: v.Name, Row: -1, Col: -1, Err: ErrInvalidSymbol}
		}
		if seen[v.Name] {
			return nil, &ParseError{Symbol: v.Name, Row: -1, Col: -1, Err: ErrDuplicateVehicle}
		}
		seen[v.Name] = true
		if v.Length < 2 {
			return nil, &ParseError{Symbol: v.Name, Row: -1, Col: -1, Err: ErrVehicleTooShort}
		}
		limit := height
		if v.Orientation == Vertical {
			limit = width
		}
		if v.Fixed < 0 || v.Fixed >= limit {
			return nil, &ParseError{Symbol: v.Name, Row: -1, Col: -1, Err: ErrOutOfBounds}
		}
		v.Index = i
		vs[i] = v
	}

	return &Board{Height: height, Width: width, Vehicles: vs}, nil
}

// extent returns the number of cells along the vehicle's free axis.
func (b *Board) extent(v Vehicle) int {
	if v.Orientation == Vertical {
		return b.Height
	}
	return b.Width
}

// cell returns the flat grid index of position pos along the vehicle's free axis.
func (b *Board) cell(v Vehicle, pos int) int {
	if v.Orientation == Vertical {
		return pos*b.Width + v.Fixed
	}
	return v.Fixed*b.Width + pos
}

// rowCol converts a flat grid index back to coordinates.
func (b *Board) rowCol(idx int) (int, int) {
	return idx / b.Width, idx % b.Width
}

// occupancy builds the flat Height×Width grid of vehicle indices (-1 for
// empty). Cells outside the grid are skipped and later vehicles win on
// overlap; use [Board.Validate] to detect either condition.
func (b *Board) occupancy(s State) []int {
	grid := make([]int, b.Height*b.Width)
	for i := range grid {
		grid[i] = -1
	}
	for i, v := range b.Vehicles {
		if i >= len(s) {
			break
		}
		ext := b.extent(v)
		for k := 0; k < v.Length; k++ {
			pos := s[i] + k
			if pos < 0 || pos >= ext {
				continue
			}
			grid[b.cell(v, pos)] = i
		}
	}
	return grid
}

// Validate checks that s has one offset per vehicle, that every vehicle lies
// inside the grid, and that no two vehicles share a cell.
func (b *Board) Validate(s State) error {
	if len(s) != len(b.Vehicles) {
		return &ParseError{Row: -1, Col: -1, Err: fmt.Errorf("%w: got %d offsets for %d vehicles", ErrStateLength, len(s), len(b.Vehicles))}
	}

	grid := make([]int, b.Height*b.Width)
	for i := range grid {
		grid[i] = -1
	}
	for i, v := range b.Vehicles {
		if s[i] < 0 || s[i]+v.Length > b.extent(v) {
			return &ParseError{Symbol: v.Name, Row: -1, Col: -1, Err: ErrOutOfBounds}
		}
		for k := 0; k < v.Length; k++ {
			idx := b.cell(v, s[i]+k)
			if other := grid[idx]; other >= 0 {
				row, col := b.rowCol(idx)
				return &ParseError{
					Symbol: v.Name,
					Row:    row,
					Col:    col,
					Err:    fmt.Errorf("%w with %q", ErrOverlap, b.Vehicles[other].Name),
				}
			}
			grid[idx] = i
		}
	}
	return nil
}

// Grid projects s onto the board as rows of vehicle indices, with -1 for
// empty cells. It fails when s is not a valid placement.
func (b *Board) Grid(s State) ([][]int, error) {
	if err := b.Validate(s); err != nil {
		return nil, err
	}
	flat := b.occupancy(s)
	rows := make([][]int, b.Height)
	for r := range rows {
		rows[r] = flat[r*b.Width : (r+1)*b.Width : (r+1)*b.Width]
	}
	return rows, nil
}

// Format renders s back to board text, one line per row with no trailing
// newline. The result parses back to the same board when s is valid.
// Invalid placements are rendered best-effort.
func (b *Board) Format(s State) string {
	grid := b.occupancy(s)
	var sb strings.Builder
	sb.Grow(b.Height * (b.Width + 1))
	for r := 0; r < b.Height; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.Width; c++ {
			if idx := grid[r*b.Width+c]; idx >= 0 {
				sb.WriteRune(b.Vehicles[idx].Name)
			} else {
				sb.WriteRune(Empty)
			}
		}
	}
	return sb.String()
}

// Vehicle returns the vehicle with the given symbol.
func (b *Board) Vehicle(name rune) (Vehicle, bool) {
	for _, v := range b.Vehicles {
		if v.Name == name {
			return v, true
		}
	}
	return Vehicle{}, false
}

// State is one configuration of vehicle offsets, indexed by [Vehicle.Index].
type State []int

// Key returns the deduplication key: decimal offsets joined by commas.
func (s State) Key() string {
	buf := make([]byte, 0, len(s)*3)
	for i, v := range s {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, int64(v), 10)
	}
	return string(buf)
}

// Equal reports whether two states hold the same offsets.
func (s State) Equal(o State) bool { return slices.Equal(s, o) }

// Clone returns an independent copy of s.
func (s State) Clone() State { return slices.Clone(s) }

// ParseKey is the inverse of [State.Key].
func ParseKey(key string) (State, error) {
	if key == "" {
		return State{}, nil
	}
	parts := strings.Split(key, ",")
	s := make(State, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("state key %q: %w", key, err)
		}
		s[i] = v
	}
	return s, nil
}

func isEmptyCell(r rune) bool {
	return r == Empty || unicode.IsSpace(r)
}
