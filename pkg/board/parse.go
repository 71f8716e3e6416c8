package board

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"
)

// Sentinel errors wrapped by [ParseError]. Use errors.Is to classify a failure.
var (
	// ErrEmptyBoard is returned when the board text contains no rows.
	ErrEmptyBoard = errors.New("empty board")

	// ErrZeroWidth is returned when no row contains any cell.
	ErrZeroWidth = errors.New("board has zero width")

	// ErrVehicleTooShort is returned for vehicles covering fewer than two cells.
	ErrVehicleTooShort = errors.New("vehicle shorter than 2 cells")

	// ErrVehicleShape is returned when a symbol's cells are not one straight,
	// contiguous row or column segment (L-shapes, gaps, 2-D blocks).
	ErrVehicleShape = errors.New("vehicle is not a straight contiguous line")

	// ErrOverlap is returned when two vehicles claim the same cell.
	ErrOverlap = errors.New("vehicles overlap")

	// ErrOutOfBounds is returned when a vehicle extends past the grid.
	ErrOutOfBounds = errors.New("vehicle out of bounds")

	// ErrStateLength is returned when a state does not hold one offset per vehicle.
	ErrStateLength = errors.New("state length does not match vehicle count")

	// ErrInvalidSymbol is returned by [New] for a vehicle named with the empty
	// marker or whitespace.
	ErrInvalidSymbol = errors.New("invalid vehicle symbol")

	// ErrDuplicateVehicle is returned by [New] when two vehicles share a symbol.
	ErrDuplicateVehicle = errors.New("duplicate vehicle symbol")
)

// ParseError describes a board-format violation. Symbol is zero and Row/Col
// are -1 when the error is not tied to a vehicle or cell.
type ParseError struct {
	Symbol rune
	Row    int
	Col    int
	Err    error
}

// Error names the offending symbol and coordinate when known.
func (e *ParseError) Error() string {
	switch {
	case e.Symbol != 0 && e.Row >= 0:
		return fmt.Sprintf("vehicle %q at row %d, col %d: %v", e.Symbol, e.Row, e.Col, e.Err)
	case e.Symbol != 0:
		return fmt.Sprintf("vehicle %q: %v", e.Symbol, e.Err)
	case e.Row >= 0:
		return fmt.Sprintf("row %d, col %d: %v", e.Row, e.Col, e.Err)
	default:
		return e.Err.Error()
	}
}

// Unwrap returns the sentinel error.
func (e *ParseError) Unwrap() error { return e.Err }

type cellPos struct{ row, col int }

// Parse converts board text into a Board and its initial State.
//
// Line endings are normalized, blank lines before and after the grid are
// dropped, trailing whitespace on each line is ignored, and shorter rows are
// padded with empty cells. Parsing is all-or-nothing: on error the board and
// state are nil and the error is a *ParseError.
func Parse(text string) (*Board, State, error) {
	lines := normalizeLines(text)
	if len(lines) == 0 {
		return nil, nil, &ParseError{Row: -1, Col: -1, Err: ErrEmptyBoard}
	}

	width := 0
	for _, line := range lines {
		width = max(width, utf8.RuneCountInString(line))
	}
	if width == 0 {
		return nil, nil, &ParseError{Row: -1, Col: -1, Err: ErrZeroWidth}
	}

	cells := make(map[rune][]cellPos)
	for r, line := range lines {
		c := 0
		for _, ch := range line {
			if !isEmptyCell(ch) {
				cells[ch] = append(cells[ch], cellPos{r, c})
			}
			c++
		}
	}

	symbols := slices.Sorted(maps.Keys(cells))
	vehicles := make([]Vehicle, 0, len(symbols))
	start := make(State, 0, len(symbols))
	for i, sym := range symbols {
		v, offset, err := classify(sym, cells[sym])
		if err != nil {
			return nil, nil, err
		}
		v.Index = i
		vehicles = append(vehicles, v)
		start = append(start, offset)
	}

	b := &Board{Height: len(lines), Width: width, Vehicles: vehicles}
	if err := b.Validate(start); err != nil {
		return nil, nil, err
	}
	return b, start, nil
}

// normalizeLines splits text into rows, trimming trailing whitespace and
// surrounding blank lines.
func normalizeLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

// classify turns one symbol's cells (in row-major order) into a vehicle and
// its initial offset.
func classify(sym rune, cells []cellPos) (Vehicle, int, error) {
	first := cells[0]
	if len(cells) < 2 {
		return Vehicle{}, 0, &ParseError{Symbol: sym, Row: first.row, Col: first.col, Err: ErrVehicleTooShort}
	}

	horizontal, vertical := true, true
	for i, c := range cells {
		if c.row != first.row || c.col != first.col+i {
			horizontal = false
		}
		if c.col != first.col || c.row != first.row+i {
			vertical = false
		}
	}

	switch {
	case horizontal:
		return Vehicle{Name: sym, Orientation: Horizontal, Fixed: first.row, Length: len(cells)}, first.col, nil
	case vertical:
		return Vehicle{Name: sym, Orientation: Vertical, Fixed: first.col, Length: len(cells)}, first.row, nil
	default:
		return Vehicle{}, 0, &ParseError{Symbol: sym, Row: -1, Col: -1, Err: ErrVehicleShape}
	}
}
