package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/matzehuels/slidegraph/pkg/board"
	"github.com/matzehuels/slidegraph/pkg/explore"
)

// =============================================================================
// Constants
// =============================================================================

// Orientation names used in the wire format.
const (
	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
)

// Validation errors returned by [ToExplore] and [UnmarshalLayout].
var (
	ErrNoStates     = errors.New("graph has no states")
	ErrEdgeRange    = errors.New("edge target out of range")
	ErrEdgeCount    = errors.New("edge list count does not match state count")
	ErrVehicleName  = errors.New("vehicle name must be a single character")
	ErrOrientation  = errors.New("unknown orientation")
	ErrDuplicateID  = errors.New("duplicate node id")
	ErrEmptyLayout  = errors.New("layout has no nodes")
	ErrStartMissing = errors.New("start state does not match states[0]")
)

// =============================================================================
// Board
// =============================================================================

// Board is the serialized puzzle definition.
type Board struct {
	Height   int       `json:"height" bson:"height"`
	Width    int       `json:"width" bson:"width"`
	Vehicles []Vehicle `json:"vehicles" bson:"vehicles"`
}

// Vehicle is the serialized form of [board.Vehicle].
type Vehicle struct {
	Name        string `json:"name" bson:"name"`
	Orientation string `json:"orientation" bson:"orientation"`
	Fixed       int    `json:"fixed" bson:"fixed"`
	Length      int    `json:"length" bson:"length"`
	Index       int    `json:"index" bson:"index"`
}

// FromBoard converts a board model to its wire form.
func FromBoard(b *board.Board) Board {
	out := Board{Height: b.Height, Width: b.Width, Vehicles: make([]Vehicle, len(b.Vehicles))}
	for i, v := range b.Vehicles {
		out.Vehicles[i] = Vehicle{
			Name:        string(v.Name),
			Orientation: v.Orientation.String(),
			Fixed:       v.Fixed,
			Length:      v.Length,
			Index:       v.Index,
		}
	}
	return out
}

// ToBoard rebuilds and validates a board model. Vehicles are re-indexed by
// slice position.
func ToBoard(bj Board) (*board.Board, error) {
	vs := make([]board.Vehicle, len(bj.Vehicles))
	for i, vj := range bj.Vehicles {
		name, size := utf8.DecodeRuneInString(vj.Name)
		if size == 0 || size != len(vj.Name) {
			return nil, fmt.Errorf("vehicle %d %q: %w", i, vj.Name, ErrVehicleName)
		}
		var o board.Orientation
		switch vj.Orientation {
		case OrientationHorizontal:
			o = board.Horizontal
		case OrientationVertical:
			o = board.Vertical
		default:
			return nil, fmt.Errorf("vehicle %q orientation %q: %w", vj.Name, vj.Orientation, ErrOrientation)
		}
		vs[i] = board.Vehicle{Name: name, Orientation: o, Fixed: vj.Fixed, Length: vj.Length}
	}
	return board.New(bj.Height, bj.Width, vs)
}

// =============================================================================
// Graph - Explored State Space
// =============================================================================

// Graph is the canonical serialization of an explored state space
// (graph.json). States and Edges are indexed alike; Start equals States[0].
type Graph struct {
	Board     Board   `json:"board" bson:"board"`
	Start     []int   `json:"start" bson:"start"`
	States    [][]int `json:"states" bson:"states"`
	Edges     [][]int `json:"edges" bson:"edges"`
	MaxStates int     `json:"max_states" bson:"max_states"`
	Truncated bool    `json:"truncated" bson:"truncated"`
}

// FromExplore converts a board and its explored graph to the wire form.
func FromExplore(b *board.Board, g *explore.Graph) Graph {
	out := Graph{
		Board:     FromBoard(b),
		States:    make([][]int, g.Len()),
		Edges:     make([][]int, g.Len()),
		MaxStates: g.MaxStates,
		Truncated: g.Truncated,
	}
	for i, s := range g.States {
		out.States[i] = []int(s.Clone())
		out.Edges[i] = append([]int{}, g.Edges[i]...)
	}
	if len(out.States) > 0 {
		out.Start = out.States[0]
	}
	return out
}

// ToExplore validates a serialized graph and rebuilds the board and state
// graph. Every state must be a valid placement and every edge must point at
// an existing state.
func ToExplore(gj Graph) (*board.Board, *explore.Graph, error) {
	b, err := ToBoard(gj.Board)
	if err != nil {
		return nil, nil, fmt.Errorf("board: %w", err)
	}
	if len(gj.States) == 0 {
		return nil, nil, ErrNoStates
	}
	if len(gj.Edges) != len(gj.States) {
		return nil, nil, fmt.Errorf("%w: %d edge lists for %d states", ErrEdgeCount, len(gj.Edges), len(gj.States))
	}
	if gj.Start != nil && !board.State(gj.Start).Equal(gj.States[0]) {
		return nil, nil, ErrStartMissing
	}

	g := &explore.Graph{
		States:    make([]board.State, len(gj.States)),
		Edges:     make([][]int, len(gj.Edges)),
		MaxStates: gj.MaxStates,
		Truncated: gj.Truncated,
	}
	for i, s := range gj.States {
		if err := b.Validate(s); err != nil {
			return nil, nil, fmt.Errorf("state %d: %w", i, err)
		}
		g.States[i] = board.State(s).Clone()
	}
	for i, out := range gj.Edges {
		for _, j := range out {
			if j < 0 || j >= len(gj.States) {
				return nil, nil, fmt.Errorf("state %d -> %d: %w", i, j, ErrEdgeRange)
			}
		}
		g.Edges[i] = append([]int(nil), out...)
	}
	if g.MaxStates < len(g.States) {
		g.MaxStates = len(g.States)
	}
	return b, g, nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph without validating it.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}
