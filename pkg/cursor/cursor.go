// Package cursor tracks an interactive walk through a state graph.
//
// A [Cursor] holds the currently selected state and the path of states
// visited to reach it. It is driven by explicit navigation only ([Cursor.Select],
// [Cursor.Reset], [Cursor.Undo]) and never mutates the graph it reads.
//
// A Cursor is not safe for concurrent use.
package cursor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/slidegraph/pkg/board"
	"github.com/matzehuels/slidegraph/pkg/explore"
)

// ErrUnknownState is returned when a target index is not in the graph.
var ErrUnknownState = errors.New("unknown state")

// Phase is the cursor lifecycle state.
type Phase int

const (
	// Idle means no graph is attached; every navigation call is a no-op.
	Idle Phase = iota
	// Ready means a graph is attached and the path starts at the root.
	Ready
)

func (p Phase) String() string {
	if p == Ready {
		return "ready"
	}
	return "idle"
}

const root = 0

// Cursor is the current position in a [explore.Graph] plus the walk taken.
type Cursor struct {
	graph *explore.Graph
	path  []int
}

// New returns a cursor on g. It is [Ready] at the root when g holds at least
// one state and [Idle] otherwise.
func New(g *explore.Graph) *Cursor {
	c := &Cursor{graph: g}
	if g.Len() > 0 {
		c.path = []int{root}
	}
	return c
}

// Restore rebuilds a cursor from a saved path. Every index must be in the
// graph; consecutive entries need not be adjacent, matching what [Cursor.Select]
// can produce. An empty path restores to the root.
func Restore(g *explore.Graph, path []int) (*Cursor, error) {
	c := New(g)
	if c.Phase() == Idle {
		if len(path) > 0 {
			return nil, fmt.Errorf("restore path of %d states: %w", len(path), ErrUnknownState)
		}
		return c, nil
	}
	for _, i := range path {
		if i < 0 || i >= g.Len() {
			return nil, fmt.Errorf("restore state %d: %w", i, ErrUnknownState)
		}
	}
	if len(path) > 0 {
		c.path = slices.Clone(path)
	}
	return c, nil
}

// Phase reports whether a graph is attached.
func (c *Cursor) Phase() Phase {
	if c.graph.Len() == 0 {
		return Idle
	}
	return Ready
}

// Graph returns the graph the cursor walks.
func (c *Cursor) Graph() *explore.Graph { return c.graph }

// Select moves to target. If target is a neighbor of the current state the
// walk is extended; otherwise a fresh walk starts at target.
func (c *Cursor) Select(target int) error {
	if c.Phase() == Idle || target < 0 || target >= c.graph.Len() {
		return fmt.Errorf("select %d: %w", target, ErrUnknownState)
	}
	if len(c.path) == 0 {
		c.path = []int{target}
		return nil
	}
	last := c.path[len(c.path)-1]
	if c.graph.HasEdge(last, target) {
		c.path = append(c.path, target)
		return nil
	}
	c.path = []int{target}
	return nil
}

// Reset returns to a walk holding only the root.
func (c *Cursor) Reset() {
	if c.Phase() == Idle {
		return
	}
	c.path = []int{root}
}

// Undo drops the last step of the walk. It never empties the path.
func (c *Cursor) Undo() {
	if len(c.path) > 1 {
		c.path = c.path[:len(c.path)-1]
	}
}

// Selected returns the current state index.
func (c *Cursor) Selected() (int, bool) {
	if len(c.path) == 0 {
		return 0, false
	}
	return c.path[len(c.path)-1], true
}

// Path returns a copy of the walk, oldest first.
func (c *Cursor) Path() []int { return slices.Clone(c.path) }

// Neighbors returns the states one move away from the current state.
func (c *Cursor) Neighbors() []int {
	i, ok := c.Selected()
	if !ok {
		return nil
	}
	return slices.Clone(c.graph.Neighbors(i))
}

// State returns the configuration of the current state, or nil when idle.
func (c *Cursor) State() board.State {
	i, ok := c.Selected()
	if !ok {
		return nil
	}
	return c.graph.States[i]
}
