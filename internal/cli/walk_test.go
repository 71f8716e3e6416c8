package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidegraph/pkg/board"
	"github.com/matzehuels/slidegraph/pkg/cursor"
	"github.com/matzehuels/slidegraph/pkg/explore"
	"github.com/matzehuels/slidegraph/pkg/session"
)

func sampleCursor(t *testing.T, maxStates int) (*board.Board, *explore.Graph, *cursor.Cursor) {
	t.Helper()
	b, start, err := board.Parse(sampleBoard)
	if err != nil {
		t.Fatal(err)
	}
	g := explore.Explore(b, start, maxStates)
	return b, g, cursor.New(g)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to m and returns the resulting model.
func press(t *testing.T, m WalkModel, keys ...string) WalkModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(WalkModel)
	}
	return m
}

func TestWalkModelNavigation(t *testing.T) {
	b, g, c := sampleCursor(t, 1000)
	m := NewWalkModel(b, c)

	if len(m.moves) != 2 {
		t.Fatalf("moves from start = %d, want 2", len(m.moves))
	}
	if got := m.moves[0].move.String() + " " + m.moves[1].move.String(); got != "A-1 A+1" {
		t.Errorf("moves = %s, want A-1 A+1", got)
	}

	m = press(t, m, "k")
	if m.Highlight != 0 {
		t.Errorf("highlight after k at top = %d, want 0", m.Highlight)
	}
	m = press(t, m, "j", "j")
	if m.Highlight != 1 {
		t.Errorf("highlight after j j = %d, want 1", m.Highlight)
	}

	m = press(t, m, "enter")
	want, ok := g.Index(board.State{3, 4, 4})
	if !ok {
		t.Fatal("[3 4 4] not explored")
	}
	if sel, _ := m.Cursor.Selected(); sel != want {
		t.Errorf("selected = %d, want %d", sel, want)
	}
	if got := m.Cursor.Path(); len(got) != 2 || got[0] != 0 {
		t.Errorf("path = %v", got)
	}
	if m.Highlight != 0 {
		t.Errorf("highlight not reset after move: %d", m.Highlight)
	}

	m = press(t, m, "u")
	if sel, _ := m.Cursor.Selected(); sel != 0 || len(m.Cursor.Path()) != 1 {
		t.Errorf("after undo: selected %d, path %v", sel, m.Cursor.Path())
	}

	m = press(t, m, "l", "l", "r")
	if len(m.Cursor.Path()) != 1 {
		t.Errorf("after reset: path %v", m.Cursor.Path())
	}
}

func TestWalkModelUnexploredMove(t *testing.T) {
	b, _, c := sampleCursor(t, 1)
	m := NewWalkModel(b, c)
	if len(m.moves) != 2 {
		t.Fatalf("moves = %d, want 2", len(m.moves))
	}
	for _, wm := range m.moves {
		if wm.target != -1 {
			t.Errorf("move %s target = %d, want -1", wm.move, wm.target)
		}
	}
	m = press(t, m, "enter")
	if len(m.Cursor.Path()) != 1 {
		t.Errorf("selecting an unexplored move changed the path: %v", m.Cursor.Path())
	}
	if !strings.Contains(m.View(), "unexplored") {
		t.Error("view does not mark unexplored moves")
	}
}

func TestWalkModelCopy(t *testing.T) {
	var copied string
	orig := copyFunc
	copyFunc = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyFunc = orig })

	b, _, c := sampleCursor(t, 1000)
	m := NewWalkModel(b, c)

	next, cmd := m.Update(key("c"))
	if cmd == nil {
		t.Fatal("copy returned no command")
	}
	next, _ = next.Update(cmd())
	m = next.(WalkModel)
	if copied != strings.TrimSuffix(sampleBoard, "\n") {
		t.Errorf("copied %q", copied)
	}
	if !strings.Contains(m.View(), "copied") {
		t.Error("view does not confirm the copy")
	}

	next, _ = m.Update(copiedMsg{err: errors.New("no clipboard")})
	if !strings.Contains(next.(WalkModel).View(), "copy failed") {
		t.Error("view does not report the copy failure")
	}
}

func TestWalkModelQuit(t *testing.T) {
	b, _, c := sampleCursor(t, 1000)
	next, cmd := NewWalkModel(b, c).Update(key("q"))
	if !next.(WalkModel).Quit || cmd == nil {
		t.Error("q did not quit")
	}
}

func TestLoadWalk(t *testing.T) {
	isolate(t)
	ctx := context.Background()
	store, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := New(io.Discard, LogInfo)
	input := writeBoard(t, t.TempDir())
	cmd := &cobra.Command{}

	w, err := c.loadWalk(ctx, cmd, store, []string{input}, walkOpts{maxStates: 50})
	if err != nil {
		t.Fatal(err)
	}
	if w.MaxStates != 50 || len(w.Path) != 1 || !w.MatchesBoard(sampleBoard) {
		t.Errorf("new walk = %+v", w)
	}
	w.Touch([]int{0, 2})
	if err := store.Set(ctx, w); err != nil {
		t.Fatal(err)
	}

	resumed, err := c.loadWalk(ctx, cmd, store, nil, walkOpts{sessionID: w.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(resumed.Path) != 2 || resumed.Path[1] != 2 {
		t.Errorf("resumed path = %v", resumed.Path)
	}

	other := writeOther(t)
	if _, err := c.loadWalk(ctx, cmd, store, []string{other}, walkOpts{sessionID: w.ID}); err == nil {
		t.Error("resuming on a different board succeeded")
	}
	if _, err := c.loadWalk(ctx, cmd, store, nil, walkOpts{}); err == nil {
		t.Error("loadWalk without board or session succeeded")
	}
}

func writeOther(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "other.txt")
	if err := os.WriteFile(path, []byte("AA.\n...\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatRelativeTime(now.Add(-tt.ago), now); got != tt.want {
				t.Errorf("formatRelativeTime(-%s) = %q, want %q", tt.ago, got, tt.want)
			}
		})
	}
}
