package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

const sampleBoard = "......\n......\n......\n..AA..\n..CB..\n..CB.."

func newStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	w, err := New(sampleBoard, 1000, time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ValidateID(w.ID); err != nil {
		t.Errorf("ID %q: %v", w.ID, err)
	}
	if !slices.Equal(w.Path, []int{0}) {
		t.Errorf("Path = %v, want [0]", w.Path)
	}
	if len(w.BoardHash) != 64 {
		t.Errorf("BoardHash length = %d, want 64", len(w.BoardHash))
	}
	if !w.MatchesBoard(sampleBoard) || w.MatchesBoard(sampleBoard+"\n") {
		t.Error("MatchesBoard should only accept the original text")
	}
	if w.ExpiresAt.IsZero() || w.IsExpired() {
		t.Errorf("ExpiresAt = %v, want future expiry", w.ExpiresAt)
	}

	forever, err := New(sampleBoard, 1000, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !forever.ExpiresAt.IsZero() || forever.IsExpired() {
		t.Error("zero ttl should never expire")
	}
	if forever.ID == w.ID {
		t.Error("IDs should be unique")
	}
}

func TestTouch(t *testing.T) {
	w, _ := New(sampleBoard, 1000, time.Hour)
	before := w.ExpiresAt
	path := []int{0, 2, 6}
	w.Touch(path)
	path[1] = 99

	if !slices.Equal(w.Path, []int{0, 2, 6}) {
		t.Errorf("Path = %v, want copy of [0 2 6]", w.Path)
	}
	if w.ExpiresAt.Before(before) {
		t.Errorf("Touch moved expiry backwards: %v < %v", w.ExpiresAt, before)
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"3f2b8c1e-6d4a-4b9e-8f7a-1c2d3e4f5a6b", true},
		{"", false},
		{"../etc/passwd", false},
		{"not-a-uuid", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err == nil) != tt.want {
				t.Errorf("ValidateID(%q) = %v", tt.id, err)
			}
			if err != nil && !errors.Is(err, ErrInvalidID) {
				t.Errorf("error %v should wrap ErrInvalidID", err)
			}
		})
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	defer s.Close()

	w, _ := New(sampleBoard, 1000, time.Hour)
	w.Touch([]int{0, 1, 3})
	if err := s.Set(ctx, w); err != nil {
		t.Fatalf("Set: %v", err)
	}

	info, err := os.Stat(filepath.Join(s.Path(), w.ID+".json"))
	if err != nil {
		t.Fatalf("stat walk file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	got, err := s.Get(ctx, w.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != w.ID || got.Board != sampleBoard || got.MaxStates != 1000 {
		t.Errorf("Get = %+v", got)
	}
	if !slices.Equal(got.Path, []int{0, 1, 3}) {
		t.Errorf("Path = %v, want [0 1 3]", got.Path)
	}

	if err := s.Delete(ctx, w.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, w.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, w.ID); err != nil {
		t.Errorf("second Delete = %v, want nil", err)
	}
}

func TestFileStore_Missing(t *testing.T) {
	s := newStore(t)
	_, err := s.Get(context.Background(), "3f2b8c1e-6d4a-4b9e-8f7a-1c2d3e4f5a6b")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(context.Background(), "../x"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Get(bad id) = %v, want ErrInvalidID", err)
	}
}

func TestFileStore_ExpiryAndCleanup(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	live, _ := New(sampleBoard, 1000, time.Hour)
	stale, _ := New(sampleBoard, 1000, time.Hour)
	stale.ExpiresAt = time.Now().Add(-time.Minute)
	for _, w := range []*Walk{live, stale} {
		if err := s.Set(ctx, w); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	if _, err := s.Get(ctx, stale.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(expired) = %v, want ErrNotFound", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != live.ID {
		t.Errorf("List = %d walks, want only the live one", len(list))
	}

	if err := s.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Path(), stale.ID+".json")); !os.IsNotExist(err) {
		t.Errorf("expired walk file still present: %v", err)
	}
	if _, err := s.Get(ctx, live.ID); err != nil {
		t.Errorf("live walk removed by Cleanup: %v", err)
	}
}

func TestFileStore_ListOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	base := time.Now().UTC()
	var ids []string
	for i := range 3 {
		w, _ := New(sampleBoard, 1000, 0)
		w.UpdatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := s.Set(ctx, w); err != nil {
			t.Fatalf("Set: %v", err)
		}
		ids = append(ids, w.ID)
	}
	if err := os.WriteFile(filepath.Join(s.Path(), "junk.json"), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var got []string
	for _, w := range list {
		got = append(got, w.ID)
	}
	want := []string{ids[2], ids[1], ids[0]}
	if !slices.Equal(got, want) {
		t.Errorf("List order = %v, want %v", got, want)
	}
}
