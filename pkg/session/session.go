// Package session persists interactive walks through a state graph so the
// walk TUI can resume where a user left off.
//
// A [Walk] records the board it was taken on, the exploration budget, and
// the cursor path. Three [Store] backends are provided:
//   - file: JSON files under the user config directory, for the CLI
//   - redis: shared storage for API servers
//   - mongo: durable storage with listing by recency
//
// # Usage
//
//	store, err := session.NewFileStore("")  // ~/.config/slidegraph/walks/
//	w, err := session.New(boardText, 10000, session.DefaultTTL)
//	w.Touch([]int{0, 2, 6})
//	err = store.Set(ctx, w)
//
//	w, err = store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or expired walk
//	}
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/slidegraph/pkg/cache"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a walk does not exist or has expired.
	ErrNotFound = errors.New("walk not found")

	// ErrInvalidID is returned for IDs that are not UUIDs.
	ErrInvalidID = errors.New("invalid walk id")
)

// DefaultTTL is how long an untouched walk is kept.
const DefaultTTL = 30 * 24 * time.Hour

// Walk is a saved cursor position on one board.
type Walk struct {
	ID        string    `json:"id" bson:"_id"`
	BoardHash string    `json:"board_hash" bson:"board_hash"`
	Board     string    `json:"board" bson:"board"`
	MaxStates int       `json:"max_states" bson:"max_states"`
	Path      []int     `json:"path" bson:"path"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	// ExpiresAt is zero for walks that never expire.
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`

	ttl time.Duration
}

// New starts a walk at the root of the board's graph. A non-positive ttl
// keeps the walk forever.
func New(boardText string, maxStates int, ttl time.Duration) (*Walk, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate walk id: %w", err)
	}
	now := time.Now().UTC()
	w := &Walk{
		ID:        id.String(),
		BoardHash: cache.Hash([]byte(boardText)),
		Board:     boardText,
		MaxStates: maxStates,
		Path:      []int{0},
		CreatedAt: now,
		UpdatedAt: now,
		ttl:       ttl,
	}
	if ttl > 0 {
		w.ExpiresAt = now.Add(ttl)
	}
	return w, nil
}

// Touch records a new path and extends the expiry.
func (w *Walk) Touch(path []int) {
	ttl := w.ttl
	if ttl <= 0 && !w.ExpiresAt.IsZero() {
		// Loaded walks keep the lifetime they were last saved with.
		ttl = w.ExpiresAt.Sub(w.UpdatedAt)
	}
	w.Path = slices.Clone(path)
	w.UpdatedAt = time.Now().UTC()
	if ttl > 0 {
		w.ExpiresAt = w.UpdatedAt.Add(ttl)
	}
}

// IsExpired returns true if the walk has an expiry in the past.
func (w *Walk) IsExpired() bool {
	return !w.ExpiresAt.IsZero() && time.Now().After(w.ExpiresAt)
}

// MatchesBoard reports whether the walk was taken on boardText.
func (w *Walk) MatchesBoard(boardText string) bool {
	return w.BoardHash == cache.Hash([]byte(boardText))
}

// ValidateID checks that id is a canonical UUID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Store is the interface for walk storage backends. Implementations are safe
// for concurrent use.
type Store interface {
	// Get retrieves a walk by ID. Missing and expired walks return ErrNotFound.
	Get(ctx context.Context, id string) (*Walk, error)

	// Set creates or replaces a walk.
	Set(ctx context.Context, w *Walk) error

	// Delete removes a walk. Deleting a missing walk is not an error.
	Delete(ctx context.Context, id string) error

	// List returns live walks, most recently updated first.
	List(ctx context.Context) ([]*Walk, error)

	// Cleanup removes expired walks.
	Cleanup(ctx context.Context) error

	Close() error
}

// sortRecent orders walks by UpdatedAt, newest first, breaking ties by ID.
func sortRecent(ws []*Walk) {
	slices.SortFunc(ws, func(a, b *Walk) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}
