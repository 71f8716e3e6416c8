package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a file-based walk store for the CLI.
// Walks are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based walk store.
// If baseDir is empty, defaults to ~/.config/slidegraph/walks/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get config dir: %w", err)
		}
		baseDir = filepath.Join(dir, "slidegraph", "walks")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create walk dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) walkPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Walk, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, err := s.read(s.walkPath(id))
	if err != nil {
		return nil, err
	}
	if w.IsExpired() {
		return nil, ErrNotFound
	}
	return w, nil
}

func (s *FileStore) read(path string) (*Walk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read walk file: %w", err)
	}

	var w Walk
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse walk: %w", err)
	}
	return &w, nil
}

func (s *FileStore) Set(ctx context.Context, w *Walk) error {
	if err := ValidateID(w.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal walk: %w", err)
	}
	if err := os.WriteFile(s.walkPath(w.ID), data, 0600); err != nil {
		return fmt.Errorf("write walk file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.walkPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove walk file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]*Walk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Walk
	err := s.each(func(path string, w *Walk) {
		if !w.IsExpired() {
			out = append(out, w)
		}
	})
	sortRecent(out)
	return out, err
}

func (s *FileStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.each(func(path string, w *Walk) {
		if w.IsExpired() {
			os.Remove(path)
		}
	})
}

// each calls fn for every readable walk file. Unreadable files are skipped.
func (s *FileStore) each(fn func(path string, w *Walk)) error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("read walk dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		w, err := s.read(path)
		if err != nil {
			continue
		}
		fn(path, w)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for walk files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
