package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/slidegraph/pkg/board"
	"github.com/matzehuels/slidegraph/pkg/explore"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts an explored graph to JSON bytes.
func MarshalGraph(b *board.Board, g *explore.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(b, g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes an explored graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(b *board.Board, g *explore.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(b, g, f)
}

// WriteGraph writes an explored graph as JSON to an io.Writer.
func WriteGraph(b *board.Board, g *explore.Graph, w io.Writer) error {
	return writeGraphTo(b, g, w)
}

// ReadGraphFile reads and validates a graph.json file.
func ReadGraphFile(path string) (*board.Board, *explore.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes and validates a JSON graph from an io.Reader.
func ReadGraph(r io.Reader) (*board.Board, *explore.Graph, error) {
	return readGraphFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(b *board.Board, g *explore.Graph, w io.Writer) error {
	out := FromExplore(b, g)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (*board.Board, *explore.Graph, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	return ToExplore(data)
}
