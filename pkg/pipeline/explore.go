package pipeline

import (
	"github.com/matzehuels/slidegraph/pkg/board"
	errs "github.com/matzehuels/slidegraph/pkg/errors"
	"github.com/matzehuels/slidegraph/pkg/explore"
)

// Explore parses the board text and enumerates its reachable states.
// Parse failures are returned as INVALID_BOARD errors wrapping the
// *board.ParseError.
func Explore(opts Options) (*board.Board, board.State, *explore.Graph, error) {
	b, start, err := board.Parse(opts.Board)
	if err != nil {
		return nil, nil, nil, errs.Wrap(errs.ErrCodeInvalidBoard, err, "parse board")
	}
	return b, start, explore.Explore(b, start, opts.MaxStates), nil
}

// canonicalBoard returns the board text normalized through the parser, so
// inputs that differ only in whitespace share cache entries.
func canonicalBoard(text string) (string, error) {
	b, start, err := board.Parse(text)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidBoard, err, "parse board")
	}
	return b.Format(start), nil
}
