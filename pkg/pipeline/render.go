package pipeline

import (
	"fmt"

	errs "github.com/matzehuels/slidegraph/pkg/errors"
	"github.com/matzehuels/slidegraph/pkg/graph"
	"github.com/matzehuels/slidegraph/pkg/render/boardimg"
	"github.com/matzehuels/slidegraph/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats.
func Render(l graph.Layout, opts Options) (map[string][]byte, error) {
	nlOpts := nodelink.Options{Scale: opts.Scale, Path: opts.Path, Labels: opts.Labels}
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(l, nlOpts))
		case FormatSVG:
			data, err = nodelink.RenderSVG(nodelink.ToDOT(l, nlOpts))
		case FormatPNG:
			data, err = nodelink.RenderPNG(l, nlOpts)
		case FormatBoard:
			data, err = renderBoard(l, opts)
		default:
			return nil, errs.New(errs.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderBoard draws the thumbnail of node opts.State, which must be part of
// the layout.
func renderBoard(l graph.Layout, opts Options) ([]byte, error) {
	n, ok := l.Node(opts.State)
	if !ok || n.State == nil {
		return nil, errs.New(errs.ErrCodeInvalidState, "state %d is not in the layout", opts.State)
	}
	b, err := graph.ToBoard(l.Board)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "layout board")
	}
	return boardimg.Render(b, n.State, boardimg.Options{CellSize: opts.CellSize})
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(layoutData []byte, opts Options) (map[string][]byte, error) {
	l, err := graph.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "parse layout")
	}
	return Render(l, opts)
}
