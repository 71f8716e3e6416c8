// Package boardimg draws a single board state as a PNG thumbnail.
//
// Each vehicle is a rounded rectangle in a stable per-vehicle color with its
// symbol centered on it. Thumbnails back the `show --png` command and the
// artifact cache's "board" format.
package boardimg

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/matzehuels/slidegraph/pkg/board"
	"github.com/matzehuels/slidegraph/pkg/fonts"
	"github.com/matzehuels/slidegraph/pkg/render"
)

const (
	DefaultCellSize = 48
	DefaultMargin   = 8
)

// Options configures thumbnail rendering.
type Options struct {
	// CellSize is the edge length of one grid cell in pixels.
	CellSize int
	// Margin is the blank border around the grid in pixels.
	Margin int
}

func (o Options) withDefaults() Options {
	if o.CellSize <= 0 {
		o.CellSize = DefaultCellSize
	}
	if o.Margin < 0 {
		o.Margin = 0
	} else if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	return o
}

// Size returns the pixel dimensions of a rendered thumbnail.
func Size(b *board.Board, opts Options) (width, height int) {
	opts = opts.withDefaults()
	return b.Width*opts.CellSize + 2*opts.Margin, b.Height*opts.CellSize + 2*opts.Margin
}

// Render validates s against b and encodes the drawing as PNG.
func Render(b *board.Board, s board.State, opts Options) ([]byte, error) {
	if err := b.Validate(s); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	w, h := Size(b, opts)
	dc := gg.NewContext(w, h)
	Draw(dc, b, s, opts)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Draw paints the board onto dc. The state must already be valid.
func Draw(dc *gg.Context, b *board.Board, s board.State, opts Options) {
	opts = opts.withDefaults()
	cell := float64(opts.CellSize)
	m := float64(opts.Margin)

	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(color.RGBA{0xf1, 0xf5, 0xf9, 0xff})
	dc.DrawRectangle(m, m, float64(b.Width)*cell, float64(b.Height)*cell)
	dc.Fill()

	dc.SetLineWidth(1)
	dc.SetColor(color.RGBA{0xcb, 0xd5, 0xe1, 0xff})
	for c := 0; c <= b.Width; c++ {
		x := m + float64(c)*cell
		dc.DrawLine(x, m, x, m+float64(b.Height)*cell)
		dc.Stroke()
	}
	for r := 0; r <= b.Height; r++ {
		y := m + float64(r)*cell
		dc.DrawLine(m, y, m+float64(b.Width)*cell, y)
		dc.Stroke()
	}

	inset := cell * 0.08
	dc.SetFontFace(fonts.Bold(cell * 0.45))
	for _, v := range b.Vehicles {
		row, col := v.Fixed, s[v.Index]
		w, h := float64(v.Length)*cell, cell
		if v.Orientation == board.Vertical {
			row, col = s[v.Index], v.Fixed
			w, h = cell, float64(v.Length)*cell
		}
		x := m + float64(col)*cell + inset
		y := m + float64(row)*cell + inset

		dc.DrawRoundedRectangle(x, y, w-2*inset, h-2*inset, cell*0.18)
		dc.SetColor(render.VehicleColor(v.Index))
		dc.Fill()

		dc.SetColor(color.White)
		dc.DrawStringAnchored(string(v.Name), x+(w-2*inset)/2, y+(h-2*inset)/2, 0.5, 0.5)
	}
}
