// Package fonts provides the font faces used for labels in raster output.
//
// The Go Bold typeface ships inside golang.org/x/image, so rendering needs no
// system fonts. Faces are sized per call; the parsed font is shared.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
)

var (
	boldFont     *truetype.Font
	boldFontErr  error
	boldFontOnce sync.Once
)

func parsed() (*truetype.Font, error) {
	boldFontOnce.Do(func() {
		boldFont, boldFontErr = truetype.Parse(gobold.TTF)
	})
	return boldFont, boldFontErr
}

// Bold returns a Go Bold face of the given size in points at 72 DPI, so one
// point is one pixel. It falls back to a fixed 7x13 bitmap face if the
// embedded font cannot be parsed.
func Bold(size float64) font.Face {
	f, err := parsed()
	if err != nil || size <= 0 {
		return basicfont.Face7x13
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
}
