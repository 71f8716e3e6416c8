package fonts

import (
	"testing"

	"golang.org/x/image/font/basicfont"
)

func TestBold(t *testing.T) {
	small, large := Bold(10), Bold(40)
	if small == basicfont.Face7x13 || large == basicfont.Face7x13 {
		t.Fatal("Bold fell back to the bitmap face")
	}
	if s, l := small.Metrics().Height, large.Metrics().Height; s >= l {
		t.Errorf("height(10pt) = %v, height(40pt) = %v; want growing", s, l)
	}
	adv, ok := large.GlyphAdvance('A')
	if !ok || adv <= 0 {
		t.Errorf("GlyphAdvance('A') = %v, %v", adv, ok)
	}
}

func TestBoldNonPositiveSize(t *testing.T) {
	if Bold(0) != basicfont.Face7x13 {
		t.Error("Bold(0) should fall back to the bitmap face")
	}
}
