package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/matzehuels/slidegraph/pkg/layout"
)

func TestProjectIdentity(t *testing.T) {
	p := Projection{}
	x, y, d := p.Project(layout.Vec3{X: 1, Y: 2, Z: 3})
	if x != 1 || y != 2 || d != 3 {
		t.Errorf("Project = (%v, %v, %v), want (1, 2, 3)", x, y, d)
	}
}

func TestProjectPreservesLength(t *testing.T) {
	v := layout.Vec3{X: 3, Y: -4, Z: 12}
	x, y, d := DefaultProjection.Project(v)
	got := math.Sqrt(x*x + y*y + d*d)
	if math.Abs(got-13) > 1e-9 {
		t.Errorf("projected length = %v, want 13", got)
	}
}

func TestDepthColor(t *testing.T) {
	tests := []struct {
		name     string
		depth    int
		maxDepth int
		want     color.RGBA
	}{
		{"start", 0, 5, StartColor},
		{"first ring", 1, 5, nearColor},
		{"last ring", 5, 5, farColor},
		{"beyond max", 9, 5, farColor},
		{"single ring", 1, 1, farColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DepthColor(tt.depth, tt.maxDepth); got != tt.want {
				t.Errorf("DepthColor(%d, %d) = %v, want %v", tt.depth, tt.maxDepth, got, tt.want)
			}
		})
	}
}

func TestHex(t *testing.T) {
	if got := Hex(color.RGBA{0xdc, 0x26, 0x26, 0xff}); got != "#dc2626" {
		t.Errorf("Hex opaque = %q", got)
	}
	if got := Hex(color.RGBA{0, 0, 0, 0x80}); got != "#00000080" {
		t.Errorf("Hex translucent = %q", got)
	}
}

func TestVehicleColorWraps(t *testing.T) {
	if VehicleColor(0) != VehicleColor(len(vehiclePalette)) {
		t.Error("VehicleColor should cycle through the palette")
	}
}
