package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/matzehuels/slidegraph/pkg/layout"
)

// Projection is an orthographic camera rotated by Yaw around the vertical
// axis and then by Pitch around the horizontal axis. Angles are radians.
type Projection struct {
	Yaw   float64
	Pitch float64
}

// DefaultProjection looks at the layout slightly from above and to the side
// so the sphere does not collapse into a disc.
var DefaultProjection = Projection{Yaw: 0.6, Pitch: 0.35}

// Project maps a layout point to screen coordinates. Depth grows away from
// the viewer; draw in decreasing depth order for correct overlap.
func (p Projection) Project(v layout.Vec3) (x, y, depth float64) {
	sy, cy := math.Sincos(p.Yaw)
	sp, cp := math.Sincos(p.Pitch)

	x = v.X*cy + v.Z*sy
	z := -v.X*sy + v.Z*cy
	y = v.Y*cp - z*sp
	depth = v.Y*sp + z*cp
	return x, y, depth
}

var (
	// StartColor marks the start state.
	StartColor = color.RGBA{0xdc, 0x26, 0x26, 0xff}
	// PathColor marks states on a highlighted walk.
	PathColor = color.RGBA{0x10, 0xb9, 0x81, 0xff}

	nearColor = color.RGBA{0x3b, 0x82, 0xf6, 0xff}
	farColor  = color.RGBA{0xf5, 0x9e, 0x0b, 0xff}
)

// DepthColor interpolates from blue at depth 1 to amber at maxDepth.
// Depth 0 is the start state and always gets StartColor.
func DepthColor(depth, maxDepth int) color.RGBA {
	if depth <= 0 {
		return StartColor
	}
	t := 1.0
	if maxDepth > 1 {
		t = float64(depth-1) / float64(maxDepth-1)
	}
	t = math.Max(0, math.Min(1, t))
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + t*(float64(b)-float64(a))))
	}
	return color.RGBA{
		R: lerp(nearColor.R, farColor.R),
		G: lerp(nearColor.G, farColor.G),
		B: lerp(nearColor.B, farColor.B),
		A: 0xff,
	}
}

// Hex formats c as #rrggbb, or #rrggbbaa when it is not opaque.
func Hex(c color.RGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// VehicleColor returns a stable fill color for the i-th vehicle.
func VehicleColor(i int) color.RGBA {
	return vehiclePalette[i%len(vehiclePalette)]
}

var vehiclePalette = []color.RGBA{
	{0xe1, 0x1d, 0x48, 0xff},
	{0x25, 0x63, 0xeb, 0xff},
	{0x16, 0xa3, 0x4a, 0xff},
	{0xd9, 0x77, 0x06, 0xff},
	{0x93, 0x33, 0xea, 0xff},
	{0x08, 0x91, 0xb2, 0xff},
	{0xdb, 0x27, 0x77, 0xff},
	{0x65, 0xa3, 0x0d, 0xff},
	{0x78, 0x71, 0x6c, 0xff},
	{0x4f, 0x46, 0xe5, 0xff},
}
