package layout

import "math"

// Vec3 is a point or direction in layout space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

func (a Vec3) Scale(k float64) Vec3 { return Vec3{a.X * k, a.Y * k, a.Z * k} }

func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Len returns the Euclidean length.
func (a Vec3) Len() float64 { return math.Sqrt(a.Dot(a)) }

// Dist returns the Euclidean distance between a and b.
func (a Vec3) Dist(b Vec3) float64 { return a.Sub(b).Len() }

// MaxRadius returns the largest distance of any position from the origin.
func MaxRadius(pos map[int]Vec3) float64 {
	r := 0.0
	for _, p := range pos {
		r = max(r, p.Len())
	}
	return r
}

// MinSeparation returns the smallest pairwise distance, or +Inf for fewer
// than two positions.
func MinSeparation(pos map[int]Vec3) float64 {
	pts := make([]Vec3, 0, len(pos))
	for _, p := range pos {
		pts = append(pts, p)
	}
	d := math.Inf(1)
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			d = min(d, pts[i].Dist(pts[j]))
		}
	}
	return d
}
