package layout

import (
	"context"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/slidegraph/pkg/subset"
)

// Options configures [Compute]. Zero numeric fields take the value from
// [DefaultOptions].
type Options struct {
	// Iterations is the number of integration steps. Default: 300.
	Iterations int
	// TimeStep is the Euler step size. Default: 0.5.
	TimeStep float64
	// Damping multiplies velocity after each step (0-1). Default: 0.85.
	Damping float64
	// MaxSpeed clamps per-node velocity. Default: 10.
	MaxSpeed float64

	// SpringLength is the rest length of an edge. Default: 10.
	SpringLength float64
	// SpringK is the Hookean stiffness. Default: 0.2.
	SpringK float64
	// Repulsion scales the pairwise inverse-square push. Default: 400.
	Repulsion float64
	// Softening keeps repulsion finite for near-coincident nodes. Default: 1.
	Softening float64

	// AngleBand is the cosine band around 90° treated as "close enough".
	// Edge pairs with a larger cosine are spread apart. Default: 0.2.
	AngleBand float64
	// AngleStrength scales the spreading push. Default: 0.5.
	AngleStrength float64
	// AngleNudge scales the corrective pull toward 90° inside the band.
	// Default: 0.05.
	AngleNudge float64

	// Gravity pulls every node toward the origin. Default: 0.02.
	Gravity float64

	// MinDistance is the minimum pairwise separation, enforced during the
	// simulation and again on the returned coordinates. Default: 4.
	MinDistance float64
	// RelaxPasses is the number of separation passes per step. Default: 1.
	RelaxPasses int
	// FinalRelaxPasses bounds the separation passes after rescaling.
	// Default: 200.
	FinalRelaxPasses int

	// InitialRadius is the radius of the starting sphere. Default: 5.
	InitialRadius float64
	// ViewRadius is the distance of the farthest node after rescaling.
	// Default: 100.
	ViewRadius float64

	// Seed seeds the initial scatter when Rand is nil.
	Seed uint64
	// Rand overrides the random source. It is consumed, so reusing one
	// source across calls gives different layouts.
	Rand *rand.Rand

	// Workers is the number of goroutines accumulating repulsion. Values
	// below 2 run serially. Results do not depend on it.
	Workers int

	// Snapshot, if set, receives a copy of the positions after every step.
	Snapshot func(iter int, pos map[int]Vec3)
}

// DefaultOptions returns the tuned defaults.
func DefaultOptions() Options {
	return Options{
		Iterations:       300,
		TimeStep:         0.5,
		Damping:          0.85,
		MaxSpeed:         10,
		SpringLength:     10,
		SpringK:          0.2,
		Repulsion:        400,
		Softening:        1,
		AngleBand:        0.2,
		AngleStrength:    0.5,
		AngleNudge:       0.05,
		Gravity:          0.02,
		MinDistance:      4,
		RelaxPasses:      1,
		FinalRelaxPasses: 200,
		InitialRadius:    5,
		ViewRadius:       100,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	setInt := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	setFloat := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	setInt(&o.Iterations, d.Iterations)
	setInt(&o.RelaxPasses, d.RelaxPasses)
	setInt(&o.FinalRelaxPasses, d.FinalRelaxPasses)
	setFloat(&o.TimeStep, d.TimeStep)
	setFloat(&o.Damping, d.Damping)
	setFloat(&o.MaxSpeed, d.MaxSpeed)
	setFloat(&o.SpringLength, d.SpringLength)
	setFloat(&o.SpringK, d.SpringK)
	setFloat(&o.Repulsion, d.Repulsion)
	setFloat(&o.Softening, d.Softening)
	setFloat(&o.AngleBand, d.AngleBand)
	setFloat(&o.AngleStrength, d.AngleStrength)
	setFloat(&o.AngleNudge, d.AngleNudge)
	setFloat(&o.Gravity, d.Gravity)
	setFloat(&o.MinDistance, d.MinDistance)
	setFloat(&o.InitialRadius, d.InitialRadius)
	setFloat(&o.ViewRadius, d.ViewRadius)
	o.Damping = min(o.Damping, 1)
	return o
}

// Compute lays out nodes in 3-D and returns a position per node. Edges whose
// endpoints are not both in nodes are ignored, as are duplicate nodes and
// edges. Zero nodes give an empty map and a single node sits at the origin.
func Compute(nodes []int, edges []subset.Edge, opts Options) map[int]Vec3 {
	pos, _ := ComputeContext(context.Background(), nodes, edges, opts)
	return pos
}

// ComputeContext is [Compute] with cancellation, checked between steps.
func ComputeContext(ctx context.Context, nodes []int, edges []subset.Edge, opts Options) (map[int]Vec3, error) {
	opts = opts.withDefaults()
	s := newSim(nodes, edges, opts)

	switch len(s.ids) {
	case 0:
		return map[int]Vec3{}, nil
	case 1:
		return map[int]Vec3{s.ids[0]: {}}, nil
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	}
	s.scatter(rng)

	for iter := range opts.Iterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.step(ctx); err != nil {
			return nil, err
		}
		if opts.Snapshot != nil {
			opts.Snapshot(iter, s.positions())
		}
	}

	s.rescale()
	s.relax(opts.FinalRelaxPasses)
	return s.positions(), nil
}

// sim holds the per-call simulation arena, indexed by slot.
type sim struct {
	opts  Options
	ids   []int
	adj   [][]int
	edges [][2]int
	pos   []Vec3
	vel   []Vec3
	force []Vec3
}

func newSim(nodes []int, edges []subset.Edge, opts Options) *sim {
	s := &sim{opts: opts}
	slot := make(map[int]int, len(nodes))
	for _, id := range nodes {
		if _, dup := slot[id]; dup {
			continue
		}
		slot[id] = len(s.ids)
		s.ids = append(s.ids, id)
	}

	s.adj = make([][]int, len(s.ids))
	seen := make(map[[2]int]bool, len(edges))
	for _, e := range edges {
		a, okA := slot[e.From]
		b, okB := slot[e.To]
		if !okA || !okB || a == b {
			continue
		}
		key := [2]int{min(a, b), max(a, b)}
		if seen[key] {
			continue
		}
		seen[key] = true
		s.edges = append(s.edges, key)
		s.adj[a] = append(s.adj[a], b)
		s.adj[b] = append(s.adj[b], a)
	}

	n := len(s.ids)
	s.pos = make([]Vec3, n)
	s.vel = make([]Vec3, n)
	s.force = make([]Vec3, n)
	return s
}

// scatter places every node at InitialRadius in a uniformly random direction.
func (s *sim) scatter(rng *rand.Rand) {
	for i := range s.pos {
		var d Vec3
		for {
			d = Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
			if d.Len() > 1e-9 {
				break
			}
		}
		s.pos[i] = d.Scale(s.opts.InitialRadius / d.Len())
	}
}

func (s *sim) step(ctx context.Context) error {
	if err := s.repel(ctx); err != nil {
		return err
	}
	s.springs()
	s.spreadAngles()

	o := s.opts
	for i := range s.pos {
		f := s.force[i].Sub(s.pos[i].Scale(o.Gravity))
		v := s.vel[i].Add(f.Scale(o.TimeStep)).Scale(o.Damping)
		if speed := v.Len(); speed > o.MaxSpeed {
			v = v.Scale(o.MaxSpeed / speed)
		}
		s.vel[i] = v
		s.pos[i] = s.pos[i].Add(v.Scale(o.TimeStep))
	}

	s.relax(o.RelaxPasses)
	return nil
}

// repel overwrites force with the repulsion on each node. Each node's sum is
// accumulated in slot order by a single goroutine.
func (s *sim) repel(ctx context.Context) error {
	n := len(s.pos)
	workers := min(s.opts.Workers, n)
	if workers < 2 {
		s.repelRange(0, n)
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			s.repelRange(lo, hi)
			return nil
		})
	}
	return g.Wait()
}

func (s *sim) repelRange(lo, hi int) {
	o := s.opts
	for i := lo; i < hi; i++ {
		var f Vec3
		for j := range s.pos {
			if i == j {
				continue
			}
			d := s.pos[i].Sub(s.pos[j])
			d2 := d.Dot(d)
			if d2 < 1e-24 {
				continue
			}
			f = f.Add(d.Scale(o.Repulsion / (d2 + o.Softening) / math.Sqrt(d2)))
		}
		s.force[i] = f
	}
}

func (s *sim) springs() {
	o := s.opts
	for _, e := range s.edges {
		a, b := e[0], e[1]
		d := s.pos[b].Sub(s.pos[a])
		l := d.Len()
		if l < 1e-12 {
			continue
		}
		f := d.Scale(o.SpringK * (l - o.SpringLength) / l)
		s.force[a] = s.force[a].Add(f)
		s.force[b] = s.force[b].Sub(f)
	}
}

// spreadAngles pushes the far endpoints of every incident edge pair along
// the tangent that widens (or, inside the band, narrows) their angle.
func (s *sim) spreadAngles() {
	o := s.opts
	for c, nbrs := range s.adj {
		for x := 0; x < len(nbrs); x++ {
			for y := x + 1; y < len(nbrs); y++ {
				a, b := nbrs[x], nbrs[y]
				da := s.pos[a].Sub(s.pos[c])
				db := s.pos[b].Sub(s.pos[c])
				la, lb := da.Len(), db.Len()
				if la < 1e-12 || lb < 1e-12 {
					continue
				}
				ua, ub := da.Scale(1/la), db.Scale(1/lb)
				cos := ua.Dot(ub)

				var m float64
				switch {
				case cos > o.AngleBand:
					m = o.AngleStrength * cos
				case math.Abs(cos) <= o.AngleBand:
					m = o.AngleNudge * cos
				default:
					continue
				}

				ta := ub.Sub(ua.Scale(cos))
				tb := ua.Sub(ub.Scale(cos))
				if l := ta.Len(); l > 1e-12 {
					s.force[a] = s.force[a].Sub(ta.Scale(m / l))
				}
				if l := tb.Len(); l > 1e-12 {
					s.force[b] = s.force[b].Sub(tb.Scale(m / l))
				}
			}
		}
	}
}

// relax pushes apart pairs closer than MinDistance, for at most passes
// sweeps or until a sweep moves nothing.
func (s *sim) relax(passes int) {
	minDist := s.opts.MinDistance
	for range passes {
		moved := false
		for i := range s.pos {
			for j := i + 1; j < len(s.pos); j++ {
				d := s.pos[i].Sub(s.pos[j])
				l := d.Len()
				if l >= minDist-1e-9 {
					continue
				}
				axis := Vec3{X: 1}
				if l > 1e-12 {
					axis = d.Scale(1 / l)
				}
				half := axis.Scale((minDist - l) / 2)
				s.pos[i] = s.pos[i].Add(half)
				s.pos[j] = s.pos[j].Sub(half)
				moved = true
			}
		}
		if !moved {
			return
		}
	}
}

// rescale scales positions so the farthest node sits at ViewRadius.
func (s *sim) rescale() {
	r := 0.0
	for _, p := range s.pos {
		r = max(r, p.Len())
	}
	if r < 1e-12 {
		return
	}
	k := s.opts.ViewRadius / r
	for i := range s.pos {
		s.pos[i] = s.pos[i].Scale(k)
	}
}

func (s *sim) positions() map[int]Vec3 {
	out := make(map[int]Vec3, len(s.ids))
	for i, id := range s.ids {
		out[id] = s.pos[i]
	}
	return out
}
