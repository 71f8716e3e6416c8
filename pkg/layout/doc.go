// Package layout positions a state-graph subset in three dimensions with a
// force-directed simulation.
//
// # Algorithm
//
// Every node starts on a small sphere ([Options.InitialRadius]) in a random
// direction with zero velocity. Each of [Options.Iterations] steps then sums
// five contributions per node and integrates them with damped explicit Euler:
//
//   - Springs pull each edge toward [Options.SpringLength].
//   - Every node pair repels with Repulsion/(d²+Softening).
//   - Edges sharing an endpoint are spread apart when their angle is well
//     below 90°, and nudged gently toward 90° when already close to it.
//   - Gravity pulls every node toward the origin.
//   - After integration, pairs closer than [Options.MinDistance] are pushed
//     apart along their axis, splitting the deficit equally.
//
// Finally, positions are scaled uniformly so the farthest node sits at
// [Options.ViewRadius], and a bounded relaxation restores the minimum
// separation in the returned coordinates.
//
// # Determinism
//
// The only randomness is the initial scatter. With the same [Options.Seed]
// (or an equivalently seeded [Options.Rand]) the result is identical across
// runs and for any [Options.Workers] count.
//
// The layout is a heuristic: it aims for a legible picture of the sampled
// subgraph, not a global energy minimum.
package layout
