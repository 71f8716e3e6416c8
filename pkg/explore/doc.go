// Package explore builds the reachable state graph of a sliding-block puzzle.
//
// # Overview
//
// [Explore] runs a breadth-first search from a start [board.State], assigning
// each distinct state a dense integer index in discovery order. Index 0 is
// always the start state. The result is a [Graph]: a state table plus an
// adjacency list of directed edges, one per legal unit-step move.
//
// Because every move can be undone, the graph is symmetric: for any expanded
// pair u, v an edge u→v implies v→u.
//
// # State Budget
//
// Exploration stops once the graph holds maxStates states. Neighbors first seen
// after the budget is full are dropped together with their edges, and states
// still waiting in the queue are left unexpanded (stubs with no out-edges).
// [Graph.Truncated] reports whether a neighbor was dropped or a stub has moves
// of its own, so callers can tell a complete space from a partial one. A stub
// with no legal moves is already complete.
//
// # Determinism
//
// Move order is fixed by [board.Moves] and the queue is FIFO, so the same board,
// start state and budget always produce the same indices and edge order.
package explore
