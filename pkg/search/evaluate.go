package search

import (
	"sort"
	"sync"

	"github.com/causalab/gies/pkg/dag"
	"github.com/causalab/gies/pkg/score"
)

// evaluator finds the single best legal move for a phase against a fixed
// snapshot of the DAG.
//
// Enumeration is deterministic (ascending (from, to) order) and cheap
// filters run inline; cycle checks and score deltas run in parallel across
// workers with read-only access to the graph and constraints. The reduction
// is sequential and breaks delta ties by the lowest candidate index, so the
// selected move is independent of goroutine scheduling.
type evaluator struct {
	d       *dag.Digraph
	cons    *Constraints
	scorer  score.LocalScorer
	workers int
}

// bestMove returns the legal move with the maximum strictly positive score
// delta, or ok=false when the phase has converged (no improving move).
func (e *evaluator) bestMove(ph Phase) (Move, bool) {
	cands := e.enumerate(ph)
	if len(cands) == 0 {
		return Move{}, false
	}

	workers := e.workers
	if workers > len(cands) {
		workers = len(cands)
	}

	type best struct {
		idx int
		mv  Move
	}
	bests := make([]best, workers)
	for w := range bests {
		bests[w].idx = -1
	}

	chunk := (len(cands) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, (w+1)*chunk
		if hi > len(cands) {
			hi = len(cands)
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			b := best{idx: -1}
			for idx := lo; idx < hi; idx++ {
				mv, ok := e.evaluate(ph, cands[idx])
				if !ok || mv.Delta <= 0 {
					continue
				}
				// Strictly greater only: within a chunk the first of an
				// equal-delta pair has the lower index and must win.
				if b.idx < 0 || mv.Delta > b.mv.Delta {
					b = best{idx: idx, mv: mv}
				}
			}
			bests[w] = b
		}(w, lo, hi)
	}
	wg.Wait()

	// Chunks are in ascending index order, so replacing only on a strictly
	// greater delta preserves the lowest-index tie-break across workers.
	final := best{idx: -1}
	for _, b := range bests {
		if b.idx < 0 {
			continue
		}
		if final.idx < 0 || b.mv.Delta > final.mv.Delta {
			final = b
		}
	}
	if final.idx < 0 {
		return Move{}, false
	}
	return final.mv, true
}

// enumerate lists candidate moves in ascending (from, to) order, applying
// only the cheap filters (adjacency, forbidden pairs, degree headroom).
// Cycle safety is deferred to evaluate, where it runs in parallel.
func (e *evaluator) enumerate(ph Phase) []Move {
	op := ph.op()

	if op == OpAdd {
		p := e.d.Order()
		var cands []Move
		for i := 0; i < p; i++ {
			for j := 0; j < p; j++ {
				if i == j || e.d.Adjacent(i, j) || e.cons.Forbidden(i, j) {
					continue
				}
				if !e.cons.Fits(i, e.d.Degree(i)) || !e.cons.Fits(j, e.d.Degree(j)) {
					continue
				}
				cands = append(cands, Move{Op: OpAdd, From: i, To: j})
			}
		}
		return cands
	}

	// Backward and turning both range over existing edges. The forbidden
	// mask needs no re-check: the pair is already connected, so it was
	// never forbidden, and neither operation changes any degree.
	edges := e.d.Edges()
	cands := make([]Move, len(edges))
	for idx, edge := range edges {
		cands[idx] = Move{Op: op, From: edge.From, To: edge.To}
	}
	return cands
}

// evaluate runs the remaining legality checks and computes the score delta
// of one candidate. Read-only with respect to the graph; safe to call
// concurrently while no mutation is in flight.
func (e *evaluator) evaluate(ph Phase, mv Move) (Move, bool) {
	i, j := mv.From, mv.To

	switch mv.Op {
	case OpAdd:
		if e.d.WouldCreateCycle(i, j) {
			return Move{}, false
		}
		parents := e.d.Parents(j)
		mv.Delta = e.scorer.LocalScore(j, insertSorted(parents, i)) -
			e.scorer.LocalScore(j, parents)

	case OpRemove:
		parents := e.d.Parents(j)
		mv.Delta = e.scorer.LocalScore(j, without(parents, i)) -
			e.scorer.LocalScore(j, parents)

	case OpTurn:
		if e.d.ReverseWouldCreateCycle(i, j) {
			return Move{}, false
		}
		iParents := e.d.Parents(i)
		jParents := e.d.Parents(j)
		mv.Delta = e.scorer.LocalScore(i, insertSorted(iParents, j)) +
			e.scorer.LocalScore(j, without(jParents, i)) -
			e.scorer.LocalScore(i, iParents) -
			e.scorer.LocalScore(j, jParents)
	}

	return mv, true
}

// insertSorted returns a new slice with x inserted into sorted xs.
func insertSorted(xs []int, x int) []int {
	pos := sort.SearchInts(xs, x)
	out := make([]int, 0, len(xs)+1)
	out = append(out, xs[:pos]...)
	out = append(out, x)
	return append(out, xs[pos:]...)
}

// without returns a new slice with x removed from xs.
func without(xs []int, x int) []int {
	out := make([]int, 0, len(xs))
	for _, v := range xs {
		if v != x {
			out = append(out, v)
		}
	}
	return out
}
