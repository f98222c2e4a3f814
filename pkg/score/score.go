// Package score defines the scoring interface consumed by the search engine
// and the concrete scorers shipped with gies.
//
// The engine never computes statistics itself; it consumes a [LocalScorer],
// a decomposable score whose value for a DAG is the sum of per-vertex local
// terms depending only on each vertex's parent set. Decomposability is what
// makes single-edge score deltas valid: adding i -> j changes only the local
// term of j, and reversing i -> j changes only the terms of i and j.
//
// Preconditions on implementations (documented, not defended against):
// LocalScore must be deterministic for identical arguments and bounded above
// over the admissible graph space. A non-deterministic scorer can make the
// hill-climbing loop cycle.
package score

// LocalScorer is the capability interface of an external decomposable score.
//
// Vertices are identified by their index into Nodes(). Parent sets are
// passed in ascending order by every engine call site, which scorers may
// rely on for canonical memoization keys.
type LocalScorer interface {
	// Nodes returns the ordered vertex labels; its length fixes the vertex
	// count p for the whole search.
	Nodes() []string

	// Targets returns the intervention target sets, one vertex subset per
	// experimental condition. An empty subset denotes observational data.
	// The engine passes targets through untouched.
	Targets() [][]int

	// LocalScore returns the local term of vertex v given the parent set.
	LocalScore(v int, parents []int) float64

	// ObservationCount returns the number of observations in which v was
	// not intervened upon. Used only to derive fractional degree bounds.
	ObservationCount(v int) int
}
