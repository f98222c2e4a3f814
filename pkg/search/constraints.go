package search

import (
	"math"

	"github.com/causalab/gies/pkg/errors"
	"github.com/causalab/gies/pkg/score"
)

// Unbounded is the degree bound of a vertex without a cap.
const Unbounded = math.MaxInt

// Constraints is the precomputed structural-constraint filter: a symmetric
// forbidden-pair mask and per-vertex degree bounds. Built once before the
// search starts and immutable thereafter, so concurrent candidate
// evaluators can query it without synchronization.
type Constraints struct {
	p         int
	forbidden []bool // p*p, symmetric
	bounds    []int
}

// NewConstraints validates the fixed-gap matrix and the max-degree
// specification and derives the per-vertex bounds.
//
// The maxDegree specification accepts four shapes:
//
//   - empty: every vertex unbounded
//   - one value r in (0,1): bound(v) = floor(r * n_v), n_v taken from the
//     scorer's per-vertex observation count
//   - one integral value k >= 1: bound(v) = k for all v
//   - p non-negative integral values: explicit per-vertex bounds
//
// Any other shape is rejected with an INVALID_DEGREE configuration error;
// malformed gap matrices are rejected with INVALID_GAPS. Nothing is
// partially applied on failure.
func NewConstraints(p int, gaps [][]bool, maxDegree []float64, s score.LocalScorer) (*Constraints, error) {
	c := &Constraints{p: p, forbidden: make([]bool, p*p), bounds: make([]int, p)}

	if gaps != nil {
		if len(gaps) != p {
			return nil, errors.New(errors.ErrCodeInvalidGaps,
				"fixed gaps matrix has %d rows, want %d", len(gaps), p)
		}
		for i, row := range gaps {
			if len(row) != p {
				return nil, errors.New(errors.ErrCodeInvalidGaps,
					"fixed gaps row %d has %d columns, want %d", i, len(row), p)
			}
		}
		for i := 0; i < p; i++ {
			for j := 0; j < p; j++ {
				if gaps[i][j] != gaps[j][i] {
					return nil, errors.New(errors.ErrCodeInvalidGaps,
						"fixed gaps matrix not symmetric at (%d, %d)", i, j)
				}
				c.forbidden[i*p+j] = gaps[i][j]
			}
		}
	}

	switch len(maxDegree) {
	case 0:
		for v := range c.bounds {
			c.bounds[v] = Unbounded
		}
	case 1:
		val := maxDegree[0]
		switch {
		case val > 0 && val < 1:
			for v := range c.bounds {
				c.bounds[v] = int(math.Floor(val * float64(s.ObservationCount(v))))
			}
		case val >= 1 && val == math.Trunc(val):
			for v := range c.bounds {
				c.bounds[v] = int(val)
			}
		default:
			return nil, errors.New(errors.ErrCodeInvalidDegree,
				"max degree %v must be a fraction in (0,1) or an integer >= 1", val)
		}
	case p:
		for v, val := range maxDegree {
			if val < 0 || val != math.Trunc(val) {
				return nil, errors.New(errors.ErrCodeInvalidDegree,
					"per-vertex max degree %v at vertex %d must be a non-negative integer", val, v)
			}
			c.bounds[v] = int(val)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidDegree,
			"max degree must be empty, a single value, or one value per vertex (got %d values for %d vertices)",
			len(maxDegree), p)
	}

	return c, nil
}

// Forbidden reports whether any edge between i and j is permanently
// excluded. Symmetric by construction, O(1).
func (c *Constraints) Forbidden(i, j int) bool {
	return c.forbidden[i*c.p+j]
}

// Bound returns the degree bound of v, or [Unbounded].
func (c *Constraints) Bound(v int) int {
	return c.bounds[v]
}

// Fits reports whether vertex v at current degree d can accept one more
// incident edge.
func (c *Constraints) Fits(v, d int) bool {
	return c.bounds[v] == Unbounded || d+1 <= c.bounds[v]
}
