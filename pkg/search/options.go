package search

import (
	"io"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/causalab/gies/pkg/errors"
	"github.com/causalab/gies/pkg/essential"
	"github.com/causalab/gies/pkg/score"
)

// Options configures one search invocation.
//
// Zero values select the documented defaults; ValidateAndSetDefaults
// resolves them against the scorer before any search step runs. A rejected
// configuration leaves no partial state behind.
type Options struct {
	// Labels names the vertices. Defaults to the scorer's vertex list;
	// when set, the length must match it.
	Labels []string

	// Targets is the intervention target set passed through to the scorer's
	// consumers and the essential-graph converter. Defaults to the scorer's
	// targets. Never interpreted by the engine itself.
	Targets [][]int

	// FixedGaps, when non-nil, is a p x p symmetric matrix; true at (i, j)
	// permanently excludes any edge between i and j.
	FixedGaps [][]bool

	// Phases is the ordered list of phases to run.
	// Defaults to forward, backward, turning.
	Phases []Phase

	// Iterate repeats the full phase list until a complete pass accepts no
	// move. Defaults to true iff more than one phase is configured.
	Iterate *bool

	// MaxDegree bounds vertex degrees; see [NewConstraints] for the
	// accepted shapes. Empty means unbounded.
	MaxDegree []float64

	// Verbose emits per-move progress diagnostics. No effect on results.
	Verbose bool

	// Workers caps the goroutines used to evaluate candidates within one
	// iteration. Defaults to runtime.NumCPU(). The move-accept loop itself
	// is always sequential.
	Workers int

	// Converter produces the equivalence-class graph from the final DAG.
	// Defaults to [essential.Directed], a stand-in that tags every edge
	// directed.
	Converter essential.Converter

	// Logger receives progress diagnostics. Defaults to a discarding
	// logger unless Verbose is set.
	Logger *log.Logger
}

// ValidateAndSetDefaults resolves defaults against the scorer and rejects
// malformed configuration with INVALID_* errors. It must succeed before a
// Searcher is constructed.
func (o *Options) ValidateAndSetDefaults(s score.LocalScorer) error {
	nodes := s.Nodes()
	p := len(nodes)
	if p == 0 {
		return errors.New(errors.ErrCodeInvalidScore, "scorer exposes no vertices")
	}

	if o.Labels == nil {
		o.Labels = nodes
	} else if len(o.Labels) != p {
		return errors.New(errors.ErrCodeInvalidConfig,
			"%d labels for %d vertices", len(o.Labels), p)
	}

	if o.Targets == nil {
		o.Targets = s.Targets()
	}
	for ti, target := range o.Targets {
		for _, v := range target {
			if v < 0 || v >= p {
				return errors.New(errors.ErrCodeInvalidTargets,
					"target %d references vertex %d outside [0, %d)", ti, v, p)
			}
		}
	}

	if len(o.Phases) == 0 {
		o.Phases = DefaultPhases()
	}
	for _, ph := range o.Phases {
		switch ph {
		case Forward, Backward, Turning:
		default:
			return errors.New(errors.ErrCodeInvalidPhase, "unknown phase %q", string(ph))
		}
	}

	if o.Iterate == nil {
		iterate := len(o.Phases) > 1
		o.Iterate = &iterate
	}

	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}

	if o.Converter == nil {
		o.Converter = essential.Directed{}
	}

	if o.Logger == nil {
		if o.Verbose {
			o.Logger = log.Default()
		} else {
			o.Logger = log.New(io.Discard)
		}
	}

	return nil
}
