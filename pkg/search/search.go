// Package search implements score-guided greedy structure search over DAGs.
//
// The engine estimates the Markov equivalence class of a causal model by
// hill climbing through single-edge modifications - additions, removals,
// and reversals - of a directed acyclic graph, guided by an external
// decomposable score and filtered by structural constraints (forbidden
// pairs, degree bounds).
//
// # Control flow
//
// A [Searcher] runs the configured sequence of phases; each phase
// repeatedly asks the candidate evaluator for the best strictly improving
// legal move and applies it, until no move improves. With iteration
// enabled, the full phase list repeats until one complete pass accepts no
// move. The final DAG and the intervention targets are then handed to the
// configured [essential.Converter].
//
// The move-accept loop is a single logical thread of control: every
// accepted move invalidates the deltas and legality of other candidates.
// Parallelism is confined to candidate evaluation within one iteration,
// where the DAG snapshot is read-only.
//
// # Termination
//
// Each accepted move strictly increases the score, which is bounded above
// over the finite admissible graph space, so both phase-local climbing and
// global iteration terminate without artificial caps. This argument assumes
// the scorer meets its documented determinism precondition.
package search

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/causalab/gies/pkg/dag"
	"github.com/causalab/gies/pkg/errors"
	"github.com/causalab/gies/pkg/essential"
	"github.com/causalab/gies/pkg/observability"
	"github.com/causalab/gies/pkg/score"
)

// Searcher runs greedy structure searches for one scorer and configuration.
//
// All mutable state lives inside Run; a Searcher can run repeatedly and
// each invocation starts from the empty DAG.
type Searcher struct {
	scorer score.LocalScorer
	opts   Options
	cons   *Constraints
	logger *log.Logger
}

// Result is the outcome of one search invocation.
type Result struct {
	// RunID uniquely identifies this invocation.
	RunID string `json:"run_id"`

	// DAG is the class representative: the final graph of the search.
	DAG *dag.Digraph `json:"-"`

	// Essential is the equivalence-class graph produced by the converter.
	Essential *essential.Graph `json:"-"`

	// Score is the total decomposable score of the final DAG.
	Score float64 `json:"score"`

	// Moves counts all accepted moves across all phases and passes.
	Moves int `json:"moves"`

	// Passes counts complete passes through the phase list.
	Passes int `json:"passes"`

	// PhaseMoves breaks down accepted moves per phase name.
	PhaseMoves map[string]int `json:"phase_moves"`

	// Duration is the wall-clock search time, excluding conversion.
	Duration time.Duration `json:"duration"`
}

// New validates the configuration against the scorer and builds a Searcher.
// All configuration errors surface here, before any search step runs.
func New(scorer score.LocalScorer, opts Options) (*Searcher, error) {
	if scorer == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "scorer must not be nil")
	}
	if err := opts.ValidateAndSetDefaults(scorer); err != nil {
		return nil, err
	}
	cons, err := NewConstraints(len(opts.Labels), opts.FixedGaps, opts.MaxDegree, scorer)
	if err != nil {
		return nil, err
	}
	return &Searcher{
		scorer: scorer,
		opts:   opts,
		cons:   cons,
		logger: opts.Logger,
	}, nil
}

// Options returns the resolved configuration, defaults applied.
func (s *Searcher) Options() Options { return s.opts }

// Run executes the search to convergence and returns the equivalence-class
// graph together with the representative DAG.
//
// The context is only consulted between moves; a cancelled context aborts
// the run with the context's error. Internal invariant violations (the
// graph store rejecting a move the evaluator deemed legal) abort the run
// with an INTERNAL_INVARIANT error.
func (s *Searcher) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	d := dag.NewLabeled(s.opts.Labels)

	result := &Result{
		RunID:      uuid.NewString(),
		DAG:        d,
		PhaseMoves: make(map[string]int, len(s.opts.Phases)),
	}

	s.logger.Info("search started",
		"run", result.RunID,
		"vertices", d.Order(),
		"phases", len(s.opts.Phases),
		"iterate", *s.opts.Iterate)

	for {
		result.Passes++
		passMoves := 0
		for _, ph := range s.opts.Phases {
			moves, err := s.runPhase(ctx, d, ph, result)
			if err != nil {
				return nil, err
			}
			passMoves += moves
		}
		result.Moves += passMoves
		if !*s.opts.Iterate || passMoves == 0 {
			break
		}
	}

	result.Score = score.Total(s.scorer, d.Parents)
	result.Duration = time.Since(start)
	observability.Search().OnConverged(ctx, result.Passes, result.Score)

	s.logger.Info("search converged",
		"run", result.RunID,
		"score", result.Score,
		"moves", result.Moves,
		"passes", result.Passes,
		"edges", d.EdgeCount(),
		"duration", result.Duration.Round(time.Millisecond))

	eg, err := s.opts.Converter.Convert(d, s.opts.Targets)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "essential graph conversion")
	}
	result.Essential = eg
	return result, nil
}

// runPhase hill-climbs one phase to local convergence: repeatedly apply
// the evaluator's best improving move until none remains.
func (s *Searcher) runPhase(ctx context.Context, d *dag.Digraph, ph Phase, result *Result) (int, error) {
	phaseStart := time.Now()
	observability.Search().OnPhaseStart(ctx, string(ph), score.Total(s.scorer, d.Parents))

	ev := &evaluator{d: d, cons: s.cons, scorer: s.scorer, workers: s.opts.Workers}
	moves := 0
	for {
		if err := ctx.Err(); err != nil {
			return moves, err
		}
		mv, ok := ev.bestMove(ph)
		if !ok {
			break
		}
		if err := s.apply(d, mv); err != nil {
			return moves, err
		}
		moves++
		result.PhaseMoves[string(ph)]++
		observability.Search().OnMoveAccepted(ctx, string(ph), mv.String(), mv.Delta)
		s.logger.Debug("accepted move", "phase", ph, "move", mv.String())
	}

	observability.Search().OnPhaseComplete(ctx, string(ph), moves, time.Since(phaseStart))
	s.logger.Debug("phase converged", "phase", ph, "moves", moves)
	return moves, nil
}

// apply commits a move to the graph store. The evaluator has already
// established legality, so a store rejection is an engine bug and is
// escalated as an invariant violation, fatal to the current search.
func (s *Searcher) apply(d *dag.Digraph, mv Move) error {
	var err error
	switch mv.Op {
	case OpAdd:
		err = d.AddEdge(mv.From, mv.To)
	case OpRemove:
		err = d.RemoveEdge(mv.From, mv.To)
	case OpTurn:
		err = d.ReverseEdge(mv.From, mv.To)
	default:
		return errors.New(errors.ErrCodeInvariant, "unknown move operation %d", int(mv.Op))
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvariant, err, "apply %s", mv)
	}
	return nil
}
