package search

import "fmt"

// Op is the kind of a single-edge modification.
type Op int

const (
	// OpAdd inserts a new directed edge.
	OpAdd Op = iota
	// OpRemove deletes an existing directed edge.
	OpRemove
	// OpTurn reverses an existing directed edge.
	OpTurn
)

// String returns the lowercase operation name.
func (op Op) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	case OpTurn:
		return "turn"
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// Move is a candidate single-edge change together with its score delta.
// Moves are ephemeral: generated, compared, and discarded within one
// evaluation round.
type Move struct {
	Op    Op
	From  int
	To    int
	Delta float64
}

// String renders the move for logs and hooks, e.g. "add 0->2 (+1.500)".
func (m Move) String() string {
	return fmt.Sprintf("%s %d->%d (%+.3f)", m.Op, m.From, m.To, m.Delta)
}

// Phase names one hill-climbing strategy: which move type is generated and
// evaluated. Phases carry no state; they are selectors.
type Phase string

const (
	// Forward adds the best-improving missing edge until none improves.
	Forward Phase = "forward"
	// Backward removes the best-improving existing edge until none improves.
	Backward Phase = "backward"
	// Turning reverses the best-improving existing edge until none improves.
	Turning Phase = "turning"
)

// DefaultPhases is the standard phase order: forward, backward, turning.
func DefaultPhases() []Phase { return []Phase{Forward, Backward, Turning} }

// op returns the move type this phase generates.
func (p Phase) op() Op {
	switch p {
	case Backward:
		return OpRemove
	case Turning:
		return OpTurn
	}
	return OpAdd
}
