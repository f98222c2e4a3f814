package dag

import (
	"errors"
	"reflect"
	"testing"
)

func TestAddEdge(t *testing.T) {
	d := New(3)

	if err := d.AddEdge(0, 1); err != nil {
		t.Fatalf("AddEdge(0,1) error: %v", err)
	}
	if !d.HasEdge(0, 1) {
		t.Error("HasEdge(0,1) = false, want true")
	}
	if d.HasEdge(1, 0) {
		t.Error("HasEdge(1,0) = true, want false")
	}
	if d.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", d.EdgeCount())
	}
	if d.Degree(0) != 1 || d.Degree(1) != 1 || d.Degree(2) != 0 {
		t.Errorf("degrees = %d,%d,%d, want 1,1,0", d.Degree(0), d.Degree(1), d.Degree(2))
	}
}

func TestAddEdge_ContractViolations(t *testing.T) {
	d := New(3)
	if err := d.AddEdge(0, 1); err != nil {
		t.Fatalf("AddEdge(0,1) error: %v", err)
	}

	tests := []struct {
		name    string
		i, j    int
		wantErr error
	}{
		{"duplicate", 0, 1, ErrDuplicateEdge},
		{"self loop", 1, 1, ErrSelfLoop},
		{"negative index", -1, 0, ErrVertexOutOfRange},
		{"index too large", 0, 3, ErrVertexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.AddEdge(tt.i, tt.j); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddEdge(%d,%d) = %v, want %v", tt.i, tt.j, err, tt.wantErr)
			}
		})
	}
}

func TestRemoveEdge(t *testing.T) {
	d := New(2)
	d.AddEdge(0, 1)

	if err := d.RemoveEdge(0, 1); err != nil {
		t.Fatalf("RemoveEdge(0,1) error: %v", err)
	}
	if d.HasEdge(0, 1) {
		t.Error("HasEdge(0,1) = true after removal")
	}
	if d.Degree(0) != 0 || d.Degree(1) != 0 {
		t.Errorf("degrees after removal = %d,%d, want 0,0", d.Degree(0), d.Degree(1))
	}

	if err := d.RemoveEdge(0, 1); !errors.Is(err, ErrMissingEdge) {
		t.Errorf("RemoveEdge of missing edge = %v, want ErrMissingEdge", err)
	}
}

func TestReverseEdge(t *testing.T) {
	d := New(3)
	d.AddEdge(0, 1)
	d.AddEdge(0, 2)

	if err := d.ReverseEdge(0, 1); err != nil {
		t.Fatalf("ReverseEdge(0,1) error: %v", err)
	}
	if d.HasEdge(0, 1) {
		t.Error("edge 0->1 still present after reversal")
	}
	if !d.HasEdge(1, 0) {
		t.Error("edge 1->0 missing after reversal")
	}
	// Degrees are unchanged by reversal.
	if d.Degree(0) != 2 || d.Degree(1) != 1 {
		t.Errorf("degrees = %d,%d, want 2,1", d.Degree(0), d.Degree(1))
	}
	if err := d.ReverseEdge(0, 1); !errors.Is(err, ErrMissingEdge) {
		t.Errorf("ReverseEdge of missing edge = %v, want ErrMissingEdge", err)
	}
}

func TestWouldCreateCycle(t *testing.T) {
	// 0 -> 1 -> 2, plus isolated 3.
	d := New(4)
	d.AddEdge(0, 1)
	d.AddEdge(1, 2)

	tests := []struct {
		name string
		i, j int
		want bool
	}{
		{"back edge closes cycle", 2, 0, true},
		{"direct back edge", 1, 0, true},
		{"forward shortcut is fine", 0, 2, false},
		{"isolated vertex is fine", 3, 0, false},
		{"self loop always cycles", 1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.WouldCreateCycle(tt.i, tt.j); got != tt.want {
				t.Errorf("WouldCreateCycle(%d,%d) = %v, want %v", tt.i, tt.j, got, tt.want)
			}
		})
	}
}

func TestReverseWouldCreateCycle(t *testing.T) {
	// 0 -> 1, 0 -> 2, 2 -> 1. Reversing 0 -> 1 leaves the path 0 -> 2 -> 1,
	// so the new edge 1 -> 0 closes a cycle. Reversing 2 -> 1 is safe: the
	// only 2 -> 1 path is the edge itself, which the check excludes.
	d := New(3)
	d.AddEdge(0, 1)
	d.AddEdge(0, 2)
	d.AddEdge(2, 1)

	if got := d.ReverseWouldCreateCycle(0, 1); !got {
		t.Error("ReverseWouldCreateCycle(0,1) = false, want true (path 0->2->1 remains)")
	}
	if got := d.ReverseWouldCreateCycle(2, 1); got {
		t.Error("ReverseWouldCreateCycle(2,1) = true, want false")
	}
}

func TestParentsChildren(t *testing.T) {
	d := New(4)
	d.AddEdge(2, 0)
	d.AddEdge(1, 0)
	d.AddEdge(0, 3)

	if got := d.Parents(0); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Parents(0) = %v, want [1 2]", got)
	}
	if got := d.Children(0); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("Children(0) = %v, want [3]", got)
	}
	if got := d.Parents(1); len(got) != 0 {
		t.Errorf("Parents(1) = %v, want empty", got)
	}
}

func TestEdges_Deterministic(t *testing.T) {
	d := New(4)
	d.AddEdge(3, 0)
	d.AddEdge(1, 2)
	d.AddEdge(1, 0)

	want := []Edge{{From: 1, To: 0}, {From: 1, To: 2}, {From: 3, To: 0}}
	if got := d.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestValidate(t *testing.T) {
	d := New(3)
	d.AddEdge(0, 1)
	d.AddEdge(1, 2)
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() on acyclic graph = %v, want nil", err)
	}

	// Force a cycle through the internal representation: AddEdge does not
	// detect cycles by contract, so this models a buggy caller.
	d.AddEdge(2, 0)
	if err := d.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Validate() on cyclic graph = %v, want ErrGraphHasCycle", err)
	}
}

func TestClone_Independent(t *testing.T) {
	d := New(3)
	d.AddEdge(0, 1)

	c := d.Clone()
	c.AddEdge(1, 2)

	if d.HasEdge(1, 2) {
		t.Error("mutation of clone leaked into original")
	}
	if c.EdgeCount() != 2 || d.EdgeCount() != 1 {
		t.Errorf("EdgeCount() clone=%d original=%d, want 2 and 1", c.EdgeCount(), d.EdgeCount())
	}
	if c.Label(1) != d.Label(1) {
		t.Errorf("clone label = %q, want %q", c.Label(1), d.Label(1))
	}
}

func TestLabels(t *testing.T) {
	d := NewLabeled([]string{"x", "y"})
	if got := d.Label(1); got != "y" {
		t.Errorf("Label(1) = %q, want %q", got, "y")
	}
	if err := d.Relabel([]string{"only one"}); !errors.Is(err, ErrLabelCount) {
		t.Errorf("Relabel with wrong length = %v, want ErrLabelCount", err)
	}
	if err := d.Relabel([]string{"a", "b"}); err != nil {
		t.Errorf("Relabel error: %v", err)
	}
	if got := d.Label(0); got != "a" {
		t.Errorf("Label(0) after relabel = %q, want %q", got, "a")
	}
}
