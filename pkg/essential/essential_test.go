package essential

import (
	"errors"
	"reflect"
	"testing"

	"github.com/causalab/gies/pkg/dag"
)

func TestGraph_AddAndQuery(t *testing.T) {
	g := New([]string{"a", "b", "c"})

	if err := g.AddDirected(0, 1); err != nil {
		t.Fatalf("AddDirected error: %v", err)
	}
	if err := g.AddUndirected(2, 1); err != nil {
		t.Fatalf("AddUndirected error: %v", err)
	}

	if !g.HasDirected(0, 1) {
		t.Error("HasDirected(0,1) = false, want true")
	}
	if g.HasDirected(1, 0) {
		t.Error("HasDirected(1,0) = true, want false")
	}
	// Undirected edges match in both orders.
	if !g.HasUndirected(1, 2) || !g.HasUndirected(2, 1) {
		t.Error("HasUndirected should hold in both orders")
	}
	if g.DirectedCount() != 1 || g.UndirectedCount() != 1 {
		t.Errorf("counts = %d directed, %d undirected, want 1 and 1",
			g.DirectedCount(), g.UndirectedCount())
	}
}

func TestGraph_RejectsDuplicates(t *testing.T) {
	g := New([]string{"a", "b"})
	if err := g.AddDirected(0, 1); err != nil {
		t.Fatalf("AddDirected error: %v", err)
	}

	tests := []struct {
		name string
		add  func() error
	}{
		{"same direction", func() error { return g.AddDirected(0, 1) }},
		{"opposite direction", func() error { return g.AddDirected(1, 0) }},
		{"undirected over directed", func() error { return g.AddUndirected(0, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.add(); !errors.Is(err, dag.ErrDuplicateEdge) {
				t.Errorf("got %v, want ErrDuplicateEdge", err)
			}
		})
	}
}

func TestGraph_RejectsBadPairs(t *testing.T) {
	g := New([]string{"a", "b"})
	if err := g.AddDirected(0, 0); !errors.Is(err, dag.ErrSelfLoop) {
		t.Errorf("self loop = %v, want ErrSelfLoop", err)
	}
	if err := g.AddUndirected(0, 5); !errors.Is(err, dag.ErrVertexOutOfRange) {
		t.Errorf("out of range = %v, want ErrVertexOutOfRange", err)
	}
}

func TestGraph_EdgesDeterministic(t *testing.T) {
	g := New([]string{"a", "b", "c", "d"})
	g.AddUndirected(3, 2)
	g.AddDirected(0, 2)
	g.AddDirected(0, 1)

	want := []Edge{
		{From: 0, To: 1, Directed: true},
		{From: 0, To: 2, Directed: true},
		{From: 2, To: 3},
	}
	if got := g.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestDirectedConverter(t *testing.T) {
	d := dag.New(3)
	d.AddEdge(0, 1)
	d.AddEdge(1, 2)

	g, err := Directed{}.Convert(d, [][]int{{}})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if g.Order() != 3 {
		t.Errorf("Order() = %d, want 3", g.Order())
	}
	if !g.HasDirected(0, 1) || !g.HasDirected(1, 2) {
		t.Error("converted graph missing directed edges")
	}
	if g.UndirectedCount() != 0 {
		t.Errorf("UndirectedCount() = %d, want 0", g.UndirectedCount())
	}
	if g.Label(2) != d.Label(2) {
		t.Errorf("labels not carried over: %q != %q", g.Label(2), d.Label(2))
	}
}
