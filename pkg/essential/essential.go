// Package essential defines the equivalence-class graph produced at the end
// of a search and the converter interface that produces it.
//
// An essential graph is a partially directed graph representing a Markov
// equivalence class: directed edges are oriented identically in every DAG of
// the class, undirected edges vary across class members. The orientation
// propagation algorithm that computes it is an external collaborator - this
// package only specifies the graph type and the [Converter] capability, plus
// the [Directed] stand-in used when no real converter is plugged in.
package essential

import (
	"fmt"
	"sort"

	"github.com/causalab/gies/pkg/dag"
)

// Edge is one essential-graph edge. Directed edges point From -> To;
// undirected edges are stored with From < To.
type Edge struct {
	From     int  `json:"from"`
	To       int  `json:"to"`
	Directed bool `json:"directed"`
}

// Graph is a partially directed graph over a fixed vertex set [0, p).
// The zero value is not usable - construct with [New].
type Graph struct {
	p      int
	labels []string
	dir    map[[2]int]struct{} // directed From -> To
	undir  map[[2]int]struct{} // undirected, key has From < To
}

// New creates an edgeless essential graph with the given vertex labels.
func New(labels []string) *Graph {
	return &Graph{
		p:      len(labels),
		labels: append([]string(nil), labels...),
		dir:    make(map[[2]int]struct{}),
		undir:  make(map[[2]int]struct{}),
	}
}

// Order returns the number of vertices.
func (g *Graph) Order() int { return g.p }

// Label returns the display label of vertex v, or "" if out of range.
func (g *Graph) Label(v int) string {
	if v < 0 || v >= g.p {
		return ""
	}
	return g.labels[v]
}

// Labels returns a copy of all vertex labels in index order.
func (g *Graph) Labels() []string { return append([]string(nil), g.labels...) }

// AddDirected inserts the directed edge i -> j. Out-of-range or self-loop
// pairs and duplicates (in either form) are rejected.
func (g *Graph) AddDirected(i, j int) error {
	if err := g.checkPair(i, j); err != nil {
		return err
	}
	g.dir[[2]int{i, j}] = struct{}{}
	return nil
}

// AddUndirected inserts the undirected edge i - j.
func (g *Graph) AddUndirected(i, j int) error {
	if err := g.checkPair(i, j); err != nil {
		return err
	}
	if i > j {
		i, j = j, i
	}
	g.undir[[2]int{i, j}] = struct{}{}
	return nil
}

func (g *Graph) checkPair(i, j int) error {
	if i < 0 || i >= g.p || j < 0 || j >= g.p {
		return fmt.Errorf("%w: (%d, %d) with order %d", dag.ErrVertexOutOfRange, i, j, g.p)
	}
	if i == j {
		return fmt.Errorf("%w: vertex %d", dag.ErrSelfLoop, i)
	}
	if g.HasDirected(i, j) || g.HasDirected(j, i) || g.HasUndirected(i, j) {
		return fmt.Errorf("%w: between %d and %d", dag.ErrDuplicateEdge, i, j)
	}
	return nil
}

// HasDirected reports whether the directed edge i -> j exists.
func (g *Graph) HasDirected(i, j int) bool {
	_, ok := g.dir[[2]int{i, j}]
	return ok
}

// HasUndirected reports whether the undirected edge i - j exists.
func (g *Graph) HasUndirected(i, j int) bool {
	if i > j {
		i, j = j, i
	}
	_, ok := g.undir[[2]int{i, j}]
	return ok
}

// DirectedCount returns the number of directed edges.
func (g *Graph) DirectedCount() int { return len(g.dir) }

// UndirectedCount returns the number of undirected edges.
func (g *Graph) UndirectedCount() int { return len(g.undir) }

// Edges returns all edges sorted by (From, To, directed-first) for
// deterministic output.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.dir)+len(g.undir))
	for k := range g.dir {
		edges = append(edges, Edge{From: k[0], To: k[1], Directed: true})
	}
	for k := range g.undir {
		edges = append(edges, Edge{From: k[0], To: k[1]})
	}
	sort.Slice(edges, func(a, b int) bool {
		ea, eb := edges[a], edges[b]
		if ea.From != eb.From {
			return ea.From < eb.From
		}
		if ea.To != eb.To {
			return ea.To < eb.To
		}
		return ea.Directed && !eb.Directed
	})
	return edges
}

// Converter turns a DAG plus intervention targets into the essential graph
// of its interventional Markov equivalence class. The DAG must be treated
// as read-only.
type Converter interface {
	Convert(d *dag.Digraph, targets [][]int) (*Graph, error)
}

// Directed is the stand-in Converter used when no orientation-propagation
// backend is configured: it returns the representative DAG itself with
// every edge tagged directed. This is NOT an equivalence-class computation;
// it exists so the end-of-search handoff always yields a well-formed pair
// (essential graph, representative DAG).
type Directed struct{}

// Convert implements Converter.
func (Directed) Convert(d *dag.Digraph, targets [][]int) (*Graph, error) {
	g := New(d.Labels())
	for _, e := range d.Edges() {
		if err := g.AddDirected(e.From, e.To); err != nil {
			return nil, err
		}
	}
	return g, nil
}

var _ Converter = Directed{}
