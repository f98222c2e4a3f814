// Package dag provides the mutable directed-acyclic-graph store used by the
// structure search engine.
//
// A [Digraph] holds a fixed vertex set indexed [0, p) and a mutable directed
// edge set. Adjacency, direction, and degree queries are O(1) amortized, and
// cycle-safety of a prospective edge can be tested in time proportional to
// the reachable subgraph rather than the whole graph. The store enforces only
// structural contracts (no self-loops, no duplicate edges, no mutation of
// missing edges); acyclicity of mutations is the caller's responsibility and
// is checked up front via [Digraph.WouldCreateCycle] and
// [Digraph.ReverseWouldCreateCycle].
package dag

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrVertexOutOfRange is returned when a vertex index is negative or
	// not less than the graph order.
	ErrVertexOutOfRange = errors.New("vertex index out of range")

	// ErrSelfLoop is returned when an operation names the same vertex as
	// both endpoints. Self-loops are never valid in a DAG.
	ErrSelfLoop = errors.New("self-loop not permitted")

	// ErrDuplicateEdge is returned by [Digraph.AddEdge] when the directed
	// edge already exists. Adding an existing edge is a caller bug, not a
	// recoverable condition.
	ErrDuplicateEdge = errors.New("edge already exists")

	// ErrMissingEdge is returned by [Digraph.RemoveEdge] and
	// [Digraph.ReverseEdge] when the named edge does not exist.
	ErrMissingEdge = errors.New("edge does not exist")

	// ErrGraphHasCycle is returned by [Digraph.Validate] when a directed
	// cycle is detected. A Digraph mutated only through legality-checked
	// moves never reaches this state; seeing it indicates a bug in the
	// caller's cycle checks.
	ErrGraphHasCycle = errors.New("graph contains a cycle")

	// ErrLabelCount is returned by [NewLabeled] when the label slice length
	// does not match the vertex count.
	ErrLabelCount = errors.New("label count does not match vertex count")
)

// Edge is a directed edge From -> To between two vertex indices.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Digraph is a directed graph over a fixed vertex set [0, p).
//
// The vertex set is immutable after construction; only edges mutate. The
// zero value is not usable - construct with [New] or [NewLabeled].
// Digraph is not safe for concurrent mutation; concurrent read-only use
// (including [Digraph.WouldCreateCycle]) is safe.
type Digraph struct {
	p      int
	labels []string
	out    []map[int]struct{} // children per vertex
	in     []map[int]struct{} // parents per vertex
	degree []int              // in + out, maintained on mutation
	edges  int
}

// New creates an edgeless Digraph with p vertices labeled "v0".."v<p-1>".
func New(p int) *Digraph {
	labels := make([]string, p)
	for v := range labels {
		labels[v] = fmt.Sprintf("v%d", v)
	}
	return NewLabeled(labels)
}

// NewLabeled creates an edgeless Digraph whose order is len(labels), with
// the given display label per vertex.
func NewLabeled(labels []string) *Digraph {
	p := len(labels)
	d := &Digraph{
		p:      p,
		labels: append([]string(nil), labels...),
		out:    make([]map[int]struct{}, p),
		in:     make([]map[int]struct{}, p),
		degree: make([]int, p),
	}
	for v := 0; v < p; v++ {
		d.out[v] = make(map[int]struct{})
		d.in[v] = make(map[int]struct{})
	}
	return d
}

// Relabel replaces all vertex labels. Returns ErrLabelCount if the slice
// length differs from the graph order.
func (d *Digraph) Relabel(labels []string) error {
	if len(labels) != d.p {
		return fmt.Errorf("%w: got %d, want %d", ErrLabelCount, len(labels), d.p)
	}
	d.labels = append([]string(nil), labels...)
	return nil
}

// Order returns the number of vertices p.
func (d *Digraph) Order() int { return d.p }

// EdgeCount returns the number of directed edges.
func (d *Digraph) EdgeCount() int { return d.edges }

// Label returns the display label of vertex v, or "" if v is out of range.
func (d *Digraph) Label(v int) string {
	if v < 0 || v >= d.p {
		return ""
	}
	return d.labels[v]
}

// Labels returns a copy of all vertex labels in index order.
func (d *Digraph) Labels() []string { return append([]string(nil), d.labels...) }

// HasEdge reports whether the directed edge i -> j exists.
// Out-of-range indices report false.
func (d *Digraph) HasEdge(i, j int) bool {
	if i < 0 || i >= d.p || j < 0 || j >= d.p {
		return false
	}
	_, ok := d.out[i][j]
	return ok
}

// Adjacent reports whether an edge exists between i and j in either direction.
func (d *Digraph) Adjacent(i, j int) bool {
	return d.HasEdge(i, j) || d.HasEdge(j, i)
}

// Degree returns the number of incident edges (in + out) of v, or 0 if v
// is out of range. Maintained incrementally, O(1).
func (d *Digraph) Degree(v int) int {
	if v < 0 || v >= d.p {
		return 0
	}
	return d.degree[v]
}

// Parents returns the parent indices of v in ascending order.
func (d *Digraph) Parents(v int) []int {
	if v < 0 || v >= d.p {
		return nil
	}
	return sortedKeys(d.in[v])
}

// Children returns the child indices of v in ascending order.
func (d *Digraph) Children(v int) []int {
	if v < 0 || v >= d.p {
		return nil
	}
	return sortedKeys(d.out[v])
}

// Edges returns all edges sorted by (From, To) for deterministic output.
func (d *Digraph) Edges() []Edge {
	edges := make([]Edge, 0, d.edges)
	for i := 0; i < d.p; i++ {
		for _, j := range sortedKeys(d.out[i]) {
			edges = append(edges, Edge{From: i, To: j})
		}
	}
	return edges
}

// AddEdge inserts the directed edge i -> j.
//
// The caller must already have established legality (acyclicity, forbidden
// pairs, degree bounds); AddEdge checks only structural contracts. Returns
// ErrVertexOutOfRange, ErrSelfLoop, or ErrDuplicateEdge on violation - all
// of which indicate a caller bug.
func (d *Digraph) AddEdge(i, j int) error {
	if err := d.checkPair(i, j); err != nil {
		return err
	}
	if _, ok := d.out[i][j]; ok {
		return fmt.Errorf("%w: %d -> %d", ErrDuplicateEdge, i, j)
	}
	d.out[i][j] = struct{}{}
	d.in[j][i] = struct{}{}
	d.degree[i]++
	d.degree[j]++
	d.edges++
	return nil
}

// RemoveEdge deletes the directed edge i -> j.
// Returns ErrMissingEdge if the edge does not exist.
func (d *Digraph) RemoveEdge(i, j int) error {
	if err := d.checkPair(i, j); err != nil {
		return err
	}
	if _, ok := d.out[i][j]; !ok {
		return fmt.Errorf("%w: %d -> %d", ErrMissingEdge, i, j)
	}
	delete(d.out[i], j)
	delete(d.in[j], i)
	d.degree[i]--
	d.degree[j]--
	d.edges--
	return nil
}

// ReverseEdge replaces the existing edge i -> j with j -> i.
// Returns ErrMissingEdge if i -> j does not exist. Degrees are unchanged.
func (d *Digraph) ReverseEdge(i, j int) error {
	if err := d.checkPair(i, j); err != nil {
		return err
	}
	if _, ok := d.out[i][j]; !ok {
		return fmt.Errorf("%w: %d -> %d", ErrMissingEdge, i, j)
	}
	delete(d.out[i], j)
	delete(d.in[j], i)
	d.out[j][i] = struct{}{}
	d.in[i][j] = struct{}{}
	return nil
}

// WouldCreateCycle reports whether adding the edge i -> j would introduce a
// directed cycle, i.e. whether i is currently reachable from j.
//
// The search visits only the subgraph reachable from j, so the cost is
// proportional to that region rather than to p². Safe for concurrent use
// while no mutation is in flight.
func (d *Digraph) WouldCreateCycle(i, j int) bool {
	if i == j {
		return true
	}
	return d.reaches(j, i, -1, -1)
}

// ReverseWouldCreateCycle reports whether reversing the existing edge
// i -> j to j -> i would introduce a cycle: true iff j is reachable from i
// through edges other than i -> j itself.
func (d *Digraph) ReverseWouldCreateCycle(i, j int) bool {
	return d.reaches(i, j, i, j)
}

// reaches reports whether dst is reachable from src by directed edges,
// skipping the single edge skipFrom -> skipTo (pass -1, -1 to skip none).
// Iterative DFS; the visited set is local, so concurrent readers don't race.
func (d *Digraph) reaches(src, dst, skipFrom, skipTo int) bool {
	if src == dst {
		return true
	}
	visited := make(map[int]struct{}, 16)
	stack := []int{src}
	visited[src] = struct{}{}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for c := range d.out[v] {
			if v == skipFrom && c == skipTo {
				continue
			}
			if c == dst {
				return true
			}
			if _, seen := visited[c]; !seen {
				visited[c] = struct{}{}
				stack = append(stack, c)
			}
		}
	}
	return false
}

// Clone returns a deep copy sharing no mutable state with the receiver.
func (d *Digraph) Clone() *Digraph {
	c := NewLabeled(d.labels)
	for i := 0; i < d.p; i++ {
		for j := range d.out[i] {
			c.out[i][j] = struct{}{}
			c.in[j][i] = struct{}{}
		}
		c.degree[i] = d.degree[i]
	}
	c.edges = d.edges
	return c
}

// Validate checks that the graph contains no directed cycle, returning
// ErrGraphHasCycle otherwise. Runs in O(p+e) using depth-first search with
// white/gray/black coloring.
func (d *Digraph) Validate() error {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, d.p)
	var hasCycle bool

	var dfs func(v int)
	dfs = func(v int) {
		color[v] = gray
		for c := range d.out[v] {
			switch color[c] {
			case white:
				dfs(c)
			case gray:
				hasCycle = true
				return
			}
			if hasCycle {
				return
			}
		}
		color[v] = black
	}

	for v := 0; v < d.p; v++ {
		if color[v] == white {
			dfs(v)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

func (d *Digraph) checkPair(i, j int) error {
	if i < 0 || i >= d.p || j < 0 || j >= d.p {
		return fmt.Errorf("%w: (%d, %d) with order %d", ErrVertexOutOfRange, i, j, d.p)
	}
	if i == j {
		return fmt.Errorf("%w: vertex %d", ErrSelfLoop, i)
	}
	return nil
}

func sortedKeys(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
