package score

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/causalab/gies/pkg/errors"
)

// Table is a LocalScorer backed by an explicit lookup table.
//
// It carries no statistical machinery: every local score is either listed
// verbatim or falls back to Default - Penalty*len(parents). Tables are what
// tests and example configurations use, and what the CLI loads when no real
// scoring backend is plugged in. The fallback keeps hill climbing over a
// sparse table well-defined: unlisted parent sets never look better than
// listed improvements as long as Penalty >= 0.
type Table struct {
	nodes        []string
	targets      [][]int
	observations []int
	defaultScore float64
	penalty      float64
	entries      map[string]float64
}

// TableDoc is the JSON document describing a Table.
type TableDoc struct {
	Nodes        []string     `json:"nodes"`
	Targets      [][]int      `json:"targets,omitempty"`
	Observations []int        `json:"observations,omitempty"`
	Default      float64      `json:"default,omitempty"`
	Penalty      float64      `json:"penalty,omitempty"`
	Entries      []TableEntry `json:"entries"`
}

// TableEntry is one listed local score.
type TableEntry struct {
	Vertex  int     `json:"vertex"`
	Parents []int   `json:"parents"`
	Score   float64 `json:"score"`
}

// NewTable builds a Table from a document, validating vertex references.
// Returns an INVALID_SCORE configuration error for an empty vertex set,
// out-of-range entries, malformed observation counts, or out-of-range
// targets.
func NewTable(doc TableDoc) (*Table, error) {
	p := len(doc.Nodes)
	if p == 0 {
		return nil, errors.New(errors.ErrCodeInvalidScore, "score table has no nodes")
	}

	obs := doc.Observations
	if obs == nil {
		obs = make([]int, p)
	}
	if len(obs) != p {
		return nil, errors.New(errors.ErrCodeInvalidScore,
			"observations length %d does not match %d nodes", len(obs), p)
	}
	for v, n := range obs {
		if n < 0 {
			return nil, errors.New(errors.ErrCodeInvalidScore,
				"negative observation count %d for vertex %d", n, v)
		}
	}

	targets := doc.Targets
	if targets == nil {
		targets = [][]int{{}}
	}
	for ti, target := range targets {
		for _, v := range target {
			if v < 0 || v >= p {
				return nil, errors.New(errors.ErrCodeInvalidTargets,
					"target %d references vertex %d outside [0, %d)", ti, v, p)
			}
		}
	}

	t := &Table{
		nodes:        append([]string(nil), doc.Nodes...),
		targets:      targets,
		observations: obs,
		defaultScore: doc.Default,
		penalty:      doc.Penalty,
		entries:      make(map[string]float64, len(doc.Entries)),
	}
	for _, e := range doc.Entries {
		if e.Vertex < 0 || e.Vertex >= p {
			return nil, errors.New(errors.ErrCodeInvalidScore,
				"entry references vertex %d outside [0, %d)", e.Vertex, p)
		}
		for _, parent := range e.Parents {
			if parent < 0 || parent >= p {
				return nil, errors.New(errors.ErrCodeInvalidScore,
					"entry for vertex %d references parent %d outside [0, %d)", e.Vertex, parent, p)
			}
			if parent == e.Vertex {
				return nil, errors.New(errors.ErrCodeInvalidScore,
					"entry for vertex %d lists itself as parent", e.Vertex)
			}
		}
		t.entries[entryKey(e.Vertex, e.Parents)] = e.Score
	}
	return t, nil
}

// ReadTable decodes a Table from JSON.
func ReadTable(r io.Reader) (*Table, error) {
	var doc TableDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScore, err, "decode score table")
	}
	return NewTable(doc)
}

// ReadTableFile reads a Table from a JSON file.
func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "score table %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTable(f)
}

// Nodes implements LocalScorer.
func (t *Table) Nodes() []string { return append([]string(nil), t.nodes...) }

// Targets implements LocalScorer.
func (t *Table) Targets() [][]int { return t.targets }

// LocalScore implements LocalScorer. Parent order does not matter; the
// lookup key is canonicalized.
func (t *Table) LocalScore(v int, parents []int) float64 {
	if s, ok := t.entries[entryKey(v, parents)]; ok {
		return s
	}
	return t.defaultScore - t.penalty*float64(len(parents))
}

// ObservationCount implements LocalScorer.
func (t *Table) ObservationCount(v int) int {
	if v < 0 || v >= len(t.observations) {
		return 0
	}
	return t.observations[v]
}

// entryKey canonicalizes (vertex, parent set) into a map key.
func entryKey(v int, parents []int) string {
	sorted := append([]int(nil), parents...)
	sort.Ints(sorted)
	var b strings.Builder
	b.WriteString(strconv.Itoa(v))
	b.WriteByte('|')
	for i, p := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(p))
	}
	return b.String()
}

// Total sums the local scores of every vertex under its parent set in the
// given parent function. Helper for reporting full-DAG scores.
func Total(s LocalScorer, parents func(v int) []int) float64 {
	var sum float64
	for v := range s.Nodes() {
		sum += s.LocalScore(v, parents(v))
	}
	return sum
}
