package graphio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/causalab/gies/pkg/dag"
	"github.com/causalab/gies/pkg/errors"
	"github.com/causalab/gies/pkg/essential"
	"github.com/causalab/gies/pkg/search"
)

type graphDoc struct {
	Nodes []string  `json:"nodes"`
	Edges []edgeDoc `json:"edges"`
}

type edgeDoc struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Directed *bool  `json:"directed,omitempty"`
}

type resultDoc struct {
	RunID      string         `json:"run_id"`
	Score      float64        `json:"score"`
	Moves      int            `json:"moves"`
	Passes     int            `json:"passes"`
	PhaseMoves map[string]int `json:"phase_moves"`
	DurationMS int64          `json:"duration_ms"`
	DAG        graphDoc       `json:"dag"`
	Essential  graphDoc       `json:"essential"`
}

func digraphDoc(d *dag.Digraph) graphDoc {
	doc := graphDoc{
		Nodes: d.Labels(),
		Edges: make([]edgeDoc, 0, d.EdgeCount()),
	}
	for _, e := range d.Edges() {
		doc.Edges = append(doc.Edges, edgeDoc{From: d.Label(e.From), To: d.Label(e.To)})
	}
	return doc
}

func essentialDoc(g *essential.Graph) graphDoc {
	doc := graphDoc{
		Nodes: g.Labels(),
		Edges: make([]edgeDoc, 0, g.DirectedCount()+g.UndirectedCount()),
	}
	for _, e := range g.Edges() {
		directed := e.Directed
		doc.Edges = append(doc.Edges, edgeDoc{
			From:     g.Label(e.From),
			To:       g.Label(e.To),
			Directed: &directed,
		})
	}
	return doc
}

func writeDoc(w io.Writer, doc any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func exportFile(path string, doc any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeDoc(f, doc)
}

// WriteDigraph encodes a DAG as JSON and writes it to w. The output can be
// re-imported with [ReadDigraph] for round-trip processing.
func WriteDigraph(d *dag.Digraph, w io.Writer) error {
	return writeDoc(w, digraphDoc(d))
}

// ExportDigraph writes a DAG to a JSON file at path.
func ExportDigraph(d *dag.Digraph, path string) error {
	return exportFile(path, digraphDoc(d))
}

// WriteEssential encodes an essential graph as JSON and writes it to w.
// Every edge carries an explicit "directed" flag.
func WriteEssential(g *essential.Graph, w io.Writer) error {
	return writeDoc(w, essentialDoc(g))
}

// ExportEssential writes an essential graph to a JSON file at path.
func ExportEssential(g *essential.Graph, path string) error {
	return exportFile(path, essentialDoc(g))
}

// WriteResult encodes a search result - run metadata plus both graphs - and
// writes it to w. The result must come from a completed run, with DAG and
// Essential populated.
func WriteResult(res *search.Result, w io.Writer) error {
	if res.DAG == nil || res.Essential == nil {
		return errors.New(errors.ErrCodeInternal, "result is missing its graphs")
	}
	return writeDoc(w, resultDoc{
		RunID:      res.RunID,
		Score:      res.Score,
		Moves:      res.Moves,
		Passes:     res.Passes,
		PhaseMoves: res.PhaseMoves,
		DurationMS: res.Duration.Milliseconds(),
		DAG:        digraphDoc(res.DAG),
		Essential:  essentialDoc(res.Essential),
	})
}

// ExportResult writes a search result to a JSON file at path.
func ExportResult(res *search.Result, path string) error {
	if res.DAG == nil || res.Essential == nil {
		return errors.New(errors.ErrCodeInternal, "result is missing its graphs")
	}
	return exportFile(path, resultDoc{
		RunID:      res.RunID,
		Score:      res.Score,
		Moves:      res.Moves,
		Passes:     res.Passes,
		PhaseMoves: res.PhaseMoves,
		DurationMS: res.Duration.Milliseconds(),
		DAG:        digraphDoc(res.DAG),
		Essential:  essentialDoc(res.Essential),
	})
}
