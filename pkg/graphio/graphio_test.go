package graphio

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/causalab/gies/pkg/dag"
	"github.com/causalab/gies/pkg/errors"
	"github.com/causalab/gies/pkg/essential"
	"github.com/causalab/gies/pkg/search"
)

func resultForTest(d *dag.Digraph, eg *essential.Graph) *search.Result {
	return &search.Result{
		RunID:      "test-run",
		DAG:        d,
		Essential:  eg,
		Score:      1,
		Moves:      1,
		Passes:     1,
		PhaseMoves: map[string]int{"forward": 1},
	}
}

func TestDigraphRoundTrip(t *testing.T) {
	d := dag.NewLabeled([]string{"x", "y", "z"})
	if err := d.AddEdge(0, 2); err != nil {
		t.Fatalf("AddEdge error: %v", err)
	}
	if err := d.AddEdge(1, 2); err != nil {
		t.Fatalf("AddEdge error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteDigraph(d, &buf); err != nil {
		t.Fatalf("WriteDigraph error: %v", err)
	}

	got, err := ReadDigraph(&buf)
	if err != nil {
		t.Fatalf("ReadDigraph error: %v", err)
	}
	if got.Order() != 3 || got.EdgeCount() != 2 {
		t.Fatalf("got order %d, %d edges, want 3 and 2", got.Order(), got.EdgeCount())
	}
	if !got.HasEdge(0, 2) || !got.HasEdge(1, 2) {
		t.Errorf("edges = %v, want [0->2 1->2]", got.Edges())
	}
	if got.Label(1) != "y" {
		t.Errorf("Label(1) = %q, want %q", got.Label(1), "y")
	}
}

func TestReadDigraph_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed json", `{"nodes": [`},
		{"duplicate label", `{"nodes": ["a", "a"], "edges": []}`},
		{"unknown from", `{"nodes": ["a"], "edges": [{"from": "b", "to": "a"}]}`},
		{"unknown to", `{"nodes": ["a"], "edges": [{"from": "a", "to": "b"}]}`},
		{"self loop", `{"nodes": ["a"], "edges": [{"from": "a", "to": "a"}]}`},
		{
			"cycle",
			`{"nodes": ["a", "b"], "edges": [{"from": "a", "to": "b"}, {"from": "b", "to": "a"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDigraph(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadDigraph() = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestEssentialRoundTrip(t *testing.T) {
	g := essential.New([]string{"a", "b", "c"})
	if err := g.AddDirected(0, 1); err != nil {
		t.Fatalf("AddDirected error: %v", err)
	}
	if err := g.AddUndirected(1, 2); err != nil {
		t.Fatalf("AddUndirected error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteEssential(g, &buf); err != nil {
		t.Fatalf("WriteEssential error: %v", err)
	}

	got, err := ReadEssential(&buf)
	if err != nil {
		t.Fatalf("ReadEssential error: %v", err)
	}
	if !got.HasDirected(0, 1) {
		t.Error("directed edge 0->1 lost in round trip")
	}
	if !got.HasUndirected(1, 2) {
		t.Error("undirected edge 1-2 lost in round trip")
	}
	if got.HasDirected(1, 2) {
		t.Error("undirected edge 1-2 came back directed")
	}
}

func TestReadEssential_DefaultsToDirected(t *testing.T) {
	input := `{"nodes": ["a", "b"], "edges": [{"from": "a", "to": "b"}]}`
	g, err := ReadEssential(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadEssential error: %v", err)
	}
	if !g.HasDirected(0, 1) {
		t.Error("edge without directed flag should read back directed")
	}
}

func TestExportImportDigraphFile(t *testing.T) {
	d := dag.NewLabeled([]string{"a", "b"})
	if err := d.AddEdge(0, 1); err != nil {
		t.Fatalf("AddEdge error: %v", err)
	}

	path := t.TempDir() + "/graph.json"
	if err := ExportDigraph(d, path); err != nil {
		t.Fatalf("ExportDigraph error: %v", err)
	}
	got, err := ImportDigraph(path)
	if err != nil {
		t.Fatalf("ImportDigraph error: %v", err)
	}
	if !got.HasEdge(0, 1) {
		t.Error("imported graph is missing edge 0->1")
	}

	_, err = ImportDigraph(path + ".missing")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportDigraph(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestWriteResult_Document(t *testing.T) {
	d := dag.NewLabeled([]string{"a", "b"})
	if err := d.AddEdge(0, 1); err != nil {
		t.Fatalf("AddEdge error: %v", err)
	}
	eg, err := essential.Directed{}.Convert(d, nil)
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}

	res := resultForTest(d, eg)
	var buf bytes.Buffer
	if err := WriteResult(res, &buf); err != nil {
		t.Fatalf("WriteResult error: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"run_id", "score", "moves", "passes", "dag", "essential"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("result document is missing %q", key)
		}
	}

	res.Essential = nil
	if err := WriteResult(res, &buf); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("WriteResult without graphs = %v, want INTERNAL_ERROR", err)
	}
}
