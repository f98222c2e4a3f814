package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func TestHandleSearch(t *testing.T) {
	body := `{
		"score": {
			"nodes": ["a", "b"],
			"penalty": 1,
			"entries": [{"vertex": 1, "parents": [0], "score": 2}]
		}
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newTestCLI().handleSearch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var doc struct {
		RunID string  `json:"run_id"`
		Score float64 `json:"score"`
		Moves int     `json:"moves"`
		DAG   struct {
			Edges []struct {
				From string `json:"from"`
				To   string `json:"to"`
			} `json:"edges"`
		} `json:"dag"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if doc.RunID == "" {
		t.Error("response is missing run_id")
	}
	if doc.Score != 2 {
		t.Errorf("score = %g, want 2", doc.Score)
	}
	if len(doc.DAG.Edges) != 1 || doc.DAG.Edges[0].From != "a" || doc.DAG.Edges[0].To != "b" {
		t.Errorf("dag edges = %v, want [a->b]", doc.DAG.Edges)
	}
}

func TestHandleSearch_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"empty score", `{"score": {"nodes": []}}`},
		{"unknown phase", `{"score": {"nodes": ["a", "b"]}, "phases": ["sideways"]}`},
		{"bad gap label", `{"score": {"nodes": ["a", "b"]}, "gaps": [["a", "zz"]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			newTestCLI().handleSearch(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if body["error"] == "" {
				t.Error("error body is missing the error message")
			}
		})
	}
}

func TestRootCommand(t *testing.T) {
	root := newTestCLI().RootCommand()

	want := []string{"search", "render", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}
