package graphio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/causalab/gies/pkg/dag"
	"github.com/causalab/gies/pkg/errors"
	"github.com/causalab/gies/pkg/essential"
)

func decodeDoc(r io.Reader) (graphDoc, map[string]int, error) {
	var doc graphDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return graphDoc{}, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	index := make(map[string]int, len(doc.Nodes))
	for i, label := range doc.Nodes {
		if _, dup := index[label]; dup {
			return graphDoc{}, nil, errors.New(errors.ErrCodeInvalidFormat,
				"duplicate node label %q", label)
		}
		index[label] = i
	}
	return doc, index, nil
}

func (e edgeDoc) endpoints(index map[string]int) (int, int, error) {
	from, ok := index[e.From]
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidFormat,
			"edge references unknown node %q", e.From)
	}
	to, ok := index[e.To]
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidFormat,
			"edge references unknown node %q", e.To)
	}
	return from, to, nil
}

// ReadDigraph decodes a JSON graph from r into a DAG.
//
// The input must be an object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": ["a", "b"],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// Node labels must be unique and every edge must reference listed labels.
// A "directed" flag on an edge is ignored; a DAG has only directed edges.
// The decoded graph is validated: documents whose edges close a directed
// cycle are rejected with an INVALID_FORMAT error.
func ReadDigraph(r io.Reader) (*dag.Digraph, error) {
	doc, index, err := decodeDoc(r)
	if err != nil {
		return nil, err
	}

	d := dag.NewLabeled(doc.Nodes)
	for _, e := range doc.Edges {
		from, to, err := e.endpoints(index)
		if err != nil {
			return nil, err
		}
		if err := d.AddEdge(from, to); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err,
				"edge %s->%s", e.From, e.To)
		}
	}
	if err := d.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoded graph")
	}
	return d, nil
}

// ImportDigraph reads a JSON file at path and returns the decoded DAG.
func ImportDigraph(path string) (*dag.Digraph, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDigraph(f)
}

// ReadEssential decodes a JSON graph from r into an essential graph. Edges
// without a "directed" flag default to directed, so a DAG document reads
// back as an all-directed essential graph.
func ReadEssential(r io.Reader) (*essential.Graph, error) {
	doc, index, err := decodeDoc(r)
	if err != nil {
		return nil, err
	}

	g := essential.New(doc.Nodes)
	for _, e := range doc.Edges {
		from, to, err := e.endpoints(index)
		if err != nil {
			return nil, err
		}
		add := g.AddDirected
		if e.Directed != nil && !*e.Directed {
			add = g.AddUndirected
		}
		if err := add(from, to); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err,
				"edge %s->%s", e.From, e.To)
		}
	}
	return g, nil
}

// ImportEssential reads a JSON file at path and returns the decoded
// essential graph.
func ImportEssential(path string) (*essential.Graph, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadEssential(f)
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
