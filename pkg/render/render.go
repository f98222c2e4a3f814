// Package render converts search graphs to Graphviz DOT and renders them.
//
// # Overview
//
// Both the representative DAG and the essential graph render as node-link
// diagrams: vertices as rounded boxes, directed edges as arrows. Essential
// undirected edges draw without arrowheads, which is the conventional
// depiction of an equivalence class's reversible edges.
//
// # Usage
//
// Convert a graph to DOT, then render:
//
//	dot := render.ToDOT(res.DAG, render.Options{})
//	svg, err := render.SVG(ctx, dot)
//
// The generated DOT is plain Graphviz source and can also be saved and
// processed with external tooling.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz] for in-process layout; no
// external graphviz installation is required.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/causalab/gies/pkg/dag"
	"github.com/causalab/gies/pkg/essential"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes vertex indices in node labels.
	// When false, only the label is shown.
	Detailed bool

	// Rankdir sets the layout direction; defaults to "LR".
	Rankdir string
}

func header(buf *bytes.Buffer, opts Options) {
	rankdir := opts.Rankdir
	if rankdir == "" {
		rankdir = "LR"
	}
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")
}

func nodeLabel(label string, v int, detailed bool) string {
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\n#%d", label, v)
}

// ToDOT converts a DAG to Graphviz DOT format. The resulting DOT string can
// be rendered with [SVG] or [PNG].
func ToDOT(d *dag.Digraph, opts Options) string {
	var buf bytes.Buffer
	header(&buf, opts)

	for v := 0; v < d.Order(); v++ {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", d.Label(v), nodeLabel(d.Label(v), v, opts.Detailed))
	}
	buf.WriteString("\n")
	for _, e := range d.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", d.Label(e.From), d.Label(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// EssentialToDOT converts an essential graph to DOT. Undirected edges render
// with dir=none, so they draw as plain lines between the vertices.
func EssentialToDOT(g *essential.Graph, opts Options) string {
	var buf bytes.Buffer
	header(&buf, opts)

	for v := 0; v < g.Order(); v++ {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", g.Label(v), nodeLabel(g.Label(v), v, opts.Detailed))
	}
	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if e.Directed {
			fmt.Fprintf(&buf, "  %q -> %q;\n", g.Label(e.From), g.Label(e.To))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [dir=none];\n", g.Label(e.From), g.Label(e.To))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// SVG renders a DOT graph to SVG using the in-process Graphviz layout engine.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// PNG renders a DOT graph to PNG.
func PNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}
