// Package graphio provides JSON import and export for search graphs.
//
// # Overview
//
// Three document shapes share one wire format: a graph is an object with a
// "nodes" array of labels and an "edges" array of {from, to} pairs naming
// those labels. Essential-graph edges additionally carry a "directed" flag;
// a search result bundles both graphs with the run metadata.
//
// # Usage
//
// Export a finished search:
//
//	res, err := searcher.Run(ctx)
//	err = graphio.ExportResult(res, "result.json")
//
// Re-import a DAG for rendering or further processing:
//
//	d, err := graphio.ImportDigraph("graph.json")
//
// Imported DAGs are validated: a document whose edges close a directed cycle
// is rejected.
package graphio
