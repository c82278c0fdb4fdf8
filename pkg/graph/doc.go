// Package graph provides serialization types for family graphs and layouts.
//
// This package defines the canonical wire format for Kindred's graph data,
// used for JSON files, API payloads, storage documents and cache entries.
//
// # Architecture
//
// The package sits at the serialization boundary between the engine's
// internal representations and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - pkg/kin.Graph: Internal graph representation
//   - pkg/layout.Result: Internal layout (positions, connectors)
//
// Use [FromKin]/[ToKin] and [FromResult]/[Layout.ToResult] to convert
// between them.
//
// # Graph Serialization
//
// Graphs use a people-and-partnerships JSON format:
//
//	{
//	  "people": [{"id": "alice"}, {"id": "bob"}, {"id": "carol"}],
//	  "partnerships": [
//	    {"id": "p1", "parents": ["alice", "bob"], "children": ["carol"]}
//	  ]
//	}
//
// Slice order is preserved through every round trip because it drives
// root selection and sibling placement in the engine.
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("family.json")   // File → model
//	graph.WriteGraphFile(g, "output.json")       // Model → file
//	data, _ := graph.MarshalGraph(g)             // Model → []byte
//	parsed, _ := graph.UnmarshalGraph(data)      // []byte → Graph
//
// Reading never validates; run kin.Validate before laying a graph out.
//
// # Layout Serialization
//
// Layouts record the orientation plus final node positions and connector
// geometry. Output is pretty-printed with deterministic field order, so
// identical layouts serialize to identical bytes:
//
//	l, _ := graph.ReadLayoutFile("family.layout.json")
//	result, _ := l.ToResult()
//
// # Payloads
//
// Person payloads are opaque caller data carried through untouched. The
// engine never reads them; renderers may (for example to label nodes).
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
