// Package render provides visualization rendering for family-tree layouts.
//
// # Overview
//
// This package contains the rendering pipeline that transforms computed
// layouts into visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Native tree diagrams (in [svg] subpackage)
//   - Graphviz node-link diagrams (in [dot] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). These are used by both
// renderers.
//
//	img := svg.Render(result, opts...)
//	pdf, err := render.ToPDF(img)
//	png, err := render.ToPNG(img, 2.0)  // 2x scale
//
// # Tree Diagrams
//
// The [svg] subpackage renders a computed layout exactly as the engine
// placed it: one circle per person, a partner line per partnership and an
// elbow connector from each partnership midpoint to each child.
//
// # Node-Link Diagrams
//
// The [dot] subpackage renders the raw family graph as a directed diagram
// using Graphviz, useful for inspecting structure independently of the
// engine's own geometry.
//
//	d := dot.ToDOT(g, dot.Options{})
//	img, err := dot.RenderSVG(d)
//
// [svg]: github.com/kindredlab/kindred/pkg/render/svg
// [dot]: github.com/kindredlab/kindred/pkg/render/dot
package render
