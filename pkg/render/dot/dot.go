// Package dot renders family graphs as Graphviz node-link diagrams.
//
// Unlike the native renderer in [github.com/kindredlab/kindred/pkg/render/svg],
// this view ignores the engine's computed geometry and lets Graphviz lay
// the structure out, which is useful for inspecting a graph's shape
// independently of the partnership-based placement.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/kindredlab/kindred/pkg/kin"
	"github.com/kindredlab/kindred/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes partnership ids on the junction nodes.
	// When false, junctions render as unlabeled points.
	Detailed bool
}

// ToDOT converts a family graph to Graphviz DOT format. Each partnership
// becomes a small junction node: partners connect to the junction with
// undirected-looking edges and children hang off it, which reproduces the
// classic genogram reading in a plain directed diagram.
//
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF],
// or [RenderPNG].
func ToDOT(g *kin.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph family {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, p := range g.People {
		fmt.Fprintf(&buf, "  %q;\n", p.ID)
	}

	buf.WriteString("\n")
	for _, pt := range g.Partnerships {
		junction := "partnership-" + pt.ID
		label := ""
		if opts.Detailed {
			label = pt.ID
		}
		fmt.Fprintf(&buf, "  %q [shape=point, width=0.12, label=%q, xlabel=%q];\n", junction, "", label)
		fmt.Fprintf(&buf, "  %q -> %q [dir=none];\n", pt.Parent1, junction)
		if !pt.SingleParent() {
			fmt.Fprintf(&buf, "  %q -> %q [dir=none];\n", pt.Parent2, junction)
		}
		for _, c := range pt.Children {
			fmt.Fprintf(&buf, "  %q -> %q;\n", junction, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
