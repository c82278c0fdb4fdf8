package pipeline

import (
	"fmt"

	"github.com/kindredlab/kindred/pkg/graph"
	"github.com/kindredlab/kindred/pkg/kin"
	"github.com/kindredlab/kindred/pkg/render/dot"
	"github.com/kindredlab/kindred/pkg/render/svg"
)

// RenderFromLayout generates output artifacts in the requested formats.
//
// The graph is only needed for DOT output (which renders structure, not
// geometry) and may be nil when opts.Formats does not include "dot".
func RenderFromLayout(l graph.Layout, g *kin.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	res, err := l.ToResult()
	if err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svg.Render(res, opts.svgOptions()...)
		case FormatPNG:
			data, err = svg.RenderPNG(res,
				svg.WithPNGSVGOptions(opts.svgOptions()...),
				svg.WithScale(opts.Scale))
		case FormatPDF:
			data, err = svg.RenderPDF(res,
				svg.WithPDFSVGOptions(opts.svgOptions()...))
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatDOT:
			if g == nil {
				return nil, fmt.Errorf("dot output requires the source graph")
			}
			data = []byte(dot.ToDOT(g, dot.Options{Detailed: opts.Detailed}))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// svgOptions translates pipeline options to renderer options.
func (o *Options) svgOptions() []svg.Option {
	var out []svg.Option
	if o.NodeRadius > 0 && o.NodeRadius != svg.DefaultNodeRadius {
		out = append(out, svg.WithNodeRadius(o.NodeRadius))
	}
	if o.HideLabels {
		out = append(out, svg.WithoutLabels())
	}
	return out
}
