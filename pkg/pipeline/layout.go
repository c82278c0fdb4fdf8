package pipeline

import (
	"github.com/kindredlab/kindred/pkg/graph"
	"github.com/kindredlab/kindred/pkg/kin"
	"github.com/kindredlab/kindred/pkg/layout"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout computes a serializable layout for a family graph.
// This is the unified entry point used by the Runner, the CLI and the API;
// it revalidates the graph as part of [layout.Compute], so callers may pass
// untrusted graphs directly.
func GenerateLayout(g *kin.Graph, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}

	res, err := layout.Compute(g, opts.Spacing(), layout.Orientation(opts.Orientation))
	if err != nil {
		return graph.Layout{}, err
	}
	return graph.FromResult(res), nil
}
