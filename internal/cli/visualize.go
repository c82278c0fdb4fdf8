package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kindredlab/kindred/pkg/graph"
	"github.com/kindredlab/kindred/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering existing
// layout files.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render an existing layout file without recomputing it",
		Long: `Render an existing layout file without recomputing it.

The visualize command takes a layout.json file (produced by 'layout' or
'render -f json') and renders it to SVG, PNG or PDF. The recorded
orientation is honored; the geometry is never recomputed. The json and
dot formats need the original graph, so they are only available through
'render'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if formatsStr != "" {
				opts.Formats = parseFormats(formatsStr)
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.NodeRadius, "node-radius", opts.NodeRadius, "person circle radius")
	cmd.Flags().BoolVar(&opts.HideLabels, "no-labels", opts.HideLabels, "omit name labels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "raster scale factor (png only)")

	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	for _, f := range opts.Formats {
		if f != pipeline.FormatSVG && f != pipeline.FormatPNG && f != pipeline.FormatPDF {
			return fmt.Errorf("format %q needs the original graph; use 'kindred render' instead", f)
		}
	}

	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.Orientation = l.Orientation

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, nil, opts)
	if err != nil {
		return fmt.Errorf("render layout: %w", err)
	}

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := artifactPath(output, input, format, len(opts.Formats) > 1)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(len(l.Nodes), len(l.PartnershipConnections), cacheHit)

	return nil
}
