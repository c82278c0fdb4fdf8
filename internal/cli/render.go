package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kindredlab/kindred/pkg/graph"
	"github.com/kindredlab/kindred/pkg/pipeline"
)

// renderCommand creates the render command running the full pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Validate, lay out and render a family graph",
		Long: `Validate, lay out and render a family graph in one pass.

Output formats:
  svg    exact-coordinate tree diagram (default)
  png    SVG converted via rsvg-convert
  pdf    SVG converted via rsvg-convert
  json   the computed layout itself
  dot    Graphviz structure view of the raw graph

Multiple formats produce one file each next to the input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if formatsStr != "" {
				opts.Formats = parseFormats(formatsStr)
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", opts.Refresh, "revalidate even if the graph was seen before")
	cmd.Flags().StringVar(&opts.Orientation, "orientation", opts.Orientation, "orientation: top-down (default), bottom-up, left-right, right-left")
	cmd.Flags().Float64Var(&opts.GenerationGap, "generation-gap", opts.GenerationGap, "distance between generations")
	cmd.Flags().Float64Var(&opts.SiblingGap, "sibling-gap", opts.SiblingGap, "distance between sibling subtrees")
	cmd.Flags().Float64Var(&opts.PartnerGap, "partner-gap", opts.PartnerGap, "distance between partners")
	cmd.Flags().Float64Var(&opts.NodeRadius, "node-radius", opts.NodeRadius, "person circle radius")
	cmd.Flags().BoolVar(&opts.HideLabels, "no-labels", opts.HideLabels, "omit name labels")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", opts.Detailed, "show partnership ids (dot only)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "raster scale factor (png only)")

	return cmd
}

// runRender executes the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering family tree...")
	spinner.Start()

	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := artifactPath(output, input, format, len(opts.Formats) > 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.PersonCount, result.Stats.PartnershipCount, result.CacheInfo.RenderHit)

	return nil
}

// artifactPath derives the file path for one rendered format. With a
// single format an explicit output is used verbatim; with several, the
// output (or input) acts as base path and each format appends its own
// extension.
func artifactPath(output, input, format string, multi bool) string {
	if output != "" {
		if !multi {
			return output
		}
		return output + "." + format
	}
	return outputPath("", input, "."+format)
}
