package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kindredlab/kindred/pkg/graph"
	"github.com/kindredlab/kindred/pkg/pipeline"
)

// layoutCommand creates the layout command for computing tree geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node positions and connector geometry",
		Long: `Compute node positions and connector geometry for a family graph.

The layout command takes a graph.json file, validates it and computes the
final position of every person plus the partner and child connectors. The
output is a layout.json file that can be rendered with 'kindred visualize'
or browsed with 'kindred inspect'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.Orientation, "orientation", opts.Orientation, "orientation: top-down (default), bottom-up, left-right, right-left")
	cmd.Flags().Float64Var(&opts.GenerationGap, "generation-gap", opts.GenerationGap, "distance between generations")
	cmd.Flags().Float64Var(&opts.SiblingGap, "sibling-gap", opts.SiblingGap, "distance between sibling subtrees")
	cmd.Flags().Float64Var(&opts.PartnerGap, "partner-gap", opts.PartnerGap, "distance between partners")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Orientation))
	spinner.Start()

	l, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	out := outputPath(output, input, ".layout.json")
	if err := graph.WriteLayoutFile(l, out); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	printSuccess("Layout complete")
	printFile(out)
	printStats(g.PersonCount(), g.PartnershipCount(), cacheHit)
	printNewline()
	printNextStep("Render", "kindred visualize "+out)

	return nil
}
