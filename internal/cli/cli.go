// Package cli implements the kindred command-line interface.
//
// This package provides commands for validating family graphs, computing
// layouts, rendering them to image formats, inspecting layout files
// interactively and serving the HTTP API. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - validate: Check a family graph's structural invariants
//   - layout: Compute node positions and connector geometry
//   - render: Run the full pipeline to SVG, PNG, PDF, JSON or DOT
//   - visualize: Render an existing layout file without recomputing it
//   - inspect: Browse a layout file in an interactive table
//   - serve: Run the HTTP API
//   - cache: Manage the local layout cache
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kindredlab/kindred/pkg/buildinfo"
	"github.com/kindredlab/kindred/pkg/cache"
	"github.com/kindredlab/kindred/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "kindred"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger and the user's
// config file (if any) loaded.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
	cfg, err := LoadConfig()
	if err != nil {
		c.Logger.Warn("ignoring config file", "err", err)
		cfg = Config{}
	}
	c.Config = cfg
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "kindred",
		Short:        "Kindred lays out family trees from partnership graphs",
		Long:         `Kindred is a deterministic family-tree layout engine. It validates partnership graphs, computes exact node positions and connector geometry, and renders the result as SVG, PNG, PDF, Graphviz DOT or layout JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cch, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cch, nil, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/kindred/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds pipeline options from the loaded config. Flags
// bound to the returned struct override these, and pipeline defaults fill
// whatever remains zero.
func (c *CLI) pipelineOptions() pipeline.Options {
	opts := pipeline.Options{
		Orientation:   c.Config.Orientation,
		GenerationGap: c.Config.GenerationGap,
		SiblingGap:    c.Config.SiblingGap,
		PartnerGap:    c.Config.PartnerGap,
		NodeRadius:    c.Config.NodeRadius,
	}
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	if len(c.Config.Formats) > 0 {
		opts.Formats = append([]string(nil), c.Config.Formats...)
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// outputPath derives an output file path: explicit output wins, otherwise
// the input's extension is swapped for suffix.
func outputPath(output, input, suffix string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
