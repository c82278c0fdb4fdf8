// Package pipeline provides the core layout pipeline for Kindred.
//
// This package implements the complete validate → layout → render pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Validate: Check the family graph's structural invariants
//  2. Layout: Compute positions and connector geometry
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage result is cached under a content-addressed key.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Orientation: "top-down",
//	    Formats:     []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Layout only
//	l, err := runner.GenerateLayout(ctx, g, opts)
//
//	// Render an existing layout
//	artifacts, err := runner.Render(ctx, l, g, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kindredlab/kindred/pkg/cache"
	"github.com/kindredlab/kindred/pkg/graph"
	"github.com/kindredlab/kindred/pkg/kin"
	"github.com/kindredlab/kindred/pkg/layout"
	"github.com/kindredlab/kindred/pkg/render/svg"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the PNG export scale factor.
	DefaultScale = 2.0
)

// DefaultOrientation is the orientation used when none is requested.
var DefaultOrientation = layout.TopDown

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Orientation   string  `json:"orientation,omitempty"`
	GenerationGap float64 `json:"generation_gap,omitempty"`
	SiblingGap    float64 `json:"sibling_gap,omitempty"`
	PartnerGap    float64 `json:"partner_gap,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	NodeRadius float64  `json:"node_radius,omitempty"`
	HideLabels bool     `json:"hide_labels,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"` // DOT output only
	Scale      float64  `json:"scale,omitempty"`    // PNG output only

	// Refresh bypasses the validated-graph cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the validated family graph.
	Graph *kin.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout contains the computed positions and connectors.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PersonCount      int
	PartnershipCount int
	ValidateTime     time.Duration
	LayoutTime       time.Duration
	RenderTime       time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ValidateHit bool // Whether an identical graph was already validated
	LayoutHit   bool // Whether layout result came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOrientation checks that an orientation is valid.
func ValidateOrientation(orientation string) error {
	if !layout.Orientation(orientation).Valid() {
		return fmt.Errorf("invalid orientation: %q (must be one of: top-down, bottom-up, left-right, right-left)", orientation)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Orientation == "" {
		o.Orientation = DefaultOrientation.String()
	}
	if o.GenerationGap == 0 {
		o.GenerationGap = layout.DefaultGenerationGap
	}
	if o.SiblingGap == 0 {
		o.SiblingGap = layout.DefaultSiblingGap
	}
	if o.PartnerGap == 0 {
		o.PartnerGap = layout.DefaultPartnerGap
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateOrientation(o.Orientation); err != nil {
		return err
	}
	return o.Spacing().Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.NodeRadius == 0 {
		o.NodeRadius = svg.DefaultNodeRadius
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateOrientation(o.Orientation); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// Spacing returns the layout spacing configured by the options.
func (o *Options) Spacing() layout.Spacing {
	return layout.Spacing{
		GenerationGap: o.GenerationGap,
		SiblingGap:    o.SiblingGap,
		PartnerGap:    o.PartnerGap,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Orientation:   o.Orientation,
		GenerationGap: o.GenerationGap,
		SiblingGap:    o.SiblingGap,
		PartnerGap:    o.PartnerGap,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		NodeRadius: o.NodeRadius,
		Labels:     !o.HideLabels,
	}
}
