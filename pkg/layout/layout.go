// Package layout converts a validated family graph plus spacing and
// orientation configuration into exact 2-D coordinates for every person
// and exact connector geometry for every partnership and parent-child
// link.
//
// The engine is deterministic and stateless: identical graph, spacing and
// orientation always produce an identical Result, all working state is
// scoped to one Compute call, and the caller's graph is never mutated.
// Layout happens in canonical top-down coordinates (sibling axis = x,
// generation axis = y increasing downward) and the requested orientation
// is applied as a final uniform point transform.
package layout

import (
	"fmt"

	"github.com/kindredlab/kindred/pkg/kin"
)

// Default spacing, in layout units.
const (
	DefaultGenerationGap = 100.0
	DefaultSiblingGap    = 50.0
	DefaultPartnerGap    = 60.0
)

// Spacing holds the three distances the engine spaces nodes by. All gaps
// are positive distances in layout units.
type Spacing struct {
	// GenerationGap is the distance between consecutive generations along
	// the generation axis.
	GenerationGap float64
	// SiblingGap separates sibling subtrees and independent partnership
	// units along the sibling axis.
	SiblingGap float64
	// PartnerGap separates the two partners of a partnership along the
	// sibling axis.
	PartnerGap float64
}

// DefaultSpacing returns the standard spacing configuration.
func DefaultSpacing() Spacing {
	return Spacing{
		GenerationGap: DefaultGenerationGap,
		SiblingGap:    DefaultSiblingGap,
		PartnerGap:    DefaultPartnerGap,
	}
}

// Validate checks that every gap is a positive distance.
func (s Spacing) Validate() error {
	if s.GenerationGap <= 0 {
		return fmt.Errorf("generation gap must be positive, got %v", s.GenerationGap)
	}
	if s.SiblingGap <= 0 {
		return fmt.Errorf("sibling gap must be positive, got %v", s.SiblingGap)
	}
	if s.PartnerGap <= 0 {
		return fmt.Errorf("partner gap must be positive, got %v", s.PartnerGap)
	}
	return nil
}

// Point is a position in layout units.
type Point struct {
	X float64
	Y float64
}

// Node is the final position of one person.
type Node struct {
	ID string
	X  float64
	Y  float64
}

// PartnershipConnection is the connector for one partnership. Midpoint is
// the anchor on the line between the partners (or the lone partner's own
// position) from which child drop-lines originate.
type PartnershipConnection struct {
	PartnershipID string
	Partner1      string
	Partner2      string // empty for single-parent units
	Midpoint      Point
}

// ChildConnection is the connector from a partnership midpoint to one
// child. DropPoint is the elbow between the two generations directly
// under the midpoint; ChildPoint is the child's own final position.
type ChildConnection struct {
	PartnershipID string
	ChildID       string
	DropPoint     Point
	ChildPoint    Point
}

// Result is the complete output of one layout pass. It is an immutable
// value from the engine's perspective: consumers render and hit-test
// against it but must re-invoke Compute to change placement.
type Result struct {
	Orientation            Orientation
	Nodes                  []Node
	PartnershipConnections []PartnershipConnection
	ChildConnections       []ChildConnection
}

// Compute validates g and lays out the entire graph in one pass.
//
// Roots are placed left to right in root-finder order, each family line
// advancing a shared cursor by its consumed width plus one sibling gap so
// disconnected lines never overlap. Any person not reachable from a root
// (possible only through exotic partner chains) is placed afterwards as
// an additional top-level unit, preserving the one-node-per-person
// guarantee.
//
// Compute returns an error from [kin.Validate] when the graph violates a
// structural invariant, or a configuration error for non-positive spacing
// or an unknown orientation. No partial Result is ever returned.
func Compute(g *kin.Graph, spacing Spacing, orientation Orientation) (Result, error) {
	if err := spacing.Validate(); err != nil {
		return Result{}, err
	}
	if !orientation.Valid() {
		return Result{}, fmt.Errorf("unknown orientation %q", orientation)
	}
	if err := kin.Validate(g); err != nil {
		return Result{}, err
	}

	s := newSession(g, spacing)

	cursor := 0.0
	for _, root := range kin.Roots(g) {
		width := s.place(root, cursor, 0)
		cursor += width + spacing.SiblingGap
	}

	// Defensive sweep: a partner absorbed into another root's unit can
	// carry partnerships of their own that no recursion reaches.
	for _, p := range g.People {
		if s.isPlaced(p.ID) {
			continue
		}
		width := s.place(p.ID, cursor, 0)
		cursor += width + spacing.SiblingGap
	}

	return s.result(orientation), nil
}
