package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kindredlab/kindred/pkg/layout"
)

// =============================================================================
// Layout - Computed Geometry Serialization
// =============================================================================

// Layout is the serialization format for a computed family-tree layout:
// final node positions plus connector geometry, already transformed into
// the recorded orientation.
type Layout struct {
	Orientation string `json:"orientation" bson:"orientation"`

	Nodes                  []LayoutNode            `json:"nodes" bson:"nodes"`
	PartnershipConnections []PartnershipConnection `json:"partnership_connections,omitempty" bson:"partnership_connections,omitempty"`
	ChildConnections       []ChildConnection       `json:"child_connections,omitempty" bson:"child_connections,omitempty"`
}

// LayoutNode is the final position of one person.
type LayoutNode struct {
	ID string  `json:"id" bson:"id"`
	X  float64 `json:"x" bson:"x"`
	Y  float64 `json:"y" bson:"y"`
}

// Point is a 2-D position in layout units.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// PartnershipConnection is the serialized connector for one partnership.
type PartnershipConnection struct {
	PartnershipID string `json:"partnership_id" bson:"partnership_id"`
	Partner1      string `json:"partner1" bson:"partner1"`
	Partner2      string `json:"partner2,omitempty" bson:"partner2,omitempty"`
	Midpoint      Point  `json:"midpoint" bson:"midpoint"`
}

// ChildConnection is the serialized connector from a partnership midpoint
// to one child.
type ChildConnection struct {
	PartnershipID string `json:"partnership_id" bson:"partnership_id"`
	ChildID       string `json:"child_id" bson:"child_id"`
	DropPoint     Point  `json:"drop_point" bson:"drop_point"`
	ChildPoint    Point  `json:"child_point" bson:"child_point"`
}

// =============================================================================
// Engine Conversion
// =============================================================================

// FromResult converts an engine result to its serialization format.
func FromResult(r layout.Result) Layout {
	out := Layout{
		Orientation:            r.Orientation.String(),
		Nodes:                  make([]LayoutNode, len(r.Nodes)),
		PartnershipConnections: make([]PartnershipConnection, len(r.PartnershipConnections)),
		ChildConnections:       make([]ChildConnection, len(r.ChildConnections)),
	}
	for i, n := range r.Nodes {
		out.Nodes[i] = LayoutNode{ID: n.ID, X: n.X, Y: n.Y}
	}
	for i, pc := range r.PartnershipConnections {
		out.PartnershipConnections[i] = PartnershipConnection{
			PartnershipID: pc.PartnershipID,
			Partner1:      pc.Partner1,
			Partner2:      pc.Partner2,
			Midpoint:      Point{X: pc.Midpoint.X, Y: pc.Midpoint.Y},
		}
	}
	for i, cc := range r.ChildConnections {
		out.ChildConnections[i] = ChildConnection{
			PartnershipID: cc.PartnershipID,
			ChildID:       cc.ChildID,
			DropPoint:     Point{X: cc.DropPoint.X, Y: cc.DropPoint.Y},
			ChildPoint:    Point{X: cc.ChildPoint.X, Y: cc.ChildPoint.Y},
		}
	}
	return out
}

// ToResult converts a serialized layout back to the engine form, for
// example to re-render a layout file without recomputing it.
func (l Layout) ToResult() (layout.Result, error) {
	orientation := layout.Orientation(l.Orientation)
	if l.Orientation == "" {
		orientation = layout.TopDown
	}
	if !orientation.Valid() {
		return layout.Result{}, fmt.Errorf("unknown orientation %q", l.Orientation)
	}

	out := layout.Result{
		Orientation:            orientation,
		Nodes:                  make([]layout.Node, len(l.Nodes)),
		PartnershipConnections: make([]layout.PartnershipConnection, len(l.PartnershipConnections)),
		ChildConnections:       make([]layout.ChildConnection, len(l.ChildConnections)),
	}
	for i, n := range l.Nodes {
		out.Nodes[i] = layout.Node{ID: n.ID, X: n.X, Y: n.Y}
	}
	for i, pc := range l.PartnershipConnections {
		out.PartnershipConnections[i] = layout.PartnershipConnection{
			PartnershipID: pc.PartnershipID,
			Partner1:      pc.Partner1,
			Partner2:      pc.Partner2,
			Midpoint:      layout.Point{X: pc.Midpoint.X, Y: pc.Midpoint.Y},
		}
	}
	for i, cc := range l.ChildConnections {
		out.ChildConnections[i] = layout.ChildConnection{
			PartnershipID: cc.PartnershipID,
			ChildID:       cc.ChildID,
			DropPoint:     layout.Point{X: cc.DropPoint.X, Y: cc.DropPoint.Y},
			ChildPoint:    layout.Point{X: cc.ChildPoint.X, Y: cc.ChildPoint.Y},
		}
	}
	return out, nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// An empty orientation defaults to top-down; unknown orientations are
// rejected here rather than at render time.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.Orientation == "" {
		l.Orientation = layout.TopDown.String()
	}
	if !layout.Orientation(l.Orientation).Valid() {
		return Layout{}, fmt.Errorf("unknown orientation %q", l.Orientation)
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
