package graph

import (
	"fmt"

	"github.com/kindredlab/kindred/pkg/kin"
)

// =============================================================================
// Graph - Family Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for family graphs. Used for
// file IO, API payloads, storage and caching.
//
// The format is human-readable and designed for round-trip fidelity:
// import, layout, export and re-import produce identical results. Slice
// order is preserved because it drives root selection and sibling
// placement in the engine.
type Graph struct {
	People       []Person      `json:"people" bson:"people"`
	Partnerships []Partnership `json:"partnerships,omitempty" bson:"partnerships,omitempty"`
	RootPersonID string        `json:"root_person_id,omitempty" bson:"root_person_id,omitempty"`
}

// Person is the serialized form of one person. Payload is opaque caller
// data carried through untouched.
type Person struct {
	ID      string `json:"id" bson:"id"`
	Payload any    `json:"payload,omitempty" bson:"payload,omitempty"`
}

// Partnership is the serialized form of one partnership. Parents holds
// one or two person ids; Children order is meaningful.
type Partnership struct {
	ID       string   `json:"id" bson:"id"`
	Parents  []string `json:"parents" bson:"parents"`
	Children []string `json:"children,omitempty" bson:"children,omitempty"`
}

// =============================================================================
// Model Conversion
// =============================================================================

// FromKin converts a model graph to its serialization format. Input order
// is preserved.
func FromKin(g *kin.Graph) Graph {
	out := Graph{
		People:       make([]Person, len(g.People)),
		Partnerships: make([]Partnership, len(g.Partnerships)),
		RootPersonID: g.RootPersonID,
	}
	for i, p := range g.People {
		out.People[i] = Person{ID: p.ID, Payload: p.Payload}
	}
	for i, pt := range g.Partnerships {
		parents := make([]string, 0, 2)
		if pt.Parent1 != "" {
			parents = append(parents, pt.Parent1)
		}
		if pt.Parent2 != "" {
			parents = append(parents, pt.Parent2)
		}
		out.Partnerships[i] = Partnership{
			ID:       pt.ID,
			Parents:  parents,
			Children: append([]string(nil), pt.Children...),
		}
	}
	return out
}

// ToKin converts a serialized graph to the model form. It rejects
// partnerships with more than two parents, which the model cannot
// represent; every other defect is left for [kin.Validate] to report so
// error kinds stay consistent across entry points.
func ToKin(g Graph) (*kin.Graph, error) {
	out := &kin.Graph{
		People:       make([]kin.Person, len(g.People)),
		Partnerships: make([]kin.Partnership, len(g.Partnerships)),
		RootPersonID: g.RootPersonID,
	}
	for i, p := range g.People {
		out.People[i] = kin.Person{ID: p.ID, Payload: p.Payload}
	}
	for i, pt := range g.Partnerships {
		if len(pt.Parents) > 2 {
			return nil, fmt.Errorf("partnership %s: at most two parents are supported, got %d", pt.ID, len(pt.Parents))
		}
		k := kin.Partnership{
			ID:       pt.ID,
			Children: append([]string(nil), pt.Children...),
		}
		if len(pt.Parents) > 0 {
			k.Parent1 = pt.Parents[0]
		}
		if len(pt.Parents) > 1 {
			k.Parent2 = pt.Parents[1]
		}
		out.Partnerships[i] = k
	}
	return out, nil
}
