// Package kin defines the partnership-centric family graph model.
//
// Unlike a conventional node/edge graph, the structural unit here is the
// Partnership: a union of one or two parents from which an ordered list of
// children descends. People are vertices; partnerships are the hyperedges
// that connect generations.
//
// The Graph type is a plain value container. Its builder methods reject
// empty and duplicate ids eagerly, but direct field assignment is equally
// valid: defective graphs can be represented and are rejected by
// [Validate], the single gate in front of the layout engine.
package kin

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedData is returned by [Validate] when a person or
	// partnership has an empty identifier.
	ErrMalformedData = errors.New("empty identifier")

	// ErrDuplicateID is returned by [Validate] when two people, or two
	// partnerships, share an identifier.
	ErrDuplicateID = errors.New("duplicate identifier")

	// ErrEmptyPartnership is returned by [Validate] when a partnership has
	// neither parent slot set.
	ErrEmptyPartnership = errors.New("partnership has no parents")

	// ErrDanglingReference is returned by [Validate] when a partnership
	// parent, a partnership child, or the graph's RootPersonID references
	// a person that is not present in the graph.
	ErrDanglingReference = errors.New("unknown person reference")

	// ErrCircularReference is returned by [Validate] when a person is
	// reachable as their own ancestor, directly or through a chain of
	// partnerships.
	ErrCircularReference = errors.New("circular ancestry")
)

// Person is a vertex in the family graph. Payload carries arbitrary caller
// data (display name, dates, external keys) that the engine never touches.
type Person struct {
	ID      string
	Payload any
}

// Partnership is a union of one or two parents and their ordered children.
// Parent2 may be empty, representing a single-parent unit; Parent1 must
// always be set on a valid partnership. Children order is preserved and
// drives left-to-right sibling placement in the layout.
type Partnership struct {
	ID       string
	Parent1  string
	Parent2  string
	Children []string
}

// SingleParent reports whether the partnership has only one parent.
func (p Partnership) SingleParent() bool { return p.Parent2 == "" }

// HasParent reports whether id is one of the partnership's parents.
func (p Partnership) HasParent(id string) bool {
	return id != "" && (p.Parent1 == id || p.Parent2 == id)
}

// OtherParent returns the partner of id in this partnership, or "" if id
// is not a parent or has no partner.
func (p Partnership) OtherParent(id string) string {
	switch id {
	case p.Parent1:
		return p.Parent2
	case p.Parent2:
		return p.Parent1
	default:
		return ""
	}
}

// Graph is a full family graph: the people set, the partnership set, and
// an optional root hint. Slice order is meaningful: it determines root
// selection and absorbed-partner tie-breaks, so callers should append in
// the order they want ties resolved.
//
// RootPersonID is validated but not consumed by the layout algorithm; it
// is metadata for external re-rooting features.
type Graph struct {
	People       []Person
	Partnerships []Partnership
	RootPersonID string
}

// PersonCount returns the number of people in the graph.
func (g *Graph) PersonCount() int { return len(g.People) }

// PartnershipCount returns the number of partnerships in the graph.
func (g *Graph) PartnershipCount() int { return len(g.Partnerships) }

// AddPerson appends a person, rejecting empty and duplicate ids eagerly.
// Building a graph by hand and assigning the fields directly is equally
// valid; [Validate] catches the same defects later.
func (g *Graph) AddPerson(id string, payload any) error {
	if id == "" {
		return fmt.Errorf("add person: %w", ErrMalformedData)
	}
	for _, p := range g.People {
		if p.ID == id {
			return fmt.Errorf("person %q: %w", id, ErrDuplicateID)
		}
	}
	g.People = append(g.People, Person{ID: id, Payload: payload})
	return nil
}

// AddPartnership appends a partnership, rejecting empty and duplicate ids
// and all-empty parent slots eagerly. A lone parent may be passed in
// either slot; it is normalized into Parent1.
func (g *Graph) AddPartnership(id, parent1, parent2 string, children ...string) error {
	if id == "" {
		return fmt.Errorf("add partnership: %w", ErrMalformedData)
	}
	for _, pt := range g.Partnerships {
		if pt.ID == id {
			return fmt.Errorf("partnership %q: %w", id, ErrDuplicateID)
		}
	}
	if parent1 == "" && parent2 == "" {
		return fmt.Errorf("partnership %q: %w", id, ErrEmptyPartnership)
	}
	if parent1 == "" {
		parent1, parent2 = parent2, ""
	}
	g.Partnerships = append(g.Partnerships, Partnership{
		ID:       id,
		Parent1:  parent1,
		Parent2:  parent2,
		Children: append([]string(nil), children...),
	})
	return nil
}

// PersonSet returns the set of person ids. Duplicate ids collapse; run
// [Validate] first if that matters.
func (g *Graph) PersonSet() map[string]struct{} {
	set := make(map[string]struct{}, len(g.People))
	for _, p := range g.People {
		set[p.ID] = struct{}{}
	}
	return set
}

// PartnershipsByParent returns, for every parent id, the partnerships
// listing them as a parent, preserving input order. The returned map is a
// fresh copy; mutations do not affect the graph.
func (g *Graph) PartnershipsByParent() map[string][]Partnership {
	m := make(map[string][]Partnership)
	for _, pt := range g.Partnerships {
		if pt.Parent1 != "" {
			m[pt.Parent1] = append(m[pt.Parent1], pt)
		}
		if pt.Parent2 != "" {
			m[pt.Parent2] = append(m[pt.Parent2], pt)
		}
	}
	return m
}

// ChildSet returns the set of person ids that appear as a child in any
// partnership.
func (g *Graph) ChildSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, pt := range g.Partnerships {
		for _, c := range pt.Children {
			set[c] = struct{}{}
		}
	}
	return set
}
