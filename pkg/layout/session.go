package layout

import (
	"math"

	"github.com/kindredlab/kindred/pkg/kin"
)

// session is the mutable state of one layout pass. It owns the position
// map, the connection lists and the processed-sets, and is threaded by
// reference through every recursive call. Nothing in it survives the
// Compute call that created it.
type session struct {
	graph    *kin.Graph
	spacing  Spacing
	byParent map[string][]kin.Partnership

	positions    map[string]Point
	placed       map[string]struct{}
	committed    map[string]struct{} // partnership ids already laid out
	partnerConns []PartnershipConnection
	childConns   []ChildConnection
}

func newSession(g *kin.Graph, spacing Spacing) *session {
	return &session{
		graph:     g,
		spacing:   spacing,
		byParent:  g.PartnershipsByParent(),
		positions: make(map[string]Point, len(g.People)),
		placed:    make(map[string]struct{}, len(g.People)),
		committed: make(map[string]struct{}, len(g.Partnerships)),
	}
}

func (s *session) isPlaced(id string) bool {
	_, ok := s.placed[id]
	return ok
}

// placeAt records a position for id unless one exists already. First
// placement wins: a person reached again through another path keeps the
// coordinates of whichever path got there first in processing order. This
// is deliberate policy, not an accident; see the package tests for the
// shared-descendant cases that depend on it.
func (s *session) placeAt(id string, x, y float64) {
	if s.isPlaced(id) {
		return
	}
	s.positions[id] = Point{X: x, Y: y}
	s.placed[id] = struct{}{}
}

// place lays out the person's entire reachable family unit starting at
// the given x offset and generation depth y, and returns the total
// horizontal width it consumed.
//
// Each of the person's not-yet-committed partnerships becomes one unit:
// unit width = max(children width, partner-pair width). Partners are
// centered within the unit at the current depth, children one generation
// down, each centered within its own estimated subtree width. Units are
// separated by the sibling gap.
func (s *session) place(id string, offset, y float64) float64 {
	if s.isPlaced(id) {
		return 0
	}

	partnerships := s.byParent[id]
	if len(partnerships) == 0 {
		s.placeAt(id, offset, y)
		return 0
	}

	cursor := offset
	total := 0.0
	units := 0
	for _, pt := range partnerships {
		if _, done := s.committed[pt.ID]; done {
			continue
		}
		// Mark before descending so a shared child or shared partner path
		// cannot re-enter this partnership.
		s.committed[pt.ID] = struct{}{}

		childWidths := make([]float64, len(pt.Children))
		childrenWidth := 0.0
		for i, c := range pt.Children {
			childWidths[i] = s.estimateSubtreeWidth(c)
			if i > 0 {
				childrenWidth += s.spacing.SiblingGap
			}
			childrenWidth += childWidths[i]
		}

		pairWidth := 0.0
		if !pt.SingleParent() {
			pairWidth = s.spacing.PartnerGap
		}
		unit := math.Max(childrenWidth, pairWidth)

		if units > 0 {
			cursor += s.spacing.SiblingGap
			total += s.spacing.SiblingGap
		}

		mid := cursor + unit/2
		if pt.SingleParent() {
			s.placeAt(pt.Parent1, mid, y)
		} else {
			s.placeAt(pt.Parent1, mid-s.spacing.PartnerGap/2, y)
			s.placeAt(pt.Parent2, mid+s.spacing.PartnerGap/2, y)
		}
		s.partnerConns = append(s.partnerConns, PartnershipConnection{
			PartnershipID: pt.ID,
			Partner1:      pt.Parent1,
			Partner2:      pt.Parent2,
			Midpoint:      Point{X: mid, Y: y},
		})

		childY := y + s.spacing.GenerationGap
		childCursor := cursor + (unit-childrenWidth)/2
		for i, c := range pt.Children {
			if i > 0 {
				childCursor += s.spacing.SiblingGap
			}
			s.place(c, childCursor, childY)
			s.childConns = append(s.childConns, ChildConnection{
				PartnershipID: pt.ID,
				ChildID:       c,
				DropPoint:     Point{X: mid, Y: y + s.spacing.GenerationGap/2},
				ChildPoint:    s.positions[c],
			})
			childCursor += childWidths[i]
		}

		cursor += unit
		total += unit
		units++
	}

	// Every partnership was committed through another path; the person
	// still needs a spot of their own.
	if !s.isPlaced(id) {
		s.placeAt(id, offset, y)
	}

	return math.Max(total, 0)
}

// result assembles the final Result, applying the orientation transform
// uniformly to node positions, partnership midpoints and both child
// connector points. Nodes are emitted in graph input order.
func (s *session) result(orientation Orientation) Result {
	tr := transformFor(orientation)

	nodes := make([]Node, 0, len(s.graph.People))
	for _, p := range s.graph.People {
		pos := tr(s.positions[p.ID])
		nodes = append(nodes, Node{ID: p.ID, X: pos.X, Y: pos.Y})
	}

	partnerConns := make([]PartnershipConnection, len(s.partnerConns))
	for i, pc := range s.partnerConns {
		pc.Midpoint = tr(pc.Midpoint)
		partnerConns[i] = pc
	}

	childConns := make([]ChildConnection, len(s.childConns))
	for i, cc := range s.childConns {
		cc.DropPoint = tr(cc.DropPoint)
		cc.ChildPoint = tr(cc.ChildPoint)
		childConns[i] = cc
	}

	return Result{
		Orientation:            orientation,
		Nodes:                  nodes,
		PartnershipConnections: partnerConns,
		ChildConnections:       childConns,
	}
}
