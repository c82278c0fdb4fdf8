package layout

import "math"

// estimateSubtreeWidth returns the minimum horizontal footprint the
// person's own uncommitted partnerships and all descendants require, in
// layout units. It is advisory: it reads the session's committed state
// but never changes it, and may be called any number of times against the
// same state during one layout.
//
// Each call owns a local visited set seeded from the already-placed
// people, so a descendant reachable through several paths (half-sibling
// diamonds converging on a shared child) is counted once and later
// revisits contribute zero width.
func (s *session) estimateSubtreeWidth(id string) float64 {
	visited := make(map[string]struct{}, len(s.placed))
	for p := range s.placed {
		visited[p] = struct{}{}
	}
	return s.subtreeWidth(id, visited)
}

func (s *session) subtreeWidth(id string, visited map[string]struct{}) float64 {
	if _, seen := visited[id]; seen {
		return 0
	}
	visited[id] = struct{}{}

	total := 0.0
	units := 0
	for _, pt := range s.byParent[id] {
		if _, done := s.committed[pt.ID]; done {
			continue
		}

		childrenWidth := 0.0
		for i, c := range pt.Children {
			if i > 0 {
				childrenWidth += s.spacing.SiblingGap
			}
			childrenWidth += s.subtreeWidth(c, visited)
		}

		pairWidth := 0.0
		if !pt.SingleParent() {
			pairWidth = s.spacing.PartnerGap
		}

		if units > 0 {
			total += s.spacing.SiblingGap
		}
		total += math.Max(childrenWidth, pairWidth)
		units++
	}
	return total
}
