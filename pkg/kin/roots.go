package kin

// Roots returns the ordered list of person ids that seed the top-level
// layout pass: people that no partnership lists as a child.
//
// When two parent-less people are partners in a shared partnership, only
// the first one in input order is kept as a root; the partner is absorbed
// so a couple does not lay out as two disconnected family lines. Ties are
// always broken by input order, never by any structural heuristic.
//
// A validated, non-empty, acyclic graph always yields at least one root.
// If the filter somehow leaves none (possible only on unvalidated input),
// Roots falls back to the first listed person so callers still get a
// deterministic seed.
func Roots(g *Graph) []string {
	if len(g.People) == 0 {
		return nil
	}

	children := g.ChildSet()
	byParent := g.PartnershipsByParent()

	absorbed := make(map[string]struct{})
	var roots []string
	for _, p := range g.People {
		if _, isChild := children[p.ID]; isChild {
			continue
		}
		if _, taken := absorbed[p.ID]; taken {
			continue
		}
		roots = append(roots, p.ID)
		for _, pt := range byParent[p.ID] {
			if other := pt.OtherParent(p.ID); other != "" {
				absorbed[other] = struct{}{}
			}
		}
	}

	if len(roots) == 0 {
		return []string{g.People[0].ID}
	}
	return roots
}
