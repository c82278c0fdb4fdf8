package kin

import "fmt"

// Validate checks every structural invariant the layout engine depends on
// and returns nil if and only if all of them hold. It is a pure check: it
// never mutates or drops invalid elements, and it reports the first
// violation found in a fixed order:
//
//  1. empty or duplicate person ids
//  2. empty or duplicate partnership ids
//  3. partnerships with both parent slots absent
//  4. parent references to unknown people
//  5. child references to unknown people
//  6. an unresolvable RootPersonID
//  7. circular ancestry (a person reachable as their own ancestor)
//
// The returned error wraps one of the sentinel errors in this package and
// names the offending id, so callers can surface it verbatim.
//
// Validate runs on every layout invocation with no caching across calls:
// the recursive placement pass is only guaranteed to terminate on a graph
// that passes these checks.
func Validate(g *Graph) error {
	people := make(map[string]struct{}, len(g.People))
	for i, p := range g.People {
		if p.ID == "" {
			return fmt.Errorf("person at index %d: %w", i, ErrMalformedData)
		}
		if _, dup := people[p.ID]; dup {
			return fmt.Errorf("person %q: %w", p.ID, ErrDuplicateID)
		}
		people[p.ID] = struct{}{}
	}

	partnerships := make(map[string]struct{}, len(g.Partnerships))
	for i, pt := range g.Partnerships {
		if pt.ID == "" {
			return fmt.Errorf("partnership at index %d: %w", i, ErrMalformedData)
		}
		if _, dup := partnerships[pt.ID]; dup {
			return fmt.Errorf("partnership %q: %w", pt.ID, ErrDuplicateID)
		}
		partnerships[pt.ID] = struct{}{}
	}

	for _, pt := range g.Partnerships {
		if pt.Parent1 == "" && pt.Parent2 == "" {
			return fmt.Errorf("partnership %q: %w", pt.ID, ErrEmptyPartnership)
		}
	}

	for _, pt := range g.Partnerships {
		for _, parent := range []string{pt.Parent1, pt.Parent2} {
			if parent == "" {
				continue
			}
			if _, ok := people[parent]; !ok {
				return fmt.Errorf("partnership %q parent %q: %w", pt.ID, parent, ErrDanglingReference)
			}
		}
	}

	// The parent map is assembled alongside the child-reference check so
	// the cycle pass below does not re-walk the partnerships.
	parents := make(map[string][]string)
	for _, pt := range g.Partnerships {
		for _, child := range pt.Children {
			if _, ok := people[child]; !ok {
				return fmt.Errorf("partnership %q child %q: %w", pt.ID, child, ErrDanglingReference)
			}
			for _, parent := range []string{pt.Parent1, pt.Parent2} {
				if parent != "" {
					parents[child] = append(parents[child], parent)
				}
			}
		}
	}

	if g.RootPersonID != "" {
		if _, ok := people[g.RootPersonID]; !ok {
			return fmt.Errorf("root person %q: %w", g.RootPersonID, ErrDanglingReference)
		}
	}

	return detectCycles(g, parents)
}

// detectCycles walks each person's ancestor set breadth-first through the
// parent map and fails if the walk ever returns to its start. People whose
// ancestry has already been fully cleared are not expanded again: if any
// member of a cycle were cleared, its own walk would have found the cycle,
// so skipping cleared ancestors cannot hide one.
func detectCycles(g *Graph, parents map[string][]string) error {
	cleared := make(map[string]struct{}, len(g.People))

	for _, p := range g.People {
		if _, done := cleared[p.ID]; done {
			continue
		}

		visited := map[string]struct{}{p.ID: {}}
		queue := append([]string(nil), parents[p.ID]...)
		for len(queue) > 0 {
			ancestor := queue[0]
			queue = queue[1:]

			if ancestor == p.ID {
				return fmt.Errorf("person %q is their own ancestor: %w", p.ID, ErrCircularReference)
			}
			if _, seen := visited[ancestor]; seen {
				continue
			}
			visited[ancestor] = struct{}{}
			if _, done := cleared[ancestor]; done {
				continue
			}
			queue = append(queue, parents[ancestor]...)
		}
		cleared[p.ID] = struct{}{}
	}
	return nil
}
