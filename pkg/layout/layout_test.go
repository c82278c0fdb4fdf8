package layout

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kindredlab/kindred/pkg/kin"
)

func mustCompute(t *testing.T, g *kin.Graph) Result {
	t.Helper()
	res, err := Compute(g, DefaultSpacing(), TopDown)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return res
}

func nodeByID(t *testing.T, res Result, id string) Node {
	t.Helper()
	for _, n := range res.Nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("no node for %q", id)
	return Node{}
}

func childConn(t *testing.T, res Result, partnershipID, childID string) ChildConnection {
	t.Helper()
	for _, cc := range res.ChildConnections {
		if cc.PartnershipID == partnershipID && cc.ChildID == childID {
			return cc
		}
	}
	t.Fatalf("no child connection %s -> %s", partnershipID, childID)
	return ChildConnection{}
}

func partnerConn(t *testing.T, res Result, partnershipID string) PartnershipConnection {
	t.Helper()
	for _, pc := range res.PartnershipConnections {
		if pc.PartnershipID == partnershipID {
			return pc
		}
	}
	t.Fatalf("no partnership connection for %s", partnershipID)
	return PartnershipConnection{}
}

func wantPos(t *testing.T, res Result, id string, x, y float64) {
	t.Helper()
	n := nodeByID(t, res, id)
	if n.X != x || n.Y != y {
		t.Errorf("%s at (%v, %v), want (%v, %v)", id, n.X, n.Y, x, y)
	}
}

func TestComputeEmptyGraph(t *testing.T) {
	res := mustCompute(t, &kin.Graph{})
	if len(res.Nodes) != 0 || len(res.PartnershipConnections) != 0 || len(res.ChildConnections) != 0 {
		t.Errorf("empty graph produced non-empty result: %+v", res)
	}
	if res.Orientation != TopDown {
		t.Errorf("orientation = %q, want top-down", res.Orientation)
	}
}

func TestComputeSinglePerson(t *testing.T) {
	res := mustCompute(t, &kin.Graph{People: []kin.Person{{ID: "a"}}})
	wantPos(t, res, "a", 0, 0)
	if len(res.PartnershipConnections) != 0 || len(res.ChildConnections) != 0 {
		t.Error("lone person should produce no connections")
	}
}

func TestComputeCouple(t *testing.T) {
	g := &kin.Graph{
		People: []kin.Person{{ID: "alice"}, {ID: "bob"}},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "alice", Parent2: "bob"},
		},
	}
	res := mustCompute(t, g)

	// Childless couple spans exactly one partner gap.
	wantPos(t, res, "alice", 0, 0)
	wantPos(t, res, "bob", 60, 0)

	pc := partnerConn(t, res, "p1")
	if pc.Partner1 != "alice" || pc.Partner2 != "bob" {
		t.Errorf("partners = %q/%q, want alice/bob", pc.Partner1, pc.Partner2)
	}
	if pc.Midpoint != (Point{X: 30, Y: 0}) {
		t.Errorf("midpoint = %+v, want (30, 0)", pc.Midpoint)
	}
}

func TestComputeCoupleWithOneChild(t *testing.T) {
	g := &kin.Graph{
		People: []kin.Person{{ID: "alice"}, {ID: "bob"}, {ID: "carol"}},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "alice", Parent2: "bob", Children: []string{"carol"}},
		},
	}
	res := mustCompute(t, g)

	// The pair is wider than a single leaf child, so the pair width sets
	// the unit and the child is centered under the midpoint.
	wantPos(t, res, "alice", 0, 0)
	wantPos(t, res, "bob", 60, 0)
	wantPos(t, res, "carol", 30, 100)

	cc := childConn(t, res, "p1", "carol")
	if cc.DropPoint != (Point{X: 30, Y: 50}) {
		t.Errorf("drop point = %+v, want (30, 50)", cc.DropPoint)
	}
	if cc.ChildPoint != (Point{X: 30, Y: 100}) {
		t.Errorf("child point = %+v, want (30, 100)", cc.ChildPoint)
	}
}

func TestComputeCoupleWithTwoChildren(t *testing.T) {
	g := &kin.Graph{
		People: []kin.Person{{ID: "alice"}, {ID: "bob"}, {ID: "carol"}, {ID: "dan"}},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "alice", Parent2: "bob", Children: []string{"carol", "dan"}},
		},
	}
	res := mustCompute(t, g)

	// Two leaf children span one sibling gap (50), still narrower than the
	// pair (60), so the children block is centered inside the pair width.
	wantPos(t, res, "alice", 0, 0)
	wantPos(t, res, "bob", 60, 0)
	wantPos(t, res, "carol", 5, 100)
	wantPos(t, res, "dan", 55, 100)

	for _, child := range []string{"carol", "dan"} {
		cc := childConn(t, res, "p1", child)
		if cc.DropPoint != (Point{X: 30, Y: 50}) {
			t.Errorf("%s drop point = %+v, want (30, 50)", child, cc.DropPoint)
		}
	}
}

func TestComputeThreeGenerations(t *testing.T) {
	g := &kin.Graph{
		People: []kin.Person{{ID: "alice"}, {ID: "bob"}, {ID: "carol"}, {ID: "dan"}, {ID: "erin"}},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "alice", Parent2: "bob", Children: []string{"carol", "dan"}},
			{ID: "p2", Parent1: "carol", Children: []string{"erin"}},
		},
	}
	res := mustCompute(t, g)

	wantPos(t, res, "alice", 0, 0)
	wantPos(t, res, "bob", 60, 0)
	wantPos(t, res, "carol", 5, 100)
	wantPos(t, res, "dan", 55, 100)
	wantPos(t, res, "erin", 5, 200)

	// Single-parent midpoint is the parent's own position.
	pc := partnerConn(t, res, "p2")
	if pc.Partner2 != "" {
		t.Errorf("p2 partner2 = %q, want empty", pc.Partner2)
	}
	if pc.Midpoint != (Point{X: 5, Y: 100}) {
		t.Errorf("p2 midpoint = %+v, want (5, 100)", pc.Midpoint)
	}

	cc := childConn(t, res, "p2", "erin")
	if cc.DropPoint != (Point{X: 5, Y: 150}) {
		t.Errorf("erin drop point = %+v, want (5, 150)", cc.DropPoint)
	}
}

func TestComputeRemarriage(t *testing.T) {
	g := &kin.Graph{
		People: []kin.Person{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "a", Parent2: "b", Children: []string{"c"}},
			{ID: "p2", Parent1: "a", Parent2: "d", Children: []string{"e"}},
		},
	}
	res := mustCompute(t, g)

	// a's two partnership units sit side by side, one sibling gap apart.
	// a keeps the position from the first unit.
	wantPos(t, res, "a", 0, 0)
	wantPos(t, res, "b", 60, 0)
	wantPos(t, res, "c", 30, 100)
	wantPos(t, res, "d", 170, 0)
	wantPos(t, res, "e", 140, 100)

	if pc := partnerConn(t, res, "p2"); pc.Midpoint != (Point{X: 140, Y: 0}) {
		t.Errorf("p2 midpoint = %+v, want (140, 0)", pc.Midpoint)
	}
}

func TestComputeMultipleRoots(t *testing.T) {
	g := &kin.Graph{
		People: []kin.Person{{ID: "a"}, {ID: "b"}, {ID: "x"}, {ID: "y"}},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "a", Parent2: "b"},
			{ID: "p2", Parent1: "x", Parent2: "y"},
		},
	}
	res := mustCompute(t, g)

	// Second family starts after the first family's width plus one
	// sibling gap.
	wantPos(t, res, "a", 0, 0)
	wantPos(t, res, "b", 60, 0)
	wantPos(t, res, "x", 110, 0)
	wantPos(t, res, "y", 170, 0)
}

func TestComputeLoosePeople(t *testing.T) {
	g := &kin.Graph{People: []kin.Person{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	res := mustCompute(t, g)

	// Leaf roots consume zero width, so only the sibling gap separates them.
	wantPos(t, res, "a", 0, 0)
	wantPos(t, res, "b", 50, 0)
	wantPos(t, res, "c", 100, 0)
}

func TestComputeSharedChildKeepsFirstPlacement(t *testing.T) {
	g := &kin.Graph{
		People: []kin.Person{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "x"}},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "a", Parent2: "b", Children: []string{"x"}},
			{ID: "p2", Parent1: "c", Parent2: "d", Children: []string{"x"}},
		},
	}
	res := mustCompute(t, g)

	// x was placed under p1 first; p2's connector must point at that
	// position rather than relocating the child.
	wantPos(t, res, "x", 30, 100)

	cc := childConn(t, res, "p2", "x")
	if cc.ChildPoint != (Point{X: 30, Y: 100}) {
		t.Errorf("p2 child point = %+v, want x's original (30, 100)", cc.ChildPoint)
	}
	if cc.DropPoint != (Point{X: 140, Y: 50}) {
		t.Errorf("p2 drop point = %+v, want (140, 50)", cc.DropPoint)
	}
}

func TestComputeEveryPersonGetsExactlyOneNode(t *testing.T) {
	// b is absorbed into a's unit as a partner, and b's single-parent
	// partnership is never reached through the root descent. Its child
	// must still end up with a node.
	g := &kin.Graph{
		People: []kin.Person{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "z"}},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "a", Parent2: "b", Children: []string{"c"}},
			{ID: "p2", Parent1: "b", Children: []string{"z"}},
		},
	}
	res := mustCompute(t, g)

	if len(res.Nodes) != len(g.People) {
		t.Fatalf("got %d nodes for %d people", len(res.Nodes), len(g.People))
	}
	seen := make(map[string]bool)
	for _, n := range res.Nodes {
		if seen[n.ID] {
			t.Errorf("duplicate node for %s", n.ID)
		}
		seen[n.ID] = true
	}
	for _, p := range g.People {
		if !seen[p.ID] {
			t.Errorf("no node for %s", p.ID)
		}
	}
}

func TestComputeOrientations(t *testing.T) {
	g := &kin.Graph{
		People: []kin.Person{{ID: "alice"}, {ID: "bob"}, {ID: "carol"}},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "alice", Parent2: "bob", Children: []string{"carol"}},
		},
	}

	tests := []struct {
		orientation Orientation
		bob         Point
		carol       Point
		drop        Point
	}{
		{TopDown, Point{60, 0}, Point{30, 100}, Point{30, 50}},
		{BottomUp, Point{60, 0}, Point{30, -100}, Point{30, -50}},
		{LeftRight, Point{0, 60}, Point{100, 30}, Point{50, 30}},
		{RightLeft, Point{0, 60}, Point{-100, 30}, Point{-50, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.orientation.String(), func(t *testing.T) {
			res, err := Compute(g, DefaultSpacing(), tt.orientation)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			if res.Orientation != tt.orientation {
				t.Errorf("result orientation = %q, want %q", res.Orientation, tt.orientation)
			}
			wantPos(t, res, "bob", tt.bob.X, tt.bob.Y)
			wantPos(t, res, "carol", tt.carol.X, tt.carol.Y)
			if cc := childConn(t, res, "p1", "carol"); cc.DropPoint != tt.drop {
				t.Errorf("drop point = %+v, want %+v", cc.DropPoint, tt.drop)
			}
		})
	}
}

func TestComputeCustomSpacing(t *testing.T) {
	g := &kin.Graph{
		People: []kin.Person{{ID: "alice"}, {ID: "bob"}, {ID: "carol"}},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "alice", Parent2: "bob", Children: []string{"carol"}},
		},
	}
	res, err := Compute(g, Spacing{GenerationGap: 40, SiblingGap: 10, PartnerGap: 20}, TopDown)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	wantPos(t, res, "alice", 0, 0)
	wantPos(t, res, "bob", 20, 0)
	wantPos(t, res, "carol", 10, 40)
	if cc := childConn(t, res, "p1", "carol"); cc.DropPoint != (Point{X: 10, Y: 20}) {
		t.Errorf("drop point = %+v, want (10, 20)", cc.DropPoint)
	}
}

func TestComputeDeterministic(t *testing.T) {
	g := &kin.Graph{
		People: []kin.Person{{ID: "alice"}, {ID: "bob"}, {ID: "carol"}, {ID: "dan"}, {ID: "erin"}},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "alice", Parent2: "bob", Children: []string{"carol", "dan"}},
			{ID: "p2", Parent1: "carol", Children: []string{"erin"}},
		},
	}

	first := mustCompute(t, g)
	for i := 0; i < 5; i++ {
		if res := mustCompute(t, g); !reflect.DeepEqual(res, first) {
			t.Fatalf("run %d differs from first run", i+1)
		}
	}
}

func TestComputeDoesNotMutateGraph(t *testing.T) {
	g := &kin.Graph{
		People: []kin.Person{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "a", Parent2: "b", Children: []string{"c"}},
		},
	}
	before := &kin.Graph{
		People:       append([]kin.Person(nil), g.People...),
		Partnerships: append([]kin.Partnership(nil), g.Partnerships...),
	}
	mustCompute(t, g)
	if !reflect.DeepEqual(g, before) {
		t.Error("Compute mutated the input graph")
	}
}

func TestComputeRejectsBadInput(t *testing.T) {
	valid := &kin.Graph{People: []kin.Person{{ID: "a"}}}
	cyclic := &kin.Graph{
		People: []kin.Person{{ID: "a"}, {ID: "b"}},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "a", Children: []string{"b"}},
			{ID: "p2", Parent1: "b", Children: []string{"a"}},
		},
	}

	t.Run("invalid spacing", func(t *testing.T) {
		if _, err := Compute(valid, Spacing{}, TopDown); err == nil {
			t.Error("zero spacing should be rejected")
		}
		bad := DefaultSpacing()
		bad.SiblingGap = -1
		if _, err := Compute(valid, bad, TopDown); err == nil {
			t.Error("negative sibling gap should be rejected")
		}
	})

	t.Run("invalid orientation", func(t *testing.T) {
		if _, err := Compute(valid, DefaultSpacing(), Orientation("sideways")); err == nil {
			t.Error("unknown orientation should be rejected")
		}
	})

	t.Run("invalid graph", func(t *testing.T) {
		_, err := Compute(cyclic, DefaultSpacing(), TopDown)
		if !errors.Is(err, kin.ErrCircularReference) {
			t.Errorf("Compute = %v, want ErrCircularReference", err)
		}
	})
}

func TestSpacingValidate(t *testing.T) {
	if err := DefaultSpacing().Validate(); err != nil {
		t.Errorf("default spacing invalid: %v", err)
	}

	tests := []struct {
		name    string
		spacing Spacing
	}{
		{"zero generation gap", Spacing{GenerationGap: 0, SiblingGap: 50, PartnerGap: 60}},
		{"negative sibling gap", Spacing{GenerationGap: 100, SiblingGap: -50, PartnerGap: 60}},
		{"zero partner gap", Spacing{GenerationGap: 100, SiblingGap: 50, PartnerGap: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.spacing.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestOrientationValid(t *testing.T) {
	for _, o := range Orientations {
		if !o.Valid() {
			t.Errorf("%q should be valid", o)
		}
	}
	for _, s := range []string{"", "sideways", "TOP-DOWN", "topdown"} {
		if Orientation(s).Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestEstimateMatchesConsumedWidth(t *testing.T) {
	// The estimator must agree with what placement actually consumes, or
	// sibling subtrees would overlap. Check a couple of shapes by placing
	// them as the only root and measuring the node extent.
	g := &kin.Graph{
		People: []kin.Person{
			{ID: "a"}, {ID: "b"},
			{ID: "c"}, {ID: "d"}, {ID: "e"},
			{ID: "f"}, {ID: "g"},
		},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "a", Parent2: "b", Children: []string{"c", "f"}},
			{ID: "p2", Parent1: "c", Parent2: "d", Children: []string{"e"}},
			{ID: "p3", Parent1: "f", Parent2: "g"},
		},
	}
	res := mustCompute(t, g)

	// Both children of p1 are couples: each subtree is one partner gap
	// wide, so the children block is 60 + 50 + 60 = 170 and wider than
	// the p1 pair.
	wantPos(t, res, "c", 0, 100)
	wantPos(t, res, "d", 60, 100)
	wantPos(t, res, "e", 30, 200)
	wantPos(t, res, "f", 110, 100)
	wantPos(t, res, "g", 170, 100)

	// p1's pair is centered over the 170-wide children block.
	wantPos(t, res, "a", 55, 0)
	wantPos(t, res, "b", 115, 0)
	if pc := partnerConn(t, res, "p1"); pc.Midpoint != (Point{X: 85, Y: 0}) {
		t.Errorf("p1 midpoint = %+v, want (85, 0)", pc.Midpoint)
	}
}
