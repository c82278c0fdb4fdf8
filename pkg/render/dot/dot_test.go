package dot

import (
	"strings"
	"testing"

	"github.com/kindredlab/kindred/pkg/kin"
)

func testGraph() *kin.Graph {
	return &kin.Graph{
		People: []kin.Person{{ID: "alice"}, {ID: "bob"}, {ID: "carol"}, {ID: "dana"}},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "alice", Parent2: "bob", Children: []string{"carol"}},
			{ID: "p2", Parent1: "dana", Children: []string{}},
		},
	}
}

func TestToDOT(t *testing.T) {
	out := ToDOT(testGraph(), Options{})

	if !strings.HasPrefix(out, "digraph family {") {
		t.Error("DOT output should open a digraph")
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Error("DOT output should close the digraph")
	}

	// Every person appears as a node
	for _, id := range []string{`"alice"`, `"bob"`, `"carol"`, `"dana"`} {
		if !strings.Contains(out, id) {
			t.Errorf("missing person node %s", id)
		}
	}

	// Partnership junctions
	if !strings.Contains(out, `"partnership-p1"`) {
		t.Error("missing junction node for p1")
	}
	if !strings.Contains(out, `"alice" -> "partnership-p1" [dir=none];`) {
		t.Error("missing partner edge for alice")
	}
	if !strings.Contains(out, `"bob" -> "partnership-p1" [dir=none];`) {
		t.Error("missing partner edge for bob")
	}
	if !strings.Contains(out, `"partnership-p1" -> "carol";`) {
		t.Error("missing child edge for carol")
	}

	// Single-parent partnership has exactly one partner edge
	if !strings.Contains(out, `"dana" -> "partnership-p2" [dir=none];`) {
		t.Error("missing partner edge for dana")
	}
	if got := strings.Count(out, `-> "partnership-p2"`); got != 1 {
		t.Errorf("p2 partner edges = %d, want 1", got)
	}
}

func TestToDOTDetailed(t *testing.T) {
	plain := ToDOT(testGraph(), Options{})
	detailed := ToDOT(testGraph(), Options{Detailed: true})

	if strings.Contains(plain, `xlabel="p1"`) {
		t.Error("plain output should not label junctions")
	}
	if !strings.Contains(detailed, `xlabel="p1"`) {
		t.Error("detailed output should label junctions with partnership ids")
	}
}

func TestToDOTDeterministic(t *testing.T) {
	a := ToDOT(testGraph(), Options{})
	b := ToDOT(testGraph(), Options{})
	if a != b {
		t.Error("ToDOT should be deterministic")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 80.00 60.00" foo="bar"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 80.00 60.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="80" height="60"`) {
		t.Errorf("dimensions not rewritten from viewBox: %s", out)
	}

	// SVG without a viewBox passes through untouched
	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("missing viewBox should leave the document unchanged")
	}
}
