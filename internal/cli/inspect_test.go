package cli

import (
	"testing"

	"github.com/kindredlab/kindred/pkg/graph"
)

func TestPlacedRowsTopDown(t *testing.T) {
	l := graph.Layout{
		Orientation: "top-down",
		Nodes: []graph.LayoutNode{
			{ID: "carol", X: 30, Y: 100},
			{ID: "bob", X: 60, Y: 0},
			{ID: "alice", X: 0, Y: 0},
		},
	}

	rows := placedRows(l)
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	want := []string{"alice", "bob", "carol"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("rows = %v, want %v", ids, want)
		}
	}

	if rows[0].Generation != 0 || rows[2].Generation != 1 {
		t.Errorf("generations = %d/%d, want 0/1", rows[0].Generation, rows[2].Generation)
	}
}

func TestPlacedRowsLeftRight(t *testing.T) {
	// In left-right layouts generations advance along x.
	l := graph.Layout{
		Orientation: "left-right",
		Nodes: []graph.LayoutNode{
			{ID: "child", X: 100, Y: 30},
			{ID: "parent", X: 0, Y: 0},
		},
	}

	rows := placedRows(l)
	if rows[0].ID != "parent" || rows[0].Generation != 0 {
		t.Errorf("first row = %+v, want parent at generation 0", rows[0])
	}
	if rows[1].ID != "child" || rows[1].Generation != 1 {
		t.Errorf("second row = %+v, want child at generation 1", rows[1])
	}
}
