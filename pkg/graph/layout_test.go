package graph

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kindredlab/kindred/pkg/layout"
)

func sampleResult() layout.Result {
	return layout.Result{
		Orientation: layout.TopDown,
		Nodes: []layout.Node{
			{ID: "alice", X: 0, Y: 0},
			{ID: "bob", X: 60, Y: 0},
			{ID: "carol", X: 30, Y: 100},
		},
		PartnershipConnections: []layout.PartnershipConnection{
			{PartnershipID: "p1", Partner1: "alice", Partner2: "bob", Midpoint: layout.Point{X: 30, Y: 0}},
		},
		ChildConnections: []layout.ChildConnection{
			{PartnershipID: "p1", ChildID: "carol", DropPoint: layout.Point{X: 30, Y: 50}, ChildPoint: layout.Point{X: 30, Y: 100}},
		},
	}
}

func TestLayoutResultRoundTrip(t *testing.T) {
	orig := sampleResult()
	back, err := FromResult(orig).ToResult()
	if err != nil {
		t.Fatalf("ToResult: %v", err)
	}
	if !reflect.DeepEqual(back, orig) {
		t.Errorf("round trip changed result:\ngot  %+v\nwant %+v", back, orig)
	}
}

func TestLayoutJSONRoundTrip(t *testing.T) {
	orig := FromResult(sampleResult())
	data, err := MarshalLayout(orig)
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	back, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if !reflect.DeepEqual(back, orig) {
		t.Errorf("round trip changed layout:\ngot  %+v\nwant %+v", back, orig)
	}
}

func TestUnmarshalLayoutOrientation(t *testing.T) {
	// Empty orientation defaults to top-down.
	l, err := UnmarshalLayout([]byte(`{"nodes":[]}`))
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if l.Orientation != "top-down" {
		t.Errorf("orientation = %q, want top-down", l.Orientation)
	}

	// Unknown orientations are rejected at decode time.
	if _, err := UnmarshalLayout([]byte(`{"orientation":"sideways","nodes":[]}`)); err == nil {
		t.Error("unknown orientation should be rejected")
	}
}

func TestToResultOrientation(t *testing.T) {
	l := Layout{Nodes: []LayoutNode{{ID: "a"}}}
	res, err := l.ToResult()
	if err != nil {
		t.Fatalf("ToResult: %v", err)
	}
	if res.Orientation != layout.TopDown {
		t.Errorf("orientation = %q, want top-down", res.Orientation)
	}

	l.Orientation = "diagonal"
	if _, err := l.ToResult(); err == nil {
		t.Error("unknown orientation should be rejected")
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	orig := FromResult(sampleResult())

	if err := WriteLayoutFile(orig, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	back, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if !reflect.DeepEqual(back, orig) {
		t.Error("file round trip changed layout")
	}
}

func TestReadLayoutFileMissing(t *testing.T) {
	if _, err := ReadLayoutFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("missing file should be an error")
	}
}
