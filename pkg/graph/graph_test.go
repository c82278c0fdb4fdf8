package graph

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kindredlab/kindred/pkg/kin"
)

func sampleKinGraph() *kin.Graph {
	return &kin.Graph{
		People: []kin.Person{
			{ID: "alice", Payload: map[string]any{"name": "Alice"}},
			{ID: "bob"},
			{ID: "carol"},
		},
		Partnerships: []kin.Partnership{
			{ID: "p1", Parent1: "alice", Parent2: "bob", Children: []string{"carol"}},
		},
		RootPersonID: "alice",
	}
}

func TestFromKin(t *testing.T) {
	g := FromKin(sampleKinGraph())

	if len(g.People) != 3 || g.People[0].ID != "alice" {
		t.Errorf("people = %+v", g.People)
	}
	if g.RootPersonID != "alice" {
		t.Errorf("root = %q, want alice", g.RootPersonID)
	}
	if !reflect.DeepEqual(g.Partnerships[0].Parents, []string{"alice", "bob"}) {
		t.Errorf("parents = %v, want [alice bob]", g.Partnerships[0].Parents)
	}

	// Single parent collapses to a one-element Parents slice.
	single := FromKin(&kin.Graph{
		People:       []kin.Person{{ID: "a"}, {ID: "b"}},
		Partnerships: []kin.Partnership{{ID: "p", Parent1: "a", Children: []string{"b"}}},
	})
	if !reflect.DeepEqual(single.Partnerships[0].Parents, []string{"a"}) {
		t.Errorf("single parents = %v, want [a]", single.Partnerships[0].Parents)
	}
}

func TestToKinRoundTrip(t *testing.T) {
	orig := sampleKinGraph()
	back, err := ToKin(FromKin(orig))
	if err != nil {
		t.Fatalf("ToKin: %v", err)
	}
	if !reflect.DeepEqual(back, orig) {
		t.Errorf("round trip changed graph:\ngot  %+v\nwant %+v", back, orig)
	}
}

func TestToKinRejectsTooManyParents(t *testing.T) {
	_, err := ToKin(Graph{
		People: []Person{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Partnerships: []Partnership{
			{ID: "p", Parents: []string{"a", "b", "c"}},
		},
	})
	if err == nil {
		t.Fatal("three parents should be rejected")
	}
	if !strings.Contains(err.Error(), "p") {
		t.Errorf("error should name the partnership: %v", err)
	}
}

func TestToKinLeavesDefectsForValidate(t *testing.T) {
	// Structural defects pass through conversion and surface from
	// kin.Validate with the usual sentinel.
	g, err := ToKin(Graph{
		People: []Person{{ID: "a"}},
		Partnerships: []Partnership{
			{ID: "p", Parents: []string{"a"}, Children: []string{"ghost"}},
		},
	})
	if err != nil {
		t.Fatalf("ToKin: %v", err)
	}
	if err := kin.Validate(g); !errors.Is(err, kin.ErrDanglingReference) {
		t.Errorf("Validate = %v, want ErrDanglingReference", err)
	}
}

func TestGraphJSONRoundTrip(t *testing.T) {
	orig := sampleKinGraph()
	data, err := MarshalGraph(orig)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}

	back, err := ReadGraph(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	// Payload becomes generic JSON types but ids and structure survive.
	if back.PersonCount() != 3 || back.PartnershipCount() != 1 {
		t.Errorf("round trip lost entries: %+v", back)
	}
	if back.RootPersonID != "alice" {
		t.Errorf("root = %q, want alice", back.RootPersonID)
	}
	if back.Partnerships[0].Parent1 != "alice" || back.Partnerships[0].Parent2 != "bob" {
		t.Errorf("parents = %+v", back.Partnerships[0])
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.json")
	orig := sampleKinGraph()

	if err := WriteGraphFile(orig, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	back, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if back.PersonCount() != orig.PersonCount() {
		t.Errorf("person count = %d, want %d", back.PersonCount(), orig.PersonCount())
	}
}

func TestReadGraphFileMissing(t *testing.T) {
	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("missing file should be an error")
	}
}

func TestReadGraphMalformedJSON(t *testing.T) {
	if _, err := ReadGraph(strings.NewReader("{not json")); err == nil {
		t.Error("malformed JSON should be an error")
	}
}

func TestReadGraphDoesNotValidate(t *testing.T) {
	// Decoding is separate from validation: a dangling reference decodes
	// fine and only fails under kin.Validate.
	data := []byte(`{"people":[{"id":"a"}],"partnerships":[{"id":"p","parents":["ghost"],"children":["a"]}]}`)
	g, err := ReadGraph(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if err := kin.Validate(g); !errors.Is(err, kin.ErrDanglingReference) {
		t.Errorf("Validate = %v, want ErrDanglingReference", err)
	}
}
