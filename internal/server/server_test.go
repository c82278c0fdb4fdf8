package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kindredlab/kindred/pkg/graph"
	"github.com/kindredlab/kindred/pkg/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(Config{Store: store.NewMemoryStore()})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func familyGraphJSON() graph.Graph {
	return graph.Graph{
		People: []graph.Person{
			{ID: "alice"}, {ID: "bob"}, {ID: "carol"},
		},
		Partnerships: []graph.Partnership{
			{ID: "p1", Parents: []string{"alice", "bob"}, Children: []string{"carol"}},
		},
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, resp, &body)
	return body.Error.Code
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if id := resp.Header.Get("X-Request-Id"); id == "" {
		t.Error("missing X-Request-Id header")
	}
}

func TestValidateEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/validate", map[string]any{"graph": familyGraphJSON()})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Valid        bool `json:"valid"`
		People       int  `json:"people"`
		Partnerships int  `json:"partnerships"`
	}
	decodeBody(t, resp, &body)
	if !body.Valid || body.People != 3 || body.Partnerships != 1 {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestValidateEndpointRejectsCycle(t *testing.T) {
	ts := newTestServer(t)

	cyclic := graph.Graph{
		People: []graph.Person{{ID: "a"}, {ID: "b"}},
		Partnerships: []graph.Partnership{
			{ID: "p1", Parents: []string{"a"}, Children: []string{"b"}},
			{ID: "p2", Parents: []string{"b"}, Children: []string{"a"}},
		},
	}
	resp := postJSON(t, ts.URL+"/api/v1/validate", map[string]any{"graph": cyclic})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "CIRCULAR_REFERENCE" {
		t.Errorf("code = %q, want CIRCULAR_REFERENCE", code)
	}
}

func TestValidateEndpointRejectsMalformedBody(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/v1/validate", "application/json", strings.NewReader("{nope"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "INVALID_INPUT" {
		t.Errorf("code = %q, want INVALID_INPUT", code)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/layout", map[string]any{"graph": familyGraphJSON()})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var l graph.Layout
	decodeBody(t, resp, &l)
	if l.Orientation != "top-down" {
		t.Errorf("orientation = %q, want top-down", l.Orientation)
	}
	if len(l.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(l.Nodes))
	}
}

func TestLayoutEndpointRejectsBadOrientation(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/layout", map[string]any{
		"graph":   familyGraphJSON(),
		"options": map[string]any{"orientation": "sideways"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRenderEndpointSVG(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/render", map[string]any{
		"graph":   familyGraphJSON(),
		"options": map[string]any{"formats": []string{"svg"}},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q, want image/svg+xml", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("body does not look like SVG")
	}
}

func TestRenderEndpointRejectsMultipleFormats(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/render", map[string]any{
		"graph":   familyGraphJSON(),
		"options": map[string]any{"formats": []string{"svg", "json"}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "INVALID_FORMAT" {
		t.Errorf("code = %q, want INVALID_FORMAT", code)
	}
}

func TestTreeCRUD(t *testing.T) {
	ts := newTestServer(t)

	// Create
	resp := postJSON(t, ts.URL+"/api/v1/trees", map[string]any{
		"name":  "smith-family",
		"graph": familyGraphJSON(),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created store.Tree
	decodeBody(t, resp, &created)
	if created.ID == "" || created.Name != "smith-family" {
		t.Fatalf("unexpected tree: %+v", created)
	}

	// List
	resp, err := http.Get(ts.URL + "/api/v1/trees")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var trees []store.Tree
	decodeBody(t, resp, &trees)
	if len(trees) != 1 || trees[0].ID != created.ID {
		t.Errorf("list = %+v", trees)
	}

	// Get
	resp, err = http.Get(ts.URL + "/api/v1/trees/" + created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var fetched store.Tree
	decodeBody(t, resp, &fetched)
	if fetched.ID != created.ID || len(fetched.Graph.People) != 3 {
		t.Errorf("get = %+v", fetched)
	}

	// Update
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/v1/trees/"+created.ID, bytes.NewReader(mustJSON(t, map[string]any{
		"name":  "jones-family",
		"graph": familyGraphJSON(),
	})))
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	var updated store.Tree
	decodeBody(t, resp, &updated)
	if updated.Name != "jones-family" {
		t.Errorf("updated name = %q", updated.Name)
	}

	// Delete
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/trees/"+created.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}

	// Gone
	resp, err = http.Get(ts.URL + "/api/v1/trees/" + created.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "TREE_NOT_FOUND" {
		t.Errorf("code = %q, want TREE_NOT_FOUND", code)
	}
}

func TestTreeInvalidID(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/trees/not-a-uuid")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "INVALID_TREE_ID" {
		t.Errorf("code = %q, want INVALID_TREE_ID", code)
	}
}

func TestCreateTreeRejectsInvalidGraph(t *testing.T) {
	ts := newTestServer(t)

	bad := graph.Graph{
		People: []graph.Person{{ID: "a"}},
		Partnerships: []graph.Partnership{
			{ID: "p", Parents: []string{"a"}, Children: []string{"ghost"}},
		},
	}
	resp := postJSON(t, ts.URL+"/api/v1/trees", map[string]any{"name": "bad", "graph": bad})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "DANGLING_REFERENCE" {
		t.Errorf("code = %q, want DANGLING_REFERENCE", code)
	}
}

func TestTreeLayoutAndRender(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/trees", map[string]any{
		"name":  "smith-family",
		"graph": familyGraphJSON(),
	})
	var created store.Tree
	decodeBody(t, resp, &created)

	// Layout with a custom orientation
	resp, err := http.Get(fmt.Sprintf("%s/api/v1/trees/%s/layout?orientation=left-right", ts.URL, created.ID))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("layout status = %d, want 200", resp.StatusCode)
	}
	var l graph.Layout
	decodeBody(t, resp, &l)
	if l.Orientation != "left-right" {
		t.Errorf("orientation = %q, want left-right", l.Orientation)
	}

	// Render as SVG
	resp, err = http.Get(fmt.Sprintf("%s/api/v1/trees/%s/render?format=svg", ts.URL, created.ID))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("render status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}

	// Bad gap parameter
	resp, err = http.Get(fmt.Sprintf("%s/api/v1/trees/%s/layout?sibling_gap=wide", ts.URL, created.ID))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "INVALID_INPUT" {
		t.Errorf("code = %q, want INVALID_INPUT", code)
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}
