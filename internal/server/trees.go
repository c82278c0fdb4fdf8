package server

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kindredlab/kindred/pkg/cache"
	kerrors "github.com/kindredlab/kindred/pkg/errors"
	"github.com/kindredlab/kindred/pkg/graph"
	"github.com/kindredlab/kindred/pkg/kin"
	"github.com/kindredlab/kindred/pkg/pipeline"
	"github.com/kindredlab/kindred/pkg/store"
)

// treeRequest is the body for creating or replacing a tree.
type treeRequest struct {
	Name  string      `json:"name"`
	Graph graph.Graph `json:"graph"`
}

func (s *Server) handleCreateTree(w http.ResponseWriter, r *http.Request) {
	var req treeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, kerrors.New(kerrors.ErrCodeInvalidInput, "tree name cannot be empty"))
		return
	}
	if err := s.checkGraph(req.Graph); err != nil {
		writeError(w, err)
		return
	}

	tree := store.NewTree(req.Name, req.Graph)
	if err := s.store.Put(r.Context(), tree); err != nil {
		writeError(w, kerrors.Wrap(kerrors.ErrCodeInternal, err, "store tree"))
		return
	}

	s.logger.Info("tree created", "id", tree.ID, "name", tree.Name)
	writeJSON(w, http.StatusCreated, tree)
}

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	trees, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, kerrors.Wrap(kerrors.ErrCodeInternal, err, "list trees"))
		return
	}
	if trees == nil {
		trees = []*store.Tree{}
	}
	writeJSON(w, http.StatusOK, trees)
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.lookupTree(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleUpdateTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.lookupTree(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req treeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.checkGraph(req.Graph); err != nil {
		writeError(w, err)
		return
	}

	if req.Name != "" {
		tree.Name = req.Name
	}
	tree.Graph = req.Graph
	tree.UpdatedAt = time.Now().UTC()

	if err := s.store.Put(r.Context(), tree); err != nil {
		writeError(w, kerrors.Wrap(kerrors.ErrCodeInternal, err, "store tree"))
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := kerrors.ValidateTreeID(id); err != nil {
		writeError(w, err)
		return
	}

	switch err := s.store.Delete(r.Context(), id); err {
	case nil:
		w.WriteHeader(http.StatusNoContent)
	case store.ErrNotFound:
		writeError(w, kerrors.New(kerrors.ErrCodeTreeNotFound, "no tree with id %s", id))
	default:
		writeError(w, kerrors.Wrap(kerrors.ErrCodeInternal, err, "delete tree"))
	}
}

func (s *Server) handleTreeLayout(w http.ResponseWriter, r *http.Request) {
	tree, err := s.lookupTree(r)
	if err != nil {
		writeError(w, err)
		return
	}
	g, opts, err := treePipelineInput(tree, r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	l, err := s.treeRunner(tree.ID).GenerateLayout(r.Context(), g, opts)
	if err != nil {
		writeError(w, layoutError(err))
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleTreeRender(w http.ResponseWriter, r *http.Request) {
	tree, err := s.lookupTree(r)
	if err != nil {
		writeError(w, err)
		return
	}
	g, opts, err := treePipelineInput(tree, r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "unsupported format"))
		return
	}
	opts.Formats = []string{format}

	result, err := s.treeRunner(tree.ID).Execute(r.Context(), g, opts)
	if err != nil {
		writeError(w, layoutError(err))
		return
	}
	writeArtifact(w, format, result.Artifacts[format])
}

// lookupTree validates the id parameter and loads the tree, translating
// absence into TREE_NOT_FOUND.
func (s *Server) lookupTree(r *http.Request) (*store.Tree, error) {
	id := chi.URLParam(r, "id")
	if err := kerrors.ValidateTreeID(id); err != nil {
		return nil, err
	}
	tree, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeInternal, err, "load tree")
	}
	if tree == nil {
		return nil, kerrors.New(kerrors.ErrCodeTreeNotFound, "no tree with id %s", id)
	}
	return tree, nil
}

// checkGraph converts and validates an incoming tree graph so defective
// trees never reach storage.
func (s *Server) checkGraph(g graph.Graph) error {
	model, err := graph.ToKin(g)
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidGraph, err, "unsupported graph structure")
	}
	if err := kin.Validate(model); err != nil {
		return kerrors.FromGraphError(err)
	}
	return nil
}

// treeRunner namespaces cache keys per tree so deleting or replacing one
// tree's entries never evicts another's.
func (s *Server) treeRunner(treeID string) *pipeline.Runner {
	return pipeline.NewRunner(
		s.runner.Cache,
		cache.NewScopedKeyer(s.runner.Keyer, "tree:"+treeID+":"),
		s.logger,
	)
}

// treePipelineInput converts a stored tree plus query parameters into
// pipeline input. Recognized parameters: orientation, generation_gap,
// sibling_gap, partner_gap, node_radius, hide_labels, refresh.
func treePipelineInput(tree *store.Tree, q url.Values) (*kin.Graph, pipeline.Options, error) {
	g, err := graph.ToKin(tree.Graph)
	if err != nil {
		return nil, pipeline.Options{}, kerrors.Wrap(kerrors.ErrCodeInvalidGraph, err, "stored graph is unsupported")
	}

	opts := pipeline.Options{Orientation: q.Get("orientation")}
	if err := queryFloat(q, "generation_gap", &opts.GenerationGap); err != nil {
		return nil, pipeline.Options{}, err
	}
	if err := queryFloat(q, "sibling_gap", &opts.SiblingGap); err != nil {
		return nil, pipeline.Options{}, err
	}
	if err := queryFloat(q, "partner_gap", &opts.PartnerGap); err != nil {
		return nil, pipeline.Options{}, err
	}
	if err := queryFloat(q, "node_radius", &opts.NodeRadius); err != nil {
		return nil, pipeline.Options{}, err
	}
	opts.HideLabels = q.Get("hide_labels") == "true"
	opts.Refresh = q.Get("refresh") == "true"
	return g, opts, nil
}

func queryFloat(q url.Values, name string, dst *float64) error {
	raw := q.Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "%s must be a number, got %q", name, raw)
	}
	*dst = v
	return nil
}
