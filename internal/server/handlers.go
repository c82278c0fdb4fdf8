package server

import (
	"errors"
	"net/http"

	kerrors "github.com/kindredlab/kindred/pkg/errors"
	"github.com/kindredlab/kindred/pkg/graph"
	"github.com/kindredlab/kindred/pkg/kin"
	"github.com/kindredlab/kindred/pkg/pipeline"
)

// pipelineRequest is the body for the stateless pipeline endpoints.
type pipelineRequest struct {
	Graph   graph.Graph      `json:"graph"`
	Options pipeline.Options `json:"options"`
}

// validateResponse reports the outcome of a successful validation.
type validateResponse struct {
	Valid        bool `json:"valid"`
	People       int  `json:"people"`
	Partnerships int  `json:"partnerships"`
}

func (s *Server) decodeGraph(r *http.Request) (*kin.Graph, pipeline.Options, error) {
	var req pipelineRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, pipeline.Options{}, err
	}
	g, err := graph.ToKin(req.Graph)
	if err != nil {
		return nil, pipeline.Options{}, kerrors.Wrap(kerrors.ErrCodeInvalidGraph, err, "unsupported graph structure")
	}
	return g, req.Options, nil
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	g, opts, err := s.decodeGraph(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if _, _, err := s.runner.ValidateWithCacheInfo(r.Context(), g, opts); err != nil {
		writeError(w, kerrors.FromGraphError(err))
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{
		Valid:        true,
		People:       g.PersonCount(),
		Partnerships: g.PartnershipCount(),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	g, opts, err := s.decodeGraph(r)
	if err != nil {
		writeError(w, err)
		return
	}

	l, err := s.runner.GenerateLayout(r.Context(), g, opts)
	if err != nil {
		writeError(w, layoutError(err))
		return
	}

	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	g, opts, err := s.decodeGraph(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatSVG}
	}
	if len(opts.Formats) != 1 {
		writeError(w, kerrors.New(kerrors.ErrCodeInvalidFormat, "render accepts exactly one format per request"))
		return
	}
	format := opts.Formats[0]
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "unsupported format"))
		return
	}

	result, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		writeError(w, layoutError(err))
		return
	}

	writeArtifact(w, format, result.Artifacts[format])
}

// layoutError classifies a pipeline failure: graph defects keep their
// validation code, option mistakes become INVALID_INPUT.
func layoutError(err error) error {
	if code := kerrors.GetCode(err); code != "" {
		return err
	}
	structured := kerrors.FromGraphError(err)
	if structured.Code != kerrors.ErrCodeInvalidGraph || errors.Is(err, kin.ErrMalformedData) {
		return structured
	}
	return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "invalid layout options")
}
