package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	kerrors "github.com/kindredlab/kindred/pkg/errors"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError maps a structured error to its HTTP status and JSON body.
// Errors without a code are treated as internal.
func writeError(w http.ResponseWriter, err error) {
	code := kerrors.GetCode(err)
	if code == "" {
		code = kerrors.ErrCodeInternal
	}
	writeJSON(w, httpStatus(code), errorResponse{
		Error: errorBody{
			Code:    string(code),
			Message: kerrors.UserMessage(err),
		},
	})
}

func httpStatus(code kerrors.Code) int {
	switch code {
	case kerrors.ErrCodeNotFound, kerrors.ErrCodeTreeNotFound, kerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case kerrors.ErrCodeInternal:
		return http.StatusInternalServerError
	case kerrors.ErrCodeInvalidGraph, kerrors.ErrCodeDuplicateID, kerrors.ErrCodeEmptyPartnership,
		kerrors.ErrCodeDanglingReference, kerrors.ErrCodeCircularReference, kerrors.ErrCodeUnsupported:
		// The request was well-formed but the graph itself is defective.
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// decodeJSON reads a size-capped JSON body into v, rejecting unknown
// fields so typos in payloads fail loudly.
func decodeJSON(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "malformed request body")
	}
	return nil
}

// artifactContentType returns the Content-Type for a rendered format.
func artifactContentType(format string) string {
	switch format {
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "pdf":
		return "application/pdf"
	case "json":
		return "application/json"
	case "dot":
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

// writeArtifact sends one rendered artifact with its format's content type.
func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", artifactContentType(format))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
