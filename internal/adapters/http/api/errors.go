package api

import (
	"errors"
	"net/http"

	"github.com/pja-project/mlapi/internal/adapters/llm"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// writeGenerationError maps generation failures to HTTP statuses. Upstream
// and model-output failures surface as 502 so clients can tell them from
// our own defects.
func writeGenerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, llm.ErrBadModelOutput):
		writeError(w, http.StatusBadGateway, "bad_model_output", errors.New("model returned unparseable output"))
	case errors.Is(err, llm.ErrEmptyCompletion), errors.Is(err, llm.ErrUpstream):
		writeError(w, http.StatusBadGateway, "upstream_error", errors.New("completion backend failed"))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
