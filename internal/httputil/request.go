package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// DecodeJSON decodes the request body into dst and validates it.
// On failure it writes a 400 response and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, validate *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WarnContext(r.Context(), "failed to decode request", "error", err)
		RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		logger.WarnContext(r.Context(), "validation failed", "error", err)
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Reason: "validation_error"})
		return false
	}
	return true
}

// Paging reads the skip and limit query parameters (defaults 0 and 100).
// On a malformed value it writes a 400 response and returns false.
func Paging(w http.ResponseWriter, r *http.Request) (skip, limit int, ok bool) {
	skip, err := QueryInt(r, "skip", 0)
	if err != nil || skip < 0 {
		RespondWithError(w, http.StatusBadRequest, "invalid skip")
		return 0, 0, false
	}
	limit, err = QueryInt(r, "limit", 100)
	if err != nil || limit < 0 {
		RespondWithError(w, http.StatusBadRequest, "invalid limit")
		return 0, 0, false
	}
	return skip, limit, true
}
