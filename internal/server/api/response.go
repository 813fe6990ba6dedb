package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ndenisov/imgvault/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFromError maps the service-layer sentinels onto HTTP status codes.
// Anything unrecognised is a 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrInvalidReference):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUploadFailed),
		errors.Is(err, common.ErrDeleteFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondServiceError translates err into a response. The client only ever
// sees the sentinel text; wrapped detail stays in the server log.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	respondJSON(w, status, errorResponse{Error: msg})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
