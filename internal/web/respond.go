package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arwisata/oratorio/internal/domain"
)

// writeJSON writes v as a raw JSON body, no envelope. Collection and detail
// GETs use this.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeOK writes the success envelope for mutating endpoints, merging any
// extra fields next to status and message.
func (s *Server) writeOK(w http.ResponseWriter, status int, message string, extra map[string]any) {
	body := map[string]any{"status": "ok", "message": message}
	for k, v := range extra {
		body[k] = v
	}
	s.writeJSON(w, status, body)
}

// writeError maps err onto the error envelope. The underlying message is
// exposed to the caller as-is, including for infrastructure failures.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusFor(err), map[string]any{
		"status":  "error",
		"message": err.Error(),
	})
}

// statusFor maps the outcome taxonomy onto HTTP status codes. Duplicate keys
// answer 400, not 409.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
