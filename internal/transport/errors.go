package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	var bindErr *BindError
	switch {
	case errors.As(err, &bindErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, model.ErrAttemptNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrUnknownToken):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrActionNotAllowed), errors.Is(err, model.ErrWrongNetwork),
		errors.Is(err, model.ErrSignerMismatch):
		return http.StatusConflict
	case errors.Is(err, model.ErrNoSigner):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	resp := errorResponse{Error: err.Error()}

	var bindErr *BindError
	if errors.As(err, &bindErr) {
		resp.Field = bindErr.Field
	}
	if code == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		resp.Error = http.StatusText(code)
	}
	h.writeJSON(w, code, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Debug("response not written", zap.Error(err))
	}
}
