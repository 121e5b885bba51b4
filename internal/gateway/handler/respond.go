package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"tota/internal/gateway/repository/document"
	"tota/internal/logging"
	"tota/internal/preview"
	"tota/internal/surface"
)

const maxBodyBytes = 2 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, preview.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, document.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, surface.ErrSuperseded):
		status = http.StatusConflict
	case errors.Is(err, preview.ErrNoGenerator):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context(), logger).Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errors.Join(preview.ErrInvalidRequest, err)
	}
	return nil
}
