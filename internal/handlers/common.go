package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/clanwars/cwl-stats/internal/logic"
	"github.com/clanwars/cwl-stats/internal/worker"
)

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	depth := h.pool.QueueDepth()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ready":      true,
		"queueDepth": depth,
	})
}

// decodeBody reads a size-limited JSON body into dst and validates it
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if err := h.validator.Struct(dst); err != nil {
		return fmt.Errorf("validate body: %w", err)
	}
	return nil
}

// serviceError maps engine and pool errors to HTTP statuses
func (h *Handler) serviceError(w http.ResponseWriter, err error, msg string, keysAndValues ...interface{}) {
	switch {
	case errors.Is(err, logic.ErrInvalidInput):
		h.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, worker.ErrPoolSaturated), errors.Is(err, worker.ErrPoolStopped):
		h.logger.Warnw(msg, append(keysAndValues, "error", err)...)
		h.errorResponse(w, http.StatusServiceUnavailable, "Analysis capacity exhausted, retry shortly")
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warnw(msg, append(keysAndValues, "error", err)...)
		h.errorResponse(w, http.StatusGatewayTimeout, "Analysis timed out")
	default:
		h.logger.Errorw(msg, append(keysAndValues, "error", err)...)
		h.errorResponse(w, http.StatusInternalServerError, msg)
	}
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
