// Package handlers holds helpers shared by the dev backend's HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON writes v as a JSON response body.
func WriteJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("[DEVSERVER] failed to encode response", "error", err)
	}
}

// WriteError writes a JSON error envelope with the given status.
func WriteError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"error":   errorType,
		"message": message,
	}); err != nil {
		slog.Error("[DEVSERVER] failed to encode error response", "error", err)
	}
}
