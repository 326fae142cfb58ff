// Package post provides the dev backend's HTTP handlers for post CRUD.
// Response shapes mirror the production deployment the client was written
// against: the list arrives wrapped under "value", and single records use
// the _id/_ts field names, so the client's normalizer sees realistic input.
package post

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"Aurora/internal/api/handlers"
	"Aurora/internal/core/storage"
)

// Handler handles post CRUD requests against a storage repository.
type Handler struct {
	repo storage.Repository
}

// NewHandler creates a post handler.
func NewHandler(repo storage.Repository) *Handler {
	return &Handler{repo: repo}
}

type writeBody struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// HandleList handles GET requests for the full post list.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("[DEVSERVER] list failed", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "failed to list posts")
		return
	}

	items := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		items = append(items, map[string]any{
			"id":        rec.ID,
			"title":     rec.Title,
			"content":   rec.Content,
			"imageUrl":  rec.ImageURL,
			"createdAt": rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	handlers.WriteJSON(w, map[string]any{"value": items})
}

// HandleGet handles GET requests for a single post by the id query parameter.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "id is required")
		return
	}

	rec, err := h.repo.Get(r.Context(), id)
	if errors.Is(err, storage.ErrRecordNotFound) {
		handlers.WriteError(w, http.StatusNotFound, "NotFound", "post not found: "+id)
		return
	}
	if err != nil {
		slog.Error("[DEVSERVER] get failed", "id", id, "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "failed to get post")
		return
	}

	handlers.WriteJSON(w, map[string]any{
		"_id":      rec.ID,
		"title":    rec.Title,
		"content":  rec.Content,
		"imageUrl": rec.ImageURL,
		"_ts":      rec.CreatedAt.Unix(),
	})
}

// HandleCreate handles POST requests creating a post. The created record
// is echoed back as JSON.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var body writeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "malformed JSON body")
		return
	}
	if body.Title == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "title is required")
		return
	}

	rec := storage.Record{
		ID:        uuid.NewString(),
		Title:     body.Title,
		Content:   body.Content,
		ImageURL:  body.ImageURL,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.repo.Create(r.Context(), rec); err != nil {
		slog.Error("[DEVSERVER] create failed", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "failed to create post")
		return
	}

	handlers.WriteJSON(w, map[string]any{
		"id":        rec.ID,
		"title":     rec.Title,
		"content":   rec.Content,
		"imageUrl":  rec.ImageURL,
		"createdAt": rec.CreatedAt.Format(time.RFC3339),
	})
}

// HandleUpdate handles PUT requests rewriting a post. Success is the
// status alone; no response body.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var body writeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "malformed JSON body")
		return
	}
	if body.ID == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "id is required")
		return
	}

	err := h.repo.Update(r.Context(), storage.Record{
		ID:       body.ID,
		Title:    body.Title,
		Content:  body.Content,
		ImageURL: body.ImageURL,
	})
	if errors.Is(err, storage.ErrRecordNotFound) {
		handlers.WriteError(w, http.StatusNotFound, "NotFound", "post not found: "+body.ID)
		return
	}
	if err != nil {
		slog.Error("[DEVSERVER] update failed", "id", body.ID, "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "failed to update post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE requests by the id query parameter.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "id is required")
		return
	}

	err := h.repo.Delete(r.Context(), id)
	if errors.Is(err, storage.ErrRecordNotFound) {
		handlers.WriteError(w, http.StatusNotFound, "NotFound", "post not found: "+id)
		return
	}
	if err != nil {
		slog.Error("[DEVSERVER] delete failed", "id", id, "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "failed to delete post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
