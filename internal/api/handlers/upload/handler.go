// Package upload provides the dev backend's media upload handler: base64
// payloads are decoded to disk and served back under the media prefix, the
// local stand-in for the production blob store.
package upload

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"Aurora/internal/api/handlers"
)

// MaxUploadBytes caps the decoded payload; base64 inflates the wire size
// by a third on top of this.
const MaxUploadBytes = 50 * 1024 * 1024

// Handler stores uploaded media on disk.
type Handler struct {
	dir     string // filesystem directory for stored blobs
	baseURL string // absolute URL prefix the stored blob is served under
}

// NewHandler creates an upload handler storing into dir and returning
// URLs rooted at baseURL (e.g. "http://localhost:8080/media").
func NewHandler(dir, baseURL string) *Handler {
	return &Handler{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

type uploadBody struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Base64      string `json:"base64"`
}

// HandleUpload handles POST {fileName, contentType, base64} and answers
// {"blobUrl": "..."} once the payload is stored.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	var body uploadBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "malformed JSON body")
		return
	}
	if body.FileName == "" || body.Base64 == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "fileName and base64 are required")
		return
	}

	data, err := base64.StdEncoding.DecodeString(body.Base64)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "payload is not valid base64")
		return
	}
	if len(data) > MaxUploadBytes {
		handlers.WriteError(w, http.StatusRequestEntityTooLarge, "PayloadTooLarge", "decoded payload exceeds the upload limit")
		return
	}

	// The stored name is client-chosen; keep only its base so the blob
	// cannot escape the media directory.
	name := filepath.Base(body.FileName)
	if name == "." || name == string(filepath.Separator) {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "invalid file name")
		return
	}

	if err := os.WriteFile(filepath.Join(h.dir, name), data, 0o644); err != nil {
		slog.Error("[DEVSERVER] failed to store blob", "file", name, "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "failed to store media")
		return
	}

	slog.Info("[DEVSERVER] media stored",
		"file", name,
		"content_type", body.ContentType,
		"size_bytes", len(data),
	)

	handlers.WriteJSON(w, map[string]string{
		"blobUrl": h.baseURL + "/" + name,
	})
}
