package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	uploadHandlers "Aurora/internal/api/handlers/upload"
)

// UploadRoutes mounts the media upload endpoint and the file server that
// answers the blob URLs it hands out.
func UploadRoutes(mediaDir, mediaBaseURL string) (api chi.Router, files http.Handler) {
	h := uploadHandlers.NewHandler(mediaDir, mediaBaseURL)

	r := chi.NewRouter()
	r.Post("/", h.HandleUpload)

	return r, http.FileServer(http.Dir(mediaDir))
}
