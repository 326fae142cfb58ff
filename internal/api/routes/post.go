package routes

import (
	"github.com/go-chi/chi/v5"

	postHandlers "Aurora/internal/api/handlers/post"
	"Aurora/internal/core/storage"
)

// PostRoutes mounts the post CRUD endpoints.
func PostRoutes(repo storage.Repository) chi.Router {
	h := postHandlers.NewHandler(repo)

	r := chi.NewRouter()
	r.Get("/list", h.HandleList)
	r.Get("/get", h.HandleGet)
	r.Post("/create", h.HandleCreate)
	r.Put("/update", h.HandleUpdate)
	r.Delete("/delete", h.HandleDelete)

	return r
}
