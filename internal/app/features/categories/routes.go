// internal/app/features/categories/routes.go
package categories

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter that serves the category admin endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList) // mounted under /categories
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	r.Post("/{id}/rename", h.HandleRename)
	r.Post("/{id}/image", h.HandleAttachImage)
	return r
}
