// internal/app/features/posts/routes.go
package posts

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter that serves the post endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList) // mounted under /posts
	r.Post("/", h.HandleCreate)
	r.Get("/wotd/today", h.HandleWordOfDay)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	r.Post("/{id}/like", h.HandleLike)
	r.Post("/{id}/image", h.HandleAttachImage)
	return r
}
