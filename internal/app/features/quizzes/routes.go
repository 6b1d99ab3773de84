// internal/app/features/quizzes/routes.go
package quizzes

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter that serves the quiz admin endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)       // mounted under /quizzes
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	r.Post("/{id}/rename", h.HandleRename)
	r.Post("/{id}/words", h.HandleImportWords)
	r.Post("/{id}/image", h.HandleAttachImage)
	return r
}
