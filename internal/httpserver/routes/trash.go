package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/httpserver/handlers"
)

func init() { Register(registerTrash) }

func registerTrash(r chi.Router, d deps.Deps) {
	r.Route("/api/trash", func(r chi.Router) {
		r.Get("/", handlers.ListTrash(d))
		r.Post("/purge", handlers.PurgeTrash(d))
		r.Post("/{id}/restore", handlers.RestoreBookmark(d))
		r.Delete("/{id}", handlers.EraseBookmark(d))
	})
}
