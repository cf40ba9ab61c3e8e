package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/httpserver/handlers"
)

func init() { Register(registerFolders) }

func registerFolders(r chi.Router, d deps.Deps) {
	r.Route("/api/folders", func(r chi.Router) {
		r.Get("/", handlers.ListFolders(d))
		r.Post("/", handlers.CreateFolder(d))
		r.Put("/{name}", handlers.RenameFolder(d))
		r.Delete("/{name}", handlers.DeleteFolder(d))
	})
}
