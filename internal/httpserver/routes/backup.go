package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/httpserver/handlers"
)

func init() { Register(registerBackup) }

func registerBackup(r chi.Router, d deps.Deps) {
	r.Route("/api/backup", func(r chi.Router) {
		r.Get("/export", handlers.ExportBackup(d))
		r.Post("/validate", handlers.ValidateBackup(d))
		r.Post("/import", handlers.ImportBackup(d))
	})
}
