package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/httpserver/handlers"
)

func init() { Register(registerSync) }

func registerSync(r chi.Router, d deps.Deps) {
	r.Route("/api/sync", func(r chi.Router) {
		r.Post("/", handlers.TriggerSync(d))
		r.Get("/", handlers.SyncStatus(d))
	})
}
