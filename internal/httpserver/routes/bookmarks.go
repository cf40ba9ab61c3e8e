package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", handlers.ListBookmarks(d))
		r.Post("/", handlers.AddBookmark(d))
		r.Post("/reorder", handlers.ReorderBookmarks(d))
		r.Post("/shortlist/clear", handlers.ClearShortlist(d))
		r.Get("/{id}", handlers.GetBookmark(d))
		r.Patch("/{id}", handlers.UpdateBookmark(d))
		r.Delete("/{id}", handlers.DeleteBookmark(d))
		r.Post("/{id}/shortlist", handlers.ToggleShortlist(d))
	})
}
