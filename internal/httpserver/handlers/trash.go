package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/store"
)

// ListTrash returns every trashed record, expired or not. Expiry only
// takes effect when a sweep runs.
func ListTrash(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Records.Trash())
	}
}

// RestoreBookmark moves a trashed record back into the live list at its
// recency-ordered position.
func RestoreBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rec, err := d.Records.Restore(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// EraseBookmark removes a trashed record for good.
func EraseBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !d.Records.PermanentlyErase(id) {
			writeError(w, http.StatusNotFound, "trashed record not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type purgeResponse struct {
	Purged int `json:"purged"`
}

// PurgeTrash erases every trashed record whose retention window has
// elapsed, same sweep the collector runs on its ticker.
func PurgeTrash(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := d.Records.PurgeExpired()
		if n > 0 {
			d.Logger.Info("manual trash purge", logger.Int("purged", n))
		}
		writeJSON(w, http.StatusOK, purgeResponse{Purged: n})
	}
}
