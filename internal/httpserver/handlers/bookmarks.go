package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/store"
)

type addBookmarkRequest struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Tag         *string `json:"tag"`
}

type addBookmarkResponse struct {
	Status   store.AddStatus `json:"status"`
	Bookmark any             `json:"bookmark,omitempty"`
}

// ListBookmarks returns the live list in display order.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Records.List())
	}
}

// AddBookmark creates a record from a raw URL. A duplicate of a live
// record is not an error: the existing record comes back with
// status "duplicate".
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addBookmarkRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}

		res := d.Records.Add(req.URL, req.Title, req.Description, req.Tag)
		switch res.Status {
		case store.StatusAdded:
			writeJSON(w, http.StatusCreated, addBookmarkResponse{Status: res.Status, Bookmark: res.Record})
		case store.StatusDuplicate:
			writeJSON(w, http.StatusOK, addBookmarkResponse{Status: res.Status, Bookmark: res.Record})
		default:
			writeError(w, http.StatusBadRequest, "invalid url")
		}
	}
}

// GetBookmark returns a single live record by id.
func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rec := d.Records.Get(id)
		if rec == nil {
			writeError(w, http.StatusNotFound, "bookmark not found")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

type updateBookmarkRequest struct {
	URL         *string `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Tag         *string `json:"tag"`
	ClearTag    bool    `json:"clearTag"`
}

// UpdateBookmark applies a partial field update. Absent fields are left
// untouched.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req updateBookmarkRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		rec, err := d.Records.Update(id, store.RecordUpdate{
			URL:         req.URL,
			Title:       req.Title,
			Description: req.Description,
			Tag:         req.Tag,
			ClearTag:    req.ClearTag,
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// DeleteBookmark soft-deletes a record into the trash.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		trashed := d.Records.Remove(id)
		if trashed == nil {
			writeError(w, http.StatusNotFound, "bookmark not found")
			return
		}
		d.Logger.Info("bookmark trashed",
			logger.String("id", id),
			logger.Int("retention_days", trashed.RetentionDays))
		writeJSON(w, http.StatusOK, trashed)
	}
}

// ToggleShortlist flips a record's shortlist flag.
func ToggleShortlist(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Records.ToggleShortlist(id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, d.Records.Get(id))
	}
}

// ClearShortlist unmarks every shortlisted record.
func ClearShortlist(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Records.ClearAllShortlist(); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

// ReorderBookmarks rewrites the display order from an explicit id list.
// Records missing from the list keep their relative order at the end.
func ReorderBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := d.Records.Reorder(req.IDs); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, d.Records.List())
	}
}
