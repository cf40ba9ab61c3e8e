package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/stash/internal/folders"
	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
)

type foldersResponse struct {
	Folders []string          `json:"folders"`
	Custom  []string          `json:"custom"`
	Icons   map[string]string `json:"icons"`
}

// ListFolders returns the assignable folder names (presets, custom
// folders and any stray tags still carried by records) plus the custom
// subset and its icons.
func ListFolders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, foldersResponse{
			Folders: d.Folders.ListFolders(),
			Custom:  d.Folders.CustomFolders(),
			Icons:   d.Folders.Icons(),
		})
	}
}

type createFolderRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func CreateFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createFolderRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := d.Folders.CreateFolder(req.Name, req.Icon); err != nil {
			writeError(w, folderErrStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, createFolderRequest{Name: req.Name, Icon: req.Icon})
	}
}

type renameFolderRequest struct {
	Name string `json:"name"`
}

// RenameFolder renames a custom folder and rewrites the tag on every
// record filed under it.
func RenameFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		oldName := chi.URLParam(r, "name")
		var req renameFolderRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := d.Folders.RenameFolder(oldName, req.Name); err != nil {
			writeError(w, folderErrStatus(err), err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteFolder removes a custom folder; records filed under it drop back
// to uncategorized rather than being deleted.
func DeleteFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if err := d.Folders.DeleteFolder(name); err != nil {
			writeError(w, folderErrStatus(err), err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func folderErrStatus(err error) int {
	switch {
	case errors.Is(err, folders.ErrFolderNotFound):
		return http.StatusNotFound
	case errors.Is(err, folders.ErrFolderExists):
		return http.StatusConflict
	case errors.Is(err, folders.ErrPresetFolder):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}
