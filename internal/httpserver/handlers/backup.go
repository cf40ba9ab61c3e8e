package handlers

import (
	"io"
	"net/http"

	"github.com/MrSnakeDoc/stash/internal/backup"
	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/logger"
)

// 16 MiB cap on uploaded backup documents.
const maxBackupBytes = 16 << 20

// ExportBackup streams the full local state as a versioned JSON document.
func ExportBackup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := d.Backup.ExportJSON()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="stash-backup.json"`)
		_, _ = w.Write(payload)
	}
}

// ValidateBackup inspects an uploaded document without mutating anything,
// so a client can show counts before committing to an import.
func ValidateBackup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxBackupBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read body")
			return
		}
		writeJSON(w, http.StatusOK, d.Backup.Validate(raw))
	}
}

// ImportBackup loads an uploaded document. Mode comes from the query
// string: ?mode=replace overwrites local state wholesale, ?mode=merge
// (the default) adds only what is missing.
func ImportBackup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode := backup.ModeMerge
		switch r.URL.Query().Get("mode") {
		case "", string(backup.ModeMerge):
		case string(backup.ModeReplace):
			mode = backup.ModeReplace
		default:
			writeError(w, http.StatusBadRequest, "mode must be merge or replace")
			return
		}

		raw, err := io.ReadAll(io.LimitReader(r.Body, maxBackupBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read body")
			return
		}

		res := d.Backup.Import(raw, mode)
		if !res.Success {
			writeJSON(w, http.StatusUnprocessableEntity, res)
			return
		}
		d.Logger.Info("backup imported",
			logger.String("mode", string(mode)),
			logger.Int("imported", res.Imported),
			logger.Int("skipped", res.Skipped))
		writeJSON(w, http.StatusOK, res)
	}
}
