package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/stash/internal/cloudsync"
	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/syncguard"
)

type syncResponse struct {
	Outcome    syncguard.Outcome       `json:"outcome"`
	Reason     syncguard.RefusalReason `json:"reason,omitempty"`
	Uploaded   int                     `json:"uploaded"`
	Downloaded int                     `json:"downloaded"`
	Error      string                  `json:"error,omitempty"`
}

// TriggerSync runs an explicit sync through the guard. A concurrent sync
// comes back as 409 with outcome "blocked", not as a failure.
func TriggerSync(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := d.Guard.Run(r.Context(), syncguard.TriggerExplicit, d.Engine)

		resp := syncResponse{
			Outcome:    res.Outcome,
			Reason:     res.Reason,
			Uploaded:   res.Result.Uploaded,
			Downloaded: res.Result.Downloaded,
		}
		if res.Result.Err != nil {
			resp.Error = res.Result.Err.Error()
		}

		switch res.Outcome {
		case syncguard.OutcomeSynced:
			writeJSON(w, http.StatusOK, resp)
		case syncguard.OutcomeBlocked:
			writeJSON(w, http.StatusConflict, resp)
		default:
			if errors.Is(res.Result.Err, cloudsync.ErrNotAuthenticated) {
				writeJSON(w, http.StatusUnauthorized, resp)
				return
			}
			d.Logger.Warn("explicit sync failed", logger.Error(res.Result.Err))
			writeJSON(w, http.StatusBadGateway, resp)
		}
	}
}

type syncStatusResponse struct {
	State  string             `json:"state"`
	Status *domain.SyncStatus `json:"status"`
}

// SyncStatus reports the guard state and the last successful sync.
func SyncStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, syncStatusResponse{
			State:  d.Guard.State().String(),
			Status: d.Guard.Status(),
		})
	}
}
