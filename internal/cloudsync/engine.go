package cloudsync

import (
	"context"
	"errors"
	"time"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/remote"
	"github.com/MrSnakeDoc/stash/internal/store"
)

// ErrNotAuthenticated is returned when no user identity is configured.
// The engine never touches the network in that case.
var ErrNotAuthenticated = errors.New("not authenticated")

// Result is the outcome of a sync attempt. CompletedAt is the engine's
// completion time; the guard records it as LastSyncAt only on success.
type Result struct {
	Success     bool
	Uploaded    int
	Downloaded  int
	CompletedAt time.Time
	Err         error
}

// Engine performs the upload/download/merge exchange with the remote
// store. Local state is authoritative: uploads overwrite remote rows,
// downloads only append what the local store does not already have.
type Engine struct {
	records *store.RecordStore
	remote  remote.Store
	userID  string
	logger  logger.Logger
	now     func() time.Time
}

// NewEngine creates a sync engine for the given user identity. An empty
// userID means signed out; every call then short-circuits.
func NewEngine(records *store.RecordStore, rs remote.Store, userID string, log logger.Logger) *Engine {
	return &Engine{
		records: records,
		remote:  rs,
		userID:  userID,
		logger:  log,
		now:     time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Authenticated reports whether a user identity is configured.
func (e *Engine) Authenticated() bool {
	return e.userID != ""
}

// UploadAll upserts every live record to the remote store, keyed by
// (user, normalized URL). Last write wins from the local side.
func (e *Engine) UploadAll(ctx context.Context) (int, error) {
	if !e.Authenticated() {
		return 0, ErrNotAuthenticated
	}

	records := e.records.List()
	rows := make([]remote.BookmarkRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, remote.BookmarkRow{
			UserID:      e.userID,
			URL:         rec.URL,
			Title:       rec.Title,
			Description: rec.Description,
			Folder:      rec.Tag,
			CreatedAt:   rec.CreatedAt,
		})
	}

	if err := e.remote.UpsertBookmarks(ctx, e.userID, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// uploadTrash mirrors UploadAll against the remote trash table.
func (e *Engine) uploadTrash(ctx context.Context) (int, error) {
	trash := e.records.Trash()
	rows := make([]remote.TrashRow, 0, len(trash))
	for _, t := range trash {
		rows = append(rows, remote.TrashRow{
			UserID:        e.userID,
			URL:           t.URL,
			Title:         t.Title,
			Description:   t.Description,
			Folder:        t.Tag,
			CreatedAt:     t.CreatedAt,
			DeletedAt:     t.DeletedAt,
			RetentionDays: t.RetentionDays,
		})
	}

	if err := e.remote.UpsertTrash(ctx, e.userID, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// DownloadAll fetches the user's remote rows and appends, as new local
// records, only those whose normalized URL is not already present locally
// (compared case-insensitively).
func (e *Engine) DownloadAll(ctx context.Context) (int, error) {
	if !e.Authenticated() {
		return 0, ErrNotAuthenticated
	}

	rows, err := e.remote.FetchBookmarks(ctx, e.userID)
	if err != nil {
		return 0, err
	}

	incoming := make([]*domain.BookmarkRecord, 0, len(rows))
	for _, row := range rows {
		incoming = append(incoming, &domain.BookmarkRecord{
			URL:         row.URL,
			Title:       row.Title,
			Description: row.Description,
			Tag:         row.Folder,
			CreatedAt:   row.CreatedAt,
		})
	}

	added, _, err := e.records.MergeRecords(incoming)
	if err != nil {
		return 0, err
	}
	return added, nil
}

// downloadTrash mirrors DownloadAll against the remote trash table.
func (e *Engine) downloadTrash(ctx context.Context) (int, error) {
	rows, err := e.remote.FetchTrash(ctx, e.userID)
	if err != nil {
		return 0, err
	}

	incoming := make([]*domain.TrashedRecord, 0, len(rows))
	for _, row := range rows {
		incoming = append(incoming, &domain.TrashedRecord{
			BookmarkRecord: domain.BookmarkRecord{
				URL:         row.URL,
				Title:       row.Title,
				Description: row.Description,
				Tag:         row.Folder,
				CreatedAt:   row.CreatedAt,
			},
			DeletedAt:     row.DeletedAt,
			RetentionDays: row.RetentionDays,
		})
	}

	return e.records.MergeTrash(incoming)
}

// SyncAll runs upload then download for records and trash. A failure in
// the records upload aborts the whole sequence; trash phase failures are
// logged and tolerated so they never mask a successful records exchange.
func (e *Engine) SyncAll(ctx context.Context) Result {
	if !e.Authenticated() {
		return Result{Err: ErrNotAuthenticated, CompletedAt: e.now()}
	}

	uploaded, err := e.UploadAll(ctx)
	if err != nil {
		e.logger.Error("records upload failed, aborting sync", logger.Error(err))
		return Result{Err: err, CompletedAt: e.now()}
	}

	if n, err := e.uploadTrash(ctx); err != nil {
		e.logger.Warn("trash upload failed", logger.Error(err))
	} else {
		uploaded += n
	}

	downloaded, err := e.DownloadAll(ctx)
	if err != nil {
		e.logger.Error("records download failed", logger.Error(err))
		return Result{Uploaded: uploaded, Err: err, CompletedAt: e.now()}
	}

	if n, err := e.downloadTrash(ctx); err != nil {
		e.logger.Warn("trash download failed", logger.Error(err))
	} else {
		downloaded += n
	}

	res := Result{
		Success:     true,
		Uploaded:    uploaded,
		Downloaded:  downloaded,
		CompletedAt: e.now(),
	}
	e.logger.Info("sync completed",
		logger.Int("uploaded", res.Uploaded),
		logger.Int("downloaded", res.Downloaded))
	return res
}
