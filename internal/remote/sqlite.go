package remote

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/utils"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS bookmarks (
	user_id     TEXT NOT NULL,
	url         TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	folder      TEXT,
	created_at  TIMESTAMP NOT NULL,
	UNIQUE (user_id, url)
);

CREATE TABLE IF NOT EXISTS trash (
	user_id             TEXT NOT NULL,
	url                 TEXT NOT NULL,
	title               TEXT NOT NULL DEFAULT '',
	description         TEXT NOT NULL DEFAULT '',
	folder              TEXT,
	original_created_at TIMESTAMP NOT NULL,
	deleted_at          TIMESTAMP NOT NULL,
	retention_days      INTEGER NOT NULL,
	UNIQUE (user_id, url)
);
`

// SQLiteStore is the relational remote backend. The UNIQUE(user_id, url)
// constraint is the upsert conflict target.
type SQLiteStore struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewSQLiteStore opens (or creates) the database and ensures the schema.
func NewSQLiteStore(path string, log logger.Logger) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		utils.Close(db)
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db, logger: log}, nil
}

func (s *SQLiteStore) UpsertBookmarks(ctx context.Context, userID string, rows []BookmarkRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO bookmarks (user_id, url, title, description, folder, created_at)
		VALUES (:user_id, :url, :title, :description, :folder, :created_at)
		ON CONFLICT (user_id, url) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			folder = excluded.folder,
			created_at = excluded.created_at`

	for _, row := range rows {
		row.UserID = userID
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("failed to upsert bookmark %s: %w", row.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bookmark upserts: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FetchBookmarks(ctx context.Context, userID string) ([]BookmarkRow, error) {
	rows := []BookmarkRow{}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT user_id, url, title, description, folder, created_at
		 FROM bookmarks WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookmarks: %w", err)
	}
	return rows, nil
}

func (s *SQLiteStore) UpsertTrash(ctx context.Context, userID string, rows []TrashRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO trash (user_id, url, title, description, folder, original_created_at, deleted_at, retention_days)
		VALUES (:user_id, :url, :title, :description, :folder, :original_created_at, :deleted_at, :retention_days)
		ON CONFLICT (user_id, url) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			folder = excluded.folder,
			original_created_at = excluded.original_created_at,
			deleted_at = excluded.deleted_at,
			retention_days = excluded.retention_days`

	for _, row := range rows {
		row.UserID = userID
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("failed to upsert trash %s: %w", row.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trash upserts: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FetchTrash(ctx context.Context, userID string) ([]TrashRow, error) {
	rows := []TrashRow{}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT user_id, url, title, description, folder, original_created_at, deleted_at, retention_days
		 FROM trash WHERE user_id = ? ORDER BY deleted_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trash: %w", err)
	}
	return rows, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
