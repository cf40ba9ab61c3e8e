package remote

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/stash/internal/logger"
)

// BookmarkRow is the remote representation of a live bookmark, scoped by
// user identity and unique on (user, url).
type BookmarkRow struct {
	UserID      string    `json:"userId" db:"user_id"`
	URL         string    `json:"url" db:"url"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Folder      *string   `json:"folder" db:"folder"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// TrashRow is the remote representation of a trashed bookmark. CreatedAt
// carries the original creation time so a restore on another device keeps
// recency order.
type TrashRow struct {
	UserID        string    `json:"userId" db:"user_id"`
	URL           string    `json:"url" db:"url"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	Folder        *string   `json:"folder" db:"folder"`
	CreatedAt     time.Time `json:"createdAt" db:"original_created_at"`
	DeletedAt     time.Time `json:"deletedAt" db:"deleted_at"`
	RetentionDays int       `json:"retentionDays" db:"retention_days"`
}

// Store is the remote convergence target. Upserts use (user, url) as the
// conflict target; the local side always wins.
type Store interface {
	UpsertBookmarks(ctx context.Context, userID string, rows []BookmarkRow) error
	FetchBookmarks(ctx context.Context, userID string) ([]BookmarkRow, error)
	UpsertTrash(ctx context.Context, userID string, rows []TrashRow) error
	FetchTrash(ctx context.Context, userID string) ([]TrashRow, error)
	Close() error
}

// Backend names accepted by New.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Options selects and configures a remote store backend.
type Options struct {
	Backend     string
	RedisClient *goredis.Client // required for BackendRedis
	SQLitePath  string          // required for BackendSQLite
}

// New builds the remote store for the configured backend.
func New(opts Options, log logger.Logger) (Store, error) {
	switch opts.Backend {
	case BackendRedis:
		if opts.RedisClient == nil {
			return nil, fmt.Errorf("redis backend requires a connected client")
		}
		return NewRedisStore(opts.RedisClient), nil
	case BackendSQLite:
		if opts.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite backend requires a database path")
		}
		return NewSQLiteStore(opts.SQLitePath, log)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown remote backend %q", opts.Backend)
	}
}
