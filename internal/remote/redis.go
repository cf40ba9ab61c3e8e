package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each user's remote rows in two hashes keyed by
// normalized URL, so an upsert is a plain HSet and the (user, url)
// uniqueness constraint falls out of the data structure.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a remote store on an already-connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) UpsertBookmarks(ctx context.Context, userID string, rows []BookmarkRow) error {
	if len(rows) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	key := BookmarksKey(userID)
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to marshal bookmark row %s: %w", row.URL, err)
		}
		pipe.HSet(ctx, key, FieldForURL(row.URL), data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to upsert bookmarks: %w", err)
	}
	return nil
}

func (s *RedisStore) FetchBookmarks(ctx context.Context, userID string) ([]BookmarkRow, error) {
	fields, err := s.client.HGetAll(ctx, BookmarksKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookmarks: %w", err)
	}

	rows := make([]BookmarkRow, 0, len(fields))
	for _, data := range fields {
		var row BookmarkRow
		if err := json.Unmarshal([]byte(data), &row); err != nil {
			// Skip rows that couldn't be decoded
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *RedisStore) UpsertTrash(ctx context.Context, userID string, rows []TrashRow) error {
	if len(rows) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	key := TrashKey(userID)
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to marshal trash row %s: %w", row.URL, err)
		}
		pipe.HSet(ctx, key, FieldForURL(row.URL), data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to upsert trash: %w", err)
	}
	return nil
}

func (s *RedisStore) FetchTrash(ctx context.Context, userID string) ([]TrashRow, error) {
	fields, err := s.client.HGetAll(ctx, TrashKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trash: %w", err)
	}

	rows := make([]TrashRow, 0, len(fields))
	for _, data := range fields {
		var row TrashRow
		if err := json.Unmarshal([]byte(data), &row); err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
