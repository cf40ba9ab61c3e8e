package remote

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// MemoryStore is an in-process remote store. Used by tests and by
// installations that have no remote backend configured.
type MemoryStore struct {
	mu        sync.Mutex
	bookmarks map[string]map[string]BookmarkRow // userID -> lower(url) -> row
	trash     map[string]map[string]TrashRow

	// Per-method failure switches, for exercising the sync engine's
	// failure phases.
	FailUpsertBookmarks bool
	FailUpsertTrash     bool
	FailFetchBookmarks  bool
	FailFetchTrash      bool
}

// ErrUnavailable is returned when FailNext is armed.
var ErrUnavailable = errors.New("remote store unavailable")

// NewMemoryStore returns an empty in-memory remote store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bookmarks: make(map[string]map[string]BookmarkRow),
		trash:     make(map[string]map[string]TrashRow),
	}
}

func (s *MemoryStore) UpsertBookmarks(_ context.Context, userID string, rows []BookmarkRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpsertBookmarks {
		return ErrUnavailable
	}

	if s.bookmarks[userID] == nil {
		s.bookmarks[userID] = make(map[string]BookmarkRow)
	}
	for _, row := range rows {
		row.UserID = userID
		s.bookmarks[userID][strings.ToLower(row.URL)] = row
	}
	return nil
}

func (s *MemoryStore) FetchBookmarks(_ context.Context, userID string) ([]BookmarkRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailFetchBookmarks {
		return nil, ErrUnavailable
	}

	rows := make([]BookmarkRow, 0, len(s.bookmarks[userID]))
	for _, row := range s.bookmarks[userID] {
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *MemoryStore) UpsertTrash(_ context.Context, userID string, rows []TrashRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpsertTrash {
		return ErrUnavailable
	}

	if s.trash[userID] == nil {
		s.trash[userID] = make(map[string]TrashRow)
	}
	for _, row := range rows {
		row.UserID = userID
		s.trash[userID][strings.ToLower(row.URL)] = row
	}
	return nil
}

func (s *MemoryStore) FetchTrash(_ context.Context, userID string) ([]TrashRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailFetchTrash {
		return nil, ErrUnavailable
	}

	rows := make([]TrashRow, 0, len(s.trash[userID]))
	for _, row := range s.trash[userID] {
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *MemoryStore) Close() error { return nil }

// BookmarkCount reports how many rows a user has, for tests.
func (s *MemoryStore) BookmarkCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookmarks[userID])
}

// TrashCount reports how many trash rows a user has, for tests.
func (s *MemoryStore) TrashCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trash[userID])
}
