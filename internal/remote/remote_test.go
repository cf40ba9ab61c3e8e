package remote

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/stash/internal/logger"
)

func TestMemoryStoreUpsertOverwrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rows := []BookmarkRow{
		{URL: "https://a.com", Title: "first", CreatedAt: time.Now()},
	}
	if err := s.UpsertBookmarks(ctx, "u1", rows); err != nil {
		t.Fatalf("UpsertBookmarks() error: %v", err)
	}

	rows[0].Title = "second"
	if err := s.UpsertBookmarks(ctx, "u1", rows); err != nil {
		t.Fatalf("UpsertBookmarks() error: %v", err)
	}

	fetched, err := s.FetchBookmarks(ctx, "u1")
	if err != nil {
		t.Fatalf("FetchBookmarks() error: %v", err)
	}
	if len(fetched) != 1 {
		t.Fatalf("FetchBookmarks() = %d rows, want 1 (upsert, not insert)", len(fetched))
	}
	if fetched[0].Title != "second" {
		t.Errorf("upsert should overwrite, got title %q", fetched[0].Title)
	}
}

func TestMemoryStoreCaseInsensitiveConflictTarget(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.UpsertBookmarks(ctx, "u1", []BookmarkRow{{URL: "https://a.com/X"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertBookmarks(ctx, "u1", []BookmarkRow{{URL: "https://A.COM/x"}}); err != nil {
		t.Fatal(err)
	}

	if got := s.BookmarkCount("u1"); got != 1 {
		t.Errorf("case variants should collapse to one row, got %d", got)
	}
}

func TestMemoryStoreScopedByUser(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.UpsertBookmarks(ctx, "u1", []BookmarkRow{{URL: "https://a.com"}}); err != nil {
		t.Fatal(err)
	}

	other, err := s.FetchBookmarks(ctx, "u2")
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("u2 should see no rows, got %d", len(other))
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s, err := NewSQLiteStore(t.TempDir()+"/remote.db", logger.New("error", false))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	folder := "Work"
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rows := []BookmarkRow{
		{URL: "https://a.com", Title: "a", Folder: &folder, CreatedAt: created},
		{URL: "https://b.com", Title: "b", CreatedAt: created.Add(time.Hour)},
	}
	if err := s.UpsertBookmarks(ctx, "u1", rows); err != nil {
		t.Fatalf("UpsertBookmarks() error: %v", err)
	}

	// Conflicting upsert overwrites.
	rows[0].Title = "a2"
	if err := s.UpsertBookmarks(ctx, "u1", rows[:1]); err != nil {
		t.Fatalf("UpsertBookmarks() conflict error: %v", err)
	}

	fetched, err := s.FetchBookmarks(ctx, "u1")
	if err != nil {
		t.Fatalf("FetchBookmarks() error: %v", err)
	}
	if len(fetched) != 2 {
		t.Fatalf("FetchBookmarks() = %d rows, want 2", len(fetched))
	}
	for _, row := range fetched {
		if row.URL == "https://a.com" {
			if row.Title != "a2" {
				t.Errorf("conflict upsert should overwrite title, got %q", row.Title)
			}
			if row.Folder == nil || *row.Folder != "Work" {
				t.Errorf("folder not round-tripped: %v", row.Folder)
			}
		}
	}
}

func TestSQLiteStoreTrashRoundTrip(t *testing.T) {
	s, err := NewSQLiteStore(t.TempDir()+"/remote.db", logger.New("error", false))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	deleted := created.AddDate(0, 0, 20)

	rows := []TrashRow{
		{URL: "https://gone.com", Title: "gone", CreatedAt: created, DeletedAt: deleted, RetentionDays: 30},
	}
	if err := s.UpsertTrash(ctx, "u1", rows); err != nil {
		t.Fatalf("UpsertTrash() error: %v", err)
	}

	fetched, err := s.FetchTrash(ctx, "u1")
	if err != nil {
		t.Fatalf("FetchTrash() error: %v", err)
	}
	if len(fetched) != 1 {
		t.Fatalf("FetchTrash() = %d rows, want 1", len(fetched))
	}
	if fetched[0].RetentionDays != 30 {
		t.Errorf("retention = %d, want 30", fetched[0].RetentionDays)
	}
	if !fetched[0].CreatedAt.Equal(created) {
		t.Errorf("original creation time not preserved: %v", fetched[0].CreatedAt)
	}
}

func TestFactory(t *testing.T) {
	log := logger.New("error", false)

	if _, err := New(Options{Backend: BackendMemory}, log); err != nil {
		t.Errorf("New(memory) error: %v", err)
	}
	if _, err := New(Options{Backend: BackendRedis}, log); err == nil {
		t.Error("New(redis) without a client should fail")
	}
	if _, err := New(Options{Backend: BackendSQLite}, log); err == nil {
		t.Error("New(sqlite) without a path should fail")
	}
	if _, err := New(Options{Backend: "bogus"}, log); err == nil {
		t.Error("New(bogus) should fail")
	}

	s, err := New(Options{Backend: BackendSQLite, SQLitePath: t.TempDir() + "/r.db"}, log)
	if err != nil {
		t.Fatalf("New(sqlite) error: %v", err)
	}
	_ = s.Close()
}
