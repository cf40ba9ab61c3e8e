package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/logger"
)

func newTestRepo(t *testing.T) *FileRepository {
	t.Helper()
	repo, err := NewFileRepository(t.TempDir(), logger.New("error", false))
	if err != nil {
		t.Fatalf("NewFileRepository() error: %v", err)
	}
	return repo
}

func TestFileRepositoryBookmarksRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	records := []*domain.BookmarkRecord{
		{ID: "a", URL: "https://example.com", Title: "example.com", CreatedAt: time.Now().UTC()},
		{ID: "b", URL: "https://go.dev", Title: "go.dev", CreatedAt: time.Now().UTC()},
	}
	if err := repo.SaveBookmarks(records); err != nil {
		t.Fatalf("SaveBookmarks() error: %v", err)
	}

	loaded := repo.LoadBookmarks()
	if len(loaded) != 2 {
		t.Fatalf("LoadBookmarks() = %d records, want 2", len(loaded))
	}
	if loaded[0].ID != "a" || loaded[1].ID != "b" {
		t.Errorf("LoadBookmarks() order not preserved: %v, %v", loaded[0].ID, loaded[1].ID)
	}
}

func TestFileRepositoryEmptyOnMissing(t *testing.T) {
	repo := newTestRepo(t)

	if got := repo.LoadBookmarks(); len(got) != 0 {
		t.Errorf("LoadBookmarks() on empty dir = %d records, want 0", len(got))
	}
	if got := repo.LoadTrash(); len(got) != 0 {
		t.Errorf("LoadTrash() on empty dir = %d records, want 0", len(got))
	}
	if got := repo.LoadCustomFolders(); len(got) != 0 {
		t.Errorf("LoadCustomFolders() on empty dir = %d names, want 0", len(got))
	}
}

func TestFileRepositoryCorruptedBlobDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir, logger.New("error", false))
	if err != nil {
		t.Fatalf("NewFileRepository() error: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, bookmarksFile), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := repo.LoadBookmarks(); len(got) != 0 {
		t.Errorf("LoadBookmarks() on corrupted blob = %d records, want 0", len(got))
	}
}

func TestFileRepositorySettingsDefault(t *testing.T) {
	repo := newTestRepo(t)

	settings := repo.LoadSettings()
	if settings.RetentionDays != domain.DefaultSettings().RetentionDays {
		t.Errorf("LoadSettings() retention = %d, want default %d",
			settings.RetentionDays, domain.DefaultSettings().RetentionDays)
	}

	settings.RetentionDays = 7
	if err := repo.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings() error: %v", err)
	}
	if got := repo.LoadSettings(); got.RetentionDays != 7 {
		t.Errorf("LoadSettings() retention = %d, want 7", got.RetentionDays)
	}
}

func TestFileRepositoryOnChange(t *testing.T) {
	repo := newTestRepo(t)

	fired := 0
	repo.OnChange(func() { fired++ })

	if err := repo.SaveBookmarks(nil); err != nil {
		t.Fatalf("SaveBookmarks() error: %v", err)
	}
	if err := repo.SaveCustomFolders([]string{"Work"}); err != nil {
		t.Fatalf("SaveCustomFolders() error: %v", err)
	}

	if fired != 2 {
		t.Errorf("listener fired %d times, want 2", fired)
	}
}

func TestFileRepositorySyncStatusRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	now := time.Now().UTC().Truncate(time.Second)
	if err := repo.SaveStatus(&domain.SyncStatus{LastSyncAt: &now, LastUploaded: 3}); err != nil {
		t.Fatalf("SaveStatus() error: %v", err)
	}

	status := repo.LoadStatus()
	if status.LastSyncAt == nil || !status.LastSyncAt.Equal(now) {
		t.Errorf("LoadStatus() LastSyncAt = %v, want %v", status.LastSyncAt, now)
	}
	if status.LastUploaded != 3 {
		t.Errorf("LoadStatus() LastUploaded = %d, want 3", status.LastUploaded)
	}
}
