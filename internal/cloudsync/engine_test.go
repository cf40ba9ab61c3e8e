package cloudsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/remote"
	"github.com/MrSnakeDoc/stash/internal/repository"
	"github.com/MrSnakeDoc/stash/internal/store"
)

func newTestEngine(t *testing.T, userID string) (*Engine, *store.RecordStore, *remote.MemoryStore) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	log := logger.New("error", false)
	records := store.NewRecordStore(repo, repo, log)
	rs := remote.NewMemoryStore()
	return NewEngine(records, rs, userID, log), records, rs
}

func TestSyncUnauthenticatedShortCircuits(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	ctx := context.Background()

	res := e.SyncAll(ctx)
	if res.Success {
		t.Error("SyncAll() without identity should fail")
	}
	if !errors.Is(res.Err, ErrNotAuthenticated) {
		t.Errorf("SyncAll() err = %v, want ErrNotAuthenticated", res.Err)
	}

	if _, err := e.UploadAll(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("UploadAll() err = %v, want ErrNotAuthenticated", err)
	}
	if _, err := e.DownloadAll(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("DownloadAll() err = %v, want ErrNotAuthenticated", err)
	}
}

func TestUploadAllPushesLiveAndTrash(t *testing.T) {
	e, records, rs := newTestEngine(t, "u1")
	ctx := context.Background()

	records.Add("a.com", "", "", nil)
	records.Add("b.com", "", "", nil)
	removed := records.Add("c.com", "", "", nil)
	records.Remove(removed.Record.ID)

	res := e.SyncAll(ctx)
	if !res.Success {
		t.Fatalf("SyncAll() failed: %v", res.Err)
	}
	if res.Uploaded != 3 {
		t.Errorf("SyncAll() uploaded = %d, want 3 (2 live + 1 trash)", res.Uploaded)
	}
	if rs.BookmarkCount("u1") != 2 {
		t.Errorf("remote bookmarks = %d, want 2", rs.BookmarkCount("u1"))
	}
	if rs.TrashCount("u1") != 1 {
		t.Errorf("remote trash = %d, want 1", rs.TrashCount("u1"))
	}
}

func TestDownloadSkipsLocalURLs(t *testing.T) {
	e, records, rs := newTestEngine(t, "u1")
	ctx := context.Background()

	records.Add("shared.com", "", "", nil)

	err := rs.UpsertBookmarks(ctx, "u1", []remote.BookmarkRow{
		{URL: "https://SHARED.com", Title: "remote copy"}, // case variant of local
		{URL: "https://only-remote.com", Title: "new", CreatedAt: time.Now()},
	})
	if err != nil {
		t.Fatal(err)
	}

	downloaded, err := e.DownloadAll(ctx)
	if err != nil {
		t.Fatalf("DownloadAll() error: %v", err)
	}
	if downloaded != 1 {
		t.Errorf("DownloadAll() = %d, want 1 (local url filtered case-insensitively)", downloaded)
	}
	if got := len(records.List()); got != 2 {
		t.Errorf("live count = %d, want 2", got)
	}
}

func TestSyncAllUploadFailureAborts(t *testing.T) {
	e, records, rs := newTestEngine(t, "u1")
	ctx := context.Background()

	records.Add("a.com", "", "", nil)
	rs.FailUpsertBookmarks = true

	res := e.SyncAll(ctx)
	if res.Success {
		t.Fatal("SyncAll() should fail when the records upload fails")
	}
	if res.Uploaded != 0 || res.Downloaded != 0 {
		t.Errorf("aborted sync counts = (%d, %d), want zero", res.Uploaded, res.Downloaded)
	}
}

func TestSyncAllTrashFailuresTolerated(t *testing.T) {
	e, records, rs := newTestEngine(t, "u1")
	ctx := context.Background()

	records.Add("a.com", "", "", nil)
	removed := records.Add("b.com", "", "", nil)
	records.Remove(removed.Record.ID)

	rs.FailUpsertTrash = true
	rs.FailFetchTrash = true

	res := e.SyncAll(ctx)
	if !res.Success {
		t.Fatalf("SyncAll() should tolerate trash phase failures, got: %v", res.Err)
	}
	if res.Uploaded != 1 {
		t.Errorf("uploaded = %d, want 1 (records only, trash upload failed)", res.Uploaded)
	}
	if rs.BookmarkCount("u1") != 1 {
		t.Errorf("remote bookmarks = %d, want 1", rs.BookmarkCount("u1"))
	}
}

func TestSyncAllRoundTripBetweenUsers(t *testing.T) {
	// Two engines sharing a remote store under the same identity model a
	// second device converging.
	repoA := repository.NewMemoryRepository()
	repoB := repository.NewMemoryRepository()
	log := logger.New("error", false)
	recordsA := store.NewRecordStore(repoA, repoA, log)
	recordsB := store.NewRecordStore(repoB, repoB, log)
	rs := remote.NewMemoryStore()

	deviceA := NewEngine(recordsA, rs, "u1", log)
	deviceB := NewEngine(recordsB, rs, "u1", log)

	ctx := context.Background()
	recordsA.Add("a.com", "", "", nil)
	recordsB.Add("b.com", "", "", nil)

	if res := deviceA.SyncAll(ctx); !res.Success {
		t.Fatalf("device A sync failed: %v", res.Err)
	}
	if res := deviceB.SyncAll(ctx); !res.Success {
		t.Fatalf("device B sync failed: %v", res.Err)
	}
	if res := deviceA.SyncAll(ctx); !res.Success {
		t.Fatalf("device A second sync failed: %v", res.Err)
	}

	if got := len(recordsA.List()); got != 2 {
		t.Errorf("device A converged to %d records, want 2", got)
	}
	if got := len(recordsB.List()); got != 2 {
		t.Errorf("device B converged to %d records, want 2", got)
	}
}
