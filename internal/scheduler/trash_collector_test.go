package scheduler

import (
	"testing"
	"time"

	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/repository"
	"github.com/MrSnakeDoc/stash/internal/store"
)

func TestTrashCollector_Sweep(t *testing.T) {
	log := logger.New("error", false)
	repo := repository.NewMemoryRepository()
	records := store.NewRecordStore(repo, repo, log)

	settings := repo.LoadSettings()
	settings.RetentionDays = 30
	if err := repo.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	records.SetClock(func() time.Time { return clock })

	// One record deleted 35 days ago, one 10 days ago, one still live.
	old := records.Add("old.example.com", "", "", nil)
	records.Remove(old.Record.ID)

	clock = base.Add(25 * 24 * time.Hour)
	recent := records.Add("recent.example.com", "", "", nil)
	records.Remove(recent.Record.ID)

	records.Add("live.example.com", "", "", nil)

	clock = base.Add(35 * 24 * time.Hour)
	tc := NewTrashCollector(records, log, 24*time.Hour)

	if purged := tc.Sweep(); purged != 1 {
		t.Errorf("Sweep() purged = %d, want 1", purged)
	}

	trash := records.Trash()
	if len(trash) != 1 {
		t.Fatalf("trash count after sweep = %d, want 1", len(trash))
	}
	if trash[0].URL != "https://recent.example.com" {
		t.Errorf("wrong entry survived: %s", trash[0].URL)
	}
	if len(records.List()) != 1 {
		t.Errorf("live count = %d, want 1 (sweep must not touch live records)", len(records.List()))
	}

	// Second sweep finds nothing.
	if purged := tc.Sweep(); purged != 0 {
		t.Errorf("second Sweep() purged = %d, want 0", purged)
	}
}
