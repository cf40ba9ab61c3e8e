package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/stash/internal/folders"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/repository"
	"github.com/MrSnakeDoc/stash/internal/store"
)

const seedYAML = `
- folder: Homelab
  icon: server
  bookmarks:
    - url: grafana.example.com
      title: Grafana
    - url: https://prometheus.example.com/
      description: metrics
- bookmarks:
    - url: https://go.dev
`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImporterRun(t *testing.T) {
	log := logger.New("error", false)
	repo := repository.NewMemoryRepository()
	records := store.NewRecordStore(repo, repo, log)
	registry := folders.NewRegistry(repo, records, log)

	im := NewImporter(writeSeedFile(t, seedYAML), records, registry, log)
	added, err := im.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if added != 3 {
		t.Errorf("Run() added = %d, want 3", added)
	}

	if got := registry.CustomFolders(); len(got) != 1 || got[0] != "Homelab" {
		t.Errorf("CustomFolders() = %v, want [Homelab]", got)
	}
	if got := registry.Icons()["Homelab"]; got != "server" {
		t.Errorf("folder icon = %q, want server", got)
	}

	tagged := 0
	for _, rec := range records.List() {
		if rec.Tag != nil && *rec.Tag == "Homelab" {
			tagged++
		}
	}
	if tagged != 2 {
		t.Errorf("records tagged Homelab = %d, want 2", tagged)
	}
}

func TestImporterRunIdempotent(t *testing.T) {
	log := logger.New("error", false)
	repo := repository.NewMemoryRepository()
	records := store.NewRecordStore(repo, repo, log)
	registry := folders.NewRegistry(repo, records, log)
	path := writeSeedFile(t, seedYAML)

	if _, err := NewImporter(path, records, registry, log).Run(); err != nil {
		t.Fatal(err)
	}
	added, err := NewImporter(path, records, registry, log).Run()
	if err != nil {
		t.Fatalf("second Run() error: %v", err)
	}
	if added != 0 {
		t.Errorf("second Run() added = %d, want 0 (all duplicates)", added)
	}
	if got := len(records.List()); got != 3 {
		t.Errorf("record count after double import = %d, want 3", got)
	}
}

func TestImporterMissingFile(t *testing.T) {
	log := logger.New("error", false)
	repo := repository.NewMemoryRepository()
	records := store.NewRecordStore(repo, repo, log)
	registry := folders.NewRegistry(repo, records, log)

	if _, err := NewImporter("/nonexistent/seed.yaml", records, registry, log).Run(); err == nil {
		t.Error("Run() on missing file should fail")
	}
}
