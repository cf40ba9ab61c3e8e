package folders

import (
	"errors"
	"testing"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/repository"
	"github.com/MrSnakeDoc/stash/internal/store"
)

func newTestRegistry(t *testing.T) (*Registry, *store.RecordStore) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	records := store.NewRecordStore(repo, repo, logger.New("error", false))
	return NewRegistry(repo, records, logger.New("error", false)), records
}

func TestCreateFolder(t *testing.T) {
	r, _ := newTestRegistry(t)

	if err := r.CreateFolder("Recipes", "fork"); err != nil {
		t.Fatalf("CreateFolder() error: %v", err)
	}

	if got := r.CustomFolders(); len(got) != 1 || got[0] != "Recipes" {
		t.Errorf("CustomFolders() = %v, want [Recipes]", got)
	}
	if got := r.Icons()["Recipes"]; got != "fork" {
		t.Errorf("Icons()[Recipes] = %q, want fork", got)
	}
}

func TestCreateFolderRejectsBlankAndCollisions(t *testing.T) {
	r, _ := newTestRegistry(t)

	if err := r.CreateFolder("   ", "x"); !errors.Is(err, ErrBlankName) {
		t.Errorf("blank name error = %v, want ErrBlankName", err)
	}
	if err := r.CreateFolder(domain.PresetFolders[0], "x"); !errors.Is(err, ErrFolderExists) {
		t.Errorf("preset collision error = %v, want ErrFolderExists", err)
	}

	if err := r.CreateFolder("Recipes", "fork"); err != nil {
		t.Fatal(err)
	}
	if err := r.CreateFolder("Recipes", "knife"); !errors.Is(err, ErrFolderExists) {
		t.Errorf("custom collision error = %v, want ErrFolderExists", err)
	}
}

func TestRenameFolderCascades(t *testing.T) {
	r, records := newTestRegistry(t)

	if err := r.CreateFolder("Projects", "briefcase"); err != nil {
		t.Fatal(err)
	}

	tag := "Projects"
	records.Add("a.com", "", "", &tag)
	records.Add("b.com", "", "", &tag)
	records.Add("c.com", "", "", nil)

	if err := r.RenameFolder("Projects", "Archive"); err != nil {
		t.Fatalf("RenameFolder() error: %v", err)
	}

	if got := r.CustomFolders(); len(got) != 1 || got[0] != "Archive" {
		t.Errorf("CustomFolders() = %v, want [Archive]", got)
	}
	if _, ok := r.Icons()["Projects"]; ok {
		t.Error("old icon mapping should be gone")
	}
	if got := r.Icons()["Archive"]; got != "briefcase" {
		t.Errorf("icon not carried over, got %q", got)
	}

	for _, rec := range records.List() {
		if rec.Tag != nil && *rec.Tag == "Projects" {
			t.Errorf("record %s still tagged Projects", rec.ID)
		}
	}

	for _, name := range r.ListFolders() {
		if name == "Projects" {
			t.Error("Projects still listed after rename")
		}
	}
}

func TestRenameFolderValidations(t *testing.T) {
	r, _ := newTestRegistry(t)

	if err := r.RenameFolder(domain.PresetFolders[0], "Other"); !errors.Is(err, ErrPresetFolder) {
		t.Errorf("preset rename error = %v, want ErrPresetFolder", err)
	}
	if err := r.RenameFolder("Missing", "Other"); !errors.Is(err, ErrFolderNotFound) {
		t.Errorf("missing rename error = %v, want ErrFolderNotFound", err)
	}

	if err := r.CreateFolder("A", ""); err != nil {
		t.Fatal(err)
	}
	if err := r.CreateFolder("B", ""); err != nil {
		t.Fatal(err)
	}
	if err := r.RenameFolder("A", "B"); !errors.Is(err, ErrFolderExists) {
		t.Errorf("rename collision error = %v, want ErrFolderExists", err)
	}
}

func TestDeleteFolderCascades(t *testing.T) {
	r, records := newTestRegistry(t)

	if err := r.CreateFolder("Temp", "clock"); err != nil {
		t.Fatal(err)
	}
	tag := "Temp"
	records.Add("a.com", "", "", &tag)

	if err := r.DeleteFolder("Temp"); err != nil {
		t.Fatalf("DeleteFolder() error: %v", err)
	}

	if got := r.CustomFolders(); len(got) != 0 {
		t.Errorf("CustomFolders() = %v, want empty", got)
	}
	if _, ok := r.Icons()["Temp"]; ok {
		t.Error("icon mapping should be removed with the folder")
	}
	if rec := records.List()[0]; rec.Tag != nil {
		t.Errorf("record tag = %v, want nil after folder delete", *rec.Tag)
	}
}

func TestDeleteFolderValidations(t *testing.T) {
	r, _ := newTestRegistry(t)

	if err := r.DeleteFolder(domain.PresetFolders[0]); !errors.Is(err, ErrPresetFolder) {
		t.Errorf("preset delete error = %v, want ErrPresetFolder", err)
	}
	if err := r.DeleteFolder("Missing"); !errors.Is(err, ErrFolderNotFound) {
		t.Errorf("missing delete error = %v, want ErrFolderNotFound", err)
	}
}

func TestListFoldersIncludesStrayTags(t *testing.T) {
	r, records := newTestRegistry(t)

	// A tag that exists only on a record, e.g. after a partial restore.
	stray := "Orphaned"
	records.Add("a.com", "", "", &stray)

	found := false
	for _, name := range r.ListFolders() {
		if name == "Orphaned" {
			found = true
		}
	}
	if !found {
		t.Error("ListFolders() should include tags only present on records")
	}
}

func TestListFoldersSortedAndDeduped(t *testing.T) {
	r, records := newTestRegistry(t)

	if err := r.CreateFolder("Zeta", ""); err != nil {
		t.Fatal(err)
	}
	tag := "Zeta"
	records.Add("a.com", "", "", &tag)

	names := r.ListFolders()
	count := 0
	for i, name := range names {
		if name == "Zeta" {
			count++
		}
		if i > 0 && names[i-1] > name {
			t.Errorf("ListFolders() not sorted: %q before %q", names[i-1], name)
		}
	}
	if count != 1 {
		t.Errorf("Zeta appears %d times, want 1", count)
	}
}

func TestMergeFoldersExistingWins(t *testing.T) {
	r, _ := newTestRegistry(t)

	if err := r.CreateFolder("Keep", "original"); err != nil {
		t.Fatal(err)
	}

	added, err := r.MergeFolders(
		[]string{"Keep", "New", domain.PresetFolders[0]},
		map[string]string{"Keep": "incoming", "New": "star"},
	)
	if err != nil {
		t.Fatalf("MergeFolders() error: %v", err)
	}
	if added != 1 {
		t.Errorf("MergeFolders() added = %d, want 1", added)
	}
	if got := r.Icons()["Keep"]; got != "original" {
		t.Errorf("existing icon should win, got %q", got)
	}
	if got := r.Icons()["New"]; got != "star" {
		t.Errorf("incoming icon for new folder = %q, want star", got)
	}
}
