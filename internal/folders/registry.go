package folders

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/repository"
	"github.com/MrSnakeDoc/stash/internal/store"
)

var (
	// ErrBlankName rejects empty or whitespace-only folder names.
	ErrBlankName = errors.New("folder name is blank")
	// ErrFolderExists rejects a name colliding with a preset or custom folder.
	ErrFolderExists = errors.New("folder already exists")
	// ErrFolderNotFound means no custom folder with that name exists.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrPresetFolder rejects mutation of a built-in folder.
	ErrPresetFolder = errors.New("preset folders cannot be modified")
)

// Registry manages the folder taxonomy: built-in presets plus user-created
// custom folders with icons. Records reference folders by name; cascades on
// rename and delete go through the record store so the registry never
// touches the persisted bookmark blob directly.
type Registry struct {
	repo    repository.FolderRepository
	records *store.RecordStore
	logger  logger.Logger
}

// NewRegistry creates a folder registry.
func NewRegistry(repo repository.FolderRepository, records *store.RecordStore, log logger.Logger) *Registry {
	return &Registry{
		repo:    repo,
		records: records,
		logger:  log,
	}
}

// CustomFolders returns the user-created folder names.
func (r *Registry) CustomFolders() []string {
	return r.repo.LoadCustomFolders()
}

// Icons returns the folder-to-icon map for custom folders.
func (r *Registry) Icons() map[string]string {
	return r.repo.LoadIcons()
}

// CreateFolder adds a custom folder with an icon. The name must be
// non-blank and unique across presets and existing custom folders
// (case-sensitive). No partial state on failure.
func (r *Registry) CreateFolder(name, icon string) error {
	if strings.TrimSpace(name) == "" {
		return ErrBlankName
	}
	if r.nameTaken(name, "") {
		return fmt.Errorf("%w: %s", ErrFolderExists, name)
	}

	custom := append(r.repo.LoadCustomFolders(), name)
	if err := r.repo.SaveCustomFolders(custom); err != nil {
		return fmt.Errorf("failed to persist folder: %w", err)
	}

	if icon != "" {
		icons := r.repo.LoadIcons()
		icons[name] = icon
		if err := r.repo.SaveIcons(icons); err != nil {
			return fmt.Errorf("failed to persist folder icon: %w", err)
		}
	}

	r.logger.Info("folder created", logger.String("name", name))
	return nil
}

// RenameFolder renames a custom folder and rewrites the tag on every record
// referencing it. The new name is checked against the same collision rule,
// excluding the folder's own old name.
func (r *Registry) RenameFolder(oldName, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return ErrBlankName
	}
	if domain.IsPresetFolder(oldName) {
		return ErrPresetFolder
	}
	if newName != oldName && r.nameTaken(newName, oldName) {
		return fmt.Errorf("%w: %s", ErrFolderExists, newName)
	}

	custom := r.repo.LoadCustomFolders()
	idx := indexOf(custom, oldName)
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrFolderNotFound, oldName)
	}
	custom[idx] = newName
	if err := r.repo.SaveCustomFolders(custom); err != nil {
		return fmt.Errorf("failed to persist folder rename: %w", err)
	}

	icons := r.repo.LoadIcons()
	if icon, ok := icons[oldName]; ok {
		delete(icons, oldName)
		icons[newName] = icon
		if err := r.repo.SaveIcons(icons); err != nil {
			return fmt.Errorf("failed to persist icon rename: %w", err)
		}
	}

	retagged := r.records.RetagAll(oldName, &newName)
	r.logger.Info("folder renamed",
		logger.String("from", oldName),
		logger.String("to", newName),
		logger.Int("records_retagged", retagged))
	return nil
}

// DeleteFolder removes a custom folder and its icon, and clears the tag on
// every record that referenced it.
func (r *Registry) DeleteFolder(name string) error {
	if domain.IsPresetFolder(name) {
		return ErrPresetFolder
	}

	custom := r.repo.LoadCustomFolders()
	idx := indexOf(custom, name)
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrFolderNotFound, name)
	}
	custom = append(custom[:idx], custom[idx+1:]...)
	if err := r.repo.SaveCustomFolders(custom); err != nil {
		return fmt.Errorf("failed to persist folder delete: %w", err)
	}

	icons := r.repo.LoadIcons()
	if _, ok := icons[name]; ok {
		delete(icons, name)
		if err := r.repo.SaveIcons(icons); err != nil {
			return fmt.Errorf("failed to persist icon delete: %w", err)
		}
	}

	untagged := r.records.RetagAll(name, nil)
	r.logger.Info("folder deleted",
		logger.String("name", name),
		logger.Int("records_untagged", untagged))
	return nil
}

// ListFolders returns every folder name visible to the user: presets,
// custom folders, and any tag actually present on a record (a folder can
// exist only because a record references it, e.g. after a partial restore).
// Deduplicated and sorted.
func (r *Registry) ListFolders() []string {
	seen := make(map[string]bool)
	names := make([]string, 0, len(domain.PresetFolders))

	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, p := range domain.PresetFolders {
		add(p)
	}
	for _, c := range r.repo.LoadCustomFolders() {
		add(c)
	}
	for _, rec := range r.records.List() {
		if rec.Tag != nil {
			add(*rec.Tag)
		}
	}

	sort.Strings(names)
	return names
}

// ReplaceAll overwrites the custom folder list and icon map wholesale.
// Used by the replace-mode backup import only.
func (r *Registry) ReplaceAll(custom []string, icons map[string]string) error {
	if custom == nil {
		custom = []string{}
	}
	if icons == nil {
		icons = map[string]string{}
	}
	if err := r.repo.SaveCustomFolders(custom); err != nil {
		return fmt.Errorf("failed to replace folders: %w", err)
	}
	if err := r.repo.SaveIcons(icons); err != nil {
		return fmt.Errorf("failed to replace icons: %w", err)
	}
	return nil
}

// MergeFolders unions incoming custom folders and icons into the current
// sets. Existing definitions win on collision. Returns how many folders
// were added.
func (r *Registry) MergeFolders(incoming []string, incomingIcons map[string]string) (int, error) {
	custom := r.repo.LoadCustomFolders()
	added := 0
	for _, name := range incoming {
		if strings.TrimSpace(name) == "" || r.nameTaken(name, "") || indexOf(custom, name) != -1 {
			continue
		}
		custom = append(custom, name)
		added++
	}
	if added > 0 {
		if err := r.repo.SaveCustomFolders(custom); err != nil {
			return 0, fmt.Errorf("failed to persist merged folders: %w", err)
		}
	}

	icons := r.repo.LoadIcons()
	iconsChanged := false
	for name, icon := range incomingIcons {
		if _, exists := icons[name]; exists {
			continue
		}
		icons[name] = icon
		iconsChanged = true
	}
	if iconsChanged {
		if err := r.repo.SaveIcons(icons); err != nil {
			return added, fmt.Errorf("failed to persist merged icons: %w", err)
		}
	}

	return added, nil
}

// nameTaken reports whether name collides with a preset or custom folder,
// ignoring exclude (used when renaming a folder onto a different case of
// itself is not wanted; comparison stays case-sensitive).
func (r *Registry) nameTaken(name, exclude string) bool {
	if domain.IsPresetFolder(name) {
		return true
	}
	for _, c := range r.repo.LoadCustomFolders() {
		if c == name && c != exclude {
			return true
		}
	}
	return false
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
