package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/logger"
)

// Blob file names inside the data directory. Each entity family is an
// independently persisted named blob, read in full and rewritten in full
// per operation.
const (
	bookmarksFile  = "bookmarks.json"
	trashFile      = "trash.json"
	foldersFile    = "folders.json"
	iconsFile      = "icons.json"
	syncStatusFile = "syncstatus.json"
	settingsFile   = "settings.json"
)

// FileRepository stores every entity family as a JSON blob under a single
// data directory. It implements BookmarkRepository, FolderRepository,
// SyncStatusRepository and SettingsRepository.
type FileRepository struct {
	dir    string
	logger logger.Logger

	mu        sync.Mutex
	listeners []Listener
}

// NewFileRepository creates the data directory if needed and returns a
// repository rooted at it.
func NewFileRepository(dir string, log logger.Logger) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return &FileRepository{dir: dir, logger: log}, nil
}

// OnChange registers a listener fired after every successful write.
func (r *FileRepository) OnChange(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

func (r *FileRepository) notify() {
	r.mu.Lock()
	listeners := make([]Listener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, l := range listeners {
		l()
	}
}

// readBlob unmarshals a blob into out. Returns false when the blob is
// missing or unreadable; a corrupted blob is logged and treated as absent.
func (r *FileRepository) readBlob(name string, out interface{}) bool {
	path := filepath.Join(r.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("failed to read blob, treating as empty",
				logger.String("blob", name),
				logger.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		r.logger.Warn("corrupted blob, treating as empty",
			logger.String("blob", name),
			logger.Error(err))
		return false
	}

	return true
}

// writeBlob serializes v and replaces the blob atomically (temp file +
// rename) so readers never observe a partial write.
func (r *FileRepository) writeBlob(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal blob %s: %w", name, err)
	}

	path := filepath.Join(r.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace blob %s: %w", name, err)
	}

	r.notify()
	return nil
}

func (r *FileRepository) LoadBookmarks() []*domain.BookmarkRecord {
	var records []*domain.BookmarkRecord
	if !r.readBlob(bookmarksFile, &records) {
		return []*domain.BookmarkRecord{}
	}
	return records
}

func (r *FileRepository) SaveBookmarks(records []*domain.BookmarkRecord) error {
	return r.writeBlob(bookmarksFile, records)
}

func (r *FileRepository) LoadTrash() []*domain.TrashedRecord {
	var records []*domain.TrashedRecord
	if !r.readBlob(trashFile, &records) {
		return []*domain.TrashedRecord{}
	}
	return records
}

func (r *FileRepository) SaveTrash(records []*domain.TrashedRecord) error {
	return r.writeBlob(trashFile, records)
}

func (r *FileRepository) LoadCustomFolders() []string {
	var names []string
	if !r.readBlob(foldersFile, &names) {
		return []string{}
	}
	return names
}

func (r *FileRepository) SaveCustomFolders(names []string) error {
	return r.writeBlob(foldersFile, names)
}

func (r *FileRepository) LoadIcons() map[string]string {
	icons := make(map[string]string)
	if !r.readBlob(iconsFile, &icons) {
		return map[string]string{}
	}
	return icons
}

func (r *FileRepository) SaveIcons(icons map[string]string) error {
	return r.writeBlob(iconsFile, icons)
}

func (r *FileRepository) LoadStatus() *domain.SyncStatus {
	var status domain.SyncStatus
	if !r.readBlob(syncStatusFile, &status) {
		return &domain.SyncStatus{}
	}
	return &status
}

func (r *FileRepository) SaveStatus(status *domain.SyncStatus) error {
	return r.writeBlob(syncStatusFile, status)
}

func (r *FileRepository) LoadSettings() *domain.AppSettings {
	var settings domain.AppSettings
	if !r.readBlob(settingsFile, &settings) {
		return domain.DefaultSettings()
	}
	return &settings
}

func (r *FileRepository) SaveSettings(settings *domain.AppSettings) error {
	return r.writeBlob(settingsFile, settings)
}
