package repository

import "github.com/MrSnakeDoc/stash/internal/domain"

// Listener is invoked after a successful write to a repository. Consumers
// (e.g. a UI layer) register instead of relying on ambient events.
type Listener func()

// BookmarkRepository persists the live bookmark list and the trash list as
// two independent blobs. Load methods never fail: a missing or corrupted
// blob degrades to an empty result so a bad write never crashes the caller.
type BookmarkRepository interface {
	LoadBookmarks() []*domain.BookmarkRecord
	SaveBookmarks(records []*domain.BookmarkRecord) error
	LoadTrash() []*domain.TrashedRecord
	SaveTrash(records []*domain.TrashedRecord) error
	OnChange(l Listener)
}

// FolderRepository persists the custom folder name list and the
// folder-to-icon map.
type FolderRepository interface {
	LoadCustomFolders() []string
	SaveCustomFolders(names []string) error
	LoadIcons() map[string]string
	SaveIcons(icons map[string]string) error
	OnChange(l Listener)
}

// SyncStatusRepository persists the outcome of the last completed sync.
type SyncStatusRepository interface {
	LoadStatus() *domain.SyncStatus
	SaveStatus(status *domain.SyncStatus) error
}

// SettingsRepository persists the app settings snapshot.
type SettingsRepository interface {
	LoadSettings() *domain.AppSettings
	SaveSettings(settings *domain.AppSettings) error
}
