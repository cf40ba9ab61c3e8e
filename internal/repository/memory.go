package repository

import (
	"sync"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

// MemoryRepository is an in-process implementation of all repository
// interfaces. Used by tests and by deployments that do not persist to disk.
type MemoryRepository struct {
	mu        sync.Mutex
	bookmarks []*domain.BookmarkRecord
	trash     []*domain.TrashedRecord
	folders   []string
	icons     map[string]string
	status    *domain.SyncStatus
	settings  *domain.AppSettings
	listeners []Listener

	// FailWrites makes every Save return an error, for exercising
	// degraded-write paths in tests. FailFolderWrites limits the failure
	// to the folder and icon saves.
	FailWrites       bool
	FailFolderWrites bool
}

// NewMemoryRepository returns an empty in-memory repository with default
// settings.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		icons:    make(map[string]string),
		status:   &domain.SyncStatus{},
		settings: domain.DefaultSettings(),
	}
}

var errWriteFailed = &writeError{}

type writeError struct{}

func (*writeError) Error() string { return "write failed" }

func (m *MemoryRepository) OnChange(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

func (m *MemoryRepository) notify() {
	m.mu.Lock()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, l := range listeners {
		l()
	}
}

func (m *MemoryRepository) LoadBookmarks() []*domain.BookmarkRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.BookmarkRecord, len(m.bookmarks))
	copy(out, m.bookmarks)
	return out
}

func (m *MemoryRepository) SaveBookmarks(records []*domain.BookmarkRecord) error {
	if m.FailWrites {
		return errWriteFailed
	}
	m.mu.Lock()
	m.bookmarks = make([]*domain.BookmarkRecord, len(records))
	copy(m.bookmarks, records)
	m.mu.Unlock()
	m.notify()
	return nil
}

func (m *MemoryRepository) LoadTrash() []*domain.TrashedRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.TrashedRecord, len(m.trash))
	copy(out, m.trash)
	return out
}

func (m *MemoryRepository) SaveTrash(records []*domain.TrashedRecord) error {
	if m.FailWrites {
		return errWriteFailed
	}
	m.mu.Lock()
	m.trash = make([]*domain.TrashedRecord, len(records))
	copy(m.trash, records)
	m.mu.Unlock()
	m.notify()
	return nil
}

func (m *MemoryRepository) LoadCustomFolders() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.folders))
	copy(out, m.folders)
	return out
}

func (m *MemoryRepository) SaveCustomFolders(names []string) error {
	if m.FailWrites || m.FailFolderWrites {
		return errWriteFailed
	}
	m.mu.Lock()
	m.folders = make([]string, len(names))
	copy(m.folders, names)
	m.mu.Unlock()
	m.notify()
	return nil
}

func (m *MemoryRepository) LoadIcons() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.icons))
	for k, v := range m.icons {
		out[k] = v
	}
	return out
}

func (m *MemoryRepository) SaveIcons(icons map[string]string) error {
	if m.FailWrites || m.FailFolderWrites {
		return errWriteFailed
	}
	m.mu.Lock()
	m.icons = make(map[string]string, len(icons))
	for k, v := range icons {
		m.icons[k] = v
	}
	m.mu.Unlock()
	m.notify()
	return nil
}

func (m *MemoryRepository) LoadStatus() *domain.SyncStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *m.status
	return &s
}

func (m *MemoryRepository) SaveStatus(status *domain.SyncStatus) error {
	if m.FailWrites {
		return errWriteFailed
	}
	m.mu.Lock()
	s := *status
	m.status = &s
	m.mu.Unlock()
	return nil
}

func (m *MemoryRepository) LoadSettings() *domain.AppSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *m.settings
	return &s
}

func (m *MemoryRepository) SaveSettings(settings *domain.AppSettings) error {
	if m.FailWrites {
		return errWriteFailed
	}
	m.mu.Lock()
	s := *settings
	m.settings = &s
	m.mu.Unlock()
	return nil
}
