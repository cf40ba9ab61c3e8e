package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/repository"
)

// ErrNotFound marks lookups of ids absent from the targeted list.
var ErrNotFound = errors.New("record not found")

// AddStatus is the outcome of an Add call.
type AddStatus string

const (
	StatusAdded     AddStatus = "added"
	StatusDuplicate AddStatus = "duplicate"
	StatusFailed    AddStatus = "failed"
)

// AddResult carries the created (or pre-existing duplicate) record.
// Record is nil when Status is StatusFailed.
type AddResult struct {
	Status AddStatus
	Record *domain.BookmarkRecord
}

// RecordUpdate is a partial field update. Nil pointers leave the field
// untouched; ClearTag removes the folder reference.
type RecordUpdate struct {
	URL         *string
	Title       *string
	Description *string
	Tag         *string
	ClearTag    bool
}

// RecordStore owns the live bookmark list and the trash list. The full
// list is re-serialized on every mutation, so each call is a single
// conceptual write.
type RecordStore struct {
	repo     repository.BookmarkRepository
	settings repository.SettingsRepository
	logger   logger.Logger
	now      func() time.Time
}

// NewRecordStore creates a record store backed by the given repositories.
func NewRecordStore(
	repo repository.BookmarkRepository,
	settings repository.SettingsRepository,
	log logger.Logger,
) *RecordStore {
	return &RecordStore{
		repo:     repo,
		settings: settings,
		logger:   log,
		now:      time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (s *RecordStore) SetClock(now func() time.Time) {
	s.now = now
}

// List returns the live bookmark list, most-recent-first.
func (s *RecordStore) List() []*domain.BookmarkRecord {
	return s.repo.LoadBookmarks()
}

// Trash returns the trashed records.
func (s *RecordStore) Trash() []*domain.TrashedRecord {
	return s.repo.LoadTrash()
}

// Get returns the live record with the given id, or nil.
func (s *RecordStore) Get(id string) *domain.BookmarkRecord {
	for _, rec := range s.repo.LoadBookmarks() {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

// Add normalizes the URL and creates a new record at the head of the list.
// If a live record with the same normalized URL already exists it is
// returned with StatusDuplicate and nothing is written. After writing, the
// list is re-read to verify the record landed; a failed verification
// yields StatusFailed.
func (s *RecordStore) Add(rawURL, title, description string, tag *string) AddResult {
	normalized, err := domain.NormalizeURL(rawURL)
	if err != nil {
		s.logger.Warn("rejected bookmark with invalid url",
			logger.String("url", rawURL),
			logger.Error(err))
		return AddResult{Status: StatusFailed}
	}

	records := s.repo.LoadBookmarks()
	for _, rec := range records {
		if rec.URL == normalized {
			s.logger.Debug("duplicate bookmark",
				logger.String("url", normalized))
			return AddResult{Status: StatusDuplicate, Record: rec}
		}
	}

	if title == "" {
		title = domain.URLHost(normalized)
	}

	rec := &domain.BookmarkRecord{
		ID:          uuid.NewString(),
		URL:         normalized,
		Title:       title,
		Description: description,
		Tag:         tag,
		CreatedAt:   s.now(),
	}

	records = append([]*domain.BookmarkRecord{rec}, records...)
	if err := s.repo.SaveBookmarks(records); err != nil {
		s.logger.Error("failed to persist bookmark",
			logger.String("url", normalized),
			logger.Error(err))
		return AddResult{Status: StatusFailed}
	}

	// Re-read to verify the write actually landed.
	if s.Get(rec.ID) == nil {
		s.logger.Error("bookmark write could not be verified",
			logger.String("id", rec.ID))
		return AddResult{Status: StatusFailed}
	}

	s.logger.Info("bookmark added",
		logger.String("id", rec.ID),
		logger.String("url", normalized))
	return AddResult{Status: StatusAdded, Record: rec}
}

// Update merges the given fields into the record in place. A URL update is
// renormalized but not re-checked against other live records: edits are
// rare and user-directed, and flagging a collision mid-edit would force a
// merge flow the data model has no answer for. Add remains the only
// dedup-checked entry point.
func (s *RecordStore) Update(id string, upd RecordUpdate) (*domain.BookmarkRecord, error) {
	records := s.repo.LoadBookmarks()
	var target *domain.BookmarkRecord
	for _, rec := range records {
		if rec.ID == id {
			target = rec
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if upd.URL != nil {
		normalized, err := domain.NormalizeURL(*upd.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid url: %w", err)
		}
		target.URL = normalized
	}
	if upd.Title != nil {
		target.Title = *upd.Title
	}
	if upd.Description != nil {
		target.Description = *upd.Description
	}
	if upd.ClearTag {
		target.Tag = nil
	} else if upd.Tag != nil {
		target.Tag = upd.Tag
	}

	if err := s.repo.SaveBookmarks(records); err != nil {
		return nil, fmt.Errorf("failed to persist update: %w", err)
	}
	return target, nil
}

// Remove soft-deletes a record: it leaves the live list and enters the
// trash with the retention policy in effect right now. Returns the trashed
// record, or nil when the id is unknown.
func (s *RecordStore) Remove(id string) *domain.TrashedRecord {
	records := s.repo.LoadBookmarks()
	idx := -1
	for i, rec := range records {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	removed := records[idx]
	records = append(records[:idx], records[idx+1:]...)

	trashed := &domain.TrashedRecord{
		BookmarkRecord: *removed,
		DeletedAt:      s.now(),
		RetentionDays:  s.settings.LoadSettings().RetentionDays,
	}
	trashed.IsShortlisted = false

	// Trash first. If that write fails the record is still live; writing
	// the live list first would let a failed trash write erase the record
	// outright.
	if err := s.repo.SaveTrash(append(s.repo.LoadTrash(), trashed)); err != nil {
		s.logger.Error("failed to persist trash entry", logger.Error(err))
		return nil
	}
	if err := s.repo.SaveBookmarks(records); err != nil {
		s.logger.Error("failed to persist removal", logger.Error(err))
		return nil
	}

	s.logger.Info("bookmark trashed",
		logger.String("id", id),
		logger.Int("retention_days", trashed.RetentionDays))
	return trashed
}

// Restore promotes a trashed record back into the live list, inserted
// before the first record older than it so recency order is preserved.
// The original CreatedAt survives the round-trip.
func (s *RecordStore) Restore(id string) (*domain.BookmarkRecord, error) {
	trash := s.repo.LoadTrash()
	idx := -1
	for i, t := range trash {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	restored := trash[idx].BookmarkRecord
	trash = append(trash[:idx], trash[idx+1:]...)

	records := s.repo.LoadBookmarks()
	insertAt := len(records)
	for i, rec := range records {
		if rec.CreatedAt.Before(restored.CreatedAt) {
			insertAt = i
			break
		}
	}
	records = append(records, nil)
	copy(records[insertAt+1:], records[insertAt:])
	records[insertAt] = &restored

	if err := s.repo.SaveBookmarks(records); err != nil {
		return nil, fmt.Errorf("failed to persist restore: %w", err)
	}
	if err := s.repo.SaveTrash(trash); err != nil {
		return nil, fmt.Errorf("failed to persist trash after restore: %w", err)
	}

	s.logger.Info("bookmark restored", logger.String("id", id))
	return &restored, nil
}

// PermanentlyErase removes a record from the trash with no further
// lifecycle. Returns false when the id is unknown.
func (s *RecordStore) PermanentlyErase(id string) bool {
	trash := s.repo.LoadTrash()
	for i, t := range trash {
		if t.ID == id {
			trash = append(trash[:i], trash[i+1:]...)
			if err := s.repo.SaveTrash(trash); err != nil {
				s.logger.Error("failed to persist permanent erase", logger.Error(err))
				return false
			}
			s.logger.Info("bookmark permanently erased", logger.String("id", id))
			return true
		}
	}
	return false
}

// PurgeExpired erases every trashed record whose retention window has
// elapsed and returns how many were removed.
func (s *RecordStore) PurgeExpired() int {
	now := s.now()
	trash := s.repo.LoadTrash()

	kept := trash[:0]
	purged := 0
	for _, t := range trash {
		if t.Expired(now) {
			purged++
			continue
		}
		kept = append(kept, t)
	}
	if purged == 0 {
		return 0
	}

	if err := s.repo.SaveTrash(kept); err != nil {
		s.logger.Error("failed to persist trash purge", logger.Error(err))
		return 0
	}
	return purged
}

// ToggleShortlist flips the transient selection flag on a record.
func (s *RecordStore) ToggleShortlist(id string) error {
	records := s.repo.LoadBookmarks()
	for _, rec := range records {
		if rec.ID == id {
			rec.IsShortlisted = !rec.IsShortlisted
			return s.repo.SaveBookmarks(records)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ClearAllShortlist clears the selection flag on every record.
func (s *RecordStore) ClearAllShortlist() error {
	records := s.repo.LoadBookmarks()
	changed := false
	for _, rec := range records {
		if rec.IsShortlisted {
			rec.IsShortlisted = false
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.repo.SaveBookmarks(records)
}

// Reorder rewrites the list in the given id order. Records not mentioned
// in ids keep their relative order and move to the end rather than being
// dropped, so a partial id list cannot lose data.
func (s *RecordStore) Reorder(ids []string) error {
	records := s.repo.LoadBookmarks()
	byID := make(map[string]*domain.BookmarkRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	ordered := make([]*domain.BookmarkRecord, 0, len(records))
	placed := make(map[string]bool, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok && !placed[id] {
			ordered = append(ordered, rec)
			placed[id] = true
		}
	}
	for _, rec := range records {
		if !placed[rec.ID] {
			ordered = append(ordered, rec)
		}
	}

	return s.repo.SaveBookmarks(ordered)
}

// RetagAll rewrites the folder reference on every record tagged oldTag.
// A nil newTag clears the reference. Returns how many records changed.
// Used by the folder registry for rename and delete cascades.
func (s *RecordStore) RetagAll(oldTag string, newTag *string) int {
	records := s.repo.LoadBookmarks()
	changed := 0
	for _, rec := range records {
		if rec.Tag != nil && *rec.Tag == oldTag {
			if newTag == nil {
				rec.Tag = nil
			} else {
				tag := *newTag
				rec.Tag = &tag
			}
			changed++
		}
	}
	if changed == 0 {
		return 0
	}
	if err := s.repo.SaveBookmarks(records); err != nil {
		s.logger.Error("failed to persist retag", logger.Error(err))
		return 0
	}
	return changed
}

// MergeRecords appends every incoming record whose normalized URL is not
// already live, preserving the incoming ids and timestamps. Incoming URLs
// are renormalized first; a backup or remote row carrying a raw form of an
// existing page must not slip past the dedup check. Comparison is
// case-insensitive. Returns (imported, skipped). One write for the whole
// batch.
func (s *RecordStore) MergeRecords(incoming []*domain.BookmarkRecord) (int, int, error) {
	records := s.repo.LoadBookmarks()

	imported, skipped := 0, 0
	for _, in := range incoming {
		normalized, err := domain.NormalizeURL(in.URL)
		if err != nil {
			s.logger.Warn("skipped merge record with invalid url",
				logger.String("url", in.URL),
				logger.Error(err))
			skipped++
			continue
		}
		if s.hasURL(records, normalized) {
			skipped++
			continue
		}
		rec := *in
		rec.URL = normalized
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		records = append(records, &rec)
		imported++
	}

	if imported == 0 {
		return 0, skipped, nil
	}
	if err := s.repo.SaveBookmarks(records); err != nil {
		return 0, 0, fmt.Errorf("failed to persist merged bookmarks: %w", err)
	}
	return imported, skipped, nil
}

// MergeTrash appends incoming trashed records not already present in the
// trash, matched by normalized URL. Returns how many were added.
func (s *RecordStore) MergeTrash(incoming []*domain.TrashedRecord) (int, error) {
	trash := s.repo.LoadTrash()

	added := 0
	for _, in := range incoming {
		normalized, err := domain.NormalizeURL(in.URL)
		if err != nil {
			s.logger.Warn("skipped merge trash entry with invalid url",
				logger.String("url", in.URL),
				logger.Error(err))
			continue
		}
		exists := false
		for _, t := range trash {
			if domain.SameURL(t.URL, normalized) {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		t := *in
		t.URL = normalized
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		trash = append(trash, &t)
		added++
	}

	if added == 0 {
		return 0, nil
	}
	if err := s.repo.SaveTrash(trash); err != nil {
		return 0, fmt.Errorf("failed to persist merged trash: %w", err)
	}
	return added, nil
}

// ReplaceAll overwrites the live list and the trash wholesale. Destructive;
// used by the replace-mode backup import only.
func (s *RecordStore) ReplaceAll(records []*domain.BookmarkRecord, trash []*domain.TrashedRecord) error {
	if records == nil {
		records = []*domain.BookmarkRecord{}
	}
	if trash == nil {
		trash = []*domain.TrashedRecord{}
	}
	if err := s.repo.SaveBookmarks(records); err != nil {
		return fmt.Errorf("failed to replace bookmarks: %w", err)
	}
	if err := s.repo.SaveTrash(trash); err != nil {
		return fmt.Errorf("failed to replace trash: %w", err)
	}
	return nil
}

func (s *RecordStore) hasURL(records []*domain.BookmarkRecord, url string) bool {
	for _, rec := range records {
		if domain.SameURL(rec.URL, url) {
			return true
		}
	}
	return false
}
