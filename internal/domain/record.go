package domain

import "time"

// BookmarkRecord represents a single saved link.
// Records live in a single ordered list, most-recent-first; the list
// position doubles as the manual ordering index.
type BookmarkRecord struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier (random UUID).
	ID string `json:"id"`

	// URL is the canonical (normalized) URL of the bookmark.
	// At most one live record exists per normalized URL.
	URL string `json:"url"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// Title is the display title. Defaults to the URL host when the
	// caller does not provide one.
	Title string `json:"title"`

	// Description is optional free-form text.
	Description string `json:"description,omitempty"`

	// Tag references a folder by name. Nil means uncategorized.
	Tag *string `json:"tag"`

	// CreatedAt is when the bookmark was first saved.
	// Survives a trash round-trip unchanged.
	CreatedAt time.Time `json:"createdAt"`

	// ─────────────────────────────
	// Transient selection
	// ─────────────────────────────

	// IsShortlisted marks the record as selected for a bulk operation.
	// Never synced to the remote store.
	IsShortlisted bool `json:"isShortlisted,omitempty"`
}

// TrashedRecord is a soft-deleted bookmark awaiting permanent erasure.
// RetentionDays is copied from settings at delete time so a later policy
// change does not retroactively affect items already in the trash.
type TrashedRecord struct {
	BookmarkRecord

	// DeletedAt is when the record was moved to the trash.
	DeletedAt time.Time `json:"deletedAt"`

	// RetentionDays is how long the record stays in the trash.
	RetentionDays int `json:"retentionDays"`
}

// ExpiresAt returns the moment the trashed record becomes eligible for
// permanent erasure.
func (t *TrashedRecord) ExpiresAt() time.Time {
	return t.DeletedAt.Add(time.Duration(t.RetentionDays) * 24 * time.Hour)
}

// Expired reports whether the retention window has elapsed at the given time.
func (t *TrashedRecord) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt())
}
