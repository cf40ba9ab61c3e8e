package domain

import "time"

// AppSettings is the snapshot of user preferences persisted alongside the
// bookmark data and carried in backups.
type AppSettings struct {
	// RetentionDays is how long newly trashed records are kept before
	// permanent erasure. Copied onto each TrashedRecord at delete time.
	RetentionDays int `json:"retentionDays"`

	// SyncOnLaunch enables the once-daily foreground sync check.
	SyncOnLaunch bool `json:"syncOnLaunch"`
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() *AppSettings {
	return &AppSettings{
		RetentionDays: 30,
		SyncOnLaunch:  true,
	}
}

// SyncStatus records the outcome of the last completed sync. Updated only
// after a sync attempt finishes, never speculatively.
type SyncStatus struct {
	// LastSyncAt is nil until the first successful sync.
	LastSyncAt *time.Time `json:"lastSyncAt"`

	// LastUploaded and LastDownloaded are the counts reported by that sync.
	LastUploaded   int `json:"lastUploaded"`
	LastDownloaded int `json:"lastDownloaded"`
}
