package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/folders"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/repository"
	"github.com/MrSnakeDoc/stash/internal/store"
)

// ImportMode selects how an import treats the current local state.
type ImportMode string

const (
	// ModeReplace overwrites records, trash, folders, icons and settings
	// wholesale. Destructive and irreversible; callers must confirm first.
	ModeReplace ImportMode = "replace"
	// ModeMerge adds only records not already present and unions folders;
	// settings are left untouched.
	ModeMerge ImportMode = "merge"
)

// ValidationResult summarizes a document without mutating anything, so a
// caller can present a confirmation before committing.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	Error     string `json:"error,omitempty"`
	Version   int    `json:"version,omitempty"`
	Bookmarks int    `json:"bookmarks"`
	Trash     int    `json:"trash"`
	Folders   int    `json:"folders"`
}

// ImportResult is the outcome of an import. Any failure during parsing or
// writing yields Success=false with zero counts, never a partial import
// reported as progress.
type ImportResult struct {
	Success  bool   `json:"success"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// Codec serializes and restores the full local state through the owning
// modules' APIs; it never writes a persisted blob directly.
type Codec struct {
	records  *store.RecordStore
	folders  *folders.Registry
	settings repository.SettingsRepository
	logger   logger.Logger
	now      func() time.Time
}

// NewCodec creates a backup codec.
func NewCodec(
	records *store.RecordStore,
	registry *folders.Registry,
	settings repository.SettingsRepository,
	log logger.Logger,
) *Codec {
	return &Codec{
		records:  records,
		folders:  registry,
		settings: settings,
		logger:   log,
		now:      time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (c *Codec) SetClock(now func() time.Time) {
	c.now = now
}

// Export snapshots the three stores plus settings into a versioned document.
// Pure read.
func (c *Codec) Export() *domain.BackupDocument {
	return &domain.BackupDocument{
		Version:    domain.BackupSchemaVersion,
		ExportedAt: c.now().UnixMilli(),
		AppName:    domain.BackupAppName,
		Data: domain.BackupData{
			Bookmarks:     c.records.List(),
			Trash:         c.records.Trash(),
			CustomFolders: c.folders.CustomFolders(),
			FolderIcons:   c.folders.Icons(),
			Settings:      c.settings.LoadSettings(),
		},
	}
}

// ExportJSON renders the export as indented JSON.
func (c *Codec) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(c.Export(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backup: %w", err)
	}
	return data, nil
}

// rawDocument mirrors BackupDocument with loose types so structural
// problems surface as validation errors instead of unmarshal failures.
type rawDocument struct {
	Version *int            `json:"version"`
	AppName string          `json:"appName"`
	Data    json.RawMessage `json:"data"`
}

type rawData struct {
	Bookmarks *json.RawMessage `json:"bookmarks"`
}

// Validate runs structural and version checks on a raw document and counts
// its contents. Nothing is mutated.
func (c *Codec) Validate(raw []byte) ValidationResult {
	var probe rawDocument
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ValidationResult{Error: "not a valid backup document"}
	}
	if probe.Version == nil {
		return ValidationResult{Error: "missing version field"}
	}
	if *probe.Version > domain.BackupSchemaVersion {
		return ValidationResult{
			Version: *probe.Version,
			Error: fmt.Sprintf("unsupported backup version %d (supported up to %d)",
				*probe.Version, domain.BackupSchemaVersion),
		}
	}

	var data rawData
	if len(probe.Data) == 0 || json.Unmarshal(probe.Data, &data) != nil || data.Bookmarks == nil {
		return ValidationResult{Version: *probe.Version, Error: "missing bookmarks list"}
	}

	var doc domain.BackupDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ValidationResult{Version: *probe.Version, Error: "malformed backup payload"}
	}

	return ValidationResult{
		Valid:     true,
		Version:   doc.Version,
		Bookmarks: len(doc.Data.Bookmarks),
		Trash:     len(doc.Data.Trash),
		Folders:   len(doc.Data.CustomFolders),
	}
}

// Import applies a raw document in the given mode. The version ceiling is
// re-checked here so a caller skipping Validate still fails closed before
// any mutation.
func (c *Codec) Import(raw []byte, mode ImportMode) ImportResult {
	validation := c.Validate(raw)
	if !validation.Valid {
		return ImportResult{Error: validation.Error}
	}

	var doc domain.BackupDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ImportResult{Error: "malformed backup payload"}
	}

	switch mode {
	case ModeReplace:
		return c.importReplace(&doc)
	case ModeMerge:
		return c.importMerge(&doc)
	default:
		return ImportResult{Error: fmt.Sprintf("unknown import mode %q", mode)}
	}
}

func (c *Codec) importReplace(doc *domain.BackupDocument) ImportResult {
	if err := c.records.ReplaceAll(doc.Data.Bookmarks, doc.Data.Trash); err != nil {
		c.logger.Error("replace import failed", logger.Error(err))
		return ImportResult{Error: err.Error()}
	}
	if err := c.folders.ReplaceAll(doc.Data.CustomFolders, doc.Data.FolderIcons); err != nil {
		c.logger.Error("replace import failed on folders", logger.Error(err))
		return ImportResult{Error: err.Error()}
	}
	if doc.Data.Settings != nil {
		if err := c.settings.SaveSettings(doc.Data.Settings); err != nil {
			c.logger.Error("replace import failed on settings", logger.Error(err))
			return ImportResult{Error: err.Error()}
		}
	}

	imported := len(doc.Data.Bookmarks)
	c.logger.Info("backup restored (replace)",
		logger.Int("bookmarks", imported),
		logger.Int("trash", len(doc.Data.Trash)))
	return ImportResult{Success: true, Imported: imported}
}

func (c *Codec) importMerge(doc *domain.BackupDocument) ImportResult {
	// Folders first: a failure here aborts before any record lands, so an
	// error result never hides already-imported records.
	if _, err := c.folders.MergeFolders(doc.Data.CustomFolders, doc.Data.FolderIcons); err != nil {
		c.logger.Error("merge import failed on folders", logger.Error(err))
		return ImportResult{Error: err.Error()}
	}

	imported, skipped, err := c.records.MergeRecords(doc.Data.Bookmarks)
	if err != nil {
		c.logger.Error("merge import failed", logger.Error(err))
		return ImportResult{Error: err.Error()}
	}

	c.logger.Info("backup merged",
		logger.Int("imported", imported),
		logger.Int("skipped", skipped))
	return ImportResult{Success: true, Imported: imported, Skipped: skipped}
}
