package seed

import (
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/stash/internal/folders"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/store"
)

// Importer feeds a seed file through the record store so first-run
// provisioning gets the same dedup and normalization as any other add.
type Importer struct {
	loader   *Loader
	records  *store.RecordStore
	registry *folders.Registry
	logger   logger.Logger
}

// NewImporter creates a seed importer for the given file.
func NewImporter(
	seedFile string,
	records *store.RecordStore,
	registry *folders.Registry,
	log logger.Logger,
) *Importer {
	return &Importer{
		loader:   NewLoader(seedFile),
		records:  records,
		registry: registry,
		logger:   log,
	}
}

// Run imports the seed file once. Folders are created as needed; records
// already present (by normalized URL) are skipped. Returns how many
// records were added.
func (im *Importer) Run() (int, error) {
	config, err := im.loader.Load()
	if err != nil {
		return 0, err
	}

	added, skipped := 0, 0
	for _, group := range config {
		var tag *string
		if group.Folder != "" {
			if err := im.ensureFolder(group.Folder, group.Icon); err != nil {
				return added, err
			}
			folder := group.Folder
			tag = &folder
		}

		for _, entry := range group.Bookmarks {
			if entry.URL == "" {
				continue
			}
			res := im.records.Add(entry.URL, entry.Title, entry.Description, tag)
			switch res.Status {
			case store.StatusAdded:
				added++
			case store.StatusDuplicate:
				skipped++
			case store.StatusFailed:
				im.logger.Warn("seed entry rejected",
					logger.String("url", entry.URL))
			}
		}
	}

	im.logger.Info("seed import finished",
		logger.Int("added", added),
		logger.Int("skipped", skipped))
	return added, nil
}

// ensureFolder creates the folder unless it already exists (preset or
// custom).
func (im *Importer) ensureFolder(name, icon string) error {
	err := im.registry.CreateFolder(name, icon)
	if err == nil || errors.Is(err, folders.ErrFolderExists) {
		return nil
	}
	return fmt.Errorf("failed to create seed folder %q: %w", name, err)
}
