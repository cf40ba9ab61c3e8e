package deps

import (
	"time"

	"github.com/MrSnakeDoc/stash/internal/backup"
	"github.com/MrSnakeDoc/stash/internal/cloudsync"
	"github.com/MrSnakeDoc/stash/internal/folders"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/store"
	"github.com/MrSnakeDoc/stash/internal/syncguard"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	Records *store.RecordStore // live bookmarks and trash
	Folders *folders.Registry  // folder taxonomy
	Backup  *backup.Codec      // export/import
	Guard   *syncguard.Guard   // sole gateway to the sync engine
	Engine  *cloudsync.Engine  // invoked only through Guard
}
