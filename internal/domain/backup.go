package domain

// BackupSchemaVersion is the highest backup document version this build can
// read. Documents with a greater version are rejected before any mutation.
const BackupSchemaVersion = 1

// BackupAppName identifies documents produced by this application.
const BackupAppName = "stash"

// BackupDocument is the versioned transport format for a full export of the
// local state.
type BackupDocument struct {
	Version    int        `json:"version"`
	ExportedAt int64      `json:"exportedAt"` // unix epoch milliseconds
	AppName    string     `json:"appName"`
	Data       BackupData `json:"data"`
}

// BackupData is the payload of a BackupDocument: everything the local
// stores persist, in one place.
type BackupData struct {
	Bookmarks     []*BookmarkRecord `json:"bookmarks"`
	Trash         []*TrashedRecord  `json:"trash"`
	CustomFolders []string          `json:"customFolders"`
	FolderIcons   map[string]string `json:"folderIcons"`
	Settings      *AppSettings      `json:"settings"`
}
