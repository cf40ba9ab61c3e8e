package domain

// PresetFolders are the built-in folders every installation starts with.
// They cannot be renamed or deleted and carry no custom icon.
var PresetFolders = []string{
	"Favorites",
	"Reading List",
	"Work",
	"Personal",
}

// IsPresetFolder reports whether name is one of the built-in folders.
// Folder names are case-sensitive.
func IsPresetFolder(name string) bool {
	for _, p := range PresetFolders {
		if p == name {
			return true
		}
	}
	return false
}
