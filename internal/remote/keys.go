package remote

import "strings"

const (
	// KeyPrefixUser is the prefix for all per-user remote data.
	KeyPrefixUser = "stash:user:"
	// KeySuffixBookmarks is the per-user bookmarks hash.
	KeySuffixBookmarks = ":bookmarks"
	// KeySuffixTrash is the per-user trash hash.
	KeySuffixTrash = ":trash"
)

// BookmarksKey returns the Redis key for a user's bookmark hash. Hash
// fields are normalized URLs (lower-cased so the uniqueness constraint is
// case-insensitive), values are JSON rows.
func BookmarksKey(userID string) string {
	return KeyPrefixUser + userID + KeySuffixBookmarks
}

// TrashKey returns the Redis key for a user's trash hash.
func TrashKey(userID string) string {
	return KeyPrefixUser + userID + KeySuffixTrash
}

// FieldForURL returns the hash field for a normalized URL.
func FieldForURL(url string) string {
	return strings.ToLower(url)
}
