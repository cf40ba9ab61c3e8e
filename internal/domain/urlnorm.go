package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL converts a raw URL into the canonical form used for all
// equality and uniqueness comparisons:
//   - "https://" is prepended when no scheme is present
//   - scheme and host are lower-cased
//   - the fragment is stripped
//   - a trailing-slash-only path is collapsed ("https://a.com/" -> "https://a.com")
//
// The function is idempotent: NormalizeURL(NormalizeURL(u)) == NormalizeURL(u).
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty url")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("url %q has no host", raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	if u.Path == "/" && u.RawQuery == "" {
		u.Path = ""
	}

	return u.String(), nil
}

// SameURL reports whether two normalized URLs identify the same bookmark.
// The comparison is case-insensitive to tolerate records that predate
// normalization (e.g. rows written by older clients to the remote store).
func SameURL(a, b string) bool {
	return strings.EqualFold(a, b)
}

// URLHost returns the host part of a normalized URL, used as the default
// title when none is provided.
func URLHost(normalized string) string {
	u, err := url.Parse(normalized)
	if err != nil || u.Host == "" {
		return normalized
	}
	return u.Host
}
