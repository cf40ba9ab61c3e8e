package domain

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare host gets https scheme",
			in:   "example.com",
			want: "https://example.com",
		},
		{
			name: "trailing slash only path collapsed",
			in:   "https://example.com/",
			want: "https://example.com",
		},
		{
			name: "host lowercased",
			in:   "https://EXAMPLE.COM/Path",
			want: "https://example.com/Path",
		},
		{
			name: "fragment stripped",
			in:   "https://example.com/docs#section-2",
			want: "https://example.com/docs",
		},
		{
			name: "query preserved",
			in:   "example.com/search?q=go",
			want: "https://example.com/search?q=go",
		},
		{
			name: "explicit http scheme kept",
			in:   "http://example.com",
			want: "http://example.com",
		},
		{
			name: "whitespace trimmed",
			in:   "  example.com  ",
			want: "https://example.com",
		},
		{
			name: "deep path with trailing slash kept",
			in:   "https://example.com/a/b/",
			want: "https://example.com/a/b/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if err != nil {
				t.Fatalf("NormalizeURL(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	inputs := []string{
		"example.com",
		"https://EXAMPLE.com/",
		"http://a.b.c/path?x=1#frag",
		"example.com/a/b/",
	}

	for _, in := range inputs {
		once, err := NormalizeURL(in)
		if err != nil {
			t.Fatalf("NormalizeURL(%q) error: %v", in, err)
		}
		twice, err := NormalizeURL(once)
		if err != nil {
			t.Fatalf("NormalizeURL(%q) error: %v", once, err)
		}
		if once != twice {
			t.Errorf("normalization not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestNormalizeURLErrors(t *testing.T) {
	for _, in := range []string{"", "   ", "https://"} {
		if got, err := NormalizeURL(in); err == nil {
			t.Errorf("NormalizeURL(%q) = %q, want error", in, got)
		}
	}
}

func TestURLHost(t *testing.T) {
	if got := URLHost("https://example.com/path"); got != "example.com" {
		t.Errorf("URLHost() = %q, want example.com", got)
	}
}

func TestSameURL(t *testing.T) {
	if !SameURL("https://example.com/A", "https://example.com/a") {
		t.Error("SameURL should compare case-insensitively")
	}
	if SameURL("https://example.com", "https://example.org") {
		t.Error("SameURL matched different hosts")
	}
}
