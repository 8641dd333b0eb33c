package storage

import (
	"crypto/md5" //nolint:gosec // test mirrors the naming digest
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec // test mirrors the naming digest
	return hex.EncodeToString(sum[:])
}

func TestPageFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "bare host", url: "https://example.com", want: "page-example.com.html"},
		{name: "host with path", url: "https://example.com/about?x=1", want: "page-example.com.html"},
		{name: "port dropped", url: "https://example.com:8443/", want: "page-example.com.html"},
		{name: "subdomain", url: "https://www.example.org/a/b", want: "page-www.example.org.html"},
		{name: "no host", url: "/relative/path", wantErr: true},
		{name: "unparsable", url: "https://exa mple.com/%zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := PageFileName(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tt.url, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("PageFileName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}

	t.Run("no host returns ErrNoHost", func(t *testing.T) {
		t.Parallel()
		if _, err := PageFileName("mailto:someone"); !errors.Is(err, ErrNoHost) {
			t.Errorf("expected ErrNoHost, got %v", err)
		}
	})
}

func TestImageFileName(t *testing.T) {
	t.Parallel()

	longBase := "very-long-name-" + strings.Repeat("x", 100) + ".png"
	longURL := "https://cdn.example.com/assets/" + longBase

	exactly100 := strings.Repeat("a", 96) + ".jpg"
	exactly101 := strings.Repeat("a", 97) + ".jpg"

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "simple basename", url: "https://example.com/img/logo.png", want: "logo.png"},
		{name: "query ignored", url: "https://example.com/logo.png?v=3", want: "logo.png"},
		{name: "trailing slash", url: "https://example.com/images/", want: "images"},
		{name: "long basename hashed", url: longURL, want: md5Hex(longURL) + ".png"},
		{name: "100 characters kept", url: "https://example.com/" + exactly100, want: exactly100},
		{name: "101 characters hashed", url: "https://example.com/" + exactly101, want: md5Hex("https://example.com/"+exactly101) + ".jpg"},
		{name: "root path", url: "https://example.com/", want: md5Hex("https://example.com/")},
		{name: "empty path", url: "https://example.com", want: md5Hex("https://example.com")},
		{name: "dot dot", url: "https://example.com/a/..", want: md5Hex("https://example.com/a/..")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ImageFileName(tt.url)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ImageFileName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestImageFileName_Deterministic(t *testing.T) {
	t.Parallel()

	u := "https://cdn.example.com/assets/" + strings.Repeat("z", 150) + ".gif"

	first, err := ImageFileName(u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := ImageFileName(u)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("name changed between calls: %q vs %q", first, again)
		}
	}
	if len(first) != 32+len(".gif") {
		t.Errorf("expected md5 name with extension, got %q", first)
	}
}
