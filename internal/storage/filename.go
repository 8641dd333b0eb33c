package storage

import (
	"crypto/md5" //nolint:gosec // used for file naming, not security
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
)

// MaxFileNameLength is the longest URL path segment kept verbatim as an image
// file name. Longer names are replaced by a hash of the URL.
const MaxFileNameLength = 100

// pagePrefix and pageSuffix frame the hostname in full-page save names.
const (
	pagePrefix = "page-"
	pageSuffix = ".html"
)

// PageFileName returns the file name used to save the page at rawURL:
// "page-<hostname>.html". The port, if any, is not part of the name.
func PageFileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid page url: %w", err)
	}
	host := u.Hostname()
	if host == "" {
		return "", ErrNoHost
	}
	return pagePrefix + host + pageSuffix, nil
}

// ImageFileName returns the file name used to store the image at rawURL.
//
// The last segment of the URL path is used as-is when it is at most
// MaxFileNameLength characters. Longer segments become the MD5 hex digest of
// the full URL followed by the segment's extension. URLs without a usable
// segment (empty path, "/", "." or "..") are named by the digest alone.
func ImageFileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid image url: %w", err)
	}

	name := path.Base(u.EscapedPath())
	switch name {
	case "", "/", ".", "..":
		return urlDigest(rawURL), nil
	}

	if len(name) > MaxFileNameLength {
		return urlDigest(rawURL) + path.Ext(name), nil
	}
	return name, nil
}

// urlDigest returns the MD5 hex digest of rawURL.
func urlDigest(rawURL string) string {
	sum := md5.Sum([]byte(rawURL)) //nolint:gosec // used for file naming, not security
	return hex.EncodeToString(sum[:])
}
