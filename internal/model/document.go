package model

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"time"
)

// Document is the raw result of fetching one URL.
// A Document is owned by the navigation step that fetched it and is replaced,
// never mutated, on the next fetch.
type Document struct {
	// URL is the source URL as requested by the operator or selected from a
	// link list. Relative references in the body are resolved against it.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the value of the Content-Type response header.
	ContentType string `json:"content_type"`

	// Body is the complete response body.
	Body []byte `json:"-"`

	// Hash is the SHA-256 hex digest of Body.
	Hash string `json:"hash"`

	// FetchedAt is when the body finished downloading.
	FetchedAt time.Time `json:"fetched_at"`

	// Truncated is set when Body was cut at the fetcher's size cap.
	Truncated bool `json:"truncated,omitempty"`
}

// NewDocument builds a Document and computes its hash.
func NewDocument(rawURL string, statusCode int, contentType string, body []byte) *Document {
	d := &Document{
		URL:         rawURL,
		StatusCode:  statusCode,
		ContentType: contentType,
		Body:        body,
		FetchedAt:   time.Now(),
	}
	d.ComputeHash()
	return d
}

// ComputeHash calculates the SHA-256 hash of the body.
func (d *Document) ComputeHash() {
	sum := sha256.Sum256(d.Body)
	d.Hash = hex.EncodeToString(sum[:])
}

// Host returns the hostname of the Document URL without port.
// It returns an empty string when the URL cannot be parsed.
func (d *Document) Host() string {
	u, err := url.Parse(d.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Size returns the body length in bytes.
func (d *Document) Size() int {
	return len(d.Body)
}
