package model

import "time"

// Download describes an image written to disk.
type Download struct {
	// URL is the absolute image URL.
	URL string `json:"url"`

	// FileName is the base name of the written file.
	FileName string `json:"file_name"`

	// Path is the full path of the written file.
	Path string `json:"path"`

	// Bytes is the number of bytes written.
	Bytes int64 `json:"bytes"`

	// ContentType is the Content-Type reported by the server.
	ContentType string `json:"content_type,omitempty"`

	// PageURL is the page the image was selected from, if any.
	PageURL string `json:"page_url,omitempty"`

	// Timestamp is when the download finished.
	Timestamp time.Time `json:"timestamp"`
}

// Visit is a history record of one successful page fetch.
type Visit struct {
	ID         int64     `json:"id"`
	URL        string    `json:"url"`
	Host       string    `json:"host"`
	Title      string    `json:"title"`
	StatusCode int       `json:"status_code"`
	LinkCount  int       `json:"link_count"`
	ImageCount int       `json:"image_count"`
	SavedAs    string    `json:"saved_as,omitempty"`
	Hash       string    `json:"hash"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewVisit builds a Visit from a Document, its extracted Page and the file it
// was saved to (empty when saving failed).
func NewVisit(doc *Document, page *Page, savedAs string) *Visit {
	v := &Visit{
		URL:        doc.URL,
		Host:       doc.Host(),
		StatusCode: doc.StatusCode,
		SavedAs:    savedAs,
		Hash:       doc.Hash,
		Timestamp:  doc.FetchedAt,
	}
	if page != nil {
		v.Title = page.Title
		v.LinkCount = len(page.Links)
		v.ImageCount = len(page.Images)
	}
	return v
}

// History is a snapshot of recorded visits and downloads, newest first.
type History struct {
	Visits    []Visit    `json:"visits"`
	Downloads []Download `json:"downloads"`
}

// HostCounts returns the number of visits per host.
func (h *History) HostCounts() map[string]int {
	counts := make(map[string]int)
	for _, v := range h.Visits {
		counts[v.Host]++
	}
	return counts
}

// TotalDownloadBytes returns the sum of all download sizes.
func (h *History) TotalDownloadBytes() int64 {
	var total int64
	for _, d := range h.Downloads {
		total += d.Bytes
	}
	return total
}
