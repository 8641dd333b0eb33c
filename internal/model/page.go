package model

// Page holds what the extractor found in a Document.
// Links and Images are absolute URLs in document order; the interactive
// menu addresses them by 1-based position.
type Page struct {
	// URL is the Document URL the references were resolved against.
	URL string `json:"url"`

	// Title is the text of the first <title> element, or empty.
	Title string `json:"title"`

	// Links are the resolved href values of <a> elements.
	Links []string `json:"links"`

	// Images are the resolved src values of <img> elements.
	Images []string `json:"images"`
}

// HasLinks reports whether at least one link was extracted.
func (p *Page) HasLinks() bool {
	return p != nil && len(p.Links) > 0
}

// HasImages reports whether at least one image was extracted.
func (p *Page) HasImages() bool {
	return p != nil && len(p.Images) > 0
}

// Link returns the link at the given 1-based position.
// The second return value is false when the position is out of range.
func (p *Page) Link(position int) (string, bool) {
	return at(p.Links, position)
}

// Image returns the image at the given 1-based position.
func (p *Page) Image(position int) (string, bool) {
	return at(p.Images, position)
}

func at(list []string, position int) (string, bool) {
	if position < 1 || position > len(list) {
		return "", false
	}
	return list[position-1], true
}
