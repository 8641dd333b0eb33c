package crawler

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/nao1215/linkwalk/internal/model"
)

// Parser extracts the title, links and images of an HTML page.
type Parser struct {
	// baseURL is the URL the page was requested from. Relative references
	// are resolved against it.
	baseURL *url.URL
}

// NewParser creates a Parser for a page fetched from baseURL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	return &Parser{baseURL: u}, nil
}

// Parse reads an HTML page and returns what it references.
// contentType is the Content-Type header of the response; its charset (or a
// <meta charset> in the page) selects the decoder. Unknown charsets fall
// back to windows-1252, like browsers do.
func (p *Parser) Parse(content io.Reader, contentType string) (*model.Page, error) {
	utf8Content, err := charset.NewReader(content, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(utf8Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	page := &model.Page{
		URL:    p.baseURL.String(),
		Title:  strings.TrimSpace(doc.Find("title").First().Text()),
		Links:  p.collect(doc, "a", "href"),
		Images: p.collect(doc, "img", "src"),
	}
	return page, nil
}

// collect returns the resolved attr values of every element matching
// selector, in document order.
func (p *Parser) collect(doc *goquery.Document, selector, attr string) []string {
	refs := make([]string, 0)
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		ref, ok := s.Attr(attr)
		if !ok {
			return
		}
		if resolved, ok := Resolve(p.baseURL, ref); ok {
			refs = append(refs, resolved)
		}
	})
	return refs
}

// Extractor adapts Parser to fetched documents.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses doc.Body, resolving references against doc.URL.
func (e *Extractor) Extract(doc *model.Document) (*model.Page, error) {
	parser, err := NewParser(doc.URL)
	if err != nil {
		return nil, err
	}
	return parser.Parse(bytes.NewReader(doc.Body), doc.ContentType)
}
