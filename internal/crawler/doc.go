// Package crawler extracts the navigable parts of a fetched page.
//
// # Components
//
//   - Parser: decodes a page to UTF-8 and collects its title, links and images
//   - Resolve: turns a reference found in a page into an absolute URL
//
// Links come from <a href> and images from <img src>, in document order.
// Elements without the attribute (or with an empty one) are skipped, and so
// are references that do not parse as URLs.
//
// # Usage
//
//	parser, err := crawler.NewParser(doc.URL)
//	page, err := parser.Parse(bytes.NewReader(doc.Body), doc.ContentType)
package crawler
