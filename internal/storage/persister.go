package storage

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/linkwalk/internal/model"
)

// Persister writes pages and images under a single output directory.
type Persister struct {
	// dir is the output directory. Files are written directly inside it.
	dir string

	logger *slog.Logger
}

// PersisterOption configures a Persister.
type PersisterOption func(*Persister)

// WithLogger sets the logger used for save diagnostics.
func WithLogger(logger *slog.Logger) PersisterOption {
	return func(p *Persister) {
		p.logger = logger
	}
}

// NewPersister creates a Persister that writes into dir.
// An empty dir means the current working directory.
func NewPersister(dir string, opts ...PersisterOption) *Persister {
	if dir == "" {
		dir = "."
	}
	p := &Persister{dir: dir}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Dir returns the output directory.
func (p *Persister) Dir() string {
	return p.dir
}

// SavePage writes the raw body of doc to page-<hostname>.html and returns the
// path written. An existing file with the same name is overwritten.
func (p *Persister) SavePage(doc *model.Document) (string, error) {
	name, err := PageFileName(doc.URL)
	if err != nil {
		return "", &FileError{Op: "save", Path: doc.URL, Err: err}
	}

	target := filepath.Join(p.dir, name)
	if err := os.WriteFile(target, doc.Body, 0644); err != nil { //nolint:gosec // saved pages are meant to be readable
		return "", &FileError{Op: "save", Path: target, Err: err}
	}

	p.logger.Debug("page saved", "url", doc.URL, "path", target, "bytes", doc.Size())
	return target, nil
}

// Create opens the named file in the output directory for writing,
// truncating any existing file. It returns the writer and the full path.
func (p *Persister) Create(name string) (io.WriteCloser, string, error) {
	target := filepath.Join(p.dir, name)
	f, err := os.Create(target) //nolint:gosec // name is derived by ImageFileName
	if err != nil {
		return nil, target, &FileError{Op: "create", Path: target, Err: err}
	}
	return f, target, nil
}

// Remove deletes a partially written file. A missing file is not an error.
func (p *Persister) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &FileError{Op: "remove", Path: path, Err: err}
	}
	p.logger.Debug("partial file removed", "path", path)
	return nil
}
