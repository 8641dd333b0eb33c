package fetcher

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/nao1215/linkwalk/internal/model"
	"github.com/nao1215/linkwalk/internal/storage"
)

// Sink creates and removes downloaded files. storage.Persister implements it.
type Sink interface {
	// Create opens name for writing and returns the writer and its full path.
	Create(name string) (io.WriteCloser, string, error)

	// Remove deletes a partially written file.
	Remove(path string) error
}

// Downloader streams images to a Sink.
type Downloader struct {
	fetcher *Fetcher
	sink    Sink
}

// NewDownloader creates a Downloader that issues requests with f's client
// and rules and writes files through sink.
func NewDownloader(f *Fetcher, sink Sink) *Downloader {
	return &Downloader{fetcher: f, sink: sink}
}

// Download retrieves rawURL and streams the body to a file named by
// storage.ImageFileName. A non-2xx response fails before any file is created.
// When the copy fails after the file was opened, the file is removed and the
// error returned; nothing partial is left behind.
func (d *Downloader) Download(ctx context.Context, rawURL string) (*model.Download, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := d.fetcher.CheckURL(rawURL)
	if err != nil {
		return nil, err
	}
	name, err := storage.ImageFileName(rawURL)
	if err != nil {
		return nil, err
	}

	resp, err := d.fetcher.do(ctx, u)
	if err != nil {
		return nil, &TransportError{Op: "download", URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Op:  "download",
			URL: rawURL,
			Err: fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status),
		}
	}

	w, path, err := d.sink.Create(name)
	if err != nil {
		return nil, err
	}

	dst := &recordingWriter{w: w}
	n, copyErr := io.Copy(dst, resp.Body)
	closeErr := w.Close()
	if copyErr != nil || closeErr != nil {
		if rmErr := d.sink.Remove(path); rmErr != nil {
			d.fetcher.logger.Warn("failed to remove partial download", "path", path, "error", rmErr)
		}
		switch {
		case dst.err != nil:
			return nil, &storage.FileError{Op: "write", Path: path, Err: dst.err}
		case copyErr != nil:
			return nil, &TransportError{Op: "download", URL: rawURL, Err: copyErr}
		default:
			return nil, &storage.FileError{Op: "write", Path: path, Err: closeErr}
		}
	}

	d.fetcher.logger.Debug("image downloaded", "url", rawURL, "path", path, "bytes", n)
	return &model.Download{
		URL:         rawURL,
		FileName:    filepath.Base(path),
		Path:        path,
		Bytes:       n,
		ContentType: resp.Header.Get("Content-Type"),
		Timestamp:   time.Now(),
	}, nil
}

// recordingWriter remembers the first write error so a failed copy can be
// attributed to the file rather than the network.
type recordingWriter struct {
	w   io.Writer
	err error
}

func (r *recordingWriter) Write(p []byte) (int, error) {
	n, err := r.w.Write(p)
	if err != nil && r.err == nil {
		r.err = err
	}
	return n, err
}
