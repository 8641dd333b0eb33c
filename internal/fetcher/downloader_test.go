package fetcher

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // test mirrors the file naming scheme
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/nao1215/linkwalk/internal/storage"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake image data")

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes)
	})
	mux.HandleFunc("/missing.png", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/broken.png", func(w http.ResponseWriter, _ *http.Request) {
		// Announce more than is sent so the client sees an unexpected EOF.
		w.Header().Set("Content-Length", strconv.Itoa(4096))
		_, _ = w.Write(pngBytes)
	})
	srv := httptest.NewTLSServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestDownload(t *testing.T) {
	t.Parallel()

	t.Run("streams image to its basename", func(t *testing.T) {
		t.Parallel()

		srv := newImageServer(t)
		dir := t.TempDir()
		d := NewDownloader(newTestFetcher(srv), storage.NewPersister(dir, storage.WithLogger(discardLogger())))

		got, err := d.Download(context.Background(), srv.URL+"/assets/logo.png")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.FileName != "logo.png" {
			t.Errorf("file name = %q, want logo.png", got.FileName)
		}
		if got.Path != filepath.Join(dir, "logo.png") {
			t.Errorf("path = %q", got.Path)
		}
		if got.Bytes != int64(len(pngBytes)) {
			t.Errorf("bytes = %d, want %d", got.Bytes, len(pngBytes))
		}
		if got.ContentType != "image/png" {
			t.Errorf("content type = %q", got.ContentType)
		}

		data, err := os.ReadFile(got.Path)
		if err != nil {
			t.Fatalf("failed to read download: %v", err)
		}
		if !bytes.Equal(data, pngBytes) {
			t.Error("downloaded content differs")
		}
	})

	t.Run("long basename becomes md5 of url plus extension", func(t *testing.T) {
		t.Parallel()

		srv := newImageServer(t)
		dir := t.TempDir()
		d := NewDownloader(newTestFetcher(srv), storage.NewPersister(dir, storage.WithLogger(discardLogger())))

		target := srv.URL + "/assets/" + strings.Repeat("very-long-name-", 8) + ".png"
		got, err := d.Download(context.Background(), target)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		sum := md5.Sum([]byte(target)) //nolint:gosec // test mirrors the file naming scheme
		want := hex.EncodeToString(sum[:]) + ".png"
		if got.FileName != want {
			t.Errorf("file name = %q, want %q", got.FileName, want)
		}
		if _, err := os.Stat(filepath.Join(dir, want)); err != nil {
			t.Errorf("expected file on disk: %v", err)
		}
	})

	t.Run("non-2xx creates no file", func(t *testing.T) {
		t.Parallel()

		srv := newImageServer(t)
		dir := t.TempDir()
		d := NewDownloader(newTestFetcher(srv), storage.NewPersister(dir, storage.WithLogger(discardLogger())))

		_, err := d.Download(context.Background(), srv.URL+"/missing.png")
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
		}
		assertEmptyDir(t, dir)
	})

	t.Run("interrupted transfer removes partial file", func(t *testing.T) {
		t.Parallel()

		srv := newImageServer(t)
		dir := t.TempDir()
		d := NewDownloader(newTestFetcher(srv), storage.NewPersister(dir, storage.WithLogger(discardLogger())))

		_, err := d.Download(context.Background(), srv.URL+"/broken.png")
		var te *TransportError
		if !errors.As(err, &te) {
			t.Fatalf("expected *TransportError, got %T: %v", err, err)
		}
		if te.Op != "download" {
			t.Errorf("op = %q, want download", te.Op)
		}
		assertEmptyDir(t, dir)
	})

	t.Run("write failure removes file and reports file error", func(t *testing.T) {
		t.Parallel()

		srv := newImageServer(t)
		sink := &failingSink{}
		d := NewDownloader(newTestFetcher(srv), sink)

		_, err := d.Download(context.Background(), srv.URL+"/logo.png")
		var fe *storage.FileError
		if !errors.As(err, &fe) {
			t.Fatalf("expected *storage.FileError, got %T: %v", err, err)
		}
		if fe.Op != "write" {
			t.Errorf("op = %q, want write", fe.Op)
		}
		if sink.removed != "out/logo.png" {
			t.Errorf("removed = %q, want out/logo.png", sink.removed)
		}
	})

	t.Run("insecure url is rejected", func(t *testing.T) {
		t.Parallel()

		d := NewDownloader(New(WithLogger(discardLogger())), &failingSink{})
		if _, err := d.Download(context.Background(), "http://example.com/a.png"); !errors.Is(err, ErrInsecureScheme) {
			t.Errorf("expected ErrInsecureScheme, got %v", err)
		}
	})
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files, found %d (first: %s)", len(entries), entries[0].Name())
	}
}

// failingSink hands out writers that always fail.
type failingSink struct {
	removed string
}

func (s *failingSink) Create(name string) (io.WriteCloser, string, error) {
	return errWriter{}, "out/" + name, nil
}

func (s *failingSink) Remove(path string) error {
	s.removed = path
	return nil
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }
func (errWriter) Close() error              { return nil }
