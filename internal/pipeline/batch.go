package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/linkwalk/internal/model"
	"github.com/nao1215/linkwalk/internal/storage"
)

// DefaultConcurrency is the number of simultaneous downloads when none is
// configured.
const DefaultConcurrency = 4

// ImageDownloader downloads one image to disk.
type ImageDownloader interface {
	Download(ctx context.Context, rawURL string) (*model.Download, error)
}

// Result is the outcome of downloading one image.
type Result struct {
	// Index is the 0-based position of the image on the page.
	Index int

	// URL is the image URL.
	URL string

	// Download is set on success.
	Download *model.Download

	// Err is set on failure.
	Err error
}

// BatchDownloader downloads many images concurrently.
//
// Images that map to the same file name are downloaded one after another in
// page order, so the file on disk always holds the last of them, as it would
// after selecting each image interactively.
type BatchDownloader struct {
	downloader  ImageDownloader
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchDownloader.
type BatchOption func(*BatchDownloader)

// WithBatchLogger sets the logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchDownloader) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of simultaneous downloads.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchDownloader) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchDownloader creates a BatchDownloader around d.
func NewBatchDownloader(d ImageDownloader, opts ...BatchOption) *BatchDownloader {
	b := &BatchDownloader{
		downloader:  d,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Download fetches every URL and returns one Result per URL in input order.
// A failed image does not stop the others. The returned error is non-nil
// only when ctx was cancelled; results of images that never started carry
// the context error.
func (b *BatchDownloader) Download(ctx context.Context, urls []string) ([]Result, error) {
	return b.DownloadWithCallback(ctx, urls, nil)
}

// DownloadWithCallback is Download with a callback invoked as each image
// finishes. The callback runs on the worker goroutine and must be safe for
// concurrent use.
func (b *BatchDownloader) DownloadWithCallback(ctx context.Context, urls []string, callback func(Result)) ([]Result, error) {
	b.logger.Debug("starting batch download", "images", len(urls), "concurrency", b.concurrency)
	start := time.Now()

	results := make([]Result, len(urls))
	for i, u := range urls {
		results[i] = Result{Index: i, URL: u}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for _, group := range groupByFileName(urls) {
		g.Go(func() error {
			// Each goroutine writes only the indexes of its own group.
			for _, i := range group {
				if err := gctx.Err(); err != nil {
					results[i].Err = err
					continue
				}

				d, err := b.downloader.Download(gctx, urls[i])
				if err != nil {
					b.logger.Warn("image download failed", "url", urls[i], "error", err)
					results[i].Err = err
				} else {
					results[i].Download = d
				}

				if callback != nil {
					callback(results[i])
				}
			}
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // workers never return an error

	b.logger.Debug("batch download complete", "images", len(urls), "elapsed", time.Since(start))
	return results, ctx.Err()
}

// groupByFileName splits the indexes of urls into groups sharing a target
// file name. Groups and the indexes inside them keep page order.
func groupByFileName(urls []string) [][]int {
	var groups [][]int
	byName := make(map[string]int)
	for i, u := range urls {
		name, err := storage.ImageFileName(u)
		if err != nil {
			// Unnamed URLs fail on their own inside the downloader.
			groups = append(groups, []int{i})
			continue
		}
		if g, ok := byName[name]; ok {
			groups[g] = append(groups[g], i)
			continue
		}
		byName[name] = len(groups)
		groups = append(groups, []int{i})
	}
	return groups
}
