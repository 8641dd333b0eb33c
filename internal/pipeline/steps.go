package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/linkwalk/internal/model"
)

// ErrNoDocument is returned by steps that need a fetched page when none is set.
var ErrNoDocument = errors.New("no document fetched")

// PageFetcher retrieves a page.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*model.Document, error)
}

// PageSaver writes a fetched page to disk.
type PageSaver interface {
	SavePage(doc *model.Document) (string, error)
}

// Extractor finds the title, links and images of a page.
type Extractor interface {
	Extract(doc *model.Document) (*model.Page, error)
}

// HistoryRecorder stores visits and downloads.
type HistoryRecorder interface {
	RecordVisit(ctx context.Context, v *model.Visit) (int64, error)
	RecordDownload(ctx context.Context, d *model.Download) (int64, error)
}

// FetchStep fetches Job.URL into Job.Document.
type FetchStep struct {
	fetcher PageFetcher
}

// NewFetchStep creates a FetchStep.
func NewFetchStep(f PageFetcher) *FetchStep {
	return &FetchStep{fetcher: f}
}

// Name returns "fetch".
func (s *FetchStep) Name() string { return "fetch" }

// Do fetches the page.
func (s *FetchStep) Do(ctx context.Context, job *Job) error {
	doc, err := s.fetcher.Fetch(ctx, job.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch page: %w", err)
	}
	job.Document = doc
	return nil
}

// SaveStep writes the fetched page to disk. A save failure is recorded in
// Job.SaveError and does not stop the job.
type SaveStep struct {
	saver  PageSaver
	logger *slog.Logger
}

// NewSaveStep creates a SaveStep.
func NewSaveStep(saver PageSaver, logger *slog.Logger) *SaveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaveStep{saver: saver, logger: logger}
}

// Name returns "save".
func (s *SaveStep) Name() string { return "save" }

// Do saves the page.
func (s *SaveStep) Do(_ context.Context, job *Job) error {
	if job.Document == nil {
		return ErrNoDocument
	}
	path, err := s.saver.SavePage(job.Document)
	if err != nil {
		s.logger.Warn("failed to save page", "url", job.URL, "error", err)
		job.SaveError = err
		return nil
	}
	job.SavedAs = path
	return nil
}

// ExtractStep fills Job.Page from the fetched page.
type ExtractStep struct {
	extractor Extractor
}

// NewExtractStep creates an ExtractStep.
func NewExtractStep(e Extractor) *ExtractStep {
	return &ExtractStep{extractor: e}
}

// Name returns "extract".
func (s *ExtractStep) Name() string { return "extract" }

// Do extracts the page references.
func (s *ExtractStep) Do(_ context.Context, job *Job) error {
	if job.Document == nil {
		return ErrNoDocument
	}
	page, err := s.extractor.Extract(job.Document)
	if err != nil {
		return fmt.Errorf("failed to parse page: %w", err)
	}
	job.Page = page
	return nil
}

// DownloadStep downloads every image of Job.Page.
type DownloadStep struct {
	batch    *BatchDownloader
	progress func(Result)
}

// NewDownloadStep creates a DownloadStep. progress, if non-nil, is called as
// each image finishes and must be safe for concurrent use.
func NewDownloadStep(batch *BatchDownloader, progress func(Result)) *DownloadStep {
	return &DownloadStep{batch: batch, progress: progress}
}

// Name returns "download".
func (s *DownloadStep) Name() string { return "download" }

// Do downloads the images. Individual failures are kept in Job.Results; only
// cancellation is returned as an error.
func (s *DownloadStep) Do(ctx context.Context, job *Job) error {
	if job.Page == nil || !job.Page.HasImages() {
		job.Results = []Result{}
		return nil
	}
	results, err := s.batch.DownloadWithCallback(ctx, job.Page.Images, s.progress)
	for i := range results {
		if results[i].Download != nil {
			results[i].Download.PageURL = job.URL
		}
	}
	job.Results = results
	return err
}

// RecordStep stores the visit and the successful downloads in the history.
// Recording failures are logged only.
type RecordStep struct {
	recorder HistoryRecorder
	logger   *slog.Logger
}

// NewRecordStep creates a RecordStep.
func NewRecordStep(r HistoryRecorder, logger *slog.Logger) *RecordStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordStep{recorder: r, logger: logger}
}

// Name returns "record".
func (s *RecordStep) Name() string { return "record" }

// Do records the job.
func (s *RecordStep) Do(ctx context.Context, job *Job) error {
	if job.Document == nil {
		return ErrNoDocument
	}
	if _, err := s.recorder.RecordVisit(ctx, model.NewVisit(job.Document, job.Page, job.SavedAs)); err != nil {
		s.logger.Warn("failed to record visit", "url", job.URL, "error", err)
	}
	for _, r := range job.Results {
		if r.Download == nil {
			continue
		}
		if _, err := s.recorder.RecordDownload(ctx, r.Download); err != nil {
			s.logger.Warn("failed to record download", "url", r.URL, "error", err)
		}
	}
	return nil
}

// Components are the collaborators of a grab pipeline.
type Components struct {
	Fetcher   PageFetcher
	Saver     PageSaver
	Extractor Extractor
	Batch     *BatchDownloader

	// History is optional; no record step is added when it is nil.
	History HistoryRecorder

	// Progress is optional; see NewDownloadStep.
	Progress func(Result)
}

// NewGrabPipeline assembles fetch, save, extract, download and, when a
// history is configured, record steps.
func NewGrabPipeline(c Components, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewFetchStep(c.Fetcher),
		NewSaveStep(c.Saver, p.logger),
		NewExtractStep(c.Extractor),
		NewDownloadStep(c.Batch, c.Progress),
	)
	if c.History != nil {
		p.AddStep(NewRecordStep(c.History, p.logger))
	}
	return p
}
