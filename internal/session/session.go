package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/nao1215/linkwalk/internal/i18n"
	"github.com/nao1215/linkwalk/internal/imagemeta"
	"github.com/nao1215/linkwalk/internal/model"
)

// Fetcher retrieves a page.
type Fetcher interface {
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

// Downloader writes one image to disk.
type Downloader interface {
	Download(ctx context.Context, rawURL string) (*model.Download, error)
}

// HistoryRecorder stores visits and downloads.
type HistoryRecorder interface {
	RecordVisit(ctx context.Context, v *model.Visit) (int64, error)
	RecordDownload(ctx context.Context, d *model.Download) (int64, error)
}

// ImageInspector summarizes the metadata of a downloaded image.
type ImageInspector interface {
	InspectFile(path string) ([]imagemeta.Tag, error)
}

// Components are the collaborators a Session drives.
type Components struct {
	Fetcher    Fetcher
	Saver      PageSaver
	Extractor  Extractor
	Downloader Downloader
}

// Session is one interactive browsing session. It is not safe for
// concurrent use.
type Session struct {
	in  io.Reader
	out io.Writer

	fetcher    Fetcher
	saver      PageSaver
	extractor  Extractor
	downloader Downloader
	history    HistoryRecorder
	inspector  ImageInspector

	printer *i18n.Printer
	logger  *slog.Logger

	// state is the current position in the state machine.
	state State

	// target is the URL the next Fetching state retrieves.
	target string

	// doc and page describe the current page. Both are nil outside Parsed
	// and the choosing states.
	doc  *model.Document
	page *model.Page
}

// Option configures a Session.
type Option func(*Session)

// WithPrinter sets the message printer. The default prints English.
func WithPrinter(p *i18n.Printer) Option {
	return func(s *Session) {
		s.printer = p
	}
}

// WithLogger sets the logger for diagnostics that are not shown to the
// operator.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithHistory records visits and downloads in h.
func WithHistory(h HistoryRecorder) Option {
	return func(s *Session) {
		s.history = h
	}
}

// WithInspector prints an EXIF summary after each image download.
func WithInspector(i ImageInspector) Option {
	return func(s *Session) {
		s.inspector = i
	}
}

// New creates a Session reading operator input from in and writing prompts
// and results to out.
func New(in io.Reader, out io.Writer, c Components, opts ...Option) *Session {
	s := &Session{
		in:         in,
		out:        out,
		fetcher:    c.Fetcher,
		saver:      c.Saver,
		extractor:  c.Extractor,
		downloader: c.Downloader,
		state:      AwaitingURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.printer == nil {
		s.printer = i18n.NewPrinter(language.English)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Page returns the current page, or nil when none is loaded.
func (s *Session) Page() *model.Page {
	return s.page
}

// Run starts at the URL prompt and runs until the operator quits or input
// ends, in which case it returns nil. It returns ctx.Err() when ctx is
// cancelled first.
func (s *Session) Run(ctx context.Context) error {
	return s.run(ctx)
}

// RunURL is Run with rawURL fetched first instead of prompting for it.
func (s *Session) RunURL(ctx context.Context, rawURL string) error {
	s.target = rawURL
	s.state = Fetching
	return s.run(ctx)
}

func (s *Session) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := readLines(ctx, s.in)

	for s.state != Terminal {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.logger.Debug("session state", "state", s.state.String())

		var err error
		switch s.state {
		case AwaitingURL:
			err = s.awaitURL(ctx, lines)
		case Fetching:
			s.fetch(ctx)
		case Parsed:
			err = s.menu(ctx, lines)
		case ChoosingLink:
			err = s.chooseLink(ctx, lines)
		case ChoosingImage:
			err = s.chooseImage(ctx, lines)
		default:
			s.state = Terminal
		}
		if err != nil {
			return err
		}
	}

	s.printer.Fprintln(s.out, i18n.Goodbye)
	return nil
}

// awaitURL prompts until a non-empty line is read.
func (s *Session) awaitURL(ctx context.Context, lines <-chan input) error {
	s.printer.Fprintf(s.out, i18n.PromptURL)
	line, ok, err := s.readLine(ctx, lines)
	if err != nil || !ok {
		return err
	}
	if line == "" {
		return nil
	}
	s.target = line
	s.state = Fetching
	return nil
}

// fetch retrieves s.target, saves it and extracts its references. Any
// failure clears the current page and returns to AwaitingURL.
func (s *Session) fetch(ctx context.Context) {
	s.doc, s.page = nil, nil

	s.printer.Fprintln(s.out, i18n.Fetching, s.target)
	doc, err := s.fetcher.Fetch(ctx, s.target)
	if err != nil {
		s.logger.Debug("fetch failed", "url", s.target, "error", err)
		s.printer.Fprintln(s.out, i18n.FetchFailed, s.target, err)
		s.state = AwaitingURL
		return
	}
	if doc.StatusCode < http.StatusOK || doc.StatusCode >= http.StatusMultipleChoices {
		s.printer.Fprintln(s.out, i18n.HTTPStatus, doc.StatusCode)
	}

	savedAs, err := s.saver.SavePage(doc)
	if err != nil {
		s.logger.Warn("failed to save page", "url", doc.URL, "error", err)
		s.printer.Fprintln(s.out, i18n.SaveFailed, err)
	} else {
		s.printer.Fprintln(s.out, i18n.PageSaved, savedAs)
	}

	page, err := s.extractor.Extract(doc)
	if err != nil {
		s.printer.Fprintln(s.out, i18n.ParseFailed, err)
		s.state = AwaitingURL
		return
	}

	s.doc, s.page = doc, page
	s.recordVisit(ctx, savedAs)
	s.printPage()
	s.state = Parsed
}

func (s *Session) printPage() {
	fmt.Fprintln(s.out)
	if s.page.Title == "" {
		s.printer.Fprintln(s.out, i18n.NoTitle)
	} else {
		s.printer.Fprintln(s.out, i18n.Title, s.page.Title)
	}

	fmt.Fprintln(s.out)
	s.printer.Fprintln(s.out, i18n.LinksHeader, len(s.page.Links))
	printNumbered(s.out, s.page.Links)

	fmt.Fprintln(s.out)
	s.printer.Fprintln(s.out, i18n.ImagesHeader, len(s.page.Images))
	printNumbered(s.out, s.page.Images)
	fmt.Fprintln(s.out)
}

func printNumbered(w io.Writer, list []string) {
	for i, item := range list {
		fmt.Fprintf(w, "%4d. %s\n", i+1, item)
	}
}

// menu reads one menu action.
func (s *Session) menu(ctx context.Context, lines <-chan input) error {
	s.printer.Fprintf(s.out, i18n.Menu)
	line, ok, err := s.readLine(ctx, lines)
	if err != nil || !ok {
		return err
	}

	switch ParseAction(line) {
	case ActionList:
		if !s.page.HasLinks() {
			s.printer.Fprintln(s.out, i18n.NoLinks)
			return nil
		}
		s.state = ChoosingLink
	case ActionImage:
		if !s.page.HasImages() {
			s.printer.Fprintln(s.out, i18n.NoImages)
			return nil
		}
		s.state = ChoosingImage
	case ActionQuit:
		s.state = Terminal
	default:
		s.printer.Fprintln(s.out, i18n.InvalidOption)
	}
	return nil
}

// chooseLink reads a link number and moves to Fetching on a valid one.
func (s *Session) chooseLink(ctx context.Context, lines <-chan input) error {
	n := len(s.page.Links)
	s.printer.Fprintf(s.out, i18n.ChooseLink, n)
	line, ok, err := s.readLine(ctx, lines)
	if err != nil || !ok {
		return err
	}

	choice, valid := ParseChoice(line, n)
	if !valid {
		s.printer.Fprintln(s.out, i18n.InvalidNumber, n)
		return nil
	}
	s.target, _ = s.page.Link(choice)
	s.state = Fetching
	return nil
}

// chooseImage reads an image number, downloads it and returns to Parsed.
func (s *Session) chooseImage(ctx context.Context, lines <-chan input) error {
	n := len(s.page.Images)
	s.printer.Fprintf(s.out, i18n.ChooseImage, n)
	line, ok, err := s.readLine(ctx, lines)
	if err != nil || !ok {
		return err
	}

	choice, valid := ParseChoice(line, n)
	if !valid {
		s.printer.Fprintln(s.out, i18n.InvalidNumber, n)
		return nil
	}
	imageURL, _ := s.page.Image(choice)
	s.download(ctx, imageURL)
	s.state = Parsed
	return nil
}

func (s *Session) download(ctx context.Context, imageURL string) {
	s.printer.Fprintln(s.out, i18n.Downloading, imageURL)
	d, err := s.downloader.Download(ctx, imageURL)
	if err != nil {
		s.logger.Debug("download failed", "url", imageURL, "error", err)
		s.printer.Fprintln(s.out, i18n.DownloadFailed, imageURL, err)
		return
	}
	d.PageURL = s.doc.URL
	s.printer.Fprintln(s.out, i18n.Downloaded, d.Path, d.Bytes)

	if s.history != nil {
		if _, err := s.history.RecordDownload(ctx, d); err != nil {
			s.logger.Warn("failed to record download", "url", imageURL, "error", err)
		}
	}
	s.printExif(d.Path)
}

func (s *Session) printExif(path string) {
	if s.inspector == nil {
		return
	}
	tags, err := s.inspector.InspectFile(path)
	if err != nil {
		s.logger.Debug("failed to read image metadata", "path", path, "error", err)
		return
	}
	if len(tags) == 0 {
		return
	}
	s.printer.Fprintln(s.out, i18n.ExifHeader)
	for _, t := range tags {
		fmt.Fprintf(s.out, "  %s\n", t)
	}
	if imagemeta.HasSensitive(tags) {
		s.printer.Fprintln(s.out, i18n.ExifSensitive)
	}
}

func (s *Session) recordVisit(ctx context.Context, savedAs string) {
	if s.history == nil {
		return
	}
	if _, err := s.history.RecordVisit(ctx, model.NewVisit(s.doc, s.page, savedAs)); err != nil {
		s.logger.Warn("failed to record visit", "url", s.doc.URL, "error", err)
	}
}

// readLine waits for the next operator line. ok is false at end of input,
// which also moves the session to Terminal, and for an over-long line, which
// is reported and leaves the state unchanged so the caller re-prompts.
func (s *Session) readLine(ctx context.Context, lines <-chan input) (line string, ok bool, err error) {
	var in input
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case in, ok = <-lines:
	}
	if !ok {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		fmt.Fprintln(s.out)
		s.state = Terminal
		return "", false, nil
	}
	if in.err != nil {
		return "", false, fmt.Errorf("failed to read input: %w", in.err)
	}
	if in.tooLong {
		s.logger.Debug("operator line discarded", "limit", MaxLineLength)
		s.printer.Fprintln(s.out, i18n.LineTooLong)
		return "", false, nil
	}
	return in.text, true, nil
}

// MaxLineLength is the longest operator line accepted, newline included.
// Longer lines are discarded.
const MaxLineLength = 8 << 10

// input is one operator line as delivered by readLines.
type input struct {
	text    string
	tooLong bool
	err     error
}

// readLines streams trimmed lines from r until end of input, a read error or
// the end of ctx. A read error other than io.EOF is delivered as the last
// item. A pending read on r is not interrupted by ctx.
func readLines(ctx context.Context, r io.Reader) <-chan input {
	lines := make(chan input)
	go func() {
		defer close(lines)
		br := bufio.NewReader(r)
		send := func(in input) bool {
			select {
			case lines <- in:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for {
			text, tooLong, err := readInputLine(br)
			if err == nil || text != "" || tooLong {
				if !send(input{text: strings.TrimSpace(text), tooLong: tooLong}) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					send(input{err: err})
				}
				return
			}
		}
	}()
	return lines
}

// readInputLine reads up to and including the next newline. Once the line
// exceeds MaxLineLength its content is dropped and tooLong is set, but the
// rest of the line is still consumed.
func readInputLine(br *bufio.Reader) (text string, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(chunk) > MaxLineLength {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return string(buf), tooLong, err
	}
}
