package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/nao1215/linkwalk/internal/model"
	"github.com/nao1215/linkwalk/internal/tor"
)

// Fetcher retrieves pages and buffers their bodies.
type Fetcher struct {
	// client performs the requests. It may route through a SOCKS5 proxy.
	client *http.Client

	// userAgent is sent when non-empty; otherwise Go's default is used.
	userAgent string

	// maxBodySize caps the buffered body. 0 means unbounded.
	maxBodySize int64

	// torRouting reports whether client reaches the Tor network, which is
	// required for .onion hosts.
	torRouting bool

	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize caps page bodies at size bytes. 0 disables the cap.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithTorRouting marks the client as routed through Tor, enabling .onion
// hosts and plain http for them.
func WithTorRouting(enabled bool) Option {
	return func(f *Fetcher) {
		f.torRouting = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher. Without WithHTTPClient it uses a client with no
// timeout, leaving deadlines to the context and the transport defaults.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{}
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Fetch retrieves rawURL and returns the fully buffered response.
// Non-2xx responses still yield a Document. Invalid URLs are rejected with a
// validation error; network failures are returned as *TransportError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.Document, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := f.CheckURL(rawURL)
	if err != nil {
		return nil, err
	}

	resp, err := f.do(ctx, u)
	if err != nil {
		return nil, &TransportError{Op: "fetch", URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if f.maxBodySize > 0 {
		// One byte past the cap tells a truncated body from one that fits.
		body = io.LimitReader(resp.Body, f.maxBodySize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &TransportError{Op: "fetch", URL: rawURL, Err: err}
	}
	truncated := f.maxBodySize > 0 && int64(len(data)) > f.maxBodySize
	if truncated {
		data = data[:f.maxBodySize]
		f.logger.Warn("page body truncated",
			"url", rawURL,
			"max_body_size", f.maxBodySize,
		)
	}

	doc := model.NewDocument(rawURL, resp.StatusCode, resp.Header.Get("Content-Type"), data)
	doc.Truncated = truncated
	f.logger.Debug("page fetched",
		"url", rawURL,
		"status", resp.StatusCode,
		"bytes", doc.Size(),
	)
	return doc, nil
}

// CheckURL parses rawURL and applies the scheme and onion rules without
// touching the network.
func (f *Fetcher) CheckURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%q: %w", rawURL, ErrNotAbsolute)
	}

	onion := tor.IsOnionHost(u.Hostname())
	if onion {
		if !f.torRouting {
			return nil, ErrOnionRequiresTor
		}
		if err := tor.CheckHost(u.Hostname()); err != nil {
			return nil, fmt.Errorf("%q: %w", u.Hostname(), err)
		}
	}

	switch strings.ToLower(u.Scheme) {
	case "https":
	case "http":
		if !onion {
			return nil, fmt.Errorf("%q: %w", rawURL, ErrInsecureScheme)
		}
	default:
		return nil, fmt.Errorf("%q: %w", rawURL, ErrInsecureScheme)
	}
	return u, nil
}

// do sends a GET request for u.
func (f *Fetcher) do(ctx context.Context, u *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	return f.client.Do(req) //nolint:gosec // the operator chooses the URL
}
