package fetcher

import (
	"errors"
	"fmt"
)

// URL validation errors. They are returned before any network I/O.
var (
	// ErrNotAbsolute is returned for URLs without scheme or host.
	ErrNotAbsolute = errors.New("url must be absolute")

	// ErrInsecureScheme is returned for schemes other than https.
	ErrInsecureScheme = errors.New("only https urls are supported")

	// ErrOnionRequiresTor is returned for .onion hosts when no Tor routing
	// is configured.
	ErrOnionRequiresTor = errors.New(".onion hosts require Tor routing (--tor or --proxy)")

	// ErrUnexpectedStatus is returned by Download for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected http status")
)

// TransportError records a failed network round trip.
type TransportError struct {
	// Op is "fetch" or "download".
	Op string

	// URL is the requested URL.
	URL string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}
