// Package log builds the slog logger used for diagnostics.
//
// Diagnostics go to stderr and stay separate from the interactive prompts
// on stdout. The level is Warn by default and Debug in verbose mode.
//
// # Redaction
//
// SecureHandler wraps any slog.Handler and masks values before they reach
// the output:
//   - attributes whose key names a secret (cookie, authorization, token, ...)
//   - string values that look like credentials (bearer tokens, JWTs)
//   - URL values: the userinfo password and query parameters such as
//     token, key, sig or password are replaced, the rest of the URL is kept
//
// Visited URLs are logged in full otherwise, which keeps verbose traces
// useful without leaking signed links.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
