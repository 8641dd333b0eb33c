// Package i18n holds the operator-facing messages in English and French and
// picks a language from configuration or the process locale.
//
// Diagnostics written through slog are not translated.
package i18n
