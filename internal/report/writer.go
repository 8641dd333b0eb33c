package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/linkwalk/internal/model"
)

// Supported report formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ErrUnknownFormat is returned by NewWriter for unsupported formats.
var ErrUnknownFormat = errors.New("unknown report format")

// Writer renders a history snapshot.
type Writer interface {
	// Write outputs h and returns the number of bytes written.
	Write(h *model.History) (int, error)
}

// NewWriter returns the Writer for format ("text", "json" or "markdown").
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch format {
	case FormatText, "":
		return NewTextWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q (use text, json or markdown)", ErrUnknownFormat, format)
	}
}

// baseWriter holds the output shared by all writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// truncateString shortens s to maxLen bytes, ending in "...".
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// orDash returns "-" for empty strings so table cells are never blank.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
