package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/linkwalk/internal/model"
)

// timeLayout is used for timestamps in text and Markdown output.
const timeLayout = "2006-01-02 15:04:05"

// TextWriter outputs the history as plain text.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs h.
func (w *TextWriter) Write(h *model.History) (int, error) {
	var sb strings.Builder

	sb.WriteString("Visited pages\n")
	sb.WriteString(strings.Repeat("=", 13) + "\n")
	if len(h.Visits) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, v := range h.Visits {
		title := v.Title
		if title == "" {
			title = "(no title)"
		}
		fmt.Fprintf(&sb, "  %s  [%d] %s\n", v.Timestamp.Local().Format(timeLayout), v.StatusCode, v.URL)
		fmt.Fprintf(&sb, "      %s  links: %d  images: %d\n", truncateString(title, 60), v.LinkCount, v.ImageCount)
	}

	sb.WriteString("\nDownloaded images\n")
	sb.WriteString(strings.Repeat("=", 17) + "\n")
	if len(h.Downloads) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, d := range h.Downloads {
		fmt.Fprintf(&sb, "  %s  %s (%s)\n", d.Timestamp.Local().Format(timeLayout), d.FileName, formatBytes(d.Bytes))
		fmt.Fprintf(&sb, "      %s\n", d.URL)
	}

	fmt.Fprintf(&sb, "\n%d visits, %d downloads, %s downloaded\n",
		len(h.Visits), len(h.Downloads), formatBytes(h.TotalDownloadBytes()))

	return io.WriteString(w.output, sb.String())
}

// formatBytes renders n with a binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
