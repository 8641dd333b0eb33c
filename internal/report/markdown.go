package report

import (
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/linkwalk/internal/model"
)

// maxChartHosts bounds the pie chart slices; the rest are summed as "other".
const maxChartHosts = 8

// MarkdownWriter outputs the history as GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs h.
func (w *MarkdownWriter) Write(h *model.History) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("linkwalk history")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Visits", strconv.Itoa(len(h.Visits))},
			{"Distinct hosts", strconv.Itoa(len(h.HostCounts()))},
			{"Downloads", strconv.Itoa(len(h.Downloads))},
			{"Downloaded", formatBytes(h.TotalDownloadBytes())},
		},
	})
	md.PlainText("")

	w.writeVisits(md, h)
	w.writeDownloads(md, h)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Generated by linkwalk*")

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeVisits(md *markdown.Markdown, h *model.History) {
	md.H2("Visited pages")
	md.PlainText("")

	if len(h.Visits) == 0 {
		md.Tip("No pages visited yet. Run `linkwalk` and enter a URL.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(h.Visits))
	for i, v := range h.Visits {
		rows[i] = []string{
			v.Timestamp.Local().Format(timeLayout),
			strconv.Itoa(v.StatusCode),
			truncateString(orDash(v.Title), 40),
			"`" + truncateString(v.URL, 60) + "`",
			strconv.Itoa(v.LinkCount),
			strconv.Itoa(v.ImageCount),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Time", "Status", "Title", "URL", "Links", "Images"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeHostChart(md, h)

	if failed := countFailures(h.Visits); failed > 0 {
		md.Warningf("%d visit(s) returned a non-2xx status.", failed)
		md.PlainText("")
	}
}

// writeHostChart writes a mermaid pie chart of visits per host.
func (w *MarkdownWriter) writeHostChart(md *markdown.Markdown, h *model.History) {
	counts := h.HostCounts()
	hosts := make([]string, 0, len(counts))
	for host := range counts {
		hosts = append(hosts, host)
	}
	sort.Slice(hosts, func(i, j int) bool {
		if counts[hosts[i]] != counts[hosts[j]] {
			return counts[hosts[i]] > counts[hosts[j]]
		}
		return hosts[i] < hosts[j]
	})

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Visits per host"),
		piechart.WithShowData(true),
	)
	other := 0
	for i, host := range hosts {
		if i >= maxChartHosts {
			other += counts[host]
			continue
		}
		chart.LabelAndIntValue(host, uint64(counts[host])) //nolint:gosec // counts are positive
	}
	if other > 0 {
		chart.LabelAndIntValue("other", uint64(other)) //nolint:gosec // counts are positive
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeDownloads(md *markdown.Markdown, h *model.History) {
	md.H2("Downloaded images")
	md.PlainText("")

	if len(h.Downloads) == 0 {
		md.Note("No images downloaded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(h.Downloads))
	for i, d := range h.Downloads {
		rows[i] = []string{
			d.Timestamp.Local().Format(timeLayout),
			"`" + d.FileName + "`",
			formatBytes(d.Bytes),
			orDash(d.ContentType),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Time", "File", "Size", "Type"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, d := range h.Downloads {
		if len(d.URL) > 60 {
			md.Details(d.FileName, d.URL)
		}
	}
}

func countFailures(visits []model.Visit) int {
	n := 0
	for _, v := range visits {
		if v.StatusCode < 200 || v.StatusCode > 299 {
			n++
		}
	}
	return n
}
