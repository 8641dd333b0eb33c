// Package report renders the browsing history.
//
// Three writers share the Writer interface:
//   - TextWriter: aligned plain text for the terminal
//   - JSONWriter: the model.History value as JSON
//   - MarkdownWriter: GitHub-flavored Markdown with tables and a mermaid
//     pie chart of visited hosts
package report
