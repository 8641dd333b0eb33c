package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkwalk/internal/config"
	"github.com/nao1215/linkwalk/internal/database"
	"github.com/nao1215/linkwalk/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently visited pages and downloaded images",
		Long: `History lists the pages visited and the images downloaded by browse and
grab, newest first. The history database lives in the XDG data directory
($XDG_DATA_HOME/linkwalk/linkwalk.db).

Examples:
  # Show the 20 most recent entries
  linkwalk history

  # Show everything as JSON
  linkwalk history --limit 0 --format json

  # Write a Markdown report
  linkwalk history --format markdown --output history.md`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("format", "f", report.FormatText,
		"Output format: text, json or markdown")
	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Number of visits and downloads to show (0 shows all)")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to a file instead of stdout (creates directories if needed)")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// historyOptions are the parsed history flags.
type historyOptions struct {
	format string
	limit  int
	output string
	dbDir  string
}

func parseHistoryFlags(cmd *cobra.Command) (*historyOptions, error) {
	var (
		opts historyOptions
		err  error
	)
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return nil, err
	}
	if opts.limit, err = cmd.Flags().GetInt("limit"); err != nil {
		return nil, err
	}
	if opts.output, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if opts.dbDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return nil, err
	}
	if opts.dbDir == "" {
		opts.dbDir = config.XDGDataDir()
	}
	if opts.limit < 0 {
		return nil, fmt.Errorf("invalid limit %d: must be 0 or more", opts.limit)
	}
	return &opts, nil
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	opts, err := parseHistoryFlags(cmd)
	if err != nil {
		return err
	}
	newLogger(cmd, getVerboseFlag(cmd))

	// Validate the format before touching the database.
	if _, err := report.NewWriter(opts.format, io.Discard); err != nil {
		return err
	}

	db, err := database.Open(opts.dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	h, err := db.Recent(context.Background(), opts.limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := createReportFile(opts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w, err := report.NewWriter(opts.format, out)
	if err != nil {
		return err
	}
	if _, err := w.Write(h); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}

	if opts.output != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "History written to %s\n", opts.output)
	}
	return nil
}

// createReportFile creates path and its parent directories.
func createReportFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(path) //nolint:gosec // user-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, nil
}
