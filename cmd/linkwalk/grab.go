package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkwalk/internal/config"
	"github.com/nao1215/linkwalk/internal/crawler"
	"github.com/nao1215/linkwalk/internal/i18n"
	"github.com/nao1215/linkwalk/internal/pipeline"
)

// NewGrabCmd creates the grab command.
func NewGrabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grab <url>",
		Short: "Save a page and download all of its images",
		Long: `Grab fetches one page, saves it as page-<hostname>.html and downloads every
image it references, several at a time. Results are listed in page order.

Examples:
  # Download every image of a page into ./images
  linkwalk grab -o images https://example.com/gallery

  # Limit parallel downloads
  linkwalk grab --concurrency 2 https://example.com/gallery`,
		Args: cobra.ExactArgs(1),
		RunE: runGrabCmd,
	}

	addSessionFlags(cmd)
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of images downloaded at the same time")

	return cmd
}

// runGrabCmd executes the grab command.
func runGrabCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cmd, cfg.Verbose)
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	env, err := setupEnvironment(ctx, cfg, logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer env.Close()

	batch := pipeline.NewBatchDownloader(env.downloader,
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)
	p := pipeline.NewGrabPipeline(pipeline.Components{
		Fetcher:   env.fetcher,
		Saver:     env.persister,
		Extractor: crawler.NewExtractor(),
		Batch:     batch,
		History:   env.recorder(),
	}, pipeline.WithLogger(logger))

	out := cmd.OutOrStdout()
	env.printer.Fprintln(out, i18n.Fetching, args[0])

	job := pipeline.NewJob(args[0])
	if err := p.Execute(ctx, job); err != nil && job.Document == nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		env.printer.Fprintln(out, i18n.FetchFailed, args[0], err)
		return err
	}

	printGrab(out, env.printer, job)
	return ignoreCanceled(job.Error)
}

// printGrab writes the outcome of job in page order.
func printGrab(out io.Writer, p *i18n.Printer, job *pipeline.Job) {
	if job.SaveError != nil {
		p.Fprintln(out, i18n.SaveFailed, job.SaveError)
	} else if job.SavedAs != "" {
		p.Fprintln(out, i18n.PageSaved, job.SavedAs)
	}

	if job.Page == nil {
		return
	}
	if job.Page.Title == "" {
		p.Fprintln(out, i18n.NoTitle)
	} else {
		p.Fprintln(out, i18n.Title, job.Page.Title)
	}

	for _, r := range job.Results {
		fmt.Fprintf(out, "%4d. ", r.Index+1)
		if r.Err != nil {
			p.Fprintln(out, i18n.DownloadFailed, r.URL, r.Err)
			continue
		}
		p.Fprintln(out, i18n.Downloaded, r.Download.Path, r.Download.Bytes)
	}
	p.Fprintln(out, i18n.GrabSummary, job.Downloaded(), len(job.Results))
}
