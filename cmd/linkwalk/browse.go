package main

import (
	"github.com/spf13/cobra"

	"github.com/nao1215/linkwalk/internal/crawler"
	"github.com/nao1215/linkwalk/internal/imagemeta"
	"github.com/nao1215/linkwalk/internal/session"
)

// NewBrowseCmd creates the browse command.
func NewBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [url]",
		Short: "Start an interactive browsing session",
		Long: `Browse starts an interactive session. Enter a URL, then use the menu to
follow a link (l), download an image (i) or quit (q).

Each fetched page is saved as page-<hostname>.html in the output directory.
Downloaded images keep their file name, or a hash of their URL when the
name is longer than 100 characters.

Examples:
  # Prompt for the first URL
  linkwalk browse

  # Start at a URL
  linkwalk browse https://example.com

  # Save files elsewhere and print messages in French
  linkwalk browse -o pages --lang fr https://example.com

  # Browse an onion service through a local Tor proxy
  linkwalk browse --proxy 127.0.0.1:9050 http://<address>.onion/`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBrowseCmd,
	}

	addSessionFlags(cmd)
	return cmd
}

// runBrowseCmd executes the browse command.
func runBrowseCmd(cmd *cobra.Command, args []string) error {
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

	opts := []session.Option{
		session.WithPrinter(env.printer),
		session.WithLogger(logger),
		session.WithInspector(imagemeta.NewInspector()),
	}
	if env.history != nil {
		opts = append(opts, session.WithHistory(env.history))
	}

	s := session.New(cmd.InOrStdin(), cmd.OutOrStdout(), session.Components{
		Fetcher:    env.fetcher,
		Saver:      env.persister,
		Extractor:  crawler.NewExtractor(),
		Downloader: env.downloader,
	}, opts...)

	if len(args) == 1 {
		err = s.RunURL(ctx, args[0])
	} else {
		err = s.Run(ctx)
	}
	return ignoreCanceled(err)
}
