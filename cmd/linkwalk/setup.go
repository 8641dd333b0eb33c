package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkwalk/internal/config"
	"github.com/nao1215/linkwalk/internal/database"
	"github.com/nao1215/linkwalk/internal/fetcher"
	"github.com/nao1215/linkwalk/internal/i18n"
	"github.com/nao1215/linkwalk/internal/log"
	"github.com/nao1215/linkwalk/internal/pipeline"
	"github.com/nao1215/linkwalk/internal/storage"
	"github.com/nao1215/linkwalk/internal/tor"
)

// addSessionFlags registers the flags shared by browsing and grabbing.
func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory where pages and images are written")
	cmd.Flags().DurationP("timeout", "t", 0,
		"Per-request timeout (0 keeps the transport default)")
	cmd.Flags().String("user-agent", "",
		"User-Agent header sent with every request (empty keeps the Go default)")
	cmd.Flags().Int64("max-body-size", 0,
		"Maximum page size in bytes (0 means unbounded)")
	cmd.Flags().String("lang", "",
		"Message language: en or fr (default: from LC_ALL, LC_MESSAGES or LANG)")
	cmd.Flags().Bool("no-history", false,
		"Do not record visits and downloads in the history database")
	cmd.Flags().String("proxy", "",
		"Route requests through an external SOCKS5 proxy (e.g., 127.0.0.1:9050)")
	cmd.Flags().Bool("tor", false,
		"Route requests through an embedded Tor daemon")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkwalk in current or home directory)")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the configuration file and the
// command flags, in increasing priority. Only flags set on the command line
// override file values.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	flags := cmd.Flags()
	explicit, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	if _, err := config.Load(cfg, explicit); err != nil {
		return nil, err
	}

	if flags.Changed("output-dir") {
		if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-body-size") {
		if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("lang") {
		if cfg.Language, err = flags.GetString("lang"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("no-history") {
		noHistory, err := flags.GetBool("no-history")
		if err != nil {
			return nil, err
		}
		cfg.History = !noHistory
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("tor") {
		if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("tor-timeout") {
		if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// signalContext returns a child of parent cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// ignoreCanceled treats an interrupted run as a normal exit.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// environment holds the components shared by browse and grab.
type environment struct {
	cfg         *config.Config
	logger      *slog.Logger
	printer     *i18n.Printer
	fetcher     *fetcher.Fetcher
	persister   *storage.Persister
	downloader  *fetcher.Downloader
	history     *database.HistoryDB
	embeddedTor *tor.EmbeddedTor
}

// setupEnvironment builds the HTTP transport, the fetcher and downloader, and
// opens the history database. Progress of Tor startup is written to status.
// An unavailable history database is logged and browsing continues without it.
func setupEnvironment(ctx context.Context, cfg *config.Config, logger *slog.Logger, status io.Writer) (*environment, error) {
	env := &environment{
		cfg:     cfg,
		logger:  logger,
		printer: i18n.NewPrinter(i18n.Detect(cfg.Language)),
	}

	client, err := env.httpClient(ctx, status)
	if err != nil {
		return nil, err
	}

	env.fetcher = fetcher.New(
		fetcher.WithHTTPClient(client),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithTorRouting(cfg.UsesTorRouting()),
		fetcher.WithLogger(logger),
	)
	env.persister = storage.NewPersister(cfg.OutputDir, storage.WithLogger(logger))
	env.downloader = fetcher.NewDownloader(env.fetcher, env.persister)

	if cfg.History {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("history disabled", "error", err)
		} else {
			env.history = db
			logger.Debug("history database opened", "path", db.Path())
		}
	}

	return env, nil
}

// httpClient returns a direct client, or one routed through the configured
// SOCKS5 proxy or embedded Tor daemon.
func (e *environment) httpClient(ctx context.Context, status io.Writer) (*http.Client, error) {
	switch {
	case e.cfg.ProxyAddress != "":
		client, err := tor.NewClient(e.cfg.ProxyAddress)
		if err != nil {
			return nil, fmt.Errorf("failed to create proxy client: %w", err)
		}
		if st := client.CheckConnection(ctx); st != tor.ProxyStatusOK {
			return nil, fmt.Errorf("proxy check failed: %s (make sure a SOCKS5 proxy is running at %s)",
				st, e.cfg.ProxyAddress)
		}
		e.logger.Info("proxy connection verified", "address", e.cfg.ProxyAddress)
		return client.NewHTTPClient(e.cfg.Timeout), nil

	case e.cfg.UseTor:
		client, err := e.startEmbeddedTor(ctx, status)
		if err != nil {
			return nil, err
		}
		return client.NewHTTPClient(e.cfg.Timeout), nil

	default:
		return &http.Client{Timeout: e.cfg.Timeout}, nil
	}
}

// startEmbeddedTor starts an embedded Tor daemon using tornago.
func (e *environment) startEmbeddedTor(ctx context.Context, status io.Writer) (*tor.Client, error) {
	fmt.Fprintln(status, "Starting embedded Tor daemon...")
	fmt.Fprintf(status, "This may take 1-3 minutes while Tor bootstraps and connects to the network.\n\n")

	embedded := tor.NewEmbeddedTor(tor.WithStartupTimeout(e.cfg.TorStartupTimeout))
	if err := embedded.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}
	e.logger.Info("embedded Tor daemon started", "socksAddr", embedded.SocksAddr())

	client, err := embedded.NewClient()
	if err != nil {
		_ = embedded.Stop() //nolint:errcheck // best effort cleanup
		return nil, fmt.Errorf("failed to create Tor client: %w", err)
	}
	if st := client.CheckConnection(ctx); st != tor.ProxyStatusOK {
		_ = embedded.Stop() //nolint:errcheck // best effort cleanup
		return nil, fmt.Errorf("embedded Tor proxy check failed: %s", st)
	}

	fmt.Fprintf(status, "Embedded Tor daemon started (SOCKS proxy: %s)\n\n", embedded.SocksAddr())
	e.embeddedTor = embedded
	return client, nil
}

// recorder returns the history as a pipeline recorder, or nil when disabled.
func (e *environment) recorder() pipeline.HistoryRecorder {
	if e.history == nil {
		return nil
	}
	return e.history
}

// Close stops the embedded Tor daemon and closes the history database.
func (e *environment) Close() {
	if e.embeddedTor != nil {
		e.logger.Info("stopping embedded Tor daemon...")
		if err := e.embeddedTor.Stop(); err != nil {
			e.logger.Error("failed to stop embedded Tor", "error", err)
		}
	}
	if e.history != nil {
		if err := e.history.Close(); err != nil {
			e.logger.Warn("failed to close history database", "error", err)
		}
	}
}

// newLogger creates the process logger.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	logger := log.NewSecureLogger(cmd.ErrOrStderr(), verbose)
	slog.SetDefault(logger)
	return logger
}
