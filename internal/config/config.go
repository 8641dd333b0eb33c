package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/linkwalk/internal/i18n"
)

// Default configuration values.
const (
	// AppName is used for XDG directory paths.
	AppName = "linkwalk"

	// DefaultOutputDir is where pages and images are written.
	DefaultOutputDir = "."

	// DefaultConcurrency is the number of parallel image downloads in grab.
	DefaultConcurrency = 4

	// DefaultTorStartupTimeout bounds the embedded Tor bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute

	// DefaultHistoryLimit is how many entries the history command shows.
	DefaultHistoryLimit = 20
)

// Config holds all runtime options. It is built once from defaults, the
// config file and flags, then passed down explicitly.
type Config struct {
	// OutputDir receives page-<host>.html files and downloaded images.
	OutputDir string

	// Timeout bounds each HTTP request. Zero leaves requests unbounded.
	Timeout time.Duration

	// UserAgent is sent with every request when non-empty.
	UserAgent string

	// MaxBodySize caps buffered page bodies in bytes. Zero means unbounded.
	MaxBodySize int64

	// Language selects the operator messages ("en", "fr"). Empty means the
	// process locale.
	Language string

	// History enables the SQLite visit history.
	History bool

	// DBDir is the directory of the history database.
	DBDir string

	// ProxyAddress routes requests through an external SOCKS5 proxy
	// ("host:port"). Mutually exclusive with UseTor.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and routes requests through it.
	UseTor bool

	// TorStartupTimeout bounds the embedded daemon's bootstrap.
	TorStartupTimeout time.Duration

	// Concurrency is the number of parallel downloads in grab.
	Concurrency int

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the explicit config file, if any. When empty,
	// .linkwalk is searched in the current and home directories.
	ConfigFilePath string
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		OutputDir:         DefaultOutputDir,
		History:           true,
		DBDir:             XDGDataDir(),
		TorStartupTimeout: DefaultTorStartupTimeout,
		Concurrency:       DefaultConcurrency,
	}
}

// XDGDataDir returns the data directory (~/.local/share/linkwalk on Linux).
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the config directory (~/.config/linkwalk on Linux).
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// UsesTorRouting reports whether requests go through a SOCKS5 proxy, which
// is what makes .onion hosts reachable.
func (c *Config) UsesTorRouting() bool {
	return c.UseTor || c.ProxyAddress != ""
}

// Validate returns the first invalid setting found.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.UseTor && c.ProxyAddress != "" {
		return ErrConflictingProxy
	}
	if c.UseTor && c.TorStartupTimeout <= 0 {
		return ErrInvalidTorStartupTimeout
	}
	if c.Language != "" {
		if _, ok := i18n.Lookup(c.Language); !ok {
			return ErrInvalidLanguage
		}
	}
	return nil
}
