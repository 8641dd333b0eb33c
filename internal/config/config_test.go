package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig documents the defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.OutputDir != "." {
		t.Errorf("expected OutputDir '.', got %q", cfg.OutputDir)
	}
	if cfg.Timeout != 0 {
		t.Errorf("expected no timeout, got %v", cfg.Timeout)
	}
	if cfg.MaxBodySize != 0 {
		t.Errorf("expected unbounded body, got %d", cfg.MaxBodySize)
	}
	if cfg.UserAgent != "" {
		t.Errorf("expected empty user agent, got %q", cfg.UserAgent)
	}
	if !cfg.History {
		t.Error("expected history to be enabled")
	}
	if cfg.DBDir != XDGDataDir() {
		t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
	}
	if cfg.UseTor || cfg.ProxyAddress != "" || cfg.UsesTorRouting() {
		t.Error("expected no proxy by default")
	}
	if cfg.TorStartupTimeout != 3*time.Minute {
		t.Errorf("expected TorStartupTimeout 3m, got %v", cfg.TorStartupTimeout)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("expected Concurrency 4, got %d", cfg.Concurrency)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid timeout", modify: func(c *Config) { c.Timeout = 30 * time.Second }, wantErr: nil},
		{name: "negative timeout", modify: func(c *Config) { c.Timeout = -time.Second }, wantErr: ErrInvalidTimeout},
		{name: "negative body size", modify: func(c *Config) { c.MaxBodySize = -1 }, wantErr: ErrInvalidMaxBodySize},
		{name: "zero concurrency", modify: func(c *Config) { c.Concurrency = 0 }, wantErr: ErrInvalidConcurrency},
		{name: "proxy and tor", modify: func(c *Config) { c.UseTor = true; c.ProxyAddress = "127.0.0.1:9050" }, wantErr: ErrConflictingProxy},
		{name: "tor with zero startup timeout", modify: func(c *Config) { c.UseTor = true; c.TorStartupTimeout = 0 }, wantErr: ErrInvalidTorStartupTimeout},
		{name: "zero startup timeout without tor", modify: func(c *Config) { c.TorStartupTimeout = 0 }, wantErr: nil},
		{name: "french", modify: func(c *Config) { c.Language = "fr" }, wantErr: nil},
		{name: "posix locale name", modify: func(c *Config) { c.Language = "fr_FR.UTF-8" }, wantErr: nil},
		{name: "unsupported language", modify: func(c *Config) { c.Language = "de" }, wantErr: ErrInvalidLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUsesTorRouting(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.ProxyAddress = "127.0.0.1:9150"
	if !cfg.UsesTorRouting() {
		t.Error("external proxy should count as Tor routing")
	}

	cfg = NewConfig()
	cfg.UseTor = true
	if !cfg.UsesTorRouting() {
		t.Error("embedded Tor should count as Tor routing")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		f, err := LoadConfigFile("/nonexistent/path/.linkwalk")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if f != nil {
			t.Error("expected nil file")
		}
	})

	t.Run("loads and applies every key", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), ".linkwalk", `outputDir: downloads
timeout: 45s
userAgent: "linkwalk/1.0"
maxBodySize: 1048576
language: fr
history: false
proxy: 127.0.0.1:9150
torStartupTimeout: 5m
concurrency: 8
`)
		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		if err := f.Apply(cfg); err != nil {
			t.Fatalf("unexpected apply error: %v", err)
		}

		if cfg.OutputDir != "downloads" {
			t.Errorf("OutputDir = %q", cfg.OutputDir)
		}
		if cfg.Timeout != 45*time.Second {
			t.Errorf("Timeout = %v", cfg.Timeout)
		}
		if cfg.UserAgent != "linkwalk/1.0" {
			t.Errorf("UserAgent = %q", cfg.UserAgent)
		}
		if cfg.MaxBodySize != 1<<20 {
			t.Errorf("MaxBodySize = %d", cfg.MaxBodySize)
		}
		if cfg.Language != "fr" {
			t.Errorf("Language = %q", cfg.Language)
		}
		if cfg.History {
			t.Error("History should be disabled")
		}
		if cfg.ProxyAddress != "127.0.0.1:9150" {
			t.Errorf("ProxyAddress = %q", cfg.ProxyAddress)
		}
		if cfg.TorStartupTimeout != 5*time.Minute {
			t.Errorf("TorStartupTimeout = %v", cfg.TorStartupTimeout)
		}
		if cfg.Concurrency != 8 {
			t.Errorf("Concurrency = %d", cfg.Concurrency)
		}
	})

	t.Run("unset keys keep existing values", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), ".linkwalk", "tor: true\n")
		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		if err := f.Apply(cfg); err != nil {
			t.Fatalf("unexpected apply error: %v", err)
		}
		if !cfg.UseTor {
			t.Error("expected UseTor")
		}
		if !cfg.History || cfg.OutputDir != "." || cfg.Concurrency != DefaultConcurrency {
			t.Errorf("defaults changed: %+v", cfg)
		}
	})

	t.Run("invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), ".linkwalk", `invalid: yaml: content: [}`)
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("invalid duration", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), ".linkwalk", "timeout: soon\n")
		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := f.Apply(NewConfig()); err == nil || !strings.Contains(err.Error(), "timeout") {
			t.Errorf("expected timeout parse error, got %v", err)
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "custom.yaml", "concurrency: 2\n")
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("explicit file is applied", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "custom.yaml", "concurrency: 2\n")
		cfg := NewConfig()
		got, err := Load(cfg, path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != path || cfg.ConfigFilePath != path {
			t.Errorf("path = %q, ConfigFilePath = %q", got, cfg.ConfigFilePath)
		}
		if cfg.Concurrency != 2 {
			t.Errorf("Concurrency = %d", cfg.Concurrency)
		}
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		t.Parallel()

		_, err := Load(NewConfig(), filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("bad file content is an error", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "bad.yaml", "timeout: later\n")
		if _, err := Load(NewConfig(), path); err == nil {
			t.Error("expected error")
		}
	})
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if !strings.HasSuffix(XDGDataDir(), AppName) {
		t.Errorf("unexpected data dir %q", XDGDataDir())
	}
	if !strings.HasSuffix(XDGConfigDir(), AppName) {
		t.Errorf("unexpected config dir %q", XDGConfigDir())
	}
	if filepath.Base(XDGConfigPath()) != XDGConfigFile {
		t.Errorf("unexpected config path %q", XDGConfigPath())
	}
}
