package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration file names searched by FindConfigFile.
const (
	// DefaultConfigFile is looked up in the current and home directories.
	DefaultConfigFile = ".linkwalk"

	// XDGConfigFile is looked up in XDGConfigDir.
	XDGConfigFile = "config.yaml"
)

// File is the YAML layout of the configuration file. Unset keys keep the
// value already in the Config.
type File struct {
	OutputDir         *string `yaml:"outputDir,omitempty"`
	Timeout           string  `yaml:"timeout,omitempty"`
	UserAgent         *string `yaml:"userAgent,omitempty"`
	MaxBodySize       *int64  `yaml:"maxBodySize,omitempty"`
	Language          string  `yaml:"language,omitempty"`
	History           *bool   `yaml:"history,omitempty"`
	Proxy             string  `yaml:"proxy,omitempty"`
	Tor               *bool   `yaml:"tor,omitempty"`
	TorStartupTimeout string  `yaml:"torStartupTimeout,omitempty"`
	Concurrency       int     `yaml:"concurrency,omitempty"`
}

// LoadConfigFile reads a YAML configuration file.
// A missing file yields ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid yaml in %s: %w", path, err)
	}
	return &f, nil
}

// Apply copies the values set in f onto cfg.
// Durations use Go syntax ("30s", "2m").
func (f *File) Apply(cfg *Config) error {
	if f.OutputDir != nil {
		cfg.OutputDir = *f.OutputDir
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if f.UserAgent != nil {
		cfg.UserAgent = *f.UserAgent
	}
	if f.MaxBodySize != nil {
		cfg.MaxBodySize = *f.MaxBodySize
	}
	if f.Language != "" {
		cfg.Language = f.Language
	}
	if f.History != nil {
		cfg.History = *f.History
	}
	if f.Proxy != "" {
		cfg.ProxyAddress = f.Proxy
	}
	if f.Tor != nil {
		cfg.UseTor = *f.Tor
	}
	if f.TorStartupTimeout != "" {
		d, err := time.ParseDuration(f.TorStartupTimeout)
		if err != nil {
			return fmt.Errorf("torStartupTimeout: %w", err)
		}
		cfg.TorStartupTimeout = d
	}
	if f.Concurrency != 0 {
		cfg.Concurrency = f.Concurrency
	}
	return nil
}

// FindConfigFile returns the configuration file to use:
// configPath when given and present, otherwise .linkwalk in the current
// directory, then in the home directory, then config.yaml in XDGConfigDir.
// It returns "" when none exists.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if candidate := XDGConfigPath(); fileExists(candidate) {
		return candidate
	}

	return ""
}

// XDGConfigPath returns the path of the configuration file in XDGConfigDir.
func XDGConfigPath() string {
	return filepath.Join(XDGConfigDir(), XDGConfigFile)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load applies the configuration file selected by FindConfigFile(explicit)
// to cfg and returns its path. An explicit path that does not exist is an
// error; a missing default file is not.
func Load(cfg *Config, explicit string) (string, error) {
	path := FindConfigFile(explicit)
	if path == "" {
		if explicit != "" {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
		}
		return "", nil
	}

	f, err := LoadConfigFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if err := f.Apply(cfg); err != nil {
		return "", fmt.Errorf("config file %s: %w", path, err)
	}
	cfg.ConfigFilePath = path
	return path, nil
}
