package main

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if !strings.HasPrefix(cmd.Use, "linkwalk") {
			t.Errorf("expected use to start with 'linkwalk', got %q", cmd.Use)
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
	})

	t.Run("has session flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{
			"output-dir", "timeout", "user-agent", "max-body-size", "lang",
			"no-history", "proxy", "tor", "tor-timeout", "config",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{"browse": false, "grab": false, "history": false, "init": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %q subcommand", name)
			}
		}
	})
}

func TestRootCmd_BrowseRejectedURL(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{
		"--no-history",
		"--lang", "en",
		"-o", dir,
		"-c", writeConfig(t, "history: false\n"),
		"http://example.com/",
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "Could not fetch http://example.com/") {
		t.Errorf("expected fetch failure for a plain http URL:\n%s", output)
	}
	if !strings.Contains(output, "Enter a URL to explore: ") {
		t.Errorf("expected url prompt after the failure:\n%s", output)
	}
	if !strings.HasSuffix(strings.TrimSpace(output), "Goodbye.") {
		t.Errorf("expected session to end on end of input:\n%s", output)
	}
	if matches, _ := filepath.Glob(filepath.Join(dir, "*")); len(matches) != 0 {
		t.Errorf("no files expected, got %v", matches)
	}
}

func TestRootCmd_ConfigurationError(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--tor", "--proxy", "127.0.0.1:9050", "-c", writeConfig(t, "")})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if !strings.Contains(err.Error(), "configuration error") {
		t.Errorf("unexpected error: %v", err)
	}
}
