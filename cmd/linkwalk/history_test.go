package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/linkwalk/internal/database"
	"github.com/nao1215/linkwalk/internal/model"
	"github.com/nao1215/linkwalk/internal/report"
)

func seedHistory(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	for i, u := range []string{"https://example.com/", "https://example.com/about"} {
		v := &model.Visit{
			URL:        u,
			Host:       "example.com",
			Title:      "Page",
			StatusCode: 200,
			Timestamp:  now.Add(time.Duration(i) * time.Second),
		}
		if _, err := db.RecordVisit(ctx, v); err != nil {
			t.Fatalf("failed to record visit: %v", err)
		}
	}
	d := &model.Download{URL: "https://example.com/logo.png", FileName: "logo.png", Path: "logo.png", Bytes: 10, Timestamp: now}
	if _, err := db.RecordDownload(ctx, d); err != nil {
		t.Fatalf("failed to record download: %v", err)
	}
	return dir
}

func TestRunHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("json output newest first", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--db-dir", seedHistory(t), "--format", "json"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var h model.History
		if err := json.Unmarshal(buf.Bytes(), &h); err != nil {
			t.Fatalf("invalid json: %v\n%s", err, buf.String())
		}
		if len(h.Visits) != 2 || h.Visits[0].URL != "https://example.com/about" {
			t.Errorf("unexpected visits: %+v", h.Visits)
		}
		if len(h.Downloads) != 1 {
			t.Errorf("unexpected downloads: %+v", h.Downloads)
		}
	})

	t.Run("limit", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--db-dir", seedHistory(t), "--format", "json", "-n", "1"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var h model.History
		if err := json.Unmarshal(buf.Bytes(), &h); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if len(h.Visits) != 1 {
			t.Errorf("expected 1 visit, got %d", len(h.Visits))
		}
	})

	t.Run("markdown to file", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), "reports", "history.md")

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--db-dir", seedHistory(t), "--format", "markdown", "-o", outputPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("report not written: %v", err)
		}
		if !strings.Contains(string(content), "# linkwalk history") {
			t.Errorf("unexpected report:\n%s", content)
		}
		if !strings.Contains(buf.String(), outputPath) {
			t.Errorf("expected confirmation message, got %q", buf.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "db")
		cmd := NewHistoryCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--db-dir", dbDir, "--format", "xml"})

		err := cmd.Execute()
		if !errors.Is(err, report.ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
		if _, err := os.Stat(dbDir); !os.IsNotExist(err) {
			t.Error("database must not be created for an invalid format")
		}
	})

	t.Run("negative limit", func(t *testing.T) {
		t.Parallel()

		cmd := NewHistoryCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--db-dir", t.TempDir(), "-n", "-1"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for negative limit")
		}
	})
}
