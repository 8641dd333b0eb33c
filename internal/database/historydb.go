package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/linkwalk/internal/model"
)

// FileName is the database file created in the history directory.
const FileName = "linkwalk.db"

// HistoryDB stores visits and downloads.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens the history database in dbDir.
// Without CreateIfNotExists a missing database is an error.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	} else if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		}
		return nil, fmt.Errorf("failed to check database path: %w", err)
	}

	mode := "rw"
	if opts.CreateIfNotExists {
		mode = "rwc"
	}
	db, err := sql.Open("sqlite", dbPath+"?mode="+mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer is all SQLite supports.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	h := &HistoryDB{db: db, dbPath: dbPath}
	if err := h.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return h, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		host TEXT NOT NULL,
		title TEXT,
		status_code INTEGER,
		link_count INTEGER,
		image_count INTEGER,
		saved_as TEXT,
		hash TEXT,
		visited_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_visits_host ON visits(host);
	CREATE INDEX IF NOT EXISTS idx_visits_time ON visits(visited_at);

	CREATE TABLE IF NOT EXISTS downloads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		file_name TEXT NOT NULL,
		path TEXT NOT NULL,
		bytes INTEGER,
		content_type TEXT,
		page_url TEXT,
		downloaded_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_downloads_time ON downloads(downloaded_at);
	`
	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// RecordVisit stores v and returns its row id. A zero Timestamp is
// replaced by the current time.
func (h *HistoryDB) RecordVisit(ctx context.Context, v *model.Visit) (int64, error) {
	ts := v.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := h.db.ExecContext(ctx, `
	INSERT INTO visits (url, host, title, status_code, link_count, image_count, saved_as, hash, visited_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.URL, v.Host, v.Title, v.StatusCode, v.LinkCount, v.ImageCount, v.SavedAs, v.Hash, formatTimestamp(ts),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert visit: %w", err)
	}
	return res.LastInsertId()
}

// RecordDownload stores d and returns its row id.
func (h *HistoryDB) RecordDownload(ctx context.Context, d *model.Download) (int64, error) {
	ts := d.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := h.db.ExecContext(ctx, `
	INSERT INTO downloads (url, file_name, path, bytes, content_type, page_url, downloaded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.URL, d.FileName, d.Path, d.Bytes, d.ContentType, d.PageURL, formatTimestamp(ts),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert download: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit visits and up to limit downloads, newest
// first. A limit of 0 or less returns everything.
func (h *HistoryDB) Recent(ctx context.Context, limit int) (*model.History, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	visits, err := h.recentVisits(ctx, limit)
	if err != nil {
		return nil, err
	}
	downloads, err := h.recentDownloads(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &model.History{Visits: visits, Downloads: downloads}, nil
}

func (h *HistoryDB) recentVisits(ctx context.Context, limit int) ([]model.Visit, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT id, url, host, title, status_code, link_count, image_count, saved_as, hash, visited_at
	FROM visits
	ORDER BY visited_at DESC, id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	visits := make([]model.Visit, 0)
	for rows.Next() {
		var (
			v         model.Visit
			title     sql.NullString
			savedAs   sql.NullString
			hash      sql.NullString
			timestamp string
		)
		if err := rows.Scan(&v.ID, &v.URL, &v.Host, &title, &v.StatusCode,
			&v.LinkCount, &v.ImageCount, &savedAs, &hash, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		v.Title = title.String
		v.SavedAs = savedAs.String
		v.Hash = hash.String
		v.Timestamp = parseTimestamp(timestamp)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

func (h *HistoryDB) recentDownloads(ctx context.Context, limit int) ([]model.Download, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT url, file_name, path, bytes, content_type, page_url, downloaded_at
	FROM downloads
	ORDER BY downloaded_at DESC, id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	downloads := make([]model.Download, 0)
	for rows.Next() {
		var (
			d           model.Download
			contentType sql.NullString
			pageURL     sql.NullString
			timestamp   string
		)
		if err := rows.Scan(&d.URL, &d.FileName, &d.Path, &d.Bytes, &contentType, &pageURL, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}
		d.ContentType = contentType.String
		d.PageURL = pageURL.String
		d.Timestamp = parseTimestamp(timestamp)
		downloads = append(downloads, d)
	}
	return downloads, rows.Err()
}

// storedTimestampFormat sorts lexically in time order for UTC values.
const storedTimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(storedTimestampFormat)
}

var timestampFormats = []string{
	storedTimestampFormat,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known format and returns the zero time when
// none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
