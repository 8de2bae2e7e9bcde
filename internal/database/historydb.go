package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/abpconv/internal/model"
)

// HistoryDB provides SQLite-based storage for conversion runs.
//
// Design decision: We use a single database file for all sources rather
// than one file per filter list. This keeps cross-source queries (the
// history listing) trivial and makes backup a single-file copy.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "abpconv.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer, and the conversion workload is a
	// short burst of writes at the end of a run.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Conversion runs store one row per convert invocation
	CREATE TABLE IF NOT EXISTS conversions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		input_path TEXT NOT NULL,
		output_path TEXT,
		converted INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		breakdown TEXT,
		duration_ms INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_conversions_source ON conversions(source);
	CREATE INDEX IF NOT EXISTS idx_conversions_timestamp ON conversions(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is one stored conversion run.
type RunRecord struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Source is the named source the run converted, or the input file
	// name when a local file was converted.
	Source string

	// InputPath is the filter list that was read.
	InputPath string

	// OutputPath is where the content blocker JSON was written.
	// Empty when the output went to stdout.
	OutputPath string

	// Converted is the number of rules emitted.
	Converted int

	// Skipped is the number of lines that produced no rule.
	Skipped int

	// Breakdown counts skipped lines by reason.
	Breakdown map[model.SkipReason]int

	// Duration is how long the conversion took.
	Duration time.Duration

	// Timestamp is when the run was recorded.
	Timestamp time.Time
}

// SaveRun records a completed conversion.
// The skip breakdown is stored as JSON because its keys are open-ended
// and never queried individually.
func (hdb *HistoryDB) SaveRun(ctx context.Context, report *model.ConversionReport) (int64, error) {
	if report == nil {
		return 0, errors.New("nil conversion report")
	}

	breakdownJSON, err := json.Marshal(report.Breakdown)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize breakdown: %w", err)
	}

	source := report.Source
	if source == "" {
		source = filepath.Base(report.InputPath)
	}

	query := `
	INSERT INTO conversions (source, input_path, output_path, converted, skipped, breakdown, duration_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		source,
		report.InputPath,
		report.OutputPath,
		report.Converted,
		report.Skipped,
		string(breakdownJSON),
		report.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save conversion run: %w", err)
	}

	return result.LastInsertId()
}

// ListRuns returns the most recent conversion runs, newest first.
// A limit of 0 or less returns all runs. An optional source filters the
// listing to runs of that source.
func (hdb *HistoryDB) ListRuns(ctx context.Context, source string, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, source, input_path, output_path, converted, skipped, breakdown, duration_ms, timestamp
	FROM conversions
	`
	args := make([]any, 0, 2)

	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	query += " ORDER BY timestamp DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversion runs: %w", err)
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		var rec RunRecord
		var output sql.NullString
		var breakdownJSON sql.NullString
		var durationMS int64
		var timestamp string

		err := rows.Scan(
			&rec.ID,
			&rec.Source,
			&rec.InputPath,
			&output,
			&rec.Converted,
			&rec.Skipped,
			&breakdownJSON,
			&durationMS,
			&timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversion run: %w", err)
		}

		rec.OutputPath = output.String
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.Timestamp = parseTimestamp(timestamp)

		if breakdownJSON.Valid && breakdownJSON.String != "" {
			if err := json.Unmarshal([]byte(breakdownJSON.String), &rec.Breakdown); err != nil {
				rec.Breakdown = make(map[model.SkipReason]int)
			}
		} else {
			rec.Breakdown = make(map[model.SkipReason]int)
		}

		results = append(results, rec)
	}

	return results, rows.Err()
}

// GetRun retrieves one conversion run by its database ID.
// It returns nil when no run with that ID exists.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	query := `
	SELECT id, source, input_path, output_path, converted, skipped, breakdown, duration_ms, timestamp
	FROM conversions
	WHERE id = ?
	`

	var rec RunRecord
	var output sql.NullString
	var breakdownJSON sql.NullString
	var durationMS int64
	var timestamp string

	err := hdb.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.Source,
		&rec.InputPath,
		&output,
		&rec.Converted,
		&rec.Skipped,
		&breakdownJSON,
		&durationMS,
		&timestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversion run: %w", err)
	}

	rec.OutputPath = output.String
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.Timestamp = parseTimestamp(timestamp)
	if breakdownJSON.Valid && breakdownJSON.String != "" {
		if err := json.Unmarshal([]byte(breakdownJSON.String), &rec.Breakdown); err != nil {
			rec.Breakdown = make(map[model.SkipReason]int)
		}
	}

	return &rec, nil
}

// ListSources returns the distinct source names with recorded runs.
func (hdb *HistoryDB) ListSources(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT source FROM conversions
	ORDER BY source
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
