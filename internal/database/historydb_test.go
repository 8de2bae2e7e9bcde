package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/abpconv/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// testReport returns a completed conversion report for storage tests.
func testReport(source string) *model.ConversionReport {
	report := model.NewConversionReport("easylist.txt")
	report.Source = source
	report.OutputPath = "easylist.json"
	report.Converted = 40000
	report.Skipped = 12000
	report.Breakdown = map[model.SkipReason]int{
		model.SkipComment:  8000,
		model.SkipCosmetic: 4000,
	}
	report.Duration = 1500 * time.Millisecond
	return report
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		dbPath := filepath.Join(dbDir, "abpconv.db")
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false, EnableWAL: true}
		if _, err := Open(filepath.Join(t.TempDir(), "missing"), opts); err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		_ = db.Close()

		opts := Options{CreateIfNotExists: false, EnableWAL: true}
		db, err = Open(dbDir, opts)
		if err != nil {
			t.Fatalf("failed to open existing database: %v", err)
		}
		defer db.Close()
	})
}

// TestSaveRun tests recording conversion runs.
func TestSaveRun(t *testing.T) {
	t.Parallel()

	t.Run("saves and retrieves a run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		id, err := db.SaveRun(ctx, testReport("easylist"))
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		if id == 0 {
			t.Error("expected non-zero run ID")
		}

		rec, err := db.GetRun(ctx, id)
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if rec == nil {
			t.Fatal("expected run record, got nil")
		}
		if rec.Source != "easylist" {
			t.Errorf("got source %q, expected %q", rec.Source, "easylist")
		}
		if rec.Converted != 40000 {
			t.Errorf("got converted %d, expected 40000", rec.Converted)
		}
		if rec.Skipped != 12000 {
			t.Errorf("got skipped %d, expected 12000", rec.Skipped)
		}
		if rec.Duration != 1500*time.Millisecond {
			t.Errorf("got duration %v, expected 1.5s", rec.Duration)
		}
		if rec.Breakdown[model.SkipComment] != 8000 {
			t.Errorf("got comment breakdown %d, expected 8000", rec.Breakdown[model.SkipComment])
		}
	})

	t.Run("empty source falls back to input file name", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		report := testReport("")
		report.InputPath = "/lists/easylist.txt"
		id, err := db.SaveRun(ctx, report)
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		rec, err := db.GetRun(ctx, id)
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if rec.Source != "easylist.txt" {
			t.Errorf("got source %q, expected %q", rec.Source, "easylist.txt")
		}
	})

	t.Run("nil report returns error", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		if _, err := db.SaveRun(context.Background(), nil); err == nil {
			t.Error("expected error for nil report")
		}
	})
}

// TestListRuns tests the history listing.
func TestListRuns(t *testing.T) {
	t.Parallel()

	t.Run("lists newest first", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		for _, source := range []string{"easylist", "easyprivacy", "easylist"} {
			if _, err := db.SaveRun(ctx, testReport(source)); err != nil {
				t.Fatalf("failed to save run: %v", err)
			}
		}

		runs, err := db.ListRuns(ctx, "", 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("got %d runs, expected 3", len(runs))
		}
		// Same timestamp resolution, so ordering falls back to ID.
		if runs[0].ID < runs[1].ID || runs[1].ID < runs[2].ID {
			t.Error("expected runs in descending ID order")
		}
	})

	t.Run("limit restricts the listing", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			if _, err := db.SaveRun(ctx, testReport("easylist")); err != nil {
				t.Fatalf("failed to save run: %v", err)
			}
		}

		runs, err := db.ListRuns(ctx, "", 2)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("got %d runs, expected 2", len(runs))
		}
	})

	t.Run("source filter", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		for _, source := range []string{"easylist", "easyprivacy", "easylist"} {
			if _, err := db.SaveRun(ctx, testReport(source)); err != nil {
				t.Fatalf("failed to save run: %v", err)
			}
		}

		runs, err := db.ListRuns(ctx, "easylist", 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("got %d runs, expected 2", len(runs))
		}
		for _, run := range runs {
			if run.Source != "easylist" {
				t.Errorf("got source %q, expected %q", run.Source, "easylist")
			}
		}
	})

	t.Run("empty database lists nothing", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		runs, err := db.ListRuns(context.Background(), "", 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 0 {
			t.Errorf("got %d runs, expected 0", len(runs))
		}
	})
}

// TestGetRun tests run lookup by ID.
func TestGetRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	rec, err := db.GetRun(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Errorf("got %+v, expected nil for missing run", rec)
	}
}

// TestListSources tests the distinct source listing.
func TestListSources(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, source := range []string{"easylist", "easyprivacy", "easylist"} {
		if _, err := db.SaveRun(ctx, testReport(source)); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}

	sources, err := db.ListSources(ctx)
	if err != nil {
		t.Fatalf("failed to list sources: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("got %d sources, expected 2", len(sources))
	}
	if sources[0] != "easylist" || sources[1] != "easyprivacy" {
		t.Errorf("got %v, expected sorted distinct sources", sources)
	}
}

// TestParseTimestamp tests the SQLite timestamp format fallbacks.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{name: "sqlite default", input: "2026-08-29 12:34:56"},
		{name: "iso 8601 with Z", input: "2026-08-29T12:34:56Z"},
		{name: "rfc3339", input: "2026-08-29T12:34:56+09:00"},
		{name: "garbage", input: "not a timestamp", zero: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q) zero = %v, expected %v", tt.input, got.IsZero(), tt.zero)
			}
		})
	}
}
