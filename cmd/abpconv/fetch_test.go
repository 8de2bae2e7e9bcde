package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/nao1215/abpconv/internal/config"
	"github.com/nao1215/abpconv/internal/log"
)

// TestNewFetchCmd tests the fetch command creation.
func TestNewFetchCmd(t *testing.T) {
	t.Parallel()

	cmd := NewFetchCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "fetch [source...]" {
			t.Errorf("expected use 'fetch [source...]', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"force", "proxy", "timeout", "config"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})

	t.Run("force flag has shorthand", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("force")
		if flag.Shorthand != "f" {
			t.Errorf("expected shorthand 'f', got %q", flag.Shorthand)
		}
	})
}

// fetchTestSetup returns a config pointing at a temporary cache directory
// with one configured source served by the given handler, plus a command
// with captured output buffers.
func fetchTestSetup(t *testing.T, handler http.HandlerFunc) (*config.Config, *cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.NewConfig()
	cfg.CacheDir = t.TempDir()
	cfg.Sources = &config.File{
		Sources: map[string]config.SourceConfig{
			"testlist": {URL: srv.URL},
		},
	}

	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	return cfg, cmd, &stdout, &stderr
}

// TestRunFetch tests fetching configured sources.
func TestRunFetch(t *testing.T) {
	t.Parallel()

	t.Run("fetches a named source", func(t *testing.T) {
		t.Parallel()

		cfg, cmd, stdout, _ := fetchTestSetup(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("||example.com^\n")) //nolint:errcheck // test server
		})
		logger := log.NewLogger(cmd.ErrOrStderr(), false)

		if err := runFetch(context.Background(), cmd, cfg, []string{"testlist"}, logger); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout.String(), "Fetched testlist:") {
			t.Errorf("stdout %q does not report the fetched source", stdout.String())
		}
	})

	t.Run("second fetch uses cache", func(t *testing.T) {
		t.Parallel()

		cfg, cmd, stdout, _ := fetchTestSetup(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("data")) //nolint:errcheck // test server
		})
		logger := log.NewLogger(cmd.ErrOrStderr(), false)

		if err := runFetch(context.Background(), cmd, cfg, []string{"testlist"}, logger); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := runFetch(context.Background(), cmd, cfg, []string{"testlist"}, logger); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout.String(), "Using cached copy of testlist:") {
			t.Errorf("stdout %q does not report the cached copy", stdout.String())
		}
	})

	t.Run("unknown source returns error", func(t *testing.T) {
		t.Parallel()

		cfg, cmd, _, _ := fetchTestSetup(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("data")) //nolint:errcheck // test server
		})
		logger := log.NewLogger(cmd.ErrOrStderr(), false)

		if err := runFetch(context.Background(), cmd, cfg, []string{"nope"}, logger); err == nil {
			t.Error("expected error for unknown source")
		}
	})

	t.Run("download failure without cache returns error", func(t *testing.T) {
		t.Parallel()

		cfg, cmd, _, stderr := fetchTestSetup(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		})
		logger := log.NewLogger(cmd.ErrOrStderr(), false)

		err := runFetch(context.Background(), cmd, cfg, []string{"testlist"}, logger)
		if err == nil {
			t.Error("expected error for failed fetch")
		}
		if !strings.Contains(stderr.String(), "Failed to fetch testlist") {
			t.Errorf("stderr %q does not report the failure", stderr.String())
		}
	})

	t.Run("download failure with stale cache succeeds", func(t *testing.T) {
		t.Parallel()

		cfg, cmd, stdout, _ := fetchTestSetup(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		})
		cfg.ForceFetch = true
		logger := log.NewLogger(cmd.ErrOrStderr(), false)

		// Seed the cache by hand, then force a failing re-fetch
		cachePath := filepath.Join(cfg.CacheDir, "testlist.txt")
		if err := os.WriteFile(cachePath, []byte("stale data"), 0600); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		if err := runFetch(context.Background(), cmd, cfg, []string{"testlist"}, logger); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout.String(), "Using stale cached copy of testlist:") {
			t.Errorf("stdout %q does not report the stale copy", stdout.String())
		}
	})
}
