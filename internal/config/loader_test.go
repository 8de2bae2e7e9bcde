package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestLoadConfigFile tests loading named filter sources from YAML.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("valid config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `sources:
  easylist:
    url: https://easylist.to/easylist/easylist.txt
    output: easylist.json
  easyprivacy:
    url: https://easylist.to/easylist/easyprivacy.txt
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		src, ok := cf.Sources["easylist"]
		if !ok {
			t.Fatal("expected easylist source to be present")
		}
		if src.URL != "https://easylist.to/easylist/easylist.txt" {
			t.Errorf("got URL %q, expected easylist URL", src.URL)
		}
		if src.Output != "easylist.json" {
			t.Errorf("got output %q, expected %q", src.Output, "easylist.json")
		}
		if cf.Sources["easyprivacy"].Output != "" {
			t.Errorf("got output %q, expected empty", cf.Sources["easyprivacy"].Output)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "no-such-file"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("got %v, expected ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sources: [not a map"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("empty file yields empty sources map", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Sources == nil {
			t.Error("expected initialized sources map")
		}
		if len(cf.Sources) != 0 {
			t.Errorf("got %d sources, expected 0", len(cf.Sources))
		}
	})
}

// TestFindConfigFile tests the explicit-path branch of config discovery.
// The cwd and home fallbacks depend on the test environment and are not
// exercised here.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sources:\n"), 0600); err != nil {
			t.Fatal(err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("got %q, expected %q", got, path)
		}
	})

	t.Run("explicit missing path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing")); got != "" {
			t.Errorf("got %q, expected empty string", got)
		}
	})
}
