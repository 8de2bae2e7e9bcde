package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout is the HTTP timeout for fetching one filter list.
	// Filter lists are a few megabytes served from CDNs; 30 seconds is
	// generous without letting a dead mirror hang the whole fetch.
	DefaultTimeout = 30 * time.Second

	// DefaultFreshness is how long a cached filter list is considered
	// current. Upstream lists update at most a few times per day, so
	// re-downloading more often than daily wastes bandwidth on both ends.
	DefaultFreshness = 24 * time.Hour

	// DefaultConcurrency is the number of filter sources fetched in
	// parallel. The default source set is small, so this mainly bounds
	// user-configured source lists.
	DefaultConcurrency = 4

	// DefaultMaxBodySize limits the response body size when fetching a
	// filter list. EasyList is around 3MB; 50MB leaves room for combined
	// lists while preventing memory exhaustion from a misbehaving server.
	DefaultMaxBodySize = 50 * 1024 * 1024

	// DefaultUserAgent identifies abpconv in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows list
	// operators to identify converter traffic in their logs.
	DefaultUserAgent = "abpconv/1.0 (+https://github.com/nao1215/abpconv)"

	// AppName is the application name used for XDG directory paths.
	AppName = "abpconv"
)

// Config holds all configuration options for abpconv.
// This struct is populated from CLI flags and the optional configuration
// file and passed through the application via dependency injection rather
// than global state.
type Config struct {
	// InputPath is the filter list file to convert.
	// Mutually exclusive with SourceName.
	InputPath string

	// SourceName is a named filter source to convert from the local cache,
	// fetching it first when absent. Mutually exclusive with InputPath.
	SourceName string

	// OutputPath is the file to write the JSON rule list to.
	// When empty, the rule list goes to stdout.
	OutputPath string

	// ReportPath is the file to write the markdown statistics report to.
	// When empty, no statistics report is produced.
	ReportPath string

	// EmitResourceTypes enables resource-type arrays in produced triggers.
	// Off by default: the minimal trigger shape is what existing rule list
	// consumers expect byte for byte.
	EmitResourceTypes bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// Timeout is the HTTP timeout for fetching one filter list.
	Timeout time.Duration

	// Freshness is how long a cached filter list is considered current.
	Freshness time.Duration

	// Concurrency is the number of filter sources fetched in parallel.
	Concurrency int

	// MaxBodySize is the maximum response body size in bytes to read when
	// fetching. Responses larger than this abort the fetch.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format used
	// for fetching. Empty means direct connections.
	ProxyAddress string

	// ForceFetch bypasses the freshness window and re-downloads sources.
	ForceFetch bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .abpconv in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Sources holds the named filter sources loaded from the config file.
	Sources *File

	// CacheDir is the directory fetched filter lists are cached in.
	// Defaults to the XDG cache directory.
	CacheDir string

	// DBDir is the directory for the conversion history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveHistory controls whether conversion runs are recorded in the
	// history database. Recording failures are logged, never fatal.
	SaveHistory bool
}

// NewConfig creates a new Config with default values.
// Users override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (timeouts, limits).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		Freshness:   DefaultFreshness,
		Concurrency: DefaultConcurrency,
		MaxBodySize: DefaultMaxBodySize,
		UserAgent:   DefaultUserAgent,
		CacheDir:    XDGCacheDir(),
		DBDir:       XDGDataDir(),
		SaveHistory: true,
	}
}

// XDGDataDir returns the XDG data directory for abpconv.
// On Linux: ~/.local/share/abpconv
// On macOS: ~/Library/Application Support/abpconv
// On Windows: %LOCALAPPDATA%\abpconv
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for abpconv.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for abpconv.
// Fetched filter lists are cached here.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific sentinel error describing what is invalid.
// Called once after CLI parsing, before any conversion begins, so
// failures surface upfront with clear messages.
func (c *Config) Validate() error {
	if c.InputPath == "" && c.SourceName == "" {
		return ErrNoInput
	}
	if c.InputPath != "" && c.SourceName != "" {
		return ErrConflictingInputs
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Freshness < 0 {
		return ErrInvalidFreshness
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
