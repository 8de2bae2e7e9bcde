package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInput is returned when neither an input path nor a named source
	// is specified. The converter needs exactly one of the two.
	ErrNoInput = errors.New("no input specified: provide a filter list path or use --source")

	// ErrConflictingInputs is returned when both an input path and a named
	// source are specified. Only one input can be converted per run.
	ErrConflictingInputs = errors.New("conflicting inputs: a filter list path and --source cannot be used together")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the fetch concurrency is not
	// positive. Zero workers would mean no fetching at all.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidFreshness is returned when the cache freshness window is
	// negative. Use 0 to treat every cached list as stale.
	ErrInvalidFreshness = errors.New("invalid freshness: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
