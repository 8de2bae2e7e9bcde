package fetcher

import "errors"

// Fetcher errors.
//
// Design decision: We define these as sentinel errors so callers can use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrUnknownSource is returned when a source name is not defined in
	// the built-in sources or the configuration file.
	ErrUnknownSource = errors.New("unknown filter source")

	// ErrInvalidSourceName is returned when a source name contains path
	// separators or is otherwise unusable as a cache file name.
	ErrInvalidSourceName = errors.New("invalid filter source name")

	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address
	// is not in valid "host:port" format.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: must be in host:port format")

	// ErrBodyTooLarge is returned when a filter list exceeds the
	// configured maximum body size. Filter lists are plain text and a
	// response that large indicates a misbehaving server.
	ErrBodyTooLarge = errors.New("response body exceeds maximum size")

	// ErrNotCached is returned when a cached copy is requested for a
	// source that has never been fetched.
	ErrNotCached = errors.New("filter source not cached")
)
