// Package log provides logging with automatic sanitization of untrusted
// filter list content, built on top of the standard slog package.
//
// Filter lists are downloaded from third parties and individual lines end
// up in log attributes (skipped lines, unsupported patterns). A malicious
// list could embed terminal escape sequences or megabyte-long lines, so
// the handler strips control characters and truncates oversized values
// before they reach the terminal.
//
// # Usage
//
//	// Create a sanitizing logger
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Debug("line skipped",
//	    "line", rawLine, // control characters stripped, long lines truncated
//	    "reason", "cosmetic",
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
