package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxValueLen is the longest string attribute value that is logged as-is.
// Filter list lines are normally well under this; anything longer is
// truncated with an ellipsis so a pathological list cannot flood the log.
const MaxValueLen = 256

// Truncated is appended to attribute values cut at MaxValueLen.
const Truncated = "...(truncated)"

// SanitizeHandler wraps an slog.Handler to clean untrusted string values.
// It strips control characters (including ANSI escape sequences) and
// truncates oversized values before passing records to the underlying
// handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites log raw filter lines without thinking about sanitization
type SanitizeHandler struct {
	// handler is the underlying slog handler that receives cleaned records.
	handler slog.Handler
}

// NewSanitizeHandler creates a new SanitizeHandler wrapping the given handler.
// If handler is nil, the returned SanitizeHandler uses slog.Default().Handler().
func NewSanitizeHandler(handler slog.Handler) *SanitizeHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SanitizeHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *SanitizeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it to the underlying handler.
func (h *SanitizeHandler) Handle(ctx context.Context, r slog.Record) error {
	cleaned := slog.NewRecord(r.Time, r.Level, sanitizeString(r.Message), r.PC)

	r.Attrs(func(a slog.Attr) bool {
		cleaned.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, cleaned)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are sanitized before being added.
func (h *SanitizeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cleanedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		cleanedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SanitizeHandler{handler: h.handler.WithAttrs(cleanedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SanitizeHandler) WithGroup(name string) slog.Handler {
	return &SanitizeHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *SanitizeHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		cleanedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			cleanedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(cleanedAttrs...)}
	}

	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, sanitizeString(a.Value.String()))
	}

	return a
}

// sanitizeString strips control characters and truncates oversized values.
// Tabs survive because filter list comments use them for alignment.
func sanitizeString(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	if len(cleaned) > MaxValueLen {
		// Cut on a rune boundary so truncation never produces invalid UTF-8.
		cut := MaxValueLen
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = cleaned[:cut] + Truncated
	}
	return cleaned
}

// NewLogger creates a new slog.Logger with sanitizing text output.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or passed
// to components that accept *slog.Logger.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewSanitizeHandler(textHandler))
}

// NewJSONLogger creates a new slog.Logger with sanitizing JSON output.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(NewSanitizeHandler(jsonHandler))
}
