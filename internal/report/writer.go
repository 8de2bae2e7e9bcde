package report

import (
	"io"

	"github.com/nao1215/abpconv/internal/model"
)

// Writer defines the interface for conversion statistics output.
// Implementations render the same report in different formats.
type Writer interface {
	// Write outputs the conversion report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ConversionReport) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// countingWriter wraps an io.Writer and tracks the number of bytes written.
// json.Encoder does not report byte counts, so writers that stream through
// an encoder wrap their destination with this.
type countingWriter struct {
	w io.Writer
	n int
}

// Write forwards to the wrapped writer and accumulates the count.
func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
