package converter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nao1215/abpconv/internal/easylist"
	"github.com/nao1215/abpconv/internal/model"
)

// maxLineSize is the scanner buffer limit for a single input line.
// Filter lists occasionally contain very long lines (inlined base64
// resources in uBlock-flavored lists); 1MB covers everything seen in the
// wild while still bounding memory.
const maxLineSize = 1024 * 1024

// Converter converts AdBlock Plus filter lists into WebKit content-blocker
// rule lists.
type Converter struct {
	// parser classifies and translates individual lines.
	parser *easylist.Parser
}

// Option configures a Converter.
type Option func(*Converter)

// WithResourceTypes enables resource-type emission in produced triggers.
func WithResourceTypes() Option {
	return func(c *Converter) {
		c.parser = easylist.NewParser(easylist.WithResourceTypes())
	}
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{
		parser: easylist.NewParser(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert reads filter list lines from r and returns the conversion report
// with the deduplicated rules. Lines that produce no rule are counted as
// skipped, never reported as errors; duplicates dropped by deduplication
// count toward the skipped total as well.
//
// Input is decoded as UTF-8. A leading byte order mark (UTF-8 or UTF-16)
// is honored and stripped: filter lists downloaded from the web
// occasionally carry one.
func (c *Converter) Convert(r io.Reader) (*model.ConversionReport, error) {
	report := model.NewConversionReport("")
	start := time.Now()

	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	rules := model.NewRuleSet()
	for scanner.Scan() {
		rule, reason := c.parser.ParseLine(scanner.Text())
		if rule == nil {
			report.Skip(reason)
			continue
		}
		if !rules.Add(*rule) {
			report.Skip(model.SkipDuplicate)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read filter list: %w", err)
	}

	report.Rules = rules.Rules()
	report.Converted = rules.Len()
	report.Duration = time.Since(start)
	return report, nil
}

// ConvertFile converts the filter list at path. The returned report has
// InputPath set to path.
func (c *Converter) ConvertFile(path string) (*model.ConversionReport, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open filter list: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	report, err := c.Convert(f)
	if err != nil {
		return nil, err
	}
	report.InputPath = path
	return report, nil
}
