package model

import "time"

// SkipReason classifies why an input line produced no rule.
// The aggregate skip count in the summary line is the sum over all reasons.
type SkipReason string

// Skip reasons. SkipNone marks a line that produced a rule.
const (
	// SkipNone means the line was converted into a rule.
	SkipNone SkipReason = ""

	// SkipEmpty means the line was empty after trimming whitespace.
	SkipEmpty SkipReason = "empty"

	// SkipComment means the line was a comment (starts with "!") or a
	// section header (starts with "[").
	SkipComment SkipReason = "comment"

	// SkipException means the line was an exception rule (starts with "@@").
	// Exception rules are out of scope for this converter.
	SkipException SkipReason = "exception"

	// SkipCosmetic means the line contained an element-hiding marker
	// ("##", "#@#", or "#?#"). Cosmetic rules cannot be expressed as
	// network-level content-blocker triggers.
	SkipCosmetic SkipReason = "cosmetic"

	// SkipDomainOption means the line carried a domain= option.
	// Domain-scoped rules are unsupported and dropped entirely.
	SkipDomainOption SkipReason = "domain-option"

	// SkipUnsupported means the pattern could not be translated into a
	// url-filter regex, or translated into a degenerate match-everything
	// expression.
	SkipUnsupported SkipReason = "unsupported-pattern"

	// SkipDuplicate means the translated rule had the same url-filter as
	// an earlier rule and was dropped by deduplication.
	SkipDuplicate SkipReason = "duplicate"
)

// ConversionReport is the result of converting one filter list.
// It carries the produced rules plus the statistics surfaced in the
// summary line, the markdown report, and the history database.
type ConversionReport struct {
	// Source is the named filter source that was converted, if any.
	// Empty when the input was a plain file path.
	Source string `json:"source,omitempty"`

	// InputPath is the path of the converted filter list.
	InputPath string `json:"input_path"`

	// OutputPath is the path the JSON rule list was written to.
	// Empty when the output went to stdout.
	OutputPath string `json:"output_path,omitempty"`

	// ConvertedAt is the timestamp when the conversion ran.
	ConvertedAt time.Time `json:"converted_at"`

	// Duration is how long the conversion took.
	Duration time.Duration `json:"duration"`

	// Converted is the number of rules in the output after deduplication.
	Converted int `json:"converted"`

	// Skipped is the number of input lines that produced no output rule,
	// including duplicates dropped by deduplication.
	Skipped int `json:"skipped"`

	// Breakdown counts skipped lines by reason.
	Breakdown map[SkipReason]int `json:"breakdown,omitempty"`

	// Rules is the deduplicated rule list.
	// Excluded from JSON: the rule list is the primary output document and
	// is serialized separately by the report writers.
	Rules []Rule `json:"-"`
}

// NewConversionReport creates a ConversionReport for the given input path
// with the timestamp set to now.
func NewConversionReport(inputPath string) *ConversionReport {
	return &ConversionReport{
		InputPath:   inputPath,
		ConvertedAt: time.Now(),
		Breakdown:   make(map[SkipReason]int),
	}
}

// Skip records one skipped line with the given reason.
func (r *ConversionReport) Skip(reason SkipReason) {
	r.Skipped++
	r.Breakdown[reason]++
}

// TotalLines returns the number of input lines the report accounts for.
func (r *ConversionReport) TotalLines() int {
	return r.Converted + r.Skipped
}
