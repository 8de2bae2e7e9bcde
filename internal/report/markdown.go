package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/abpconv/internal/model"
)

// skipReasonRows fixes the display order and labels of skip reasons in the
// breakdown table and the pie chart. Map iteration order is random, and a
// report that reshuffles its rows between runs reads as broken.
var skipReasonRows = []struct {
	reason model.SkipReason
	label  string
}{
	{model.SkipEmpty, "Empty lines"},
	{model.SkipComment, "Comments and headers"},
	{model.SkipException, "Exception rules"},
	{model.SkipCosmetic, "Cosmetic rules"},
	{model.SkipDomainOption, "Domain-scoped rules"},
	{model.SkipUnsupported, "Unsupported patterns"},
	{model.SkipDuplicate, "Duplicates"},
}

// MarkdownWriter outputs conversion statistics in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the conversion report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ConversionReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeBreakdown(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with conversion information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ConversionReport) {
	md.H1("Filter List Conversion Report")
	md.PlainText("")

	rows := [][]string{
		{"Input", "`" + report.InputPath + "`"},
		{"Converted At", report.ConvertedAt.Format("2006-01-02 15:04:05 MST")},
		{"Duration", report.Duration.Round(time.Millisecond).String()},
	}
	if report.Source != "" {
		rows = append([][]string{{"Source", report.Source}}, rows...)
	}
	if report.OutputPath != "" {
		rows = append(rows, []string{"Output", "`" + report.OutputPath + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSummary writes the conversion counts and an alert about the outcome.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.ConversionReport) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Rules converted", strconv.Itoa(report.Converted)},
			{"Lines skipped", strconv.Itoa(report.Skipped)},
			{"**Total lines**", "**" + strconv.Itoa(report.TotalLines()) + "**"},
		},
	})
	md.PlainText("")

	switch {
	case report.Converted == 0:
		md.Warningf("No rules were produced. The input may not be an AdBlock Plus filter list.")
	case report.Skipped > report.Converted:
		md.Note(fmt.Sprintf("More lines were skipped (%d) than converted (%d). "+
			"Cosmetic and exception rules are out of scope for content-blocker output.",
			report.Skipped, report.Converted))
	default:
		md.Tip(fmt.Sprintf("Converted %d rules (skipped %d).", report.Converted, report.Skipped))
	}
	md.PlainText("")
}

// writeBreakdown writes the skipped-line breakdown with a pie chart.
func (w *MarkdownWriter) writeBreakdown(md *markdown.Markdown, report *model.ConversionReport) {
	md.H2("Skipped Lines")
	md.PlainText("")

	if report.Skipped == 0 {
		md.PlainText("No lines were skipped.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(skipReasonRows))
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Skipped Line Distribution"),
		piechart.WithShowData(true),
	)
	for _, row := range skipReasonRows {
		count := report.Breakdown[row.reason]
		if count == 0 {
			continue
		}
		rows = append(rows, []string{row.label, strconv.Itoa(count)})
		chart.LabelAndIntValue(row.label, uint64(count)) //nolint:gosec // counts are non-negative
	}

	md.Table(markdown.TableSet{
		Header: []string{"Reason", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("Generated by [abpconv](https://github.com/nao1215/abpconv)")
}
