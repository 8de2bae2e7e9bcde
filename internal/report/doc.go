// Package report provides output writers for conversion results.
//
// This package contains writers for different output formats:
//   - JSONWriter: the content-blocker rule list itself, plus JSON
//     serialization of conversion statistics
//   - MarkdownWriter: a human-readable conversion statistics report
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) so new output formats can be added
// without touching the core data structures.
package report
