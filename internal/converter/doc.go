// Package converter drives the filter list conversion: it reads an input
// stream line by line, classifies each line through the easylist parser,
// deduplicates the produced rules, and aggregates the statistics reported
// to the user and recorded in the history database.
package converter
