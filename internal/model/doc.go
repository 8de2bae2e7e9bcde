// Package model defines the core data structures for abpconv.
// It contains the WebKit content-blocker rule types, the deduplicating
// rule set, and the conversion report shared by the converter, report
// writers, and the history database.
package model
