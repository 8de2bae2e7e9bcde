// Package database provides SQLite-based storage for conversion history.
//
// Every convert run can be recorded with its source, counts, and skip
// breakdown, so users can compare runs over time and notice a filter
// list that suddenly converts fewer rules.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
