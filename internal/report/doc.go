// Package report writes page statistics as report rows.
//
// This package contains emitters for different output formats:
//   - TSVWriter: separator-delimited rows with a leading "# name" header
//   - MarkdownWriter: a GitHub-flavored Markdown table
//   - JSONWriter: one JSON object per row (NDJSON)
//   - TableWriter: an aligned table for terminal display
//
// Emitters implement the Emitter interface so the collection loop does not
// depend on the output format. The header is derived from the field names
// of the first record, so it always matches the rows that follow.
package report
