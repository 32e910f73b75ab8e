// Package main provides the entry point for the wikistats CLI.
//
// wikistats collects statistics about Wikipedia articles and their
// Wikidata items (text length, contributors, revisions, links, claims and
// optionally page views) and writes one row per article.
//
// Usage:
//
//	wikistats --article Köln
//	wikistats --category "Stadt in Deutschland" --start 20240101 --end 20240131
//	wikistats --languages Cologne
//	wikistats --file items.tsv
//
// See --help for all available options.
package main

// main is the entry point for wikistats.
func main() {
	Execute()
}
