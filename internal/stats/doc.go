// Package stats collects the statistics of one wiki page.
//
// The Collector runs an ordered list of field steps against the wiki
// content service, one query per field, and assembles the results into a
// model.Record whose field order is fixed. The order is the column order of
// every report, so header and rows line up for all pages of a run.
//
// Each step yields an Outcome: a value plus the kind of recognized fault it
// recovered from, if any. Only two faults are recognized and recovered:
// malformed interwiki data (counted as zero links) and missing page-view
// data (counted as zero views). Every other error aborts the collection of
// the page and no partial record is returned.
package stats
