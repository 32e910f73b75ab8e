// Package pageviews sums page-view counts over a date range.
//
// The Aggregator asks a Source for the daily view counts of one page across
// all access methods and all agent types and adds them up. The analytics
// service reports "no data loaded for this page or range" as a distinct
// condition (ErrNoData); the Aggregator treats it as zero views.
//
// RESTSource is the Source backed by the Wikimedia REST API
// (metrics/pageviews/per-article).
package pageviews
