// Package model defines the core data structures used throughout wikistats.
//
// This package contains the following main types:
//   - Site: One wiki edition, identified by its canonical site code and project
//   - Page: A handle to a page within a site, as resolved by the content service
//   - Target: A (display name, page) pair produced by a target mode
//   - Record: The ordered statistics collected for one page
//   - DateRange: The inclusive page-view date range
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The wiki, pageviews, stats, target and report packages all
// need these types.
package model
