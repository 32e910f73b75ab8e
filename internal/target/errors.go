package target

import "errors"

var (
	// ErrNotACategory is returned when category mode is given a page
	// outside the category namespace.
	ErrNotACategory = errors.New("not a category page")

	// ErrMalformedInputRow is returned for an input table row that lacks
	// columns or whose URL does not belong to the configured site.
	ErrMalformedInputRow = errors.New("malformed input row")
)
