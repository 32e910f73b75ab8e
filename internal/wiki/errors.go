package wiki

import "errors"

var (
	// ErrPageNotFound is returned when a page does not exist on its site.
	ErrPageNotFound = errors.New("page not found")

	// ErrInvalidTitle is returned when the site rejects a title as invalid
	// (for example an empty title or one containing forbidden characters).
	ErrInvalidTitle = errors.New("invalid page title")

	// ErrMalformedInterwiki is returned when the interwiki links of a page
	// cannot be parsed. Some source pages carry broken interwiki markup;
	// callers are expected to treat this as "no interwiki links".
	ErrMalformedInterwiki = errors.New("malformed interwiki link data")
)
