package model

import "strings"

// Namespace numbers used by wikistats.
const (
	// NamespaceMain is the article namespace.
	NamespaceMain = 0

	// NamespaceCategory is the category namespace.
	NamespaceCategory = 14
)

// Page is a handle to a page within a site.
// It is a reference into the content service's namespace and is the unit
// of every query against that service.
type Page struct {
	// Site is the wiki edition the page belongs to.
	Site Site `json:"site"`

	// Title is the normalized title, with spaces rather than underscores.
	Title string `json:"title"`

	// PageID is the page id assigned by the site. Zero for missing pages.
	PageID int64 `json:"page_id,omitempty"`

	// Namespace is the namespace number of the page.
	Namespace int `json:"namespace"`

	// Missing is true when the title does not exist on the site.
	Missing bool `json:"missing,omitempty"`
}

// IsCategory reports whether the page lives in the category namespace.
func (p Page) IsCategory() bool {
	return p.Namespace == NamespaceCategory
}

// URLTitle returns the title in its URL form (underscores instead of spaces).
func (p Page) URLTitle() string {
	return strings.ReplaceAll(p.Title, " ", "_")
}

// String implements fmt.Stringer.
func (p Page) String() string {
	return p.Site.Key() + ":" + p.Title
}

// Target is one entry of a target sequence: the name shown in the report
// and the page to collect statistics for.
type Target struct {
	Name string
	Page Page
}
