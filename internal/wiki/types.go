package wiki

import (
	"time"

	"github.com/nao1215/wikistats/internal/model"
)

// Revision is one entry of a page's revision history.
type Revision struct {
	ID        int64
	Timestamp time.Time
	// User is the contributor name, empty when the user has been hidden.
	User string
}

// InterwikiLink is a link from a page to a title on another project.
type InterwikiLink struct {
	Prefix string
	Title  string
}

// LanguageLink is a link from an article to its counterpart in another
// language edition of the same project.
type LanguageLink struct {
	// Site is the sibling edition, keyed by its canonical site code.
	Site  model.Site
	Title string
}

// Claims maps Wikidata property ids to the number of statements the item
// holds for that property. The claims statistic is the number of
// properties, not the number of statements.
type Claims map[string]int

// Properties returns the number of properties that carry statements.
func (c Claims) Properties() int {
	return len(c)
}

