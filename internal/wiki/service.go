package wiki

import (
	"context"
	"iter"

	"github.com/nao1215/wikistats/internal/model"
)

// ContentService is the wiki content and metadata service.
// Client is the production implementation; consumers declare the subset
// they need.
type ContentService interface {
	// ResolvePage looks up title on site. A title that does not exist
	// yields a page with Missing set, not an error.
	ResolvePage(ctx context.Context, site model.Site, title string) (model.Page, error)

	// Text returns the raw markup of the current revision.
	Text(ctx context.Context, page model.Page) (string, error)

	// Contributors returns the user of every revision, oldest first.
	Contributors(ctx context.Context, page model.Page) ([]string, error)

	// Revisions returns the revision history.
	Revisions(ctx context.Context, page model.Page) ([]Revision, error)

	ExternalLinks(ctx context.Context, page model.Page) ([]string, error)
	InterwikiLinks(ctx context.Context, page model.Page) ([]InterwikiLink, error)
	LanguageLinks(ctx context.Context, page model.Page) ([]LanguageLink, error)
	LinkedPages(ctx context.Context, page model.Page, namespaces ...int) ([]string, error)
	Backlinks(ctx context.Context, page model.Page, namespaces ...int) ([]string, error)
	Categories(ctx context.Context, page model.Page) ([]string, error)

	// Claims returns the statements of the Wikidata item linked to page.
	Claims(ctx context.Context, page model.Page) (Claims, error)

	// CategoryMembers streams the members of category.
	CategoryMembers(ctx context.Context, category model.Page, namespaces ...int) iter.Seq2[model.Page, error]
}

var _ ContentService = (*Client)(nil)
