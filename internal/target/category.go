package target

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/nao1215/wikistats/internal/model"
)

// categoryPrefix is the canonical category namespace prefix. Every
// MediaWiki site accepts it besides its localized form.
const categoryPrefix = "Category:"

// Category yields the articles of a category.
type Category struct {
	svc  Service
	site model.Site
	name string
	opts options
}

// NewCategory creates a Category mode for the category name on site.
// name may carry a namespace prefix ("Kategorie:Foo") or not ("Foo").
func NewCategory(svc Service, site model.Site, name string, opts ...Option) *Category {
	return &Category{svc: svc, site: site, name: name, opts: newOptions(opts)}
}

// Name implements Mode.
func (c *Category) Name() string {
	return ModeCategory
}

// Targets implements Mode.
//
// The first element is ErrNotACategory when the name does not resolve to
// a category page. Members in the article namespace follow in the order
// the service enumerates them, each named by its title.
func (c *Category) Targets(ctx context.Context) iter.Seq2[model.Target, error] {
	return func(yield func(model.Target, error) bool) {
		category, err := c.resolve(ctx)
		if err != nil {
			yield(model.Target{Name: c.name}, err)
			return
		}
		c.opts.logger.Debug("enumerating category", "category", category.String())

		for member, err := range c.svc.CategoryMembers(ctx, category, model.NamespaceMain) {
			if err != nil {
				yield(model.Target{Name: category.Title}, fmt.Errorf("members of %s: %w", category, err))
				return
			}
			if !yield(model.Target{Name: member.Title, Page: member}, nil) {
				return
			}
		}
	}
}

// resolve finds the category page. A name the site places in the category
// namespace is accepted even when the page does not exist, since a category
// can have members without a description page. A name outside that
// namespace is retried with the category prefix, and the retried page must
// exist: the site puts every prefixed title in the category namespace.
func (c *Category) resolve(ctx context.Context) (model.Page, error) {
	name := NormalizeTitle(c.name)

	page, err := c.svc.ResolvePage(ctx, c.site, name)
	if err != nil {
		return model.Page{}, err
	}
	if page.IsCategory() {
		return page, nil
	}

	if !strings.HasPrefix(name, categoryPrefix) {
		page, err = c.svc.ResolvePage(ctx, c.site, categoryPrefix+name)
		if err != nil {
			return model.Page{}, err
		}
		if page.IsCategory() && !page.Missing {
			return page, nil
		}
	}
	return model.Page{}, fmt.Errorf("%w: %s", ErrNotACategory, c.name)
}
