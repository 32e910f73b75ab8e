package target

import (
	"context"
	"iter"

	"github.com/nao1215/wikistats/internal/model"
)

// Single yields one article.
type Single struct {
	svc   Service
	site  model.Site
	title string
	opts  options
}

// NewSingle creates a Single mode for title on site.
func NewSingle(svc Service, site model.Site, title string, opts ...Option) *Single {
	return &Single{svc: svc, site: site, title: title, opts: newOptions(opts)}
}

// Name implements Mode.
func (s *Single) Name() string {
	return ModeArticle
}

// Targets implements Mode. The target is named by the title as given.
func (s *Single) Targets(ctx context.Context) iter.Seq2[model.Target, error] {
	return func(yield func(model.Target, error) bool) {
		page, err := resolveExisting(ctx, s.svc, s.site, s.title)
		if err != nil {
			yield(model.Target{Name: s.title}, err)
			return
		}
		yield(model.Target{Name: s.title, Page: page}, nil)
	}
}
