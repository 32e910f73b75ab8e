package target

import (
	"context"
	"fmt"
	"iter"

	"github.com/nao1215/wikistats/internal/model"
)

// CrossLanguage yields an article on its home site followed by every
// language version of it.
type CrossLanguage struct {
	svc   Service
	home  model.Site
	title string
	opts  options
}

// NewCrossLanguage creates a CrossLanguage mode for title on the home site.
func NewCrossLanguage(svc Service, home model.Site, title string, opts ...Option) *CrossLanguage {
	return &CrossLanguage{svc: svc, home: home, title: title, opts: newOptions(opts)}
}

// Name implements Mode.
func (l *CrossLanguage) Name() string {
	return ModeLanguages
}

// Targets implements Mode.
//
// Targets are named by site code. The home article comes first and appears
// exactly once, then the siblings in the order the service lists them.
// Sites are told apart by code, never by display language, so "en" and
// "simple" are distinct entries.
func (l *CrossLanguage) Targets(ctx context.Context) iter.Seq2[model.Target, error] {
	return func(yield func(model.Target, error) bool) {
		home, err := resolveExisting(ctx, l.svc, l.home, l.title)
		if err != nil {
			yield(model.Target{Name: l.home.Code}, err)
			return
		}
		if !yield(model.Target{Name: l.home.Code, Page: home}, nil) {
			return
		}

		links, err := l.svc.LanguageLinks(ctx, home)
		if err != nil {
			yield(model.Target{Name: l.home.Code}, fmt.Errorf("language links of %s: %w", home, err))
			return
		}

		seen := map[string]struct{}{l.home.Code: {}}
		for _, link := range links {
			code := link.Site.Code
			if _, dup := seen[code]; dup {
				l.opts.logger.Debug("skipping duplicate language link", "site", code, "title", link.Title)
				continue
			}
			seen[code] = struct{}{}

			page, err := resolveExisting(ctx, l.svc, link.Site, link.Title)
			if !yield(model.Target{Name: code, Page: page}, err) {
				return
			}
		}
	}
}
