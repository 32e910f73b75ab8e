package target

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/wikistats/internal/model"
	"github.com/nao1215/wikistats/internal/wiki"
)

// Mode names.
const (
	ModeArticle   = "article"
	ModeCategory  = "category"
	ModeLanguages = "languages"
	ModeFile      = "file"
)

// Mode produces the targets of one run mode.
type Mode interface {
	// Name returns the mode name, e.g. "category".
	Name() string

	// Targets returns the lazy sequence of targets. The sequence is
	// single-use.
	Targets(ctx context.Context) iter.Seq2[model.Target, error]
}

// Service is the part of wiki.ContentService the modes use.
type Service interface {
	ResolvePage(ctx context.Context, site model.Site, title string) (model.Page, error)
	LanguageLinks(ctx context.Context, page model.Page) ([]wiki.LanguageLink, error)
	CategoryMembers(ctx context.Context, category model.Page, namespaces ...int) iter.Seq2[model.Page, error]
}

// Option configures a Mode.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// NormalizeTitle trims title and converts it to Unicode NFC, the form
// MediaWiki stores titles in.
func NormalizeTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}

// resolveExisting resolves title on site and fails with wiki.ErrPageNotFound
// when the page does not exist.
func resolveExisting(ctx context.Context, svc Service, site model.Site, title string) (model.Page, error) {
	page, err := svc.ResolvePage(ctx, site, NormalizeTitle(title))
	if err != nil {
		return model.Page{}, err
	}
	if page.Missing {
		return model.Page{}, fmt.Errorf("%w: %s:%s", wiki.ErrPageNotFound, site, page.Title)
	}
	return page, nil
}
