package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/nao1215/wikistats/internal/model"
	"github.com/nao1215/wikistats/internal/wiki"
)

// Field names, in report column order.
const (
	FieldTextLen    = "textlen"
	FieldContribs   = "contribs"
	FieldRevisions  = "revisions"
	FieldExtLinks   = "extlinks"
	FieldInterLinks = "interlinks"
	FieldInterLang  = "interlang"
	FieldLinkedPag  = "linkedpag"
	FieldBacklinks  = "backlinks"
	FieldCategories = "categories"
	FieldFirstRev   = "firstrev"
	FieldClaims     = "claims"
	FieldPageviews  = "pageviews"
)

// ErrNoViewCounter is returned when page views are requested from a
// Collector that was created without a ViewCounter.
var ErrNoViewCounter = errors.New("page views requested but no view counter configured")

// ContentService is the part of wiki.ContentService the Collector uses.
type ContentService interface {
	Text(ctx context.Context, page model.Page) (string, error)
	Contributors(ctx context.Context, page model.Page) ([]string, error)
	Revisions(ctx context.Context, page model.Page) ([]wiki.Revision, error)
	ExternalLinks(ctx context.Context, page model.Page) ([]string, error)
	InterwikiLinks(ctx context.Context, page model.Page) ([]wiki.InterwikiLink, error)
	LanguageLinks(ctx context.Context, page model.Page) ([]wiki.LanguageLink, error)
	LinkedPages(ctx context.Context, page model.Page, namespaces ...int) ([]string, error)
	Backlinks(ctx context.Context, page model.Page, namespaces ...int) ([]string, error)
	Categories(ctx context.Context, page model.Page) ([]string, error)
	Claims(ctx context.Context, page model.Page) (wiki.Claims, error)
}

// ViewCounter sums the page views of a page over a date range.
// *pageviews.Aggregator implements it.
type ViewCounter interface {
	Aggregate(ctx context.Context, site model.Site, title string, dateRange model.DateRange) (int64, error)
}

// Collector computes the statistics of pages.
type Collector struct {
	content ContentService
	views   ViewCounter
	logger  *slog.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithViewCounter enables the pageviews field.
func WithViewCounter(views ViewCounter) Option {
	return func(c *Collector) {
		c.views = views
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

// NewCollector creates a Collector querying content.
func NewCollector(content ContentService, opts ...Option) *Collector {
	c := &Collector{content: content}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Fields returns the field names of the records a run produces, in order.
func Fields(withPageviews bool) []string {
	steps := fieldSteps(withPageviews)
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.name
	}
	return names
}

// Collect computes the statistics of page. When dateRange is not nil the
// pageviews field is added.
//
// Fields are computed one after another in the order returned by Fields.
// Recognized faults are recovered per field; any other error aborts the
// collection and no record is returned.
func (c *Collector) Collect(ctx context.Context, page model.Page, dateRange *model.DateRange) (*model.Record, error) {
	withPageviews := dateRange != nil
	if withPageviews && c.views == nil {
		return nil, ErrNoViewCounter
	}

	run := &collection{
		Collector: c,
		page:      page,
		dateRange: dateRange,
	}
	steps := fieldSteps(withPageviews)
	record := model.NewRecord(len(steps))

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := s.compute(ctx, run)
		if err != nil {
			fault := recognize(err)
			if fault == FaultNone || fault != s.recovers {
				return nil, fmt.Errorf("collect %s of %s: %w", s.name, page, err)
			}
			out = Outcome{Value: model.Count(0), Fault: fault}
		}
		if out.Fault != FaultNone {
			c.logger.Debug("recovered from fault",
				"page", page.String(),
				"field", s.name,
				"fault", out.Fault.String(),
			)
		}
		record.Set(s.name, out.Value)
	}

	c.logger.Debug("collected page statistics", "page", page.String(), "fields", record.Len())
	return record, nil
}

// collection holds the state of one Collect call.
type collection struct {
	*Collector

	page      model.Page
	dateRange *model.DateRange

	// revisions is the revision feed shared by the revisions and firstrev
	// fields; it is fetched once per page.
	revisions []wiki.Revision
	fetched   bool
}

// revisionFeed returns the revision history of the page, fetching it on
// first use.
func (r *collection) revisionFeed(ctx context.Context) ([]wiki.Revision, error) {
	if r.fetched {
		return r.revisions, nil
	}
	revisions, err := r.content.Revisions(ctx, r.page)
	if err != nil {
		return nil, err
	}
	r.revisions = revisions
	r.fetched = true
	return revisions, nil
}

// fieldStep computes one field.
type fieldStep struct {
	name string

	// recovers is the fault this step may recover from.
	recovers Fault

	compute func(ctx context.Context, r *collection) (Outcome, error)
}

// fieldSteps returns the steps in report column order.
func fieldSteps(withPageviews bool) []fieldStep {
	steps := []fieldStep{
		{name: FieldTextLen, compute: textLen},
		{name: FieldContribs, compute: contribs},
		{name: FieldRevisions, compute: revisionCount},
		{name: FieldExtLinks, compute: extLinks},
		{name: FieldInterLinks, compute: interLinks, recovers: FaultMalformedInterwiki},
		{name: FieldInterLang, compute: interLang},
		{name: FieldLinkedPag, compute: linkedPages},
		{name: FieldBacklinks, compute: backlinks},
		{name: FieldCategories, compute: categories},
		{name: FieldFirstRev, compute: firstRevision},
		{name: FieldClaims, compute: claims},
	}
	if withPageviews {
		steps = append(steps, fieldStep{name: FieldPageviews, compute: views, recovers: FaultEmptyAnalytics})
	}
	return steps
}

// textLen counts the characters of the raw page markup.
func textLen(ctx context.Context, r *collection) (Outcome, error) {
	text, err := r.content.Text(ctx, r.page)
	if err != nil {
		return Outcome{}, err
	}
	return ok(model.Count(utf8.RuneCountInString(text))), nil
}

// contribs counts distinct contributors over the full history.
func contribs(ctx context.Context, r *collection) (Outcome, error) {
	users, err := r.content.Contributors(ctx, r.page)
	if err != nil {
		return Outcome{}, err
	}
	return ok(model.Count(countDistinct(users))), nil
}

func revisionCount(ctx context.Context, r *collection) (Outcome, error) {
	revisions, err := r.revisionFeed(ctx)
	if err != nil {
		return Outcome{}, err
	}
	return ok(model.Count(len(revisions))), nil
}

func extLinks(ctx context.Context, r *collection) (Outcome, error) {
	links, err := r.content.ExternalLinks(ctx, r.page)
	if err != nil {
		return Outcome{}, err
	}
	return ok(model.Count(len(links))), nil
}

func interLinks(ctx context.Context, r *collection) (Outcome, error) {
	links, err := r.content.InterwikiLinks(ctx, r.page)
	if err != nil {
		return Outcome{}, err
	}
	return ok(model.Count(len(links))), nil
}

func interLang(ctx context.Context, r *collection) (Outcome, error) {
	links, err := r.content.LanguageLinks(ctx, r.page)
	if err != nil {
		return Outcome{}, err
	}
	return ok(model.Count(len(links))), nil
}

// linkedPages counts distinct article-namespace pages linked from the page.
func linkedPages(ctx context.Context, r *collection) (Outcome, error) {
	titles, err := r.content.LinkedPages(ctx, r.page, model.NamespaceMain)
	if err != nil {
		return Outcome{}, err
	}
	return ok(model.Count(countDistinct(titles))), nil
}

// backlinks counts distinct article-namespace pages linking to the page.
func backlinks(ctx context.Context, r *collection) (Outcome, error) {
	titles, err := r.content.Backlinks(ctx, r.page, model.NamespaceMain)
	if err != nil {
		return Outcome{}, err
	}
	return ok(model.Count(countDistinct(titles))), nil
}

func categories(ctx context.Context, r *collection) (Outcome, error) {
	titles, err := r.content.Categories(ctx, r.page)
	if err != nil {
		return Outcome{}, err
	}
	return ok(model.Count(len(titles))), nil
}

// firstRevision finds the oldest revision by timestamp.
// The feed order is not relied upon.
func firstRevision(ctx context.Context, r *collection) (Outcome, error) {
	revisions, err := r.revisionFeed(ctx)
	if err != nil {
		return Outcome{}, err
	}
	var first model.Timestamp
	for i, rev := range revisions {
		if i == 0 || rev.Timestamp.Before(first.Time) {
			first = model.NewTimestamp(rev.Timestamp)
		}
	}
	return ok(first), nil
}

// claims counts the properties with statements on the linked Wikidata item.
// A property holding several statements counts once.
func claims(ctx context.Context, r *collection) (Outcome, error) {
	c, err := r.content.Claims(ctx, r.page)
	if err != nil {
		return Outcome{}, err
	}
	return ok(model.Count(c.Properties())), nil
}

func views(ctx context.Context, r *collection) (Outcome, error) {
	total, err := r.views.Aggregate(ctx, r.page.Site, r.page.Title, *r.dateRange)
	if err != nil {
		return Outcome{}, err
	}
	return ok(model.Count(total)), nil
}

// countDistinct counts the distinct strings in items.
func countDistinct(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item] = struct{}{}
	}
	return len(seen)
}
