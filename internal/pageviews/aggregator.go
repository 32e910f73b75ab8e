package pageviews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/wikistats/internal/model"
)

// Query parameters understood by the analytics service.
const (
	// GranularityDaily requests one count per day.
	GranularityDaily = "daily"

	// AccessAll covers desktop, mobile web and mobile app access.
	AccessAll = "all-access"

	// AgentAll covers users, spiders and automated agents.
	AgentAll = "all-agents"
)

var (
	// ErrNoData is returned by a Source when the analytics service has no
	// data loaded for the page or the date range. It is not a fault.
	ErrNoData = errors.New("no pageview data loaded for page and range")
)

// Query selects the view counts of one page.
type Query struct {
	Site        model.Site
	Title       string
	Range       model.DateRange
	Access      string
	Agent       string
	Granularity string
}

// DailyViews is the view count of one day.
type DailyViews struct {
	Date  time.Time
	Views int64
}

// Source is the analytics service.
type Source interface {
	// Views returns the view counts matching q.
	// It returns ErrNoData when the service has no data for q, and an error
	// wrapping model.ErrUpstreamUnavailable for every other fault.
	Views(ctx context.Context, q Query) ([]DailyViews, error)
}

// Aggregator sums daily view counts of a page.
type Aggregator struct {
	source Source
	logger *slog.Logger
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithAggregatorLogger sets the logger of the Aggregator.
func WithAggregatorLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// NewAggregator creates an Aggregator reading from source.
func NewAggregator(source Source, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{source: source}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Aggregate returns the total number of views of title on site within
// dateRange, counted daily across all access methods and agent types.
// A page or range without data yields 0.
func (a *Aggregator) Aggregate(ctx context.Context, site model.Site, title string, dateRange model.DateRange) (int64, error) {
	days, err := a.source.Views(ctx, Query{
		Site:        site,
		Title:       title,
		Range:       dateRange,
		Access:      AccessAll,
		Agent:       AgentAll,
		Granularity: GranularityDaily,
	})
	if err != nil {
		if errors.Is(err, ErrNoData) {
			a.logger.Debug("no pageview data", "site", site.Key(), "title", title, "range", dateRange.String())
			return 0, nil
		}
		return 0, fmt.Errorf("pageviews of %s on %s: %w", title, site.Key(), err)
	}

	var total int64
	for _, day := range days {
		total += day.Views
	}
	if want := dateRange.Days(); len(days) < want {
		a.logger.Debug("partial pageview data",
			"site", site.Key(), "title", title, "range", dateRange.String(),
			"days", len(days), "expected", want)
	}
	return total, nil
}
