package stats

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/wikistats/internal/model"
	"github.com/nao1215/wikistats/internal/pageviews"
	"github.com/nao1215/wikistats/internal/wiki"
)

// fakeContent is a ContentService returning canned data.
type fakeContent struct {
	text         string
	contributors []string
	revisions    []wiki.Revision
	extLinks     []string
	interwiki    []wiki.InterwikiLink
	langLinks    []wiki.LanguageLink
	linked       []string
	backlinks    []string
	categories   []string
	claims       wiki.Claims

	// errs maps a method name to the error it returns.
	errs map[string]error

	calls      []string
	namespaces [][]int
}

func (f *fakeContent) call(name string) error {
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeContent) Text(_ context.Context, _ model.Page) (string, error) {
	return f.text, f.call("Text")
}

func (f *fakeContent) Contributors(_ context.Context, _ model.Page) ([]string, error) {
	return f.contributors, f.call("Contributors")
}

func (f *fakeContent) Revisions(_ context.Context, _ model.Page) ([]wiki.Revision, error) {
	return f.revisions, f.call("Revisions")
}

func (f *fakeContent) ExternalLinks(_ context.Context, _ model.Page) ([]string, error) {
	return f.extLinks, f.call("ExternalLinks")
}

func (f *fakeContent) InterwikiLinks(_ context.Context, _ model.Page) ([]wiki.InterwikiLink, error) {
	if err := f.call("InterwikiLinks"); err != nil {
		return nil, err
	}
	return f.interwiki, nil
}

func (f *fakeContent) LanguageLinks(_ context.Context, _ model.Page) ([]wiki.LanguageLink, error) {
	return f.langLinks, f.call("LanguageLinks")
}

func (f *fakeContent) LinkedPages(_ context.Context, _ model.Page, namespaces ...int) ([]string, error) {
	f.namespaces = append(f.namespaces, namespaces)
	return f.linked, f.call("LinkedPages")
}

func (f *fakeContent) Backlinks(_ context.Context, _ model.Page, namespaces ...int) ([]string, error) {
	f.namespaces = append(f.namespaces, namespaces)
	return f.backlinks, f.call("Backlinks")
}

func (f *fakeContent) Categories(_ context.Context, _ model.Page) ([]string, error) {
	return f.categories, f.call("Categories")
}

func (f *fakeContent) Claims(_ context.Context, _ model.Page) (wiki.Claims, error) {
	return f.claims, f.call("Claims")
}

// fakeCounter is a ViewCounter returning a canned result.
type fakeCounter struct {
	total int64
	err   error
	title string
}

func (f *fakeCounter) Aggregate(_ context.Context, _ model.Site, title string, _ model.DateRange) (int64, error) {
	f.title = title
	return f.total, f.err
}

func newFakeContent() *fakeContent {
	return &fakeContent{
		text:         "Grüße aus Köln",
		contributors: []string{"Alice", "Bob", "Alice", "Carol"},
		revisions: []wiki.Revision{
			{ID: 3, Timestamp: time.Date(2012, 5, 1, 0, 0, 0, 0, time.UTC), User: "Carol"},
			{ID: 1, Timestamp: time.Date(2003, 2, 1, 12, 30, 0, 0, time.UTC), User: "Alice"},
			{ID: 2, Timestamp: time.Date(2008, 7, 4, 0, 0, 0, 0, time.UTC), User: "Bob"},
		},
		extLinks:   []string{"https://a.example", "https://b.example"},
		interwiki:  []wiki.InterwikiLink{{Prefix: "commons", Title: "Category:Köln"}},
		langLinks:  []wiki.LanguageLink{{Site: model.NewSite("en", "wikipedia"), Title: "Cologne"}},
		linked:     []string{"A", "B", "A"},
		backlinks:  []string{"X", "Y", "Z", "Y"},
		categories: []string{"Category:Stadt", "Category:Köln"},
		claims:     wiki.Claims{"P17": 1, "P31": 2, "P1082": 12},
		errs:       map[string]error{},
	}
}

func testPage() model.Page {
	return model.Page{Site: model.NewSite("de", "wikipedia"), Title: "Köln", PageID: 1}
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestFields(t *testing.T) {
	t.Parallel()

	want := []string{
		"textlen", "contribs", "revisions", "extlinks", "interlinks", "interlang",
		"linkedpag", "backlinks", "categories", "firstrev", "claims",
	}
	if got := Fields(false); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	withViews := Fields(true)
	if len(withViews) != len(want)+1 || withViews[len(withViews)-1] != "pageviews" {
		t.Errorf("expected pageviews last, got %v", withViews)
	}
}

func TestCollector_Collect(t *testing.T) {
	t.Parallel()

	t.Run("computes every field in order", func(t *testing.T) {
		t.Parallel()

		content := newFakeContent()
		c := NewCollector(content, WithLogger(silentLogger()))

		rec, err := c.Collect(context.Background(), testPage(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !slices.Equal(rec.Keys(), Fields(false)) {
			t.Fatalf("expected keys %v, got %v", Fields(false), rec.Keys())
		}

		want := []string{"14", "3", "3", "2", "1", "1", "2", "3", "2", "2003-02-01T12:30:00Z", "3"}
		if got := rec.Strings(); !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("restricts link counts to the article namespace", func(t *testing.T) {
		t.Parallel()

		content := newFakeContent()
		c := NewCollector(content, WithLogger(silentLogger()))

		if _, err := c.Collect(context.Background(), testPage(), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, ns := range content.namespaces {
			if !slices.Equal(ns, []int{model.NamespaceMain}) {
				t.Errorf("expected namespace filter [0], got %v", ns)
			}
		}
	})

	t.Run("fetches the revision feed once", func(t *testing.T) {
		t.Parallel()

		content := newFakeContent()
		c := NewCollector(content, WithLogger(silentLogger()))

		if _, err := c.Collect(context.Background(), testPage(), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var n int
		for _, name := range content.calls {
			if name == "Revisions" {
				n++
			}
		}
		if n != 1 {
			t.Errorf("expected one revisions query, got %d", n)
		}
	})

	t.Run("empty history yields empty first revision", func(t *testing.T) {
		t.Parallel()

		content := newFakeContent()
		content.revisions = nil
		c := NewCollector(content, WithLogger(silentLogger()))

		rec, err := c.Collect(context.Background(), testPage(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		v, _ := rec.Get(FieldFirstRev)
		if v.String() != "" {
			t.Errorf("expected empty firstrev, got %q", v.String())
		}
		v, _ = rec.Get(FieldRevisions)
		if v.String() != "0" {
			t.Errorf("expected 0 revisions, got %q", v.String())
		}
	})

	t.Run("malformed interwiki data counts as zero", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		content := newFakeContent()
		content.errs["InterwikiLinks"] = fmt.Errorf("parse link: %w", wiki.ErrMalformedInterwiki)
		c := NewCollector(content, WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))))

		rec, err := c.Collect(context.Background(), testPage(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		v, _ := rec.Get(FieldInterLinks)
		if v != model.Count(0) {
			t.Errorf("expected 0 interlinks, got %v", v)
		}
		if rec.Len() != len(Fields(false)) {
			t.Errorf("expected a complete record, got %d fields", rec.Len())
		}
		if !strings.Contains(logs.String(), "malformed interwiki data") {
			t.Errorf("expected a log entry naming the fault, got %q", logs.String())
		}
	})

	t.Run("adds page views when a range is given", func(t *testing.T) {
		t.Parallel()

		counter := &fakeCounter{total: 1234}
		c := NewCollector(newFakeContent(), WithViewCounter(counter), WithLogger(silentLogger()))
		dr, err := model.ParseDateRange("20240101", "20240131")
		if err != nil {
			t.Fatal(err)
		}

		rec, err := c.Collect(context.Background(), testPage(), &dr)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(rec.Keys(), Fields(true)) {
			t.Errorf("expected keys %v, got %v", Fields(true), rec.Keys())
		}
		v, _ := rec.Get(FieldPageviews)
		if v != model.Count(1234) {
			t.Errorf("expected 1234 views, got %v", v)
		}
		if counter.title != "Köln" {
			t.Errorf("expected views for the page title, got %q", counter.title)
		}
	})

	t.Run("empty analytics counts as zero", func(t *testing.T) {
		t.Parallel()

		counter := &fakeCounter{err: pageviews.ErrNoData}
		c := NewCollector(newFakeContent(), WithViewCounter(counter), WithLogger(silentLogger()))
		dr, _ := model.ParseDateRange("20240101", "20240131")

		rec, err := c.Collect(context.Background(), testPage(), &dr)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		v, _ := rec.Get(FieldPageviews)
		if v != model.Count(0) {
			t.Errorf("expected 0 views, got %v", v)
		}
	})

	t.Run("range without counter is an error", func(t *testing.T) {
		t.Parallel()

		c := NewCollector(newFakeContent(), WithLogger(silentLogger()))
		dr, _ := model.ParseDateRange("20240101", "20240131")

		if _, err := c.Collect(context.Background(), testPage(), &dr); !errors.Is(err, ErrNoViewCounter) {
			t.Errorf("expected ErrNoViewCounter, got %v", err)
		}
	})

	t.Run("unrecognized faults abort without a record", func(t *testing.T) {
		t.Parallel()

		content := newFakeContent()
		content.errs["Backlinks"] = fmt.Errorf("%w: timeout", model.ErrUpstreamUnavailable)
		c := NewCollector(content, WithLogger(silentLogger()))

		rec, err := c.Collect(context.Background(), testPage(), nil)
		if !errors.Is(err, model.ErrUpstreamUnavailable) {
			t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
		}
		if rec != nil {
			t.Error("expected no partial record")
		}
		if !strings.Contains(err.Error(), "backlinks") {
			t.Errorf("expected the failing field in the error, got %q", err)
		}
		if slices.Contains(content.calls, "Categories") {
			t.Error("expected collection to stop at the failing field")
		}
	})

	t.Run("no data outside the pageviews field is not recovered", func(t *testing.T) {
		t.Parallel()

		content := newFakeContent()
		content.errs["Text"] = pageviews.ErrNoData
		c := NewCollector(content, WithLogger(silentLogger()))

		if _, err := c.Collect(context.Background(), testPage(), nil); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("cancelled context stops collection", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		content := newFakeContent()
		c := NewCollector(content, WithLogger(silentLogger()))

		if _, err := c.Collect(ctx, testPage(), nil); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(content.calls) != 0 {
			t.Errorf("expected no queries, got %v", content.calls)
		}
	})
}
