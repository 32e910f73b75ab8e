package model

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
	"time"
)

// TestSite tests site identity and URL helpers.
func TestSite(t *testing.T) {
	t.Parallel()

	t.Run("NewSite builds conventional host", func(t *testing.T) {
		t.Parallel()

		site := NewSite("de", "wikipedia")
		if site.Host != "de.wikipedia.org" {
			t.Errorf("expected host de.wikipedia.org, got %q", site.Host)
		}
		if site.APIURL() != "https://de.wikipedia.org/w/api.php" {
			t.Errorf("unexpected API URL %q", site.APIURL())
		}
		if site.ArticleURLPrefix() != "https://de.wikipedia.org/wiki/" {
			t.Errorf("unexpected article prefix %q", site.ArticleURLPrefix())
		}
	})

	t.Run("NewSite defaults project", func(t *testing.T) {
		t.Parallel()

		site := NewSite("en", "")
		if site.Project != DefaultProject {
			t.Errorf("expected project %q, got %q", DefaultProject, site.Project)
		}
	})

	t.Run("en and simple are distinct identities", func(t *testing.T) {
		t.Parallel()

		en := NewSite("en", "wikipedia")
		simple := NewSite("simple", "wikipedia")
		if en.Key() == simple.Key() {
			t.Errorf("expected distinct keys, both are %q", en.Key())
		}
	})

	t.Run("WithHostFromURL takes host from article URL", func(t *testing.T) {
		t.Parallel()

		site := NewSite("be-x-old", "wikipedia").WithHostFromURL("https://be-tarask.wikipedia.org/wiki/Foo")
		if site.Host != "be-tarask.wikipedia.org" {
			t.Errorf("expected be-tarask host, got %q", site.Host)
		}
		if site.Code != "be-x-old" {
			t.Errorf("expected code to be kept, got %q", site.Code)
		}
	})

	t.Run("WithHostFromURL ignores unusable URL", func(t *testing.T) {
		t.Parallel()

		site := NewSite("de", "wikipedia").WithHostFromURL("not a url")
		if site.Host != "de.wikipedia.org" {
			t.Errorf("expected host unchanged, got %q", site.Host)
		}
	})

	t.Run("HostName falls back when Host is empty", func(t *testing.T) {
		t.Parallel()

		site := Site{Code: "fr", Project: "wiktionary"}
		if site.HostName() != "fr.wiktionary.org" {
			t.Errorf("unexpected host %q", site.HostName())
		}
	})
}

// TestPage tests page helpers.
func TestPage(t *testing.T) {
	t.Parallel()

	page := Page{Site: NewSite("de", "wikipedia"), Title: "Foo Bar", Namespace: NamespaceCategory}
	if !page.IsCategory() {
		t.Error("expected namespace 14 page to be a category")
	}
	if page.URLTitle() != "Foo_Bar" {
		t.Errorf("expected Foo_Bar, got %q", page.URLTitle())
	}
	if page.String() != "de.wikipedia:Foo Bar" {
		t.Errorf("unexpected string %q", page.String())
	}
}

// TestRecord tests the ordered statistics record.
func TestRecord(t *testing.T) {
	t.Parallel()

	first := time.Date(2004, 3, 7, 12, 30, 5, 0, time.UTC)

	newRecord := func() *Record {
		r := NewRecord(3)
		r.Set("textlen", Count(120))
		r.Set("firstrev", NewTimestamp(first))
		r.Set("claims", Count(0))
		return r
	}

	t.Run("keeps insertion order", func(t *testing.T) {
		t.Parallel()

		r := newRecord()
		want := []string{"textlen", "firstrev", "claims"}
		if !slices.Equal(r.Keys(), want) {
			t.Errorf("expected keys %v, got %v", want, r.Keys())
		}
	})

	t.Run("Set on existing name keeps position", func(t *testing.T) {
		t.Parallel()

		r := newRecord()
		r.Set("textlen", Count(7))
		if r.Len() != 3 {
			t.Fatalf("expected 3 fields, got %d", r.Len())
		}
		v, ok := r.Get("textlen")
		if !ok || v.String() != "7" {
			t.Errorf("expected textlen 7, got %v", v)
		}
		if r.Keys()[0] != "textlen" {
			t.Errorf("expected textlen to stay first, got %v", r.Keys())
		}
	})

	t.Run("Strings renders every value", func(t *testing.T) {
		t.Parallel()

		r := newRecord()
		want := []string{"120", "2004-03-07T12:30:05Z", "0"}
		if !slices.Equal(r.Strings(), want) {
			t.Errorf("expected %v, got %v", want, r.Strings())
		}
	})

	t.Run("zero timestamp renders empty", func(t *testing.T) {
		t.Parallel()

		if got := (Timestamp{}).String(); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("timestamp renders in UTC", func(t *testing.T) {
		t.Parallel()

		loc := time.FixedZone("CET", 3600)
		ts := NewTimestamp(time.Date(2020, 1, 1, 1, 0, 0, 0, loc))
		if ts.String() != "2020-01-01T00:00:00Z" {
			t.Errorf("unexpected timestamp %q", ts.String())
		}
	})

	t.Run("MarshalJSON keeps field order", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(newRecord())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"textlen":120,"firstrev":"2004-03-07T12:30:05Z","claims":0}`
		if string(data) != want {
			t.Errorf("expected %s, got %s", want, data)
		}
	})
}

// TestParseDateRange tests parsing of page-view date ranges.
func TestParseDateRange(t *testing.T) {
	t.Parallel()

	t.Run("valid range", func(t *testing.T) {
		t.Parallel()

		dr, err := ParseDateRange("20240101", "20240131")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dr.StartString() != "20240101" || dr.EndString() != "20240131" {
			t.Errorf("unexpected range %s", dr)
		}
		if dr.Days() != 31 {
			t.Errorf("expected 31 days, got %d", dr.Days())
		}
	})

	t.Run("single day", func(t *testing.T) {
		t.Parallel()

		dr, err := ParseDateRange("20240229", "20240229")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dr.Days() != 1 {
			t.Errorf("expected 1 day, got %d", dr.Days())
		}
	})

	tests := []struct {
		name  string
		start string
		end   string
		want  error
	}{
		{name: "short start", start: "2024011", end: "20240131", want: ErrInvalidDate},
		{name: "dashed end", start: "20240101", end: "2024-01-31", want: ErrInvalidDate},
		{name: "impossible date", start: "20240230", end: "20240301", want: ErrInvalidDate},
		{name: "reversed", start: "20240201", end: "20240101", want: ErrDateRangeOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseDateRange(tt.start, tt.end)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
