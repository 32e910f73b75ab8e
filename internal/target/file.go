package target

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/url"
	"os"
	"strings"

	"github.com/nao1215/wikistats/internal/model"
)

// Input table columns.
const (
	columnID = iota
	columnDescription
	columnLinkCount
	columnURL

	minColumns
)

// headerID and headerDescription mark the optional header row.
const (
	headerID          = "s"
	headerDescription = "desc"
)

// Row is one row of the input table.
type Row struct {
	// Line is the 1-based line number the row starts on.
	Line int

	ID          string
	Description string
	LinkCount   string
	URL         string
}

// isHeader reports whether r is the header row.
func (r Row) isHeader() bool {
	return r.ID == headerID && r.Description == headerDescription
}

// FileDriven yields the articles listed in a tab-separated input table.
type FileDriven struct {
	svc  Service
	site model.Site
	path string
	opts options
}

// NewFileDriven creates a FileDriven mode reading the table at path and
// resolving its articles on site.
func NewFileDriven(svc Service, site model.Site, path string, opts ...Option) *FileDriven {
	return &FileDriven{svc: svc, site: site, path: path, opts: newOptions(opts)}
}

// Name implements Mode.
func (f *FileDriven) Name() string {
	return ModeFile
}

// Targets implements Mode.
//
// Targets are named by the description column and come in file order.
// Malformed rows are skipped with a warning and never yielded.
func (f *FileDriven) Targets(ctx context.Context) iter.Seq2[model.Target, error] {
	return func(yield func(model.Target, error) bool) {
		file, err := os.Open(f.path)
		if err != nil {
			yield(model.Target{Name: f.path}, fmt.Errorf("open input table: %w", err))
			return
		}
		defer file.Close()

		for row, err := range ReadRows(file) {
			if errors.Is(err, ErrMalformedInputRow) {
				f.opts.logger.Warn("skipping input row", "file", f.path, "line", row.Line, "error", err)
				continue
			}
			if err != nil {
				yield(model.Target{Name: f.path}, fmt.Errorf("read input table %s: %w", f.path, err))
				return
			}
			if row.isHeader() {
				continue
			}

			title, err := TitleFromURL(f.site, row.URL)
			if err != nil {
				f.opts.logger.Warn("skipping input row", "file", f.path, "line", row.Line, "error", err)
				continue
			}

			page, err := resolveExisting(ctx, f.svc, f.site, title)
			if !yield(model.Target{Name: row.Description, Page: page}, err) {
				return
			}
		}
	}
}

// ReadRows parses a tab-separated input table in file order. Rows with
// fewer than four columns yield ErrMalformedInputRow and reading continues;
// any other error ends the sequence.
func ReadRows(r io.Reader) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		reader := csv.NewReader(r)
		reader.Comma = '\t'
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true

		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Row{}, err)
				return
			}
			line, _ := reader.FieldPos(0)
			if len(record) < minColumns {
				err := fmt.Errorf("%w: line %d has %d columns, want %d", ErrMalformedInputRow, line, len(record), minColumns)
				if !yield(Row{Line: line}, err) {
					return
				}
				continue
			}
			row := Row{
				Line:        line,
				ID:          strings.TrimSpace(record[columnID]),
				Description: strings.TrimSpace(record[columnDescription]),
				LinkCount:   strings.TrimSpace(record[columnLinkCount]),
				URL:         strings.TrimSpace(record[columnURL]),
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// TitleFromURL extracts the page title from an article URL of site.
// The title is percent-decoded and NFC-normalized; underscores are kept.
func TitleFromURL(site model.Site, rawURL string) (string, error) {
	prefix := site.ArticleURLPrefix()
	escaped, ok := strings.CutPrefix(rawURL, prefix)
	if !ok {
		escaped, ok = strings.CutPrefix(rawURL, "http://"+strings.TrimPrefix(prefix, "https://"))
	}
	if !ok || escaped == "" {
		return "", fmt.Errorf("%w: %q is not an article URL of %s", ErrMalformedInputRow, rawURL, site)
	}
	title, err := url.PathUnescape(escaped)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrMalformedInputRow, rawURL, err)
	}
	return NormalizeTitle(title), nil
}
