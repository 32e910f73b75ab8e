package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/wikistats/internal/model"
)

// NameLabel is the header label of the leading name column.
const NameLabel = "name"

// DefaultSeparator is the column separator of TSV output.
const DefaultSeparator = "\t"

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown report format")

// Format is an output format.
type Format string

const (
	// FormatTSV writes separator-delimited rows. It is the default.
	FormatTSV Format = "tsv"
	// FormatMarkdown writes a Markdown table.
	FormatMarkdown Format = "markdown"
	// FormatJSON writes one JSON object per row.
	FormatJSON Format = "json"
	// FormatTable writes an aligned terminal table.
	FormatTable Format = "table"
)

// Formats returns the supported format names.
func Formats() []string {
	return []string{string(FormatTSV), string(FormatMarkdown), string(FormatJSON), string(FormatTable)}
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTSV, FormatMarkdown, FormatJSON, FormatTable:
		return f, nil
	case "":
		return FormatTSV, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
	}
}

// Emitter defines the interface for report output.
// One Emitter serves one report: a header and the rows that follow it.
type Emitter interface {
	// Emit writes the row of one page. index is the 0-based row number;
	// the header is written before row 0.
	// Every record of one report must carry the same fields in the same
	// order.
	Emit(index int, name string, rec *model.Record) error

	// Flush writes any buffered output. It must be called once after the
	// last row.
	Flush() error
}

// Option configures an Emitter.
type Option func(*settings)

type settings struct {
	separator string
	title     string
}

// WithSeparator sets the column separator of TSV output.
func WithSeparator(sep string) Option {
	return func(s *settings) {
		s.separator = sep
	}
}

// WithTitle sets a title written above Markdown and table output.
func WithTitle(title string) Option {
	return func(s *settings) {
		s.title = title
	}
}

func newSettings(opts []Option) settings {
	s := settings{separator: DefaultSeparator}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// NewEmitter creates an Emitter for format writing to output.
func NewEmitter(format Format, output io.Writer, opts ...Option) (Emitter, error) {
	switch format {
	case FormatTSV, "":
		return NewTSVWriter(output, opts...), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output, opts...), nil
	case FormatJSON:
		return NewJSONWriter(output), nil
	case FormatTable:
		return NewTableWriter(output, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer

	// fields are the field names of the report, taken from the first row.
	fields []string
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// header returns the header row: the name label followed by the fields.
func (b *baseWriter) header(label string) []string {
	return append([]string{label}, b.fields...)
}

// checkRecord records the fields of row 0 and rejects rows whose fields
// differ from them.
func (b *baseWriter) checkRecord(index int, rec *model.Record) error {
	keys := rec.Keys()
	if index == 0 || b.fields == nil {
		b.fields = keys
		return nil
	}
	if len(keys) != len(b.fields) {
		return fmt.Errorf("row %d has %d fields, header has %d", index, len(keys), len(b.fields))
	}
	for i := range keys {
		if keys[i] != b.fields[i] {
			return fmt.Errorf("row %d field %d is %q, header has %q", index, i, keys[i], b.fields[i])
		}
	}
	return nil
}

// row returns the name followed by the textual values of rec.
func row(name string, rec *model.Record) []string {
	return append([]string{name}, rec.Strings()...)
}
