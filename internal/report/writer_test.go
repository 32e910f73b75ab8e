package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/wikistats/internal/model"
)

// createTestRecord creates a record with sample data for testing.
func createTestRecord(textlen int64, firstrev time.Time) *model.Record {
	rec := model.NewRecord(3)
	rec.Set("textlen", model.Count(textlen))
	rec.Set("revisions", model.Count(12))
	rec.Set("firstrev", model.NewTimestamp(firstrev))
	return rec
}

var firstrev = time.Date(2003, 2, 1, 12, 30, 0, 0, time.UTC)

// TestTSVWriter tests the default separator-delimited writer.
func TestTSVWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header before the first row", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTSVWriter(&buf)

		if err := w.Emit(0, "Köln", createTestRecord(1500, firstrev)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.Emit(1, "Bonn", createTestRecord(900, time.Time{})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "# name\ttextlen\trevisions\tfirstrev\n" +
			"Köln\t1500\t12\t2003-02-01T12:30:00Z\n" +
			"Bonn\t900\t12\t\n"
		if buf.String() != want {
			t.Errorf("expected %q, got %q", want, buf.String())
		}
	})

	t.Run("header has one label per value", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTSVWriter(&buf)
		if err := w.Emit(0, "A", createTestRecord(1, firstrev)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected two lines, got %q", lines)
		}
		header := strings.Split(lines[0], "\t")
		row := strings.Split(lines[1], "\t")
		if len(header) != len(row) {
			t.Errorf("header has %d columns, row has %d", len(header), len(row))
		}
	})

	t.Run("uses configured separator", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTSVWriter(&buf, WithSeparator(";"))
		if err := w.Emit(0, "A", createTestRecord(1, firstrev)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(buf.String(), "# name;textlen;revisions;firstrev\nA;1;12;") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("no rows writes nothing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTSVWriter(&buf)
		if err := w.Flush(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("rejects rows with different fields", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTSVWriter(&buf)
		if err := w.Emit(0, "A", createTestRecord(1, firstrev)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		other := model.NewRecord(1)
		other.Set("textlen", model.Count(1))
		if err := w.Emit(1, "B", other); err == nil {
			t.Error("expected an error for a mismatched row")
		}
	})
}

// TestMarkdownWriter tests the Markdown table writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes table on flush", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf, WithTitle("category"))

		if err := w.Emit(0, "Köln", createTestRecord(1500, firstrev)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.Len() != 0 {
			t.Error("expected rows to be buffered until flush")
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## category") {
			t.Error("expected output to contain title")
		}
		if !strings.Contains(output, "| name | textlen | revisions | firstrev |") {
			t.Errorf("expected output to contain header, got %q", output)
		}
		if !strings.Contains(output, "| Köln | 1500 | 12 | 2003-02-01T12:30:00Z |") {
			t.Errorf("expected output to contain row, got %q", output)
		}
	})
}

// TestJSONWriter tests the NDJSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes one ordered object per line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if err := w.Emit(0, "Köln", createTestRecord(1500, firstrev)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.Emit(1, "A&B", createTestRecord(1, time.Time{})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected two lines, got %d", len(lines))
		}

		want := `{"name":"Köln","stats":{"textlen":1500,"revisions":12,"firstrev":"2003-02-01T12:30:00Z"}}`
		if lines[0] != want {
			t.Errorf("expected %s, got %s", want, lines[0])
		}
		if !strings.Contains(lines[1], `"name":"A&B"`) {
			t.Errorf("expected unescaped name, got %s", lines[1])
		}

		var decoded map[string]any
		if err := json.Unmarshal([]byte(lines[1]), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
	})
}

// TestTableWriter tests the terminal table writer.
func TestTableWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders header and rows on flush", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTableWriter(&buf)
		if err := w.Emit(0, "Köln", createTestRecord(1500, firstrev)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"NAME", "TEXTLEN", "Köln", "1500", "2003-02-01T12:30:00Z"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got %q", want, output)
			}
		}
	})

	t.Run("empty report renders nothing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTableWriter(&buf)
		if err := w.Flush(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}

// TestNewEmitter tests the format factory.
func TestNewEmitter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		want   string
	}{
		{FormatTSV, "*report.TSVWriter"},
		{FormatMarkdown, "*report.MarkdownWriter"},
		{FormatJSON, "*report.JSONWriter"},
		{FormatTable, "*report.TableWriter"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			e, err := NewEmitter(tt.format, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := typeName(e); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		if _, err := NewEmitter("xml", &bytes.Buffer{}); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})
}

// TestParseFormat tests format name validation.
func TestParseFormat(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]Format{"": FormatTSV, "TSV": FormatTSV, " json ": FormatJSON, "table": FormatTable} {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", name, got, err, want)
		}
	}
	if _, err := ParseFormat("csv"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func typeName(e Emitter) string {
	switch e.(type) {
	case *TSVWriter:
		return "*report.TSVWriter"
	case *MarkdownWriter:
		return "*report.MarkdownWriter"
	case *JSONWriter:
		return "*report.JSONWriter"
	case *TableWriter:
		return "*report.TableWriter"
	default:
		return "unknown"
	}
}
