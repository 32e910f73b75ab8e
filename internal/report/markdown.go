package report

import (
	"io"

	"github.com/nao1215/markdown"

	"github.com/nao1215/wikistats/internal/model"
)

// MarkdownWriter outputs the report as a GitHub-flavored Markdown table.
// Rows are buffered and the table is written on Flush.
//
// Design decision: We use the nao1215/markdown library for table generation,
// the same library other nao1215 tools use for their Markdown reports.
type MarkdownWriter struct {
	baseWriter

	title string
	rows  [][]string
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...Option) *MarkdownWriter {
	s := newSettings(opts)
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		title:      s.title,
	}
}

// Emit implements Emitter.
func (w *MarkdownWriter) Emit(index int, name string, rec *model.Record) error {
	if err := w.checkRecord(index, rec); err != nil {
		return err
	}
	w.rows = append(w.rows, row(name, rec))
	return nil
}

// Flush implements Emitter. An empty report writes only the title.
func (w *MarkdownWriter) Flush() error {
	md := markdown.NewMarkdown(w.output)

	if w.title != "" {
		md.H2(w.title)
		md.PlainText("")
	}
	if len(w.rows) > 0 {
		header := w.header(NameLabel)
		md.Table(markdown.TableSet{
			Header:    header,
			Rows:      w.rows,
			Alignment: alignment(len(header)),
		})
	}
	w.rows = nil

	return md.Build()
}

// alignment left-aligns the name column and right-aligns the statistics.
func alignment(columns int) []markdown.TableAlignment {
	align := make([]markdown.TableAlignment, columns)
	for i := range align {
		align[i] = markdown.AlignRight
	}
	if columns > 0 {
		align[0] = markdown.AlignLeft
	}
	return align
}
