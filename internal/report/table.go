package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nao1215/wikistats/internal/model"
)

// TableWriter outputs an aligned table for terminal display.
// Rows are buffered and the table is rendered on Flush.
type TableWriter struct {
	baseWriter

	title string
	rows  []table.Row
}

// NewTableWriter creates a TableWriter that outputs to the given writer.
func NewTableWriter(output io.Writer, opts ...Option) *TableWriter {
	s := newSettings(opts)
	return &TableWriter{
		baseWriter: newBaseWriter(output),
		title:      s.title,
	}
}

// Emit implements Emitter.
func (w *TableWriter) Emit(index int, name string, rec *model.Record) error {
	if err := w.checkRecord(index, rec); err != nil {
		return err
	}
	w.rows = append(w.rows, toTableRow(row(name, rec)))
	return nil
}

// Flush implements Emitter. An empty report writes nothing.
func (w *TableWriter) Flush() error {
	if len(w.rows) == 0 {
		return nil
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w.output)
	tbl.SetStyle(table.StyleLight)
	if w.title != "" {
		tbl.SetTitle(w.title)
	}
	tbl.AppendHeader(toTableRow(w.header(NameLabel)))
	tbl.AppendRows(w.rows)
	tbl.Render()

	w.rows = nil
	return nil
}

func toTableRow(cols []string) table.Row {
	r := make(table.Row, len(cols))
	for i, c := range cols {
		r[i] = c
	}
	return r
}
