package report

import (
	"io"
	"strings"

	"github.com/nao1215/wikistats/internal/model"
)

// TSVWriter outputs one separator-delimited line per page.
// Before row 0 it writes the header "# name<SEP>field1<SEP>...".
//
// Rows are written as they are emitted, so a long category report can be
// followed while it is produced.
type TSVWriter struct {
	baseWriter

	separator string
}

// NewTSVWriter creates a TSVWriter that outputs to the given writer.
func NewTSVWriter(output io.Writer, opts ...Option) *TSVWriter {
	s := newSettings(opts)
	return &TSVWriter{
		baseWriter: newBaseWriter(output),
		separator:  s.separator,
	}
}

// Emit implements Emitter.
func (w *TSVWriter) Emit(index int, name string, rec *model.Record) error {
	if err := w.checkRecord(index, rec); err != nil {
		return err
	}
	if index == 0 {
		if err := w.writeLine(w.header("# " + NameLabel)); err != nil {
			return err
		}
	}
	return w.writeLine(row(name, rec))
}

// Flush implements Emitter. TSV output is not buffered.
func (w *TSVWriter) Flush() error {
	return nil
}

func (w *TSVWriter) writeLine(cols []string) error {
	_, err := io.WriteString(w.output, strings.Join(cols, w.separator)+"\n")
	return err
}
