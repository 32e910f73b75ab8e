package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/wikistats/internal/model"
)

// JSONWriter outputs one JSON object per page, one per line (NDJSON).
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json; the ordered field layout
// comes from model.Record's MarshalJSON.
type JSONWriter struct {
	baseWriter

	enc *json.Encoder
}

// JSONRow is the object written for one page.
type JSONRow struct {
	// Name is the target name.
	Name string `json:"name"`

	// Stats holds the statistics in report column order.
	Stats *model.Record `json:"stats"`
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	enc := json.NewEncoder(output)
	enc.SetEscapeHTML(false)
	return &JSONWriter{
		baseWriter: newBaseWriter(output),
		enc:        enc,
	}
}

// Emit implements Emitter. JSON output has no header row.
func (w *JSONWriter) Emit(index int, name string, rec *model.Record) error {
	if err := w.checkRecord(index, rec); err != nil {
		return err
	}
	return w.enc.Encode(JSONRow{Name: name, Stats: rec})
}

// Flush implements Emitter. JSON output is not buffered.
func (w *JSONWriter) Flush() error {
	return nil
}
