package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// TimestampLayout is the textual form of Timestamp values.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Value is a single statistic value.
// The set of implementations is closed: Count and Timestamp.
type Value interface {
	// String returns the textual form used in reports.
	// It is total: every value has a defined textual form.
	String() string

	isValue()
}

// Count is an integer statistic.
type Count int64

// String returns the decimal form of the count.
func (c Count) String() string {
	return strconv.FormatInt(int64(c), 10)
}

func (Count) isValue() {}

// Timestamp is a point-in-time statistic.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t as a Timestamp value.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// String returns the timestamp in UTC using TimestampLayout.
// The zero timestamp renders as an empty string.
func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}

// MarshalJSON encodes the timestamp as its textual form.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (Timestamp) isValue() {}

// Field is one named statistic of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered list of named statistics for one page.
//
// Field order is the insertion order and is the column order of reports,
// so every Record produced for one report must be built in the same order.
type Record struct {
	fields []Field
}

// NewRecord creates an empty Record with room for size fields.
func NewRecord(size int) *Record {
	return &Record{fields: make([]Field, 0, size)}
}

// Set stores a value. A new name is appended at the end; an existing name
// keeps its position and has its value replaced.
func (r *Record) Set(name string, v Value) {
	for i := range r.fields {
		if r.fields[i].Name == name {
			r.fields[i].Value = v
			return
		}
	}
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

// Get returns the value stored under name.
func (r *Record) Get(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// Keys returns the field names in order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Name
	}
	return keys
}

// Strings returns the textual form of every value in order.
func (r *Record) Strings() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.Value.String()
	}
	return out
}

// MarshalJSON encodes the record as a JSON object whose keys keep the
// record's field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
