package content

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Row is one CSV record keyed by header field. Keys iterate and serialize in
// header order; a field repeated in the header keeps its first position and
// holds the value of its last occurrence.
type Row struct {
	fields []string
	values map[string]string
}

// NewRow zips header fields with values. Both slices must have the same length.
func NewRow(header, values []string) Row {
	r := Row{
		fields: make([]string, 0, len(header)),
		values: make(map[string]string, len(header)),
	}
	for i, f := range header {
		if _, seen := r.values[f]; !seen {
			r.fields = append(r.fields, f)
		}
		r.values[f] = values[i]
	}
	return r
}

// Map returns a copy of the row as a plain map.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// MarshalJSON encodes the row as an object with keys in header order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[f])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CSVDocument is the structured view of a stored CSV file.
type CSVDocument struct {
	Header []string
	Rows   []Row
}

// ParseCSV derives a CSVDocument from raw content.
//
// The trimmed content is split into lines and every line is trimmed. The first
// line is the header; each following non-empty line becomes a row when its
// field count matches the header, and is skipped otherwise. Content without a
// header, without data lines or without a single matching row is invalid.
func ParseCSV(content []byte) (*CSVDocument, error) {
	lines := splitLines(content)
	if len(lines) == 0 || lines[0] == "" {
		return nil, fmt.Errorf("%w: csv header is empty", ErrInvalidContent)
	}

	data := make([]string, 0, len(lines)-1)
	for _, l := range lines[1:] {
		if l != "" {
			data = append(data, l)
		}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: csv has no data lines", ErrInvalidContent)
	}

	header, err := splitRecord(lines[0])
	if err != nil {
		return nil, fmt.Errorf("%w: csv header: %v", ErrInvalidContent, err)
	}

	doc := &CSVDocument{Header: header, Rows: make([]Row, 0, len(data))}
	for _, l := range data {
		values, err := splitRecord(l)
		if err != nil || len(values) != len(header) {
			continue
		}
		doc.Rows = append(doc.Rows, NewRow(header, values))
	}
	if len(doc.Rows) == 0 {
		return nil, fmt.Errorf("%w: no csv row matches the header", ErrInvalidContent)
	}
	return doc, nil
}

func splitLines(content []byte) []string {
	text := strings.TrimSpace(string(content))
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}

// splitRecord parses a single line with RFC 4180 quoting. A quote inside an
// unquoted field is kept as a literal character.
func splitRecord(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.Read()
}
