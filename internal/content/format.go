// Package content holds the per-kind rules applied to file content: which
// stored files a kind lists, what it accepts on create and update, and how it
// shapes content on read.
package content

import (
	stdjson "encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	json "github.com/goccy/go-json"

	"fileapi/internal/model"
)

// ErrInvalidContent is returned when content fails a kind's validation.
var ErrInvalidContent = errors.New("invalid content")

// Format validates and shapes content for one kind.
type Format interface {
	Kind() model.Kind
	// Includes reports whether the named file belongs in the kind's listing.
	// read loads the file content and is only called by formats that need it.
	Includes(name string, read func() ([]byte, error)) (bool, error)
	ValidateCreate(content []byte) error
	ValidateUpdate(content []byte) error
	// Decode shapes stored content for a read.
	Decode(content []byte) (any, error)
}

// ForKind returns the format of k.
func ForKind(k model.Kind) (Format, error) {
	switch k {
	case model.KindRaw:
		return rawFormat{}, nil
	case model.KindJSON:
		return jsonFormat{}, nil
	case model.KindCSV:
		return csvFormat{}, nil
	}
	return nil, fmt.Errorf("no content format for kind %q", k)
}

type rawFormat struct{}

func (rawFormat) Kind() model.Kind { return model.KindRaw }

func (rawFormat) Includes(string, func() ([]byte, error)) (bool, error) { return true, nil }

func (rawFormat) ValidateCreate([]byte) error { return nil }

func (rawFormat) ValidateUpdate([]byte) error { return nil }

func (rawFormat) Decode(content []byte) (any, error) { return string(content), nil }

type jsonFormat struct{}

func (jsonFormat) Kind() model.Kind { return model.KindJSON }

func (jsonFormat) Includes(_ string, read func() ([]byte, error)) (bool, error) {
	b, err := read()
	if err != nil {
		return false, err
	}
	_, err = decodeJSON(b)
	return err == nil, nil
}

func (jsonFormat) ValidateCreate(content []byte) error { return validateJSON(content) }

func (jsonFormat) ValidateUpdate(content []byte) error { return validateJSON(content) }

func (jsonFormat) Decode(content []byte) (any, error) { return decodeJSON(content) }

func validateJSON(content []byte) error {
	_, err := decodeJSON(content)
	return err
}

// decodeJSON is the single JSON acceptance rule for listing, writes and reads.
// The grammar is checked strictly (RFC 8259: no leading zeros, no truncated
// literals, no trailing data) before the value is decoded.
func decodeJSON(content []byte) (any, error) {
	if !stdjson.Valid(content) {
		return nil, fmt.Errorf("%w: not valid json", ErrInvalidContent)
	}
	var v any
	if err := json.Unmarshal(content, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	return v, nil
}

type csvFormat struct{}

func (csvFormat) Kind() model.Kind { return model.KindCSV }

// Includes filters by extension only; content is not parsed for listing.
func (csvFormat) Includes(name string, _ func() ([]byte, error)) (bool, error) {
	return path.Ext(name) == ".csv", nil
}

// ValidateCreate requires a comma on the first line.
func (csvFormat) ValidateCreate(content []byte) error {
	lines := splitLines(content)
	if len(lines) == 0 || !strings.Contains(lines[0], ",") {
		return fmt.Errorf("%w: first line has no comma", ErrInvalidContent)
	}
	return nil
}

// ValidateUpdate requires a comma on at least one line.
func (csvFormat) ValidateUpdate(content []byte) error {
	for _, l := range splitLines(content) {
		if strings.Contains(l, ",") {
			return nil
		}
	}
	return fmt.Errorf("%w: no line has a comma", ErrInvalidContent)
}

func (csvFormat) Decode(content []byte) (any, error) {
	doc, err := ParseCSV(content)
	if err != nil {
		return nil, err
	}
	return doc.Rows, nil
}
