// Package codec converts account and movement fields to and from single
// comma-delimited text lines.
//
// Quoting follows RFC 4180: a field holding the delimiter, a quote or leading
// whitespace is wrapped in quotes and inner quotes are doubled. Records are
// line oriented, so fields may not contain line breaks. Reading is lax about
// bare quotes inside unquoted fields, which older writers left unescaped.
package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Delimiter separates fields inside a record.
const Delimiter = ','

// ErrMalformedRecord is returned when a line cannot be decoded or carries too few fields.
var ErrMalformedRecord = errors.New("malformed record")

// ErrUnencodable is returned for records that cannot be written on a single line.
var ErrUnencodable = errors.New("record cannot be encoded on one line")

// EncodeRecord renders fields as one line without the trailing newline.
func EncodeRecord(fields []string) (string, error) {
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: no fields", ErrUnencodable)
	}
	for i, f := range fields {
		if strings.ContainsAny(f, "\r\n") {
			return "", fmt.Errorf("%w: field %d contains a line break", ErrUnencodable, i)
		}
	}
	// A lone empty field would otherwise produce a blank line, which readers skip.
	if len(fields) == 1 && fields[0] == "" {
		return `""`, nil
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Comma = Delimiter
	if err := w.Write(fields); err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

// DecodeRecord splits one line into its fields, undoing the quoting applied by EncodeRecord.
func DecodeRecord(line string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return nil, fmt.Errorf("%w: blank line", ErrMalformedRecord)
	}
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = Delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	fields, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: blank line", ErrMalformedRecord)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if _, err := r.Read(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: more than one record on the line", ErrMalformedRecord)
	}
	return fields, nil
}

// DecodeFields decodes line and requires at least want fields.
// Extra trailing fields are kept so that newer writers can add columns.
func DecodeFields(line string, want int) ([]string, error) {
	fields, err := DecodeRecord(line)
	if err != nil {
		return nil, err
	}
	if len(fields) < want {
		return nil, fmt.Errorf("%w: got %d fields, want %d", ErrMalformedRecord, len(fields), want)
	}
	return fields, nil
}
