package v1

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Provenance fields stamped on every record before validation.
const (
	FieldExtractionRunID = "extraction_run_id"
	FieldCreatedAtMs     = "created_at_ms"
	FieldTimestampMs     = "timestamp_ms"
)

// maxLineBytes bounds a single JSONL line.
const maxLineBytes = 16 * 1024 * 1024

// Record is one generation reading: string keys mapped to JSON scalars or null.
//
// Values are one of nil, bool, string, int64 or float64. Integer literals in
// the source JSON decode to int64 and every other number to float64, so the
// validator can tell "1" from "1.0".
type Record map[string]interface{}

// Has reports whether the record carries the field, including an explicit null.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}


// LineError reports a JSONL line that could not be parsed at all.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: invalid JSON record: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ReadError reports input that could not be read as lines: a corrupt or
// truncated compressed stream, or a line longer than the scanner allows.
// Line is the last line read completely.
type ReadError struct {
	Line int
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read JSONL input after line %d: %v", e.Line, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// DecodeRecord parses one JSON object into a Record.
func DecodeRecord(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("expected a JSON object, got null")
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON object")
	}

	rec := make(Record, len(raw))
	for k, v := range raw {
		rec[k] = normalizeValue(v)
	}
	return rec, nil
}

// DecodeJSONL reads newline-delimited JSON objects. Blank lines are skipped.
// The first unparsable line aborts decoding with a *LineError; a failing
// reader or an oversized line aborts it with a *ReadError.
func DecodeJSONL(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []Record
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(bytes.TrimSpace(text)) == 0 {
			continue
		}
		rec, err := DecodeRecord(text)
		if err != nil {
			// A failing reader hands over its partial last line first.
			if !scanner.Scan() && scanner.Err() != nil {
				return nil, &ReadError{Line: line - 1, Err: scanner.Err()}
			}
			return nil, &LineError{Line: line, Err: err}
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ReadError{Line: line, Err: err}
	}
	return records, nil
}

// normalizeValue converts json.Number into int64 or float64 and recurses into
// containers so nested values never leak json.Number.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		s := val.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := val.Int64(); err == nil {
				return i
			}
		}
		f, err := val.Float64()
		if err != nil {
			return s
		}
		return f
	case map[string]interface{}:
		for k, inner := range val {
			val[k] = normalizeValue(inner)
		}
		return val
	case []interface{}:
		for i, inner := range val {
			val[i] = normalizeValue(inner)
		}
		return val
	default:
		return v
	}
}
