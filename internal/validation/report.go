package validation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxSampleErrors caps Report.SampleErrors. Later errors are still counted.
const maxSampleErrors = 10

// categoryDuplicate is the error category of a dropped duplicate.
const categoryDuplicate = "duplicate"

// SampleError is one sampled error with its position in the batch.
type SampleError struct {
	RecordIndex int    `json:"record_index"`
	ErrorType   string `json:"error_type"`
	Details     string `json:"details"`
}

// Report accumulates the outcome of one batch. Its JSON form is the audit
// document written next to each load.
type Report struct {
	Timestamp        time.Time      `json:"timestamp"`
	SourceFile       string         `json:"source_file"`
	TotalRecords     int            `json:"total_records"`
	ValidRecords     int            `json:"valid_records"`
	InvalidRecords   int            `json:"invalid_records"`
	DuplicateRecords int            `json:"duplicate_records"`
	ErrorsByType     map[string]int `json:"errors_by_type"`
	SampleErrors     []SampleError  `json:"sample_errors"`
}

// NewReport starts an empty report for a batch of total records.
func NewReport(sourceFile string, total int) *Report {
	return &Report{
		SourceFile:   sourceFile,
		TotalRecords: total,
		ErrorsByType: make(map[string]int),
		SampleErrors: make([]SampleError, 0, maxSampleErrors),
	}
}

// AddError counts an error under its category and samples it while fewer
// than ten samples exist.
func (r *Report) AddError(category string, index int, details string) {
	r.ErrorsByType[category]++
	if len(r.SampleErrors) < maxSampleErrors {
		r.SampleErrors = append(r.SampleErrors, SampleError{
			RecordIndex: index,
			ErrorType:   category,
			Details:     details,
		})
	}
}

// Rejected reports whether any record was dropped as invalid or duplicate.
func (r *Report) Rejected() bool {
	return r.InvalidRecords > 0 || r.DuplicateRecords > 0
}

// FieldErrorsByType is ErrorsByType without the duplicate category: the
// errors behind InvalidRecords.
func (r *Report) FieldErrorsByType() map[string]int {
	out := make(map[string]int, len(r.ErrorsByType))
	for category, n := range r.ErrorsByType {
		if category != categoryDuplicate {
			out[category] = n
		}
	}
	return out
}

// Summary is a one-line human readable digest.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s: %d/%d valid, %d invalid, %d duplicate",
		r.SourceFile, r.ValidRecords, r.TotalRecords, r.InvalidRecords, r.DuplicateRecords)
}

// Save writes the report as indented JSON, creating parent directories.
// The timestamp is stamped at save time unless already set.
func (r *Report) Save(path string) error {
	doc := *r
	if doc.Timestamp.IsZero() {
		doc.Timestamp = time.Now()
	}
	if doc.ErrorsByType == nil {
		doc.ErrorsByType = map[string]int{}
	}
	if doc.SampleErrors == nil {
		doc.SampleErrors = []SampleError{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode validation report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write validation report: %w", err)
	}
	return nil
}

// LoadReport reads a report previously written by Save.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read validation report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse validation report %s: %w", path, err)
	}
	if r.ErrorsByType == nil {
		r.ErrorsByType = map[string]int{}
	}
	return &r, nil
}

// errorCategory is the text before the first colon, or the whole message.
func errorCategory(msg string) string {
	if i := strings.IndexByte(msg, ':'); i >= 0 {
		return msg[:i]
	}
	return msg
}
