package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	v1 "github.com/powergen-lab/powergen-etl/internal/api/v1"
)

// ErrNoRecords is returned when a write is attempted with an empty batch.
var ErrNoRecords = errors.New("no records to write")

// RecordStore persists validated generation records. Implementations own
// connection retry and transaction handling; callers hand over a finished
// batch and its column order.
type RecordStore interface {
	// WriteRecords appends records to table in one transaction and returns
	// how many rows were written. Fields missing from a record are written
	// as NULL; fields not listed in columns are ignored.
	WriteRecords(ctx context.Context, table string, columns []string, records []v1.Record) (int, error)

	// RecordCounts returns the row count of each table. A table that does
	// not exist yet counts as zero.
	RecordCounts(ctx context.Context, tables []string) (map[string]int64, error)
}

// MetadataStore records the outcome of an upstream extraction run.
type MetadataStore interface {
	SaveExtractionMetadata(ctx context.Context, m *ExtractionMetadata) error
}

// Store is everything the CLI and HTTP surfaces need from the database.
type Store interface {
	RecordStore
	MetadataStore
	Ping(ctx context.Context) error
	Close() error
}

// ExtractionMetadata describes one extractor run. Re-saving the same run id
// updates its totals, success flag and failure details.
type ExtractionMetadata struct {
	ExtractionRunID           string          `json:"extraction_run_id"`
	Source                    string          `json:"source"`
	ExtractionTimestamp       time.Time       `json:"extraction_timestamp"`
	StartDate                 string          `json:"start_date,omitempty"`
	EndDate                   string          `json:"end_date,omitempty"`
	TotalRecords              int             `json:"total_records"`
	FailedCount               int             `json:"failed_count"`
	Success                   bool            `json:"success"`
	FailedDetails             json.RawMessage `json:"failed_details,omitempty"`
	ConfigSnapshot            json.RawMessage `json:"config_snapshot,omitempty"`
	SourceURLs                json.RawMessage `json:"source_urls,omitempty"`
	ExtractionDurationSeconds *int64          `json:"extraction_duration_seconds,omitempty"`
}

// DecodeExtractionMetadata reads one metadata document. An absent success
// flag means the run succeeded.
func DecodeExtractionMetadata(r io.Reader) (*ExtractionMetadata, error) {
	m := &ExtractionMetadata{Success: true}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("failed to decode extraction metadata: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the fields the extraction_metadata table requires.
func (m *ExtractionMetadata) Validate() error {
	if _, err := uuid.Parse(m.ExtractionRunID); err != nil {
		return fmt.Errorf("invalid extraction_run_id %q: %w", m.ExtractionRunID, err)
	}
	if strings.TrimSpace(m.Source) == "" {
		return fmt.Errorf("source is required")
	}
	if m.ExtractionTimestamp.IsZero() {
		return fmt.Errorf("extraction_timestamp is required")
	}
	if m.TotalRecords < 0 || m.FailedCount < 0 {
		return fmt.Errorf("total_records and failed_count must be >= 0")
	}
	return nil
}
