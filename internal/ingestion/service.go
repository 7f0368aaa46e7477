// Package ingestion loads generation record batches: parse, harmonize,
// validate, report, then hand the valid records to storage.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync/atomic"
	"time"

	v1 "github.com/powergen-lab/powergen-etl/internal/api/v1"
	"github.com/powergen-lab/powergen-etl/internal/core/storage"
	"github.com/powergen-lab/powergen-etl/internal/harmonize"
	"github.com/powergen-lab/powergen-etl/internal/logging"
	"github.com/powergen-lab/powergen-etl/internal/metrics"
	"github.com/powergen-lab/powergen-etl/internal/schema"
	"github.com/powergen-lab/powergen-etl/internal/validation"
)

// ErrStrictRejected is returned when strict mode refuses a batch that had
// invalid or duplicate records. Nothing is written.
var ErrStrictRejected = errors.New("strict mode rejected batch")

// Options configures a Service.
type Options struct {
	// ReportDir receives a report per batch when a request names no path.
	// Empty disables automatic reports.
	ReportDir string

	// Strict is the default strict policy for requests.
	Strict bool

	// Workers bounds how many files LoadFiles processes at once.
	Workers int

	// MaxBodySizeMB caps HTTP request bodies as received.
	MaxBodySizeMB int

	// MaxDecodedMB caps HTTP request bodies after Content-Encoding is
	// removed. Zero means 16 times MaxBodySizeMB.
	MaxDecodedMB int

	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Request describes one batch.
type Request struct {
	Source schema.Source

	// Label names the batch in reports and logs, usually the input path.
	Label string

	// ReportPath, when set, is where the validation report is written.
	ReportPath string

	Strict bool

	// RunID pins the extraction_run_id stamped on records lacking one.
	RunID string

	// DryRun validates and reports without writing.
	DryRun bool
}

// Outcome is what happened to one batch.
type Outcome struct {
	Source schema.Source `json:"source"`
	Label  string        `json:"label"`

	// Report is nil for an empty input.
	Report     *validation.Report `json:"report,omitempty"`
	ReportPath string             `json:"report_path,omitempty"`

	Written int    `json:"written"`
	RunID   string `json:"extraction_run_id,omitempty"`

	EIA *harmonize.EIADecision `json:"-"`
}

// Service runs batches through the load pipeline.
type Service struct {
	registry *schema.Registry
	engine   *validation.Engine
	store    storage.Store
	opts     Options

	// reports numbers auto-named report files so batches finishing in the
	// same millisecond never share a path.
	reports atomic.Uint64
}

// NewService wires the pipeline. store may be nil for validate-only use;
// such a service rejects requests that are not dry runs.
func NewService(registry *schema.Registry, engine *validation.Engine, store storage.Store, opts Options) *Service {
	if registry == nil {
		panic("ingestion: registry must not be nil")
	}
	if engine == nil {
		panic("ingestion: engine must not be nil")
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.MaxBodySizeMB <= 0 {
		opts.MaxBodySizeMB = 1
	}
	if opts.MaxDecodedMB <= 0 {
		opts.MaxDecodedMB = 16 * opts.MaxBodySizeMB
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		registry: registry,
		engine:   engine,
		store:    store,
		opts:     opts,
	}
}

// Load runs one JSONL batch read from r.
//
// Parse failures and unknown sources fail before any record is inspected.
// With strict set, a batch containing invalid or duplicate records returns
// ErrStrictRejected together with the outcome and its report.
func (s *Service) Load(ctx context.Context, req Request, r io.Reader) (*Outcome, error) {
	start := s.opts.Now()
	log := logging.BatchLogger(string(req.Source), req.Label)

	sch, err := s.registry.Get(req.Source)
	if err != nil {
		return nil, err
	}
	if !req.DryRun && s.store == nil {
		return nil, errors.New("no store configured; only dry runs are possible")
	}

	records, err := v1.DecodeJSONL(r)
	if err != nil {
		s.opts.Metrics.ObserveBatch(string(req.Source), metrics.ResultFailed, time.Since(start))
		return nil, fmt.Errorf("failed to parse %s: %w", req.Label, err)
	}

	out := &Outcome{Source: req.Source, Label: req.Label}
	if len(records) == 0 {
		log.Warn("No records found in input, nothing to load")
		s.opts.Metrics.ObserveBatch(string(req.Source), metrics.ResultEmpty, time.Since(start))
		return out, nil
	}

	harmonizer := harmonize.New(harmonize.Options{RunID: req.RunID, Now: s.opts.Now})
	harmonized, err := harmonizer.Harmonize(req.Source, records)
	if err != nil {
		return nil, err
	}
	out.RunID = harmonized.RunID
	out.EIA = harmonized.EIA
	if d := harmonized.EIA; d != nil && d.Disagreements > 0 {
		log.Warn("Provenance presence differs from the first record; first record's decision applied to all",
			"stamp_run_id", d.StampRunID,
			"stamp_created_at", d.StampCreatedAt,
			"disagreements", d.Disagreements)
	}

	valid, report, err := s.engine.ValidateFile(harmonized.Records, req.Source, req.Label)
	if err != nil {
		return nil, err
	}
	report.Timestamp = s.opts.Now()
	out.Report = report

	if path := s.reportPath(req); path != "" {
		if err := report.Save(path); err != nil {
			return out, err
		}
		out.ReportPath = path
		log.Info("Validation report saved", "path", path)
	}

	log.Info("Validated records", "valid", report.ValidRecords, "total", report.TotalRecords)
	if report.InvalidRecords > 0 {
		log.Warn("Skipping invalid records", "count", report.InvalidRecords, "errors_by_type", report.FieldErrorsByType())
	}
	if report.DuplicateRecords > 0 {
		log.Warn("Skipping duplicate records", "count", report.DuplicateRecords)
	}
	s.opts.Metrics.ObserveRecords(string(req.Source), report.ValidRecords, report.InvalidRecords, report.DuplicateRecords)

	if req.Strict && report.Rejected() {
		log.Error("Strict mode: refusing to load batch",
			"invalid", report.InvalidRecords,
			"duplicate", report.DuplicateRecords)
		s.opts.Metrics.ObserveBatch(string(req.Source), metrics.ResultRejected, time.Since(start))
		return out, fmt.Errorf("%w: %d invalid, %d duplicate records in %s",
			ErrStrictRejected, report.InvalidRecords, report.DuplicateRecords, req.Label)
	}

	if req.DryRun {
		s.opts.Metrics.ObserveBatch(string(req.Source), metrics.ResultValidated, time.Since(start))
		return out, nil
	}

	if len(valid) == 0 {
		log.Warn("No valid records to load")
		s.opts.Metrics.ObserveBatch(string(req.Source), metrics.ResultLoaded, time.Since(start))
		return out, nil
	}

	n, err := s.store.WriteRecords(ctx, sch.Table, sch.Columns, valid)
	if err != nil {
		s.opts.Metrics.ObserveBatch(string(req.Source), metrics.ResultFailed, time.Since(start))
		return out, err
	}
	out.Written = n
	s.opts.Metrics.AddRowsWritten(sch.Table, n)
	s.opts.Metrics.ObserveBatch(string(req.Source), metrics.ResultLoaded, time.Since(start))

	log.Info("Loaded records", "table", sch.Table, "count", n, "duration", time.Since(start))
	return out, nil
}

// LoadFile opens path, decompressing by extension, and runs it as one batch.
// An empty Label defaults to the path.
func (s *Service) LoadFile(ctx context.Context, req Request, path string) (*Outcome, error) {
	if req.Label == "" {
		req.Label = path
	}
	if _, err := s.registry.Get(req.Source); err != nil {
		return nil, err
	}

	in, err := OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	return s.Load(ctx, req, in)
}

// reportPath is the explicit path, else a timestamped, numbered file in
// ReportDir.
func (s *Service) reportPath(req Request) string {
	if req.ReportPath != "" {
		return req.ReportPath
	}
	if s.opts.ReportDir == "" {
		return ""
	}
	name := fmt.Sprintf("%s_%s_%04d_validation.json",
		req.Source, s.opts.Now().UTC().Format("20060102T150405.000Z"), s.reports.Add(1))
	return filepath.Join(s.opts.ReportDir, name)
}
