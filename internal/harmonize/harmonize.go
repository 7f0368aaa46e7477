// Package harmonize rewrites raw per-source records into the canonical shape
// the validator expects: provenance stamped, legacy encodings converted.
// It performs no I/O.
package harmonize

import (
	"time"

	"github.com/google/uuid"

	v1 "github.com/powergen-lab/powergen-etl/internal/api/v1"
	"github.com/powergen-lab/powergen-etl/internal/schema"
)

// Result is the harmonized batch plus the batch-level facts that were applied.
type Result struct {
	Records []v1.Record

	// RunID and CreatedAtMs are the provenance values stamped on records that
	// lacked them. Each is zero when no record needed it.
	RunID       string
	CreatedAtMs int64

	// EIA is set only for eia batches.
	EIA *EIADecision
}

// EIADecision is the provenance policy chosen from the first eia record and
// applied to the whole batch.
type EIADecision struct {
	StampRunID     bool
	StampCreatedAt bool

	// Disagreements counts records whose own provenance fields differ in
	// presence from the first record's.
	Disagreements int
}

// Options configures a Harmonizer. Zero values use the wall clock and
// random UUIDv4 run ids.
type Options struct {
	// RunID pins the extraction_run_id stamped on records that lack one.
	RunID string
	Now   func() time.Time
	NewID func() string
}

type harmonizeFunc func(b *batch, records []v1.Record) *EIADecision

var harmonizers = map[schema.Source]harmonizeFunc{
	schema.SourceNPP:    harmonizeNPP,
	schema.SourceEIA:    harmonizeEIA,
	schema.SourceENTSOE: harmonizeENTSOE,
}

// Harmonizer dispatches to the per-source harmonization rules.
type Harmonizer struct {
	opts Options
}

// New creates a Harmonizer.
func New(opts Options) *Harmonizer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	return &Harmonizer{opts: opts}
}

// Harmonize mutates records in place and returns them with the batch facts.
// The run id and created_at_ms are each generated at most once per call.
func (h *Harmonizer) Harmonize(source schema.Source, records []v1.Record) (*Result, error) {
	fn, ok := harmonizers[source]
	if !ok {
		return nil, &schema.UnknownSourceError{Source: source}
	}

	b := &batch{opts: h.opts}
	decision := fn(b, records)

	return &Result{
		Records:     records,
		RunID:       b.runID,
		CreatedAtMs: b.createdAtMs,
		EIA:         decision,
	}, nil
}

// batch lazily captures the provenance shared by every record of one call.
// Each value is generated the first time a record needs it.
type batch struct {
	opts        Options
	runID       string
	createdAtMs int64
}

func (b *batch) stampRunID(rec v1.Record) {
	if b.runID == "" {
		b.runID = b.opts.RunID
		if b.runID == "" {
			b.runID = b.opts.NewID()
		}
	}
	rec[v1.FieldExtractionRunID] = b.runID
}

func (b *batch) stampCreatedAt(rec v1.Record) {
	if b.createdAtMs == 0 {
		b.createdAtMs = b.opts.Now().UnixMilli()
	}
	rec[v1.FieldCreatedAtMs] = b.createdAtMs
}
