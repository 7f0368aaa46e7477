package validation

import (
	"fmt"

	v1 "github.com/powergen-lab/powergen-etl/internal/api/v1"
	"github.com/powergen-lab/powergen-etl/internal/schema"
)

// Engine drives a whole batch through the validator and duplicate detector.
// It keeps no state between calls; every ValidateFile owns its seen-set and
// report.
type Engine struct {
	registry  *schema.Registry
	validator *Validator
}

// NewEngine creates an engine over the given registry.
func NewEngine(registry *schema.Registry, opts ...Option) *Engine {
	return &Engine{
		registry:  registry,
		validator: NewValidator(opts...),
	}
}

// Validator exposes the single-record validator the engine uses.
func (e *Engine) Validator() *Validator {
	return e.validator
}

// ValidateFile validates already-harmonized records of one source in input
// order. It returns the surviving records, order preserved, and the report.
// An unknown source fails before any record is inspected.
func (e *Engine) ValidateFile(records []v1.Record, source schema.Source, label string) ([]v1.Record, *Report, error) {
	s, err := e.registry.Get(source)
	if err != nil {
		return nil, nil, err
	}

	report := NewReport(label, len(records))
	det := newDetector(s.DuplicateKey)
	valid := make([]v1.Record, 0, len(records))

	for idx, record := range records {
		result := e.validator.Validate(record, s)
		if !result.Valid {
			report.InvalidRecords++
			for _, msg := range result.Errors {
				report.AddError(errorCategory(msg), idx, msg)
			}
			continue
		}

		key, dup := det.observe(record)
		if dup {
			report.DuplicateRecords++
			report.AddError(categoryDuplicate, idx, fmt.Sprintf("duplicate key: %s", key))
			continue
		}

		valid = append(valid, record)
		report.ValidRecords++
	}

	return valid, report, nil
}
