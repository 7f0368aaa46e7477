// Package validation checks harmonized records against their source schema,
// drops batch-level duplicates and accumulates the diagnostic report.
package validation

import (
	"fmt"
	"time"

	v1 "github.com/powergen-lab/powergen-etl/internal/api/v1"
	"github.com/powergen-lab/powergen-etl/internal/schema"
)

// Result is the verdict for one record.
type Result struct {
	Valid  bool
	Errors []string
	Record v1.Record
}

// Validator type- and rule-checks single records. It holds no per-batch
// state and is safe for concurrent use.
type Validator struct {
	now func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the clock used by the positive_timestamp rule.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// NewValidator creates a validator that reads the wall clock.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks every required field in declared order and then every
// present optional field. All violations are collected. A field that fails
// its type check is not rule-checked.
func (v *Validator) Validate(record v1.Record, s *schema.Schema) Result {
	now := v.now()
	var errs []string

	for _, f := range s.Required {
		value, present := record[f.Name]
		if !present {
			errs = append(errs, fmt.Sprintf("%s: %s", msgMissingFieldLabel, f.Name))
			continue
		}
		if ok, msg := checkType(value, f.Spec.Type); !ok {
			errs = append(errs, fmt.Sprintf("%s: %s", f.Name, msg))
			continue
		}
		if ok, msg := checkRule(value, f.Spec.Rule, now); !ok {
			errs = append(errs, fmt.Sprintf("%s: %s", f.Name, msg))
		}
	}

	for _, f := range s.Optional {
		value, present := record[f.Name]
		if !present {
			continue
		}
		if ok, msg := checkType(value, f.Spec.Type); !ok {
			errs = append(errs, fmt.Sprintf("%s: %s", f.Name, msg))
		}
	}

	return Result{
		Valid:  len(errs) == 0,
		Errors: errs,
		Record: record,
	}
}
