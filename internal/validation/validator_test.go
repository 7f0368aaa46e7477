package validation_test

import (
	"testing"
	"time"

	v1 "github.com/powergen-lab/powergen-etl/internal/api/v1"
	"github.com/powergen-lab/powergen-etl/internal/schema"
	"github.com/powergen-lab/powergen-etl/internal/validation"
	"github.com/stretchr/testify/require"
)

var testNow = time.UnixMilli(1_700_000_000_000)

const testRunID = "123e4567-e89b-12d3-a456-426614174000"

func newTestEngine() *validation.Engine {
	return validation.NewEngine(schema.Default(), validation.WithClock(func() time.Time { return testNow }))
}

func mustSchema(t *testing.T, source schema.Source) *schema.Schema {
	t.Helper()
	s, err := schema.Default().Get(source)
	require.NoError(t, err)
	return s
}

func nppRecord(plantAndUnit string, ts int64, mwh interface{}) v1.Record {
	return v1.Record{
		"extraction_run_id": testRunID,
		"created_at_ms":     testNow.UnixMilli() - 1000,
		"timestamp_ms":      ts,
		"plant":             "Plant A",
		"plant_and_unit":    plantAndUnit,
		"generation_mwh":    mwh,
	}
}

func eiaRecord() v1.Record {
	return v1.Record{
		"extraction_run_id":  testRunID,
		"created_at_ms":      testNow.UnixMilli() - 1000,
		"timestamp_ms":       testNow.UnixMilli() - 3_600_000,
		"utility_id":         "195",
		"plant_code":         "3",
		"generator_id":       "1",
		"state":              "al",
		"prime_mover":        "ST",
		"net_generation_mwh": 1234.5,
		"fuel_source":        nil,
		"energy_source":      nil,
	}
}

func entsoeRecord() v1.Record {
	return v1.Record{
		"extraction_run_id":  testRunID,
		"created_at_ms":      testNow.UnixMilli() - 1000,
		"timestamp_ms":       testNow.UnixMilli() - 3_600_000,
		"country_code":       "DE",
		"psr_type":           "B14",
		"plant_name":         "Isar 2",
		"fuel_type":          "Nuclear",
		"data_type":          "actual",
		"generation_mw":      int64(1400),
		"resolution_minutes": int64(60),
	}
}

func TestValidate_ValidRecordsPerSource(t *testing.T) {
	v := validation.NewValidator(validation.WithClock(func() time.Time { return testNow }))

	tests := []struct {
		source schema.Source
		record v1.Record
	}{
		{schema.SourceNPP, nppRecord("A-1", testNow.UnixMilli()-1000, 10.0)},
		{schema.SourceEIA, eiaRecord()},
		{schema.SourceENTSOE, entsoeRecord()},
	}

	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			result := v.Validate(tt.record, mustSchema(t, tt.source))
			require.True(t, result.Valid, "errors: %v", result.Errors)
			require.Empty(t, result.Errors)
			require.Equal(t, tt.record, result.Record)
		})
	}
}

func TestValidate_MissingRequiredFieldSkipsRule(t *testing.T) {
	v := validation.NewValidator(validation.WithClock(func() time.Time { return testNow }))
	rec := nppRecord("A-1", testNow.UnixMilli()-1000, 10.0)
	delete(rec, "extraction_run_id")

	result := v.Validate(rec, mustSchema(t, schema.SourceNPP))
	require.False(t, result.Valid)
	require.Equal(t, []string{"missing required field: extraction_run_id"}, result.Errors)
}

func TestValidate_TypeFailureSkipsRule(t *testing.T) {
	v := validation.NewValidator(validation.WithClock(func() time.Time { return testNow }))
	rec := nppRecord("A-1", testNow.UnixMilli()-1000, "lots")

	result := v.Validate(rec, mustSchema(t, schema.SourceNPP))
	require.False(t, result.Valid)
	require.Equal(t, []string{"generation_mwh: expected float, got string"}, result.Errors)
}

func TestValidate_CollectsAllErrorsInOrder(t *testing.T) {
	v := validation.NewValidator(validation.WithClock(func() time.Time { return testNow }))
	rec := v1.Record{
		"extraction_run_id":  "not-a-uuid",
		"created_at_ms":      true,
		"timestamp_ms":       int64(0),
		"plant":              "  ",
		"generation_mwh":     -1.5,
		"unit":               []interface{}{"x"},
		"resolution_minutes": 15.0,
	}

	result := v.Validate(rec, mustSchema(t, schema.SourceNPP))
	require.False(t, result.Valid)
	require.Equal(t, []string{
		"extraction_run_id: invalid UUID format",
		"created_at_ms: expected integer, got boolean",
		"timestamp_ms: invalid timestamp (must be positive and not in future)",
		"plant: must be non-empty string",
		"missing required field: plant_and_unit",
		"generation_mwh: must be non-negative number",
		"unit: expected string, number, or null, got array",
		"resolution_minutes: expected integer or null, got float",
	}, result.Errors)
}

func TestValidate_OptionalFieldsTypeCheckedOnlyWhenPresent(t *testing.T) {
	v := validation.NewValidator(validation.WithClock(func() time.Time { return testNow }))
	s := mustSchema(t, schema.SourceEIA)

	rec := eiaRecord()
	delete(rec, "fuel_source")
	delete(rec, "energy_source")
	require.True(t, v.Validate(rec, s).Valid)

	rec["in_gcpt_crosswalk"] = int64(1)
	result := v.Validate(rec, s)
	require.False(t, result.Valid)
	require.Equal(t, []string{"in_gcpt_crosswalk: expected boolean or null, got integer"}, result.Errors)

	rec["in_gcpt_crosswalk"] = true
	rec["eia_plant_unit_id"] = nil
	require.True(t, v.Validate(rec, s).Valid)
}

func TestValidate_StateCodeAndFutureTimestamp(t *testing.T) {
	v := validation.NewValidator(validation.WithClock(func() time.Time { return testNow }))
	rec := eiaRecord()
	rec["state"] = "XX"
	rec["timestamp_ms"] = testNow.Add(25 * time.Hour).UnixMilli()

	result := v.Validate(rec, mustSchema(t, schema.SourceEIA))
	require.Equal(t, []string{
		"timestamp_ms: invalid timestamp (must be positive and not in future)",
		"state: must be 2-character state code",
	}, result.Errors)
}

func TestValidate_EntsoeResolutionMustBePositive(t *testing.T) {
	v := validation.NewValidator(validation.WithClock(func() time.Time { return testNow }))
	rec := entsoeRecord()
	rec["resolution_minutes"] = int64(0)
	rec["timestamp_ms"] = nil

	result := v.Validate(rec, mustSchema(t, schema.SourceENTSOE))
	require.Equal(t, []string{
		"timestamp_ms: expected integer, got null",
		"resolution_minutes: must be a positive number",
	}, result.Errors)
}
