package validation_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	v1 "github.com/powergen-lab/powergen-etl/internal/api/v1"
	"github.com/powergen-lab/powergen-etl/internal/schema"
	"github.com/powergen-lab/powergen-etl/internal/validation"
	"github.com/stretchr/testify/require"
)

func TestReport_AddError(t *testing.T) {
	r := validation.NewReport("x.jsonl", 20)
	for i := 0; i < 15; i++ {
		r.AddError("plant", i, "plant: must be non-empty string")
	}
	r.AddError("duplicate", 15, "duplicate key: (a) = (1)")

	require.Equal(t, map[string]int{"plant": 15, "duplicate": 1}, r.ErrorsByType)
	require.Len(t, r.SampleErrors, 10)
	require.Equal(t, "plant", r.SampleErrors[9].ErrorType)
	require.Equal(t, map[string]int{"plant": 15}, r.FieldErrorsByType())
	require.Equal(t, 1, r.ErrorsByType["duplicate"])
}

func TestReport_SaveLoadRoundTrip(t *testing.T) {
	ts := testNow.UnixMilli() - 60_000
	bad := nppRecord("A-1", ts, -1.0)
	delete(bad, "plant")
	records := []v1.Record{
		nppRecord("A-1", ts, 1.0),
		nppRecord("A-1", ts, 2.0),
		bad,
	}

	_, report, err := newTestEngine().ValidateFile(records, schema.SourceNPP, "data/npp.jsonl")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "dir", "report.json")
	require.NoError(t, report.Save(path))

	loaded, err := validation.LoadReport(path)
	require.NoError(t, err)
	require.False(t, loaded.Timestamp.IsZero())

	// The timestamp is stamped at save time; everything else must survive.
	diff := cmp.Diff(report, loaded, cmpopts.IgnoreFields(validation.Report{}, "Timestamp"))
	require.Empty(t, diff)
	require.Len(t, loaded.SampleErrors, 3)
}

func TestReport_SaveDocumentShape(t *testing.T) {
	r := validation.NewReport("eia.jsonl", 0)
	r.Timestamp = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, r.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))

	want := map[string]interface{}{
		"timestamp":         "2026-01-02T03:04:05Z",
		"source_file":       "eia.jsonl",
		"total_records":     float64(0),
		"valid_records":     float64(0),
		"invalid_records":   float64(0),
		"duplicate_records": float64(0),
		"errors_by_type":    map[string]interface{}{},
		"sample_errors":     []interface{}{},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("report document mismatch (-want +got):\n%s", diff)
	}
	require.Contains(t, string(data), "\n  \"source_file\"")
}

func TestReport_RejectedAndSummary(t *testing.T) {
	r := validation.NewReport("f.jsonl", 4)
	r.ValidRecords = 4
	require.False(t, r.Rejected())
	require.Equal(t, "f.jsonl: 4/4 valid, 0 invalid, 0 duplicate", r.Summary())

	r.ValidRecords = 3
	r.DuplicateRecords = 1
	require.True(t, r.Rejected())
}

func TestLoadReport_Errors(t *testing.T) {
	_, err := validation.LoadReport(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = validation.LoadReport(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse validation report")
}
