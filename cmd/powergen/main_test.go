package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/powergen-lab/powergen-etl/internal/schema"
	"github.com/powergen-lab/powergen-etl/internal/validation"
)

const testRunID = "123e4567-e89b-42d3-a456-426614174000"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeNPPFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "npp.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func nppLine(unit string, mwh float64) string {
	now := time.Now().UnixMilli()
	return fmt.Sprintf(`{"extraction_run_id":%q,"created_at_ms":%d,"timestamp_ms":%d,"plant":"Plant A","plant_and_unit":%q,"generation_mwh":%g}`,
		testRunID, now-1000, now-3_600_000, unit, mwh)
}

func TestValidateCommand(t *testing.T) {
	path := writeNPPFile(t, nppLine("A-1", 1.5), nppLine("A-1", 2.5), nppLine("A-2", -3.5))
	reportPath := filepath.Join(t.TempDir(), "report.json")

	out, err := run(t, "validate", "npp", path, "--validation-report", reportPath)
	require.NoError(t, err)
	require.Contains(t, out, path+": 1/3 valid, 1 invalid, 1 duplicate")
	require.Contains(t, out, "generation_mwh: 1")
	require.Contains(t, out, "record 2: generation_mwh: must be non-negative number")

	r, err := validation.LoadReport(reportPath)
	require.NoError(t, err)
	require.Equal(t, 3, r.TotalRecords)
}

func TestValidateCommand_Strict(t *testing.T) {
	path := writeNPPFile(t, nppLine("A-1", 1.5), nppLine("A-1", 2.5))

	_, err := run(t, "validate", "npp", path, "--strict")
	require.Error(t, err)
	require.Contains(t, err.Error(), "validation failed")
}

func TestValidateCommand_UnknownSource(t *testing.T) {
	_, err := run(t, "validate", "ons", "whatever.jsonl")
	require.ErrorIs(t, err, schema.ErrUnknownSource)
	require.Contains(t, err.Error(), "supported: [eia entsoe npp]")
}

func TestLoadDataCommand_RejectsBadArgumentsBeforeConnecting(t *testing.T) {
	_, err := run(t, "load-data", "npp", "a.jsonl", "--extraction-run-id", "not-a-uuid")
	require.ErrorContains(t, err, "invalid --extraction-run-id")

	_, err = run(t, "load-data", "npp", "a.jsonl", "b.jsonl", "-r", "report.json")
	require.ErrorContains(t, err, "--validation-report takes a single input file")

	_, err = run(t, "load-data", "ons", "a.jsonl")
	require.ErrorIs(t, err, schema.ErrUnknownSource)
}

func TestReportShowCommand(t *testing.T) {
	r := validation.NewReport("eia.jsonl", 4)
	r.Timestamp = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r.ValidRecords = 2
	r.InvalidRecords = 1
	r.DuplicateRecords = 1
	r.AddError("state", 1, "state: must be 2-character state code")
	r.AddError("duplicate", 3, `duplicate key: (timestamp_ms, plant_code, generator_id) = (1, "3", "1")`)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, r.Save(path))

	out, err := run(t, "report", "show", path)
	require.NoError(t, err)
	require.Contains(t, out, "eia.jsonl: 2/4 valid, 1 invalid, 1 duplicate")
	require.Contains(t, out, "generated: 2026-01-02T03:04:05Z")
	require.Contains(t, out, "  duplicate: 1\n  state: 1\n")
	require.Contains(t, out, "record 1: state: must be 2-character state code")
}

func TestConfigFlagErrors(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "report", "show", "x.json")
	require.ErrorContains(t, err, "failed to load config file")
}

func TestSchemaDirReplacesBuiltInDefinitions(t *testing.T) {
	dir := t.TempDir()
	def := `source: npp
table: npp_generation
duplicate_key: [plant]
columns: [plant]
required:
  plant: {type: string, rule: non_empty}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "npp.yaml"), []byte(def), 0o644))
	t.Setenv("POWERGEN_SCHEMA__DIR", dir)

	_, err := run(t, "validate", "eia", "eia.jsonl")
	require.ErrorIs(t, err, schema.ErrUnknownSource)
	require.Contains(t, err.Error(), "supported: [npp]")

	path := writeNPPFile(t, `{"plant":"P"}`, `{"plant":"P"}`, `{"plant":""}`)
	out, err := run(t, "validate", "npp", path)
	require.NoError(t, err)
	require.Contains(t, out, ": 1/3 valid, 1 invalid, 1 duplicate")
}
