package ingestion

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/powergen-lab/powergen-etl/internal/core/storage"
	"github.com/powergen-lab/powergen-etl/internal/schema"
	"github.com/powergen-lab/powergen-etl/internal/validation"
)

const testRunID = "123e4567-e89b-42d3-a456-426614174000"

var testNow = time.UnixMilli(1_700_000_000_000)

func newTestService(t *testing.T, store storage.Store, opts Options) *Service {
	t.Helper()

	registry := schema.Default()
	clock := func() time.Time { return testNow }
	if opts.Now == nil {
		opts.Now = clock
	}
	return NewService(registry, validation.NewEngine(registry, validation.WithClock(clock)), store, opts)
}

func nppLine(unit string, ts int64, mwh float64) string {
	return fmt.Sprintf(`{"extraction_run_id":%q,"created_at_ms":%d,"timestamp_ms":%d,"plant":"Plant A","plant_and_unit":%q,"generation_mwh":%g}`,
		testRunID, testNow.UnixMilli()-1000, ts, unit, mwh)
}

// nppBatch has two valid records, one duplicate of the first and one with
// negative generation.
func nppBatch() string {
	ts := testNow.UnixMilli() - 60_000
	return strings.Join([]string{
		nppLine("A-1", ts, 12.5),
		nppLine("A-2", ts, 7.25),
		nppLine("A-1", ts, 99.5),
		nppLine("A-3", ts, -1.5),
	}, "\n") + "\n"
}

func nppSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Default().Get(schema.SourceNPP)
	if err != nil {
		t.Fatal(err)
	}
	return s
}
