package harmonize

import (
	"math"
	"strconv"
	"strings"
	"time"

	v1 "github.com/powergen-lab/powergen-etl/internal/api/v1"
)

// Legacy and descriptive field names touched during harmonization.
const (
	fieldDate         = "date"
	fieldScrapeID     = "scrape_id"
	fieldUtilityID    = "utility_id"
	fieldPlantCode    = "plant_code"
	fieldGeneratorID  = "generator_id"
	fieldFuelSource   = "fuel_source"
	fieldEnergySource = "energy_source"
)

// harmonizeNPP handles both the current feed, which already carries
// provenance and timestamp_ms, and the legacy one keyed by Unix-second dates.
func harmonizeNPP(b *batch, records []v1.Record) *EIADecision {
	for _, rec := range records {
		if rec.Has(v1.FieldExtractionRunID) && rec.Has(v1.FieldTimestampMs) {
			if !rec.Has(v1.FieldCreatedAtMs) {
				b.stampCreatedAt(rec)
			}
			continue
		}

		b.stampRunID(rec)
		b.stampCreatedAt(rec)

		if date, ok := rec[fieldDate]; ok {
			delete(rec, fieldDate)
			if ms, ok := secondsToMillis(date); ok {
				rec[v1.FieldTimestampMs] = ms
			}
		}
		delete(rec, fieldScrapeID)
	}
	return nil
}

// harmonizeEIA decides from the first record only whether provenance must be
// stamped and applies that decision to every record, overwriting any value a
// later record carried.
func harmonizeEIA(b *batch, records []v1.Record) *EIADecision {
	decision := &EIADecision{}
	if len(records) == 0 {
		return decision
	}

	first := records[0]
	hasRunID := first.Has(v1.FieldExtractionRunID)
	hasCreatedAt := first.Has(v1.FieldCreatedAtMs)
	decision.StampRunID = !hasRunID
	decision.StampCreatedAt = !hasCreatedAt

	for _, rec := range records {
		if rec.Has(v1.FieldExtractionRunID) != hasRunID || rec.Has(v1.FieldCreatedAtMs) != hasCreatedAt {
			decision.Disagreements++
		}

		if decision.StampRunID {
			b.stampRunID(rec)
		}
		if decision.StampCreatedAt {
			b.stampCreatedAt(rec)
		}

		for _, f := range []string{fieldUtilityID, fieldPlantCode, fieldGeneratorID} {
			if v, ok := rec[f]; ok {
				rec[f] = identifierString(v)
			}
		}

		if !rec.Has(fieldFuelSource) {
			rec[fieldFuelSource] = nil
		}
		if !rec.Has(fieldEnergySource) {
			rec[fieldEnergySource] = nil
		}
	}
	return decision
}

// harmonizeENTSOE stamps provenance per record and converts ISO datetime
// strings in timestamp_ms to epoch milliseconds.
func harmonizeENTSOE(b *batch, records []v1.Record) *EIADecision {
	for _, rec := range records {
		if !rec.Has(v1.FieldExtractionRunID) {
			b.stampRunID(rec)
		}
		if !rec.Has(v1.FieldCreatedAtMs) {
			b.stampCreatedAt(rec)
		}

		if s, ok := rec[v1.FieldTimestampMs].(string); ok {
			if t, ok := ParseTimestamp(s); ok {
				rec[v1.FieldTimestampMs] = t.UnixMilli()
			} else {
				rec[v1.FieldTimestampMs] = nil
			}
		}
	}
	return nil
}

// secondsToMillis converts a Unix-seconds value to integer milliseconds,
// truncating toward zero. Non-numeric values are rejected.
func secondsToMillis(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n * 1000, true
	case int:
		return int64(n) * 1000, true
	case float64:
		ms := n * 1000
		if math.IsNaN(ms) || math.IsInf(ms, 0) {
			return 0, false
		}
		return int64(ms), true
	}
	return 0, false
}

// identifierString renders an identifier for VARCHAR columns. Null stays
// null so the type check rejects it.
func identifierString(v interface{}) interface{} {
	switch id := v.(type) {
	case nil, string:
		return v
	case int64:
		return strconv.FormatInt(id, 10)
	case int:
		return strconv.Itoa(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(id)
	}
	return v
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 shapes seen in the transmission feed.
// Values without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
