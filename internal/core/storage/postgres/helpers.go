package postgres

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"

	v1 "github.com/powergen-lab/powergen-etl/internal/api/v1"
)

// rowValues projects a record onto columns in order. Absent fields become
// NULL. Floats are written as exact decimals so NUMERIC columns store the
// value the feed sent rather than its binary approximation.
func rowValues(rec v1.Record, columns []string) []interface{} {
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		args[i] = columnValue(rec[col])
	}
	return args
}

func columnValue(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return decimal.NewFromFloat(val)
	case float32:
		return decimal.NewFromFloat32(val)
	case int:
		return int64(val)
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(val)
		if err != nil {
			return nil
		}
		return string(data)
	default:
		return v
	}
}

// nullableJSON maps an empty document to SQL NULL.
func nullableJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return []byte(raw)
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
