package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	v1 "github.com/powergen-lab/powergen-etl/internal/api/v1"
)

// DuplicateKey is the projection of a record onto the schema's key fields.
// A field missing from the record projects to nil.
type DuplicateKey struct {
	Fields []string
	Values []interface{}
}

// ProjectKey builds the duplicate key of record for the given fields.
func ProjectKey(record v1.Record, fields []string) DuplicateKey {
	values := make([]interface{}, len(fields))
	for i, f := range fields {
		values[i] = record[f]
	}
	return DuplicateKey{Fields: fields, Values: values}
}

// Empty reports whether the key projects no fields. Empty keys never collide.
func (k DuplicateKey) Empty() bool {
	return len(k.Values) == 0
}

// Canonical returns a string usable as a map key. Integers and integral
// floats encode identically, so 1000 and 1000.0 collide.
func (k DuplicateKey) Canonical() string {
	var b strings.Builder
	for i, v := range k.Values {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(canonicalValue(v))
	}
	return b.String()
}

// String renders the key as "(f1, f2) = (v1, v2)".
func (k DuplicateKey) String() string {
	vals := make([]string, len(k.Values))
	for i, v := range k.Values {
		vals[i] = displayValue(v)
	}
	return fmt.Sprintf("(%s) = (%s)", strings.Join(k.Fields, ", "), strings.Join(vals, ", "))
}

func canonicalValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "n"
	case string:
		return "s" + strconv.Quote(val)
	case bool:
		return "b" + strconv.FormatBool(val)
	case float32:
		return canonicalFloat(float64(val))
	case float64:
		return canonicalFloat(val)
	}
	if isInteger(v) {
		return "i" + fmt.Sprint(v)
	}
	return fmt.Sprintf("x%T:%v", v, v)
}

func canonicalFloat(f float64) string {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return "i" + strconv.FormatInt(int64(f), 10)
	}
	return "f" + strconv.FormatFloat(f, 'g', -1, 64)
}

func displayValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// detector remembers the keys seen within one batch. A fresh detector is
// created for every ValidateFile call.
type detector struct {
	fields []string
	seen   map[string]struct{}
}

func newDetector(fields []string) *detector {
	return &detector{fields: fields, seen: make(map[string]struct{})}
}

// observe returns the record's key and whether it was already seen. A first
// sighting is remembered.
func (d *detector) observe(record v1.Record) (DuplicateKey, bool) {
	key := ProjectKey(record, d.fields)
	if key.Empty() {
		return key, false
	}
	c := key.Canonical()
	if _, dup := d.seen[c]; dup {
		return key, true
	}
	d.seen[c] = struct{}{}
	return key, false
}
