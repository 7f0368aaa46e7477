package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/powergen-lab/powergen-etl/internal/schema"
)

// maxFutureBuffer is how far ahead of now a timestamp may be before it is
// rejected as garbage. It absorbs clock skew between feeds and this host.
const maxFutureBuffer = 24 * time.Hour

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// stateCodes holds the 50 states, DC and the five inhabited territories.
var stateCodes = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "FL": {}, "GA": {},
	"HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {}, "NH": {}, "NJ": {},
	"NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {},
	"SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {}, "WY": {},
	"DC": {}, "PR": {}, "VI": {}, "GU": {}, "AS": {}, "MP": {},
}

// Rule failure messages.
const (
	msgInvalidUUID       = "invalid UUID format"
	msgInvalidTimestamp  = "invalid timestamp (must be positive and not in future)"
	msgNonEmpty          = "must be non-empty string"
	msgStateCode         = "must be 2-character state code"
	msgNonNegative       = "must be non-negative number"
	msgPositive          = "must be a positive number"
	msgMissingFieldLabel = "missing required field"
)

// checkType reports whether value satisfies the type tag. On failure it
// returns the "expected X, got Y" message.
func checkType(value interface{}, tag schema.TypeTag) (bool, string) {
	var ok bool
	switch tag {
	case schema.TypeString:
		ok = isString(value)
	case schema.TypeInteger:
		ok = isInteger(value)
	case schema.TypeFloat:
		ok = isNumber(value)
	case schema.TypeStringOrNull:
		ok = value == nil || isString(value)
	case schema.TypeIntegerOrNull:
		ok = value == nil || isInteger(value)
	case schema.TypeBooleanOrNull:
		_, isBool := value.(bool)
		ok = value == nil || isBool
	case schema.TypeIntegerOrString:
		ok = isInteger(value) || isString(value)
	case schema.TypeStringOrNullOrNumber:
		ok = value == nil || isString(value) || isNumber(value)
	default:
		return false, fmt.Sprintf("unsupported type %q", tag)
	}
	if ok {
		return true, ""
	}
	return false, fmt.Sprintf("expected %s, got %s", expectedName(tag), jsonTypeName(value))
}

// checkRule runs a validation rule against a value whose type already passed.
func checkRule(value interface{}, rule schema.RuleTag, now time.Time) (bool, string) {
	switch rule {
	case schema.RuleNone:
		return true, ""
	case schema.RuleUUID:
		s, ok := value.(string)
		if !ok || !uuidPattern.MatchString(s) {
			return false, msgInvalidUUID
		}
	case schema.RulePositiveTimestamp:
		if !isPositiveTimestamp(value, now) {
			return false, msgInvalidTimestamp
		}
	case schema.RuleNonEmpty:
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return false, msgNonEmpty
		}
	case schema.RuleStateCode:
		s, ok := value.(string)
		if !ok {
			return false, msgStateCode
		}
		if _, known := stateCodes[strings.ToUpper(s)]; !known {
			return false, msgStateCode
		}
	case schema.RuleNonNegative:
		n, ok := toFloat(value)
		if !ok || n < 0 {
			return false, msgNonNegative
		}
	case schema.RulePositive:
		n, ok := toFloat(value)
		if !ok || n <= 0 {
			return false, msgPositive
		}
	default:
		return false, fmt.Sprintf("unsupported rule %q", rule)
	}
	return true, ""
}

func isPositiveTimestamp(value interface{}, now time.Time) bool {
	n, ok := toFloat(value)
	if !ok || n <= 0 {
		return false
	}
	limit := now.Add(maxFutureBuffer).UnixMilli()
	return n <= float64(limit)
}

func isString(v interface{}) bool {
	_, ok := v.(string)
	return ok
}

// isInteger accepts Go integer kinds only. Booleans and floats are rejected,
// including integral floats such as 3.0.
func isInteger(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func isNumber(v interface{}) bool {
	_, ok := toFloat(v)
	return ok
}

// toFloat widens any numeric value to float64. Booleans are not numbers here.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	case float64:
		return n, !math.IsNaN(n)
	}
	return 0, false
}

func expectedName(tag schema.TypeTag) string {
	switch tag {
	case schema.TypeString:
		return "string"
	case schema.TypeInteger:
		return "integer"
	case schema.TypeFloat:
		return "float"
	case schema.TypeStringOrNull:
		return "string or null"
	case schema.TypeIntegerOrNull:
		return "integer or null"
	case schema.TypeBooleanOrNull:
		return "boolean or null"
	case schema.TypeIntegerOrString:
		return "integer or string"
	case schema.TypeStringOrNullOrNumber:
		return "string, number, or null"
	}
	return string(tag)
}

func jsonTypeName(v interface{}) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case bool:
		return "boolean"
	case string:
		return "string"
	case float32, float64:
		return "float"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	}
	if isInteger(v) {
		return "integer"
	}
	return fmt.Sprintf("%T", v)
}
