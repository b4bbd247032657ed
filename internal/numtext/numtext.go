// Package numtext coerces human-written numeric tokens into canonical
// float64 values. Lab documents from different locales write decimals with
// either a comma or a period; model output mixes JSON numbers and strings.
package numtext

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToFloat converts a loosely typed value to a float64. Already-numeric
// values pass through unchanged. Strings have a comma decimal separator
// normalized to a period before parsing. Anything else yields NaN; callers
// must check with Valid before using the result.
func ToFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", ".")
		if s == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// Valid reports whether f is a usable finite number.
func Valid(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
