package normalizer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PickFirst returns the first candidate field whose value is present and
// non-empty, coerced to a display string. Downstream code always receives a
// string, possibly empty.
//
// Two composite shapes are handled before generic stringification: SODA
// location values carrying a nested human_address JSON string, and
// list-valued fields, which are joined with ", ".
func PickFirst(rec map[string]any, keys []string) string {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || isEmptyValue(v) {
			continue
		}

		if m, ok := v.(map[string]any); ok {
			if ha, ok := m["human_address"]; ok {
				return humanAddress(ha, v)
			}

			return stringify(v)
		}

		if list, ok := v.([]any); ok {
			parts := make([]string, 0, len(list))
			for _, elem := range list {
				parts = append(parts, stringify(elem))
			}

			return strings.Join(parts, ", ")
		}

		return stringify(v)
	}

	return ""
}

// humanAddress decodes the human_address sub-value and renders
// "{street address} {city}". On decode failure the raw composite value is
// stringified instead.
func humanAddress(ha any, raw any) string {
	s, ok := ha.(string)
	if !ok {
		return stringify(raw)
	}

	var addr map[string]any
	if err := json.Unmarshal([]byte(s), &addr); err != nil {
		return stringify(raw)
	}

	street := stringify(addr["address"])
	city := stringify(addr["city"])

	return strings.TrimSpace(street + " " + city)
}

// isEmptyValue mirrors the emptiness rules of the source datasets: nil,
// empty strings, empty collections, zero numbers, and false are all treated
// as absent.
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	case bool:
		return !val
	case float64:
		return val == 0
	default:
		return false
	}
}

// stringify converts a decoded JSON value to its display string.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
