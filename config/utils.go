package config

import (
	"strconv"
	"strings"
)

// normalizeMethod upper-cases and trims a method string. It does not resolve
// the `verb` alias; the caller picks the first non-empty of method/verb
// (firstNonEmpty) before calling this.
func normalizeMethod(m string) string {
	return strings.ToUpper(strings.TrimSpace(m))
}

// firstNonEmpty returns the first non-empty string among the given values,
// used to resolve the method/verb alias pair.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseStatus accepts an int, a float64 (YAML/JSON numeric decode default),
// or a decimal string, falling back to 200 on anything unparseable or
// out of the valid 100-599 range.
func parseStatus(v interface{}) int {
	switch t := v.(type) {
	case int:
		return clampStatus(t)
	case int64:
		return clampStatus(int(t))
	case float64:
		return clampStatus(int(t))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return defaultResponseStatus
		}
		return clampStatus(n)
	default:
		return defaultResponseStatus
	}
}

func clampStatus(n int) int {
	if n < minValidStatus || n > maxValidStatus {
		return defaultResponseStatus
	}
	return n
}

// stringHeaders converts a generic map into map[string]string, silently
// skipping any value that isn't a string.
func stringHeaders(v interface{}) map[string]string {
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, val := range raw {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// asString returns v as a string, or "" if it isn't one.
func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// asInt returns v as an int from an int/int64/float64, or 0 otherwise.
func asInt(v interface{}) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	}
	return 0
}
