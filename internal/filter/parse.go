package filter

import (
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches the first integer or decimal token, e.g. "45" in
// "45 Mbps" or ".5" in ".5 Mbps"
var numberPattern = regexp.MustCompile(`\d*\.?\d+`)

// truthyValues is the vocabulary accepted as "yes" for boolean-ish fields
var truthyValues = map[string]bool{
	"yes":       true,
	"available": true,
	"true":      true,
	"paid":      true,
}

// ParseFirstNumber extracts the first numeric token anywhere in s.
// Returns false when s holds no digits ("-", "", "n/a").
func ParseFirstNumber(s string) (float64, bool) {
	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParsePrice parses a free-text price. A "k" anywhere in the text
// (case-insensitive) multiplies the number by 1000: "Rp 25k" -> 25000.
func ParsePrice(s string) (float64, bool) {
	v, ok := ParseFirstNumber(s)
	if !ok {
		return 0, false
	}
	if strings.Contains(strings.ToLower(s), "k") {
		v *= 1000
	}
	return v, true
}

// IsTruthy normalizes a string enum such as "Available" or "yes".
func IsTruthy(s string) bool {
	return truthyValues[strings.ToLower(strings.TrimSpace(s))]
}

// IsTruthyValue normalizes a decoded JSON value: native booleans are taken
// as-is, strings go through IsTruthy, anything else is false.
func IsTruthyValue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return IsTruthy(t)
	default:
		return false
	}
}
