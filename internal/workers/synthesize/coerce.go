// internal/workers/synthesize/coerce.go
package synthesize

import (
	"regexp"
	"strconv"

	"northwind-agent/internal/models"
)

var (
	intPattern   = regexp.MustCompile(`[-+]?\d+`)
	floatPattern = regexp.MustCompile(`[-+]?\d+(\.\d+)?`)
)

// Coerce applies the post-hoc typing pass keyed on the format hint. For int
// and float the first number-looking substring is parsed, defaulting to zero
// when none is found. Structured and list hints pass the raw text through
// unvalidated. Coercion never fails hard: any parse problem falls back to
// the raw value.
func Coerce(raw string, hint models.FormatHint) interface{} {
	switch hint {
	case models.FormatInt:
		m := intPattern.FindString(raw)
		if m == "" {
			return 0
		}
		n, err := strconv.Atoi(m)
		if err != nil {
			return raw
		}
		return n
	case models.FormatFloat:
		m := floatPattern.FindString(raw)
		if m == "" {
			return 0.0
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return raw
		}
		return f
	default:
		return raw
	}
}
