package mapping

import (
	"math"
	"strconv"
	"strings"
)

// Transform converts a raw wizard value into the representation the
// record-store field expects. ok=false means the value could not be converted
// and the field must be omitted rather than written with a garbage value.
type Transform func(raw string) (value any, ok bool)

// Currency strips currency symbols, grouping commas and surrounding noise
// before parsing. "$450,000.00" -> 450000.0. Unparseable input is rejected so
// NaN can never reach the record-store.
func Currency(raw string) (any, bool) {
	return parseNumeric(raw)
}

// Percentage parses commission-style values: "6%" -> 6.0.
func Percentage(raw string) (any, bool) {
	return parseNumeric(raw)
}

// YesNo maps case-insensitive YES/NO answers onto booleans.
func YesNo(raw string) (any, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "YES", "TRUE":
		return true, true
	case "NO", "FALSE":
		return false, true
	default:
		return nil, false
	}
}

// Phone normalizes a ten-digit US number to "(215) 555-0100". Eleven digits
// with a leading 1 are accepted; anything else passes through untouched since
// the record-store field is free text.
func Phone(raw string) (any, bool) {
	digits := keepDigits(raw)
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return strings.TrimSpace(raw), raw != ""
	}
	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:], true
}

func parseNumeric(raw string) (any, bool) {
	cleaned := keepNumeric(raw)
	if cleaned == "" {
		return nil, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}

func keepNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
