package parsers

import (
	"strconv"
	"strings"
)

// ParseAmount normalizes a numeric-looking token into whole rupees.
//
// Grouping commas and the rupee glyph are stripped before parsing and a
// leading minus sign yields a negative result. Anything that does not
// reduce to digits resolves to zero: the passbook format gives no way to
// distinguish an absent amount from a zero one, so the parser never fails.
func ParseAmount(token string) int64 {
	cleaned := strings.ReplaceAll(token, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "₹", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0
	}

	negative := strings.HasPrefix(cleaned, "-")
	if negative {
		cleaned = cleaned[1:]
	}
	if cleaned == "" {
		return 0
	}

	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return 0
		}
	}

	value, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	if negative {
		return -value
	}
	return value
}
