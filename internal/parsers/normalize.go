package parsers

import (
	"regexp"
	"strings"
)

var (
	// Passbook pages are bilingual; only the Latin-script vocabulary is
	// parsed, so the Devanagari rendering is dropped wholesale.
	devanagariPattern = regexp.MustCompile(`[\x{0900}-\x{097F}]`)
	whitespaceRuns    = regexp.MustCompile(`\s+`)
)

// NormalizeText strips Devanagari glyphs from the concatenated page text
// and collapses all whitespace runs, including the line structure the
// upstream renderer produced, into single spaces. The result is one
// logical line per document; all downstream pattern search runs on it.
func NormalizeText(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := devanagariPattern.ReplaceAllString(raw, "")
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(cleaned, " "))
}
