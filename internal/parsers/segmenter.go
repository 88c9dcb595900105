package parsers

import (
	"regexp"
	"strings"
)

// recordAnchor marks the start of a logical transaction record: a
// three-letter month abbreviation with a 4-digit year, followed by a
// DD-MM-YYYY calendar date.
var recordAnchor = regexp.MustCompile(`[A-Za-z]{3}-\d{4}\s+\d{2}-\d{2}-\d{4}`)

// SegmentRecords splits a normalized document line into logical
// transaction records. Everything between one anchor and the next belongs
// to the earlier record, which re-joins any fragments the upstream
// renderer wrapped onto new visual lines. Text before the first anchor is
// header and balance material owned by other extractors and is discarded.
// Order is preserved; it encodes ledger order.
func SegmentRecords(normalized string) []string {
	bounds := recordAnchor.FindAllStringIndex(normalized, -1)
	if len(bounds) == 0 {
		return nil
	}

	records := make([]string, 0, len(bounds))
	for i, b := range bounds {
		end := len(normalized)
		if i+1 < len(bounds) {
			end = bounds[i+1][0]
		}
		record := strings.TrimSpace(normalized[b[0]:end])
		if record != "" {
			records = append(records, record)
		}
	}
	return records
}
