package parsers

import (
	"regexp"
	"strings"

	"epfo-passbook-parser/internal/models"
)

// Year-level blocks are located by anchored search: a fixed lead phrase,
// a date, and exactly three amount groups (employee, employer, pension).
// Each block is independent; a missing block resolves to zeros for that
// block only. Years without an interest posting are legitimate.

const triple = `([0-9,]+)\s+([0-9,]+)\s+([0-9,]+)`

var (
	openingBalancePattern = regexp.MustCompile(
		`(?i)OB\s+Int\.\s+Updated\s+upto\s+\d{2}/\d{2}/\d{4}\s+` + triple)
	closingBalancePattern = regexp.MustCompile(
		`(?i)Closing\s+Balance\s+as\s+on\s+\d{2}/\d{2}/\d{4}\s+` + triple)
	contributionsPattern = regexp.MustCompile(
		`(?i)Total\s+Contributions\s+for\s+the\s+year.*?(\d{1,3}(?:,\d{3})*|\d+)\s+(\d{1,3}(?:,\d{3})*|\d+)\s+(\d{1,3}(?:,\d{3})*|\d+)`)
	withdrawalsPattern = regexp.MustCompile(
		`(?i)Total\s+Withdrawals\s+for\s+the\s+year.*?(\d{1,3}(?:,\d{3})*|\d+)\s+(\d{1,3}(?:,\d{3})*|\d+)\s+(\d{1,3}(?:,\d{3})*|\d+)`)
	// Shared by the opening-balance anchor; occurrences preceded by "OB"
	// are excluded when searching for the standalone interest posting.
	interestPattern = regexp.MustCompile(
		`(?i)Int\.\s+Updated\s+upto\s+\d{2}/\d{2}/\d{4}\s+` + triple)
)

// ExtractBalances extracts the five year-level balance blocks from a
// normalized document.
func ExtractBalances(text, year string) models.YearBalances {
	balances := models.YearBalances{Year: year}

	if m := openingBalancePattern.FindStringSubmatch(text); m != nil {
		balances.Opening = tripleAmounts(m)
	}
	if m := closingBalancePattern.FindStringSubmatch(text); m != nil {
		balances.Closing = tripleAmounts(m)
	}
	if m := contributionsPattern.FindStringSubmatch(text); m != nil {
		balances.Contributions = tripleAmounts(m)
	}
	if m := withdrawalsPattern.FindStringSubmatch(text); m != nil {
		balances.Withdrawals = tripleAmounts(m)
	}
	if m := findInterestBlock(text); m != nil {
		balances.Interest = tripleAmounts(m)
	}

	return balances
}

func tripleAmounts(m []string) models.SubAccountAmounts {
	return models.SubAccountAmounts{
		Employee: ParseAmount(m[1]),
		Employer: ParseAmount(m[2]),
		Pension:  ParseAmount(m[3]),
	}
}

// findInterestBlock locates the interest posting while skipping matches
// that actually belong to the "OB Int. Updated upto" opening anchor.
// The regexp engine has no lookbehind, so the preceding characters are
// inspected directly.
func findInterestBlock(text string) []string {
	for _, idx := range interestPattern.FindAllStringSubmatchIndex(text, -1) {
		start := idx[0]
		if start >= 3 && strings.EqualFold(text[start-3:start], "OB ") {
			continue
		}
		m := make([]string, 4)
		for g := 0; g < 4; g++ {
			m[g] = text[idx[2*g]:idx[2*g+1]]
		}
		return m
	}
	return nil
}

// Member identity anchors. The establishment name runs until the next
// known anchor because the field itself has no terminator; the leftover
// "lnL; vkbZMh@uke" token is what the bilingual header's second script
// degrades to after glyph stripping.
var (
	establishmentPattern = regexp.MustCompile(
		`Establishment\s+ID/Name\s+([A-Z]{5}\d{10})\s*/\s*(.*?)(?:\s+lnL; vkbZMh@uke|\s+Member\s+ID/Name|$)`)
	memberPattern = regexp.MustCompile(
		`Member\s+ID/Name\s+([A-Z]{5}\d{17})\s*/\s*([A-Z\s]+)`)
	dateOfBirthPattern = regexp.MustCompile(`Date\s+of\s+Birth\s+(\d{2}-\d{2}-\d{4})`)
	uanPattern         = regexp.MustCompile(`UAN\s+(\d{12})`)
)

// ExtractMemberInfo extracts the member identity block from a normalized
// document. Fields that cannot be located are left empty; the caller
// merges results across documents, filling gaps only.
func ExtractMemberInfo(text string) models.MemberInfo {
	var info models.MemberInfo

	if m := establishmentPattern.FindStringSubmatch(text); m != nil {
		info.EstablishmentID = strings.TrimSpace(m[1])
		info.EstablishmentName = strings.TrimSpace(m[2])
	}
	if m := memberPattern.FindStringSubmatch(text); m != nil {
		info.MemberID = strings.TrimSpace(m[1])
		info.MemberName = strings.TrimSpace(m[2])
	}
	if m := dateOfBirthPattern.FindStringSubmatch(text); m != nil {
		info.DateOfBirth = m[1]
	}
	if m := uanPattern.FindStringSubmatch(text); m != nil {
		info.UAN = m[1]
	}

	return info
}
