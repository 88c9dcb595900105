package parsers

import (
	"regexp"
	"strings"

	"epfo-passbook-parser/internal/models"
)

// The record grammars below are the small family of transaction dialects
// the passbook emits. They are tried in strict priority order, most
// specific first, and the first match wins; the set is mutually exclusive
// by construction. A record matching none of them is not an error — the
// format carries no grammar guarantee, so unmatched records are dropped
// and counted by the caller.

const (
	recordHead  = `([A-Za-z]{3}-\d{4})\s+(\d{2}-\d{2}-\d{4})\s+`
	amountField = `(\d+(?:,\d{3})*|0)`
)

var (
	// 1. Standard transfer-in: explicit "TRANSFER IN -" description
	// followed by exactly five amount fields.
	transferInPattern = regexp.MustCompile(`(?i)^` + recordHead +
		`CR\s+(TRANSFER\s+IN\s+-\s+.*?)\s+` +
		amountField + `\s+` + amountField + `\s+` + amountField + `\s+` + amountField + `\s+` + amountField)

	// 2. Office variant: bracketed office reference ending in a
	// colon-prefixed member reference before the closing bracket, with
	// the five amounts inside the bracket.
	officeTransferPattern = regexp.MustCompile(`(?i)^` + recordHead +
		`CR\s+(OFFICE\([^)]*Old\s+Member\s+Id[^)]*\s)` +
		amountField + `\s+` + amountField + `\s+` + amountField + `\s+` + amountField + `\s+` + amountField +
		`\s+:([A-Z0-9]+)\s*\)`)

	// 3. Generic transfer: any credit whose description carries a
	// transfer keyword, with an optional trailing reference.
	genericTransferPattern = regexp.MustCompile(`(?i)^` + recordHead +
		`CR\s+(.*?(?:TRANSFER|OFFICE|Old\s+Member).*?)\s+` +
		amountField + `\s+` + amountField + `\s+` + amountField + `\s+` + amountField + `\s+` + amountField +
		`(?:.*?:([A-Z0-9]+).*?)?`)

	// 4. Regular contribution credit, distinguished by the 6-digit
	// due-month code between the description and the amounts.
	regularCreditPattern = regexp.MustCompile(`(?i)^` + recordHead +
		`CR\s+(.*?)\s+(\d{6})\s+([\d,]+)\s+([\d,]+)\s+([\d,]+)\s+([\d,]+)\s+([\d,]+)`)

	// 5. Debit/withdrawal: five amount fields of which only the last
	// three carry meaning.
	debitPattern = regexp.MustCompile(`(?i)^` + recordHead +
		`DR\s+(.*?)\s+(\d+(?:,\d{3})*)\s+(\d+(?:,\d{3})*)\s+([\d,]+)\s+([\d,]+)\s+([\d,]+)`)

	// Known phrasings for the originating-account reference inside a
	// transfer description. First match wins; absence is not an error.
	oldReferencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Old\s+Member\s+Id\s*[:-]?\s*([A-Z0-9]+)`),
		regexp.MustCompile(`(?i)Old\s+A/c\s+No\s*[:-]?\s*([A-Z0-9]+)`),
		regexp.MustCompile(`(?i)Previous\s+Member\s+Id\s*[:-]?\s*([A-Z0-9]+)`),
	}

	// Fallback reference shapes tried against the whole record when the
	// generic grammar's own capture comes up empty.
	fallbackReferencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i):([A-Z0-9]{20,})`),
		regexp.MustCompile(`(?i)([A-Z]{2}[A-Z0-9]{18,})`),
		regexp.MustCompile(`(?i)Old\s+Member\s+Id[^:]*:\s*([A-Z0-9]+)`),
	}
)

// recordGrammar pairs a compiled pattern with a pure builder producing the
// typed transaction from its captures. The list is declarative and
// order-significant so tests can pin priority behavior.
type recordGrammar struct {
	name    string
	pattern *regexp.Regexp
	build   func(m []string, record, year string) (*models.Transaction, bool)
}

var recordGrammars = []recordGrammar{
	{"transfer_in", transferInPattern, buildTransferIn},
	{"office_transfer", officeTransferPattern, buildOfficeTransfer},
	{"generic_transfer", genericTransferPattern, buildGenericTransfer},
	{"regular_credit", regularCreditPattern, buildRegularCredit},
	{"debit", debitPattern, buildDebit},
}

// ClassifyRecord attempts to classify one segmented record against the
// grammar family. It returns the typed transaction and true on the first
// successful match, or nil and false when no grammar applies.
func ClassifyRecord(record, year string) (*models.Transaction, bool) {
	for _, grammar := range recordGrammars {
		m := grammar.pattern.FindStringSubmatch(record)
		if m == nil {
			continue
		}
		if tx, ok := grammar.build(m, record, year); ok {
			return tx, true
		}
	}
	return nil, false
}

func buildTransferIn(m []string, _, year string) (*models.Transaction, bool) {
	description := strings.TrimSpace(m[3])

	var oldRef string
	for _, pattern := range oldReferencePatterns {
		if ref := pattern.FindStringSubmatch(description); ref != nil {
			oldRef = ref[1]
			break
		}
	}

	return &models.Transaction{
		Year:                 year,
		Month:                m[1],
		Date:                 m[2],
		Type:                 models.TypeCredit,
		Category:             models.CategoryTransferIn,
		Description:          description,
		OldMemberID:          oldRef,
		Wages:                ParseAmount(m[4]),
		BasicWages:           ParseAmount(m[5]),
		EmployeeContribution: ParseAmount(m[6]),
		EmployerContribution: ParseAmount(m[7]),
		PensionContribution:  ParseAmount(m[8]),
	}, true
}

func buildOfficeTransfer(m []string, _, year string) (*models.Transaction, bool) {
	// The reference sits after the amounts; it is re-attached so the
	// description reads as the complete bracketed phrase.
	oldRef := m[9]
	description := strings.TrimSpace(m[3]) + ":" + oldRef + ")"

	return &models.Transaction{
		Year:                 year,
		Month:                m[1],
		Date:                 m[2],
		Type:                 models.TypeCredit,
		Category:             models.CategoryTransferIn,
		Description:          description,
		OldMemberID:          oldRef,
		Wages:                ParseAmount(m[4]),
		BasicWages:           ParseAmount(m[5]),
		EmployeeContribution: ParseAmount(m[6]),
		EmployerContribution: ParseAmount(m[7]),
		PensionContribution:  ParseAmount(m[8]),
	}, true
}

func buildGenericTransfer(m []string, record, year string) (*models.Transaction, bool) {
	upper := strings.ToUpper(record)
	if !strings.Contains(upper, "TRANSFER") &&
		!strings.Contains(upper, "OFFICE") &&
		!strings.Contains(upper, "OLD MEMBER") {
		return nil, false
	}

	oldRef := m[9]
	if oldRef == "" {
		for _, pattern := range fallbackReferencePatterns {
			if ref := pattern.FindStringSubmatch(record); ref != nil {
				oldRef = ref[1]
				break
			}
		}
	}

	return &models.Transaction{
		Year:                 year,
		Month:                m[1],
		Date:                 m[2],
		Type:                 models.TypeCredit,
		Category:             models.CategoryTransferIn,
		Description:          strings.TrimSpace(m[3]),
		OldMemberID:          oldRef,
		Wages:                ParseAmount(m[4]),
		BasicWages:           ParseAmount(m[5]),
		EmployeeContribution: ParseAmount(m[6]),
		EmployerContribution: ParseAmount(m[7]),
		PensionContribution:  ParseAmount(m[8]),
	}, true
}

func buildRegularCredit(m []string, _, year string) (*models.Transaction, bool) {
	description := strings.TrimSpace(m[3])
	// Transfer records that escaped the transfer grammars must not be
	// misfiled as contributions.
	if strings.HasPrefix(strings.ToUpper(description), "TRANSFER") {
		return nil, false
	}

	return &models.Transaction{
		Year:                 year,
		Month:                m[1],
		Date:                 m[2],
		Type:                 models.TypeCredit,
		Category:             models.CategoryContribution,
		Description:          description,
		DueMonthCode:         m[4],
		Wages:                ParseAmount(m[5]),
		BasicWages:           ParseAmount(m[6]),
		EmployeeContribution: ParseAmount(m[7]),
		EmployerContribution: ParseAmount(m[8]),
		PensionContribution:  ParseAmount(m[9]),
	}, true
}

func buildDebit(m []string, _, year string) (*models.Transaction, bool) {
	employee := ParseAmount(m[6])
	employer := ParseAmount(m[7])
	pension := ParseAmount(m[8])

	return &models.Transaction{
		Year:               year,
		Month:              m[1],
		Date:               m[2],
		Type:               models.TypeDebit,
		Category:           models.CategoryWithdrawal,
		Description:        strings.TrimSpace(m[3]),
		EmployeeWithdrawal: employee,
		EmployerWithdrawal: employer,
		PensionWithdrawal:  pension,
		TotalWithdrawal:    employee + employer + pension,
	}, true
}
