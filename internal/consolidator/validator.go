package consolidator

import (
	"fmt"

	"epfo-passbook-parser/internal/models"
	pberrors "epfo-passbook-parser/pkg/errors"
)

// ValidateContinuity checks that each year's opening balances equal the
// previous year's closing balances, per sub-account. It is advisory: every
// discrepancy is reported, none aborts the run, and the report itself is
// never mutated. Summaries are expected in ascending year order, which is
// how the consolidator emits them.
func ValidateContinuity(summaries []models.YearSummary) []string {
	var issues []string
	for i := 1; i < len(summaries); i++ {
		prev, curr := summaries[i-1], summaries[i]
		checks := []struct {
			account string
			closing int64
			opening int64
		}{
			{"employee", prev.ClosingEmployee, curr.OpeningEmployee},
			{"employer", prev.ClosingEmployer, curr.OpeningEmployer},
			{"pension", prev.ClosingPension, curr.OpeningPension},
		}
		for _, check := range checks {
			if check.closing != check.opening {
				issues = append(issues, fmt.Sprintf(
					"%s balance discontinuity between %s and %s: closing %d vs opening %d",
					check.account, prev.Year, curr.Year, check.closing, check.opening))
			}
		}
	}
	return issues
}

// ContinuityError wraps a discrepancy message in the typed error used when
// the advisory list is surfaced to callers. Validation errors never abort
// the run.
func ContinuityError(issue string) *pberrors.PassbookError {
	return pberrors.New(pberrors.CategoryValidation, pberrors.CodeContinuityBreak, issue).
		WithSuggestion("a passbook year may be missing, duplicated, or partially extracted")
}
