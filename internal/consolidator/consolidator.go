// Package consolidator merges per-year document results into the single
// consolidated passbook report.
package consolidator

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"epfo-passbook-parser/internal/models"
	"epfo-passbook-parser/internal/parsers"
	pberrors "epfo-passbook-parser/pkg/errors"
	"epfo-passbook-parser/pkg/logger"
)

// activityWindow is how far back the latest transaction may lie for the
// member to still count as active.
const activityWindow = 3 // months

// Consolidator owns the folder-level run: discover documents, parse each,
// merge the survivors.
type Consolidator struct {
	parser *parsers.DocumentParser
	clock  func() time.Time
	log    logger.Logger
}

// New creates a consolidator. A nil clock defaults to time.Now; tests
// inject a fixed clock to pin the activity cutoff.
func New(parser *parsers.DocumentParser, clock func() time.Time, log logger.Logger) *Consolidator {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Consolidator{
		parser: parser,
		clock:  clock,
		log:    log.WithComponent("consolidator"),
	}
}

// ProcessFolder discovers passbook documents in dir, parses each one, and
// consolidates the results. Individual document failures are logged and
// skipped; only an unreadable or empty folder is fatal.
func (c *Consolidator) ProcessFolder(dir string) (*models.ConsolidatedReport, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsPermission(err) {
			return nil, pberrors.FileError(pberrors.CodeFilePermission, dir, err)
		}
		return nil, pberrors.FileError(pberrors.CodeSourceNotFound, dir, err)
	}
	if !info.IsDir() {
		return nil, pberrors.FileError(pberrors.CodeSourceNotFound, dir, nil).
			WithContext("reason", "not a directory")
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, pberrors.FileError(pberrors.CodeSourceNotFound, dir, err)
	}
	if len(paths) == 0 {
		return nil, pberrors.FileError(pberrors.CodeNoDocuments, dir, nil)
	}
	sort.Strings(paths)

	progress := logger.NewProgressTracker(c.log, "parse_passbooks", len(paths))
	results := make([]*models.DocumentResult, 0, len(paths))
	for _, path := range paths {
		result, perr := c.parser.ParseDocument(path)
		if perr != nil {
			progress.Fail(filepath.Base(path), perr)
			continue
		}
		progress.Step(filepath.Base(path))
		results = append(results, result)
	}
	progress.Finish()

	if len(results) == 0 {
		return nil, pberrors.FileError(pberrors.CodeNoDocuments, dir, nil).
			WithContext("reason", "every document failed to parse")
	}

	return c.Consolidate(results), nil
}

// Consolidate merges document results into one report. When two documents
// claim the same fiscal year the later one in input order wins. Member
// identity is filled from the first document that carries each field and
// never overwritten afterwards.
func (c *Consolidator) Consolidate(results []*models.DocumentResult) *models.ConsolidatedReport {
	if len(results) == 0 {
		return &models.ConsolidatedReport{
			Metadata: models.ExtractionMetadata{ExtractedAt: c.clock()},
		}
	}

	byYear := make(map[string]*models.DocumentResult, len(results))
	var member models.MemberInfo
	for _, result := range results {
		if prev, dup := byYear[result.Year]; dup {
			c.log.WithFields(logger.Fields{
				"year":     result.Year,
				"replaced": prev.SourcePath,
				"kept":     result.SourcePath,
			}).Warn("Duplicate fiscal year, keeping later document")
		}
		byYear[result.Year] = result
		member = member.Merge(result.MemberInfo)
	}

	years := make([]string, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Strings(years)

	report := &models.ConsolidatedReport{MemberInfo: member}

	skipped := 0
	for _, year := range years {
		result := byYear[year]
		skipped += result.SkippedRecords

		report.YearlySummaries = append(report.YearlySummaries,
			models.NewYearSummary(result.Balances, len(result.Transactions)))
		report.AllTransactions = append(report.AllTransactions, result.Transactions...)
		report.TotalWithdrawals.Employee += result.Balances.Withdrawals.Employee
		report.TotalWithdrawals.Employer += result.Balances.Withdrawals.Employer
		report.TotalWithdrawals.Pension += result.Balances.Withdrawals.Pension
	}
	report.TotalWithdrawals.Total = report.TotalWithdrawals.Employee +
		report.TotalWithdrawals.Employer + report.TotalWithdrawals.Pension

	lastYear := years[len(years)-1]
	closing := byYear[lastYear].Balances.Closing
	report.FinalBalances = models.FinalBalances{
		Employee: closing.Employee,
		Employer: closing.Employer,
		Pension:  closing.Pension,
		Total:    closing.Total(),
		Year:     lastYear,
	}

	withdrawalCount := 0
	for i := range report.AllTransactions {
		if report.AllTransactions[i].IsDebit() {
			withdrawalCount++
		}
	}

	report.Metadata = models.ExtractionMetadata{
		ExtractedAt:                 c.clock(),
		TotalFilesProcessed:         len(results),
		YearsCovered:                years,
		TotalTransactions:           len(report.AllTransactions),
		TotalWithdrawalTransactions: withdrawalCount,
		SkippedRecords:              skipped,
	}

	c.applyActivityStatus(report)

	return report
}

// applyActivityStatus derives the member's activity flag from the latest
// dated transaction: active when it falls inside the trailing window.
func (c *Consolidator) applyActivityStatus(report *models.ConsolidatedReport) {
	var latest time.Time
	var latestStr string
	for i := range report.AllTransactions {
		when, err := report.AllTransactions[i].DateTime()
		if err != nil {
			continue
		}
		if when.After(latest) {
			latest = when
			latestStr = report.AllTransactions[i].Date
		}
	}
	if latestStr == "" {
		return
	}

	cutoff := c.clock().AddDate(0, -activityWindow, 0)
	active := !latest.Before(cutoff)
	report.MemberInfo.IsActive = &active
	report.MemberInfo.LastTransactionDate = latestStr

	status := "inactive"
	if active {
		status = "active"
	}
	c.log.WithFields(logger.Fields{
		"last_transaction": latestStr,
		"cutoff":           cutoff.Format(models.DateLayout),
	}).Infof("Member appears %s", status)
}
