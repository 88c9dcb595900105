// Package reporter renders a consolidated passbook report to the console
// or to machine-readable formats.
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"epfo-passbook-parser/internal/models"
	pberrors "epfo-passbook-parser/pkg/errors"
	"epfo-passbook-parser/pkg/logger"
)

// ReportFormat selects an output rendering.
type ReportFormat string

const (
	FormatConsole ReportFormat = "console"
	FormatJSON    ReportFormat = "json"
	FormatCSV     ReportFormat = "csv"
)

// ReportConfig controls report generation.
type ReportConfig struct {
	Format ReportFormat
	// IncludeTransactions controls whether the console rendering prints
	// the full per-year ledgers after the summary tables.
	IncludeTransactions bool
}

// DefaultReportConfig returns console output with full ledgers.
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:              FormatConsole,
		IncludeTransactions: true,
	}
}

// Validate checks the configuration for unsupported values.
func (c *ReportConfig) Validate() error {
	switch c.Format {
	case FormatConsole, FormatJSON, FormatCSV:
		return nil
	default:
		return pberrors.ConfigurationError(pberrors.CodeInvalidConfig, "format", string(c.Format))
	}
}

// ReportGenerator renders consolidated reports.
type ReportGenerator struct {
	config  *ReportConfig
	printer *message.Printer
	log     logger.Logger
}

// NewReportGenerator creates a generator with the given configuration.
func NewReportGenerator(config *ReportConfig, log logger.Logger) *ReportGenerator {
	if config == nil {
		config = DefaultReportConfig()
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &ReportGenerator{
		config: config,
		// en-IN groups rupee amounts the way the passbook prints them.
		printer: message.NewPrinter(language.MustParse("en-IN")),
		log:     log.WithComponent("reporter"),
	}
}

// GenerateReport renders the report to w in the configured format.
func (rg *ReportGenerator) GenerateReport(report *models.ConsolidatedReport, w io.Writer) error {
	if err := rg.config.Validate(); err != nil {
		return err
	}

	switch rg.config.Format {
	case FormatJSON:
		return rg.renderJSON(report, w)
	case FormatCSV:
		return rg.renderCSV(report, w)
	default:
		return rg.renderConsole(report, w)
	}
}

func (rg *ReportGenerator) renderJSON(report *models.ConsolidatedReport, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return pberrors.Wrap(err, pberrors.CategoryInternal, pberrors.CodeUnexpectedError,
			"failed to encode report as JSON")
	}
	return nil
}

func (rg *ReportGenerator) renderCSV(report *models.ConsolidatedReport, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writeYearlySummariesCSV(writer, report.YearlySummaries); err != nil {
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return pberrors.Wrap(err, pberrors.CategoryInternal, pberrors.CodeUnexpectedError,
			"failed to write CSV report")
	}
	return nil
}

func (rg *ReportGenerator) renderConsole(report *models.ConsolidatedReport, w io.Writer) error {
	p := rg.printer

	p.Fprintf(w, "\n%s\n", divider("="))
	p.Fprintf(w, "EPF PASSBOOK CONSOLIDATED REPORT\n")
	p.Fprintf(w, "%s\n", divider("="))

	rg.writeMemberBlock(report, w)
	rg.writeYearlySummaryTable(report, w)
	rg.writeFinalBalances(report, w)
	rg.writeMetadata(report, w)

	if rg.config.IncludeTransactions {
		rg.writeTransactionTables(report, w)
	}

	return nil
}

func (rg *ReportGenerator) writeMemberBlock(report *models.ConsolidatedReport, w io.Writer) {
	p := rg.printer
	info := report.MemberInfo

	p.Fprintf(w, "\nMEMBER DETAILS\n%s\n", divider("-"))
	writeField(w, "Member ID", info.MemberID)
	writeField(w, "Member Name", info.MemberName)
	writeField(w, "UAN", info.UAN)
	writeField(w, "Date of Birth", info.DateOfBirth)
	writeField(w, "Establishment ID", info.EstablishmentID)
	writeField(w, "Establishment", info.EstablishmentName)
	if info.IsActive != nil {
		status := "INACTIVE"
		if *info.IsActive {
			status = "ACTIVE"
		}
		writeField(w, "Account Status", status)
		writeField(w, "Last Transaction", info.LastTransactionDate)
	}
}

func (rg *ReportGenerator) writeYearlySummaryTable(report *models.ConsolidatedReport, w io.Writer) {
	p := rg.printer

	p.Fprintf(w, "\nYEARLY SUMMARY\n%s\n", divider("-"))
	p.Fprintf(w, "%-6s %15s %15s %15s %15s %15s %6s\n",
		"Year", "Opening", "Contributions", "Withdrawals", "Interest", "Closing", "Txns")
	for _, s := range report.YearlySummaries {
		p.Fprintf(w, "%-6s %15d %15d %15d %15d %15d %6d\n",
			s.Year, s.OpeningTotal, s.ContributionsTotal, s.WithdrawalsTotal,
			s.InterestTotal, s.ClosingTotal, s.TransactionsCount)
	}
}

func (rg *ReportGenerator) writeFinalBalances(report *models.ConsolidatedReport, w io.Writer) {
	p := rg.printer
	fb := report.FinalBalances

	p.Fprintf(w, "\nFINAL BALANCES (as of %s)\n%s\n", fb.Year, divider("-"))
	p.Fprintf(w, "%-20s %15d  (%s%%)\n", "Employee Share", fb.Employee, share(fb.Employee, fb.Total))
	p.Fprintf(w, "%-20s %15d  (%s%%)\n", "Employer Share", fb.Employer, share(fb.Employer, fb.Total))
	p.Fprintf(w, "%-20s %15d  (%s%%)\n", "Pension", fb.Pension, share(fb.Pension, fb.Total))
	p.Fprintf(w, "%-20s %15d\n", "Total", fb.Total)

	if years := len(report.YearlySummaries); years > 0 {
		var contributions int64
		for _, s := range report.YearlySummaries {
			contributions += s.ContributionsTotal
		}
		avg := decimal.NewFromInt(contributions).
			Div(decimal.NewFromInt(int64(years))).
			Round(2)
		p.Fprintf(w, "%-20s %15s\n", "Avg Yearly Contrib", avg.String())
	}

	if report.TotalWithdrawals.Total > 0 {
		tw := report.TotalWithdrawals
		p.Fprintf(w, "\nTOTAL WITHDRAWALS\n%s\n", divider("-"))
		p.Fprintf(w, "%-20s %15d\n", "Employee Share", tw.Employee)
		p.Fprintf(w, "%-20s %15d\n", "Employer Share", tw.Employer)
		p.Fprintf(w, "%-20s %15d\n", "Pension", tw.Pension)
		p.Fprintf(w, "%-20s %15d\n", "Total", tw.Total)
	}
}

func (rg *ReportGenerator) writeMetadata(report *models.ConsolidatedReport, w io.Writer) {
	p := rg.printer
	md := report.Metadata

	p.Fprintf(w, "\nEXTRACTION DETAILS\n%s\n", divider("-"))
	p.Fprintf(w, "%-25s %s\n", "Extracted At:", md.ExtractedAt.Format("2006-01-02 15:04:05"))
	p.Fprintf(w, "%-25s %d\n", "Files Processed:", md.TotalFilesProcessed)
	p.Fprintf(w, "%-25s %v\n", "Years Covered:", md.YearsCovered)
	p.Fprintf(w, "%-25s %d\n", "Total Transactions:", md.TotalTransactions)
	p.Fprintf(w, "%-25s %d\n", "Withdrawal Transactions:", md.TotalWithdrawalTransactions)
	if md.SkippedRecords > 0 {
		p.Fprintf(w, "%-25s %d\n", "Skipped Records:", md.SkippedRecords)
	}
}

func (rg *ReportGenerator) writeTransactionTables(report *models.ConsolidatedReport, w io.Writer) {
	p := rg.printer

	byYear := make(map[string][]models.Transaction)
	for _, tx := range report.AllTransactions {
		byYear[tx.Year] = append(byYear[tx.Year], tx)
	}

	for _, s := range report.YearlySummaries {
		transactions := byYear[s.Year]
		if len(transactions) == 0 {
			continue
		}
		p.Fprintf(w, "\nTRANSACTIONS %s\n%s\n", s.Year, divider("-"))
		p.Fprintf(w, "%-10s %-12s %-4s %-13s %12s %12s %12s\n",
			"Month", "Date", "Type", "Category", "Employee", "Employer", "Pension")
		var creditTotals models.SubAccountAmounts
		for _, tx := range transactions {
			employee, employer, pension := tx.EmployeeContribution, tx.EmployerContribution, tx.PensionContribution
			if tx.IsDebit() {
				employee, employer, pension = tx.EmployeeWithdrawal, tx.EmployerWithdrawal, tx.PensionWithdrawal
			} else {
				creditTotals = creditTotals.Add(models.SubAccountAmounts{
					Employee: employee, Employer: employer, Pension: pension,
				})
			}
			p.Fprintf(w, "%-10s %-12s %-4s %-13s %12d %12d %12d\n",
				tx.Month, tx.Date, tx.Type, tx.Category, employee, employer, pension)
		}
		p.Fprintf(w, "%-42s %12d %12d %12d\n",
			"Credits total", creditTotals.Employee, creditTotals.Employer, creditTotals.Pension)
	}
}

// share computes value's percentage of total with two decimal places.
func share(value, total int64) string {
	if total == 0 {
		return "0.00"
	}
	return decimal.NewFromInt(value).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(2).
		StringFixed(2)
}

func writeField(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%-20s %s\n", label+":", value)
}

func divider(ch string) string {
	return strings.Repeat(ch, 70)
}

func writeYearlySummariesCSV(w *csv.Writer, summaries []models.YearSummary) error {
	header := []string{
		"year",
		"opening_employee", "opening_employer", "opening_pension", "opening_total",
		"contributions_employee", "contributions_employer", "contributions_pension", "contributions_total",
		"withdrawals_employee", "withdrawals_employer", "withdrawals_pension", "withdrawals_total",
		"interest_employee", "interest_employer", "interest_pension", "interest_total",
		"closing_employee", "closing_employer", "closing_pension", "closing_total",
		"transactions_count",
	}
	if err := w.Write(header); err != nil {
		return pberrors.Wrap(err, pberrors.CategoryInternal, pberrors.CodeUnexpectedError,
			"failed to write CSV header")
	}
	for _, s := range summaries {
		row := []string{
			s.Year,
			itoa(s.OpeningEmployee), itoa(s.OpeningEmployer), itoa(s.OpeningPension), itoa(s.OpeningTotal),
			itoa(s.ContributionsEmployee), itoa(s.ContributionsEmployer), itoa(s.ContributionsPension), itoa(s.ContributionsTotal),
			itoa(s.WithdrawalsEmployee), itoa(s.WithdrawalsEmployer), itoa(s.WithdrawalsPension), itoa(s.WithdrawalsTotal),
			itoa(s.InterestEmployee), itoa(s.InterestEmployer), itoa(s.InterestPension), itoa(s.InterestTotal),
			itoa(s.ClosingEmployee), itoa(s.ClosingEmployer), itoa(s.ClosingPension), itoa(s.ClosingTotal),
			strconv.Itoa(s.TransactionsCount),
		}
		if err := w.Write(row); err != nil {
			return pberrors.Wrap(err, pberrors.CategoryInternal, pberrors.CodeUnexpectedError,
				"failed to write CSV row")
		}
	}
	return nil
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
