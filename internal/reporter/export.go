package reporter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"epfo-passbook-parser/internal/models"
	pberrors "epfo-passbook-parser/pkg/errors"
	"epfo-passbook-parser/pkg/logger"
)

// WriteReportFiles persists the consolidated report to outputDir: one JSON
// file with the full report plus CSV exports of the yearly summaries and
// the transaction ledger. CSV filenames carry a timestamp so repeated runs
// never clobber earlier exports. It returns the paths written.
func WriteReportFiles(report *models.ConsolidatedReport, outputDir string, log logger.Logger) ([]string, error) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("export")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, pberrors.FileError(pberrors.CodeOutputError, outputDir, err)
	}

	memberID := report.MemberInfo.MemberID
	if memberID == "" {
		memberID = "unknown_member"
	}
	stamp := report.Metadata.ExtractedAt.Format("20060102_150405")
	if report.Metadata.ExtractedAt.IsZero() {
		stamp = time.Now().Format("20060102_150405")
	}

	var written []string

	jsonPath := filepath.Join(outputDir, memberID+"_consolidated.json")
	if err := writeJSONFile(jsonPath, report); err != nil {
		return written, err
	}
	written = append(written, jsonPath)

	summariesPath := filepath.Join(outputDir, memberID+"_yearly_"+stamp+".csv")
	if err := writeCSVFile(summariesPath, func(w *csv.Writer) error {
		return writeYearlySummariesCSV(w, report.YearlySummaries)
	}); err != nil {
		return written, err
	}
	written = append(written, summariesPath)

	transactionsPath := filepath.Join(outputDir, memberID+"_transactions_"+stamp+".csv")
	if err := writeCSVFile(transactionsPath, func(w *csv.Writer) error {
		return writeTransactionsCSV(w, report.AllTransactions)
	}); err != nil {
		return written, err
	}
	written = append(written, transactionsPath)

	memberPath := filepath.Join(outputDir, memberID+"_member_info_"+stamp+".csv")
	if err := writeCSVFile(memberPath, func(w *csv.Writer) error {
		return writeMemberInfoCSV(w, report.MemberInfo)
	}); err != nil {
		return written, err
	}
	written = append(written, memberPath)

	if report.TotalWithdrawals.Total > 0 {
		withdrawalsPath := filepath.Join(outputDir, memberID+"_withdrawals_"+stamp+".csv")
		if err := writeCSVFile(withdrawalsPath, func(w *csv.Writer) error {
			return writeWithdrawalsCSV(w, report.TotalWithdrawals)
		}); err != nil {
			return written, err
		}
		written = append(written, withdrawalsPath)
	}

	log.WithFields(logger.Fields{
		"output_dir": outputDir,
		"files":      len(written),
	}).Info("Report files written")

	return written, nil
}

func writeJSONFile(path string, report *models.ConsolidatedReport) error {
	f, err := os.Create(path)
	if err != nil {
		return pberrors.FileError(pberrors.CodeOutputError, path, err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return pberrors.FileError(pberrors.CodeOutputError, path, err)
	}
	return nil
}

func writeCSVFile(path string, fill func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return pberrors.FileError(pberrors.CodeOutputError, path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := fill(writer); err != nil {
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return pberrors.FileError(pberrors.CodeOutputError, path, err)
	}
	return nil
}

func writeMemberInfoCSV(w *csv.Writer, info models.MemberInfo) error {
	header := []string{
		"establishment_id", "establishment_name", "member_id", "member_name",
		"date_of_birth", "uan", "is_active", "last_transaction_date",
	}
	status := ""
	if info.IsActive != nil {
		status = strconv.FormatBool(*info.IsActive)
	}
	row := []string{
		info.EstablishmentID, info.EstablishmentName, info.MemberID, info.MemberName,
		info.DateOfBirth, info.UAN, status, info.LastTransactionDate,
	}
	if err := w.Write(header); err != nil {
		return pberrors.Wrap(err, pberrors.CategoryInternal, pberrors.CodeUnexpectedError,
			"failed to write CSV header")
	}
	if err := w.Write(row); err != nil {
		return pberrors.Wrap(err, pberrors.CategoryInternal, pberrors.CodeUnexpectedError,
			"failed to write CSV row")
	}
	return nil
}

func writeWithdrawalsCSV(w *csv.Writer, totals models.WithdrawalTotals) error {
	if err := w.Write([]string{"employee", "employer", "pension", "total"}); err != nil {
		return pberrors.Wrap(err, pberrors.CategoryInternal, pberrors.CodeUnexpectedError,
			"failed to write CSV header")
	}
	row := []string{itoa(totals.Employee), itoa(totals.Employer), itoa(totals.Pension), itoa(totals.Total)}
	if err := w.Write(row); err != nil {
		return pberrors.Wrap(err, pberrors.CategoryInternal, pberrors.CodeUnexpectedError,
			"failed to write CSV row")
	}
	return nil
}

func writeTransactionsCSV(w *csv.Writer, transactions []models.Transaction) error {
	header := []string{
		"year", "month", "date", "type", "category", "description",
		"old_member_id", "due_month_code",
		"wages", "basic_wages",
		"employee_contribution", "employer_contribution", "pension_contribution",
		"employee_withdrawal", "employer_withdrawal", "pension_withdrawal", "total_withdrawal",
	}
	if err := w.Write(header); err != nil {
		return pberrors.Wrap(err, pberrors.CategoryInternal, pberrors.CodeUnexpectedError,
			"failed to write CSV header")
	}
	for i := range transactions {
		tx := &transactions[i]
		row := []string{
			tx.Year, tx.Month, tx.Date, tx.Type.String(), string(tx.Category), tx.Description,
			tx.OldMemberID, tx.DueMonthCode,
			itoa(tx.Wages), itoa(tx.BasicWages),
			itoa(tx.EmployeeContribution), itoa(tx.EmployerContribution), itoa(tx.PensionContribution),
			itoa(tx.EmployeeWithdrawal), itoa(tx.EmployerWithdrawal), itoa(tx.PensionWithdrawal), itoa(tx.TotalWithdrawal),
		}
		if err := w.Write(row); err != nil {
			return pberrors.Wrap(err, pberrors.CategoryInternal, pberrors.CodeUnexpectedError,
				"failed to write CSV row")
		}
	}
	return nil
}
