package reporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"epfo-passbook-parser/internal/models"
)

func sampleReport() *models.ConsolidatedReport {
	active := true
	return &models.ConsolidatedReport{
		MemberInfo: models.MemberInfo{
			MemberID:            "ABCDE12345678901234567",
			MemberName:          "JOHN DOE",
			UAN:                 "100200300400",
			IsActive:            &active,
			LastTransactionDate: "05-04-2021",
		},
		YearlySummaries: []models.YearSummary{
			{
				Year:               "2021",
				OpeningTotal:       2300,
				ContributionsTotal: 350,
				ClosingEmployee:    1200,
				ClosingEmployer:    900,
				ClosingPension:     550,
				ClosingTotal:       2650,
				TransactionsCount:  1,
			},
		},
		AllTransactions: []models.Transaction{
			{
				Year:                 "2021",
				Month:                "Apr-2021",
				Date:                 "05-04-2021",
				Type:                 models.TypeCredit,
				Category:             models.CategoryContribution,
				Description:          "CONT.",
				EmployeeContribution: 200,
				EmployerContribution: 100,
				PensionContribution:  50,
			},
		},
		FinalBalances: models.FinalBalances{
			Employee: 1200, Employer: 900, Pension: 550, Total: 2650, Year: "2021",
		},
		Metadata: models.ExtractionMetadata{
			ExtractedAt:         time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC),
			TotalFilesProcessed: 1,
			YearsCovered:        []string{"2021"},
			TotalTransactions:   1,
		},
	}
}

func TestReportConfigValidate(t *testing.T) {
	for _, format := range []ReportFormat{FormatConsole, FormatJSON, FormatCSV} {
		config := &ReportConfig{Format: format}
		if err := config.Validate(); err != nil {
			t.Errorf("format %s rejected: %v", format, err)
		}
	}

	config := &ReportConfig{Format: "xml"}
	if err := config.Validate(); err == nil {
		t.Error("invalid format passed validation")
	}
}

func TestGenerateReportConsole(t *testing.T) {
	generator := NewReportGenerator(DefaultReportConfig(), nil)

	var buf bytes.Buffer
	if err := generator.GenerateReport(sampleReport(), &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"MEMBER DETAILS",
		"JOHN DOE",
		"ACTIVE",
		"YEARLY SUMMARY",
		"FINAL BALANCES (as of 2021)",
		"TRANSACTIONS 2021",
		"CONTRIBUTION",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q", want)
		}
	}

	// Rupee amounts are grouped for readability.
	if !strings.Contains(out, "2,650") {
		t.Errorf("expected grouped total in output:\n%s", out)
	}
}

func TestGenerateReportConsoleSummaryOnly(t *testing.T) {
	config := DefaultReportConfig()
	config.IncludeTransactions = false
	generator := NewReportGenerator(config, nil)

	var buf bytes.Buffer
	if err := generator.GenerateReport(sampleReport(), &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	if strings.Contains(buf.String(), "TRANSACTIONS 2021") {
		t.Error("summary-only output must omit per-year ledgers")
	}
}

func TestGenerateReportJSON(t *testing.T) {
	generator := NewReportGenerator(&ReportConfig{Format: FormatJSON}, nil)

	var buf bytes.Buffer
	if err := generator.GenerateReport(sampleReport(), &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	for _, key := range []string{
		"member_info", "yearly_summaries", "all_transactions",
		"final_balances", "total_withdrawals", "extraction_metadata",
	} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("JSON output missing key %q", key)
		}
	}
}

func TestGenerateReportCSV(t *testing.T) {
	generator := NewReportGenerator(&ReportConfig{Format: FormatCSV}, nil)

	var buf bytes.Buffer
	if err := generator.GenerateReport(sampleReport(), &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d rows", len(rows))
	}
	if rows[0][0] != "year" {
		t.Errorf("header starts with %q, want year", rows[0][0])
	}
	if rows[1][0] != "2021" {
		t.Errorf("row year = %q, want 2021", rows[1][0])
	}
}

func TestShare(t *testing.T) {
	tests := []struct {
		value, total int64
		want         string
	}{
		{50, 100, "50.00"},
		{1, 3, "33.33"},
		{0, 100, "0.00"},
		{100, 0, "0.00"},
	}

	for _, tt := range tests {
		if got := share(tt.value, tt.total); got != tt.want {
			t.Errorf("share(%d, %d) = %q, want %q", tt.value, tt.total, got, tt.want)
		}
	}
}
