package consolidator

import (
	"reflect"
	"testing"
	"time"

	"epfo-passbook-parser/internal/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func creditTx(year, month, date string, employee, employer, pension int64) models.Transaction {
	return models.Transaction{
		Year:                 year,
		Month:                month,
		Date:                 date,
		Type:                 models.TypeCredit,
		Category:             models.CategoryContribution,
		Description:          "CONT.",
		EmployeeContribution: employee,
		EmployerContribution: employer,
		PensionContribution:  pension,
	}
}

func debitTx(year, month, date string, employee, employer, pension int64) models.Transaction {
	return models.Transaction{
		Year:               year,
		Month:              month,
		Date:               date,
		Type:               models.TypeDebit,
		Category:           models.CategoryWithdrawal,
		Description:        "WITHDRAWAL",
		EmployeeWithdrawal: employee,
		EmployerWithdrawal: employer,
		PensionWithdrawal:  pension,
		TotalWithdrawal:    employee + employer + pension,
	}
}

func twoYearResults() []*models.DocumentResult {
	return []*models.DocumentResult{
		{
			Year:       "2021",
			SourcePath: "member_2021.pdf",
			Balances: models.YearBalances{
				Year:          "2021",
				Opening:       models.SubAccountAmounts{Employee: 1000, Employer: 800, Pension: 500},
				Contributions: models.SubAccountAmounts{Employee: 200, Employer: 100, Pension: 50},
				Closing:       models.SubAccountAmounts{Employee: 1200, Employer: 900, Pension: 550},
			},
			Transactions: []models.Transaction{
				creditTx("2021", "Apr-2021", "05-04-2021", 200, 100, 50),
			},
			MemberInfo: models.MemberInfo{MemberID: "ID1", MemberName: "JOHN DOE"},
		},
		{
			Year:       "2020",
			SourcePath: "member_2020.pdf",
			Balances: models.YearBalances{
				Year:          "2020",
				Contributions: models.SubAccountAmounts{Employee: 1000, Employer: 800, Pension: 500},
				Withdrawals:   models.SubAccountAmounts{Employee: 100, Employer: 50, Pension: 25},
				Closing:       models.SubAccountAmounts{Employee: 1000, Employer: 800, Pension: 500},
			},
			Transactions: []models.Transaction{
				creditTx("2020", "Apr-2020", "05-04-2020", 1000, 800, 500),
				debitTx("2020", "Dec-2020", "10-12-2020", 100, 50, 25),
			},
			MemberInfo:     models.MemberInfo{MemberID: "ID1", UAN: "100200300400"},
			SkippedRecords: 2,
		},
	}
}

func TestConsolidate(t *testing.T) {
	now := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	c := New(nil, fixedClock(now), nil)

	report := c.Consolidate(twoYearResults())

	if got := report.Metadata.YearsCovered; !reflect.DeepEqual(got, []string{"2020", "2021"}) {
		t.Errorf("years covered = %v, want [2020 2021]", got)
	}

	if len(report.YearlySummaries) != 2 {
		t.Fatalf("expected 2 yearly summaries, got %d", len(report.YearlySummaries))
	}
	if report.YearlySummaries[0].Year != "2020" || report.YearlySummaries[1].Year != "2021" {
		t.Errorf("summaries out of order: %s, %s",
			report.YearlySummaries[0].Year, report.YearlySummaries[1].Year)
	}

	// Final balances come from the latest year's closing block.
	if report.FinalBalances.Year != "2021" {
		t.Errorf("final balances year = %q, want 2021", report.FinalBalances.Year)
	}
	if report.FinalBalances.Employee != 1200 {
		t.Errorf("final employee = %d, want 1200", report.FinalBalances.Employee)
	}
	if report.FinalBalances.Total != 1200+900+550 {
		t.Errorf("final total = %d", report.FinalBalances.Total)
	}

	// Transactions follow year order, each year's ledger order preserved.
	if len(report.AllTransactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(report.AllTransactions))
	}
	if report.AllTransactions[0].Year != "2020" || report.AllTransactions[2].Year != "2021" {
		t.Errorf("transactions out of order")
	}

	if report.TotalWithdrawals.Total != 175 {
		t.Errorf("total withdrawals = %d, want 175", report.TotalWithdrawals.Total)
	}

	if report.Metadata.TotalFilesProcessed != 2 {
		t.Errorf("files processed = %d, want 2", report.Metadata.TotalFilesProcessed)
	}
	if report.Metadata.TotalTransactions != 3 {
		t.Errorf("total transactions = %d, want 3", report.Metadata.TotalTransactions)
	}
	if report.Metadata.TotalWithdrawalTransactions != 1 {
		t.Errorf("withdrawal transactions = %d, want 1", report.Metadata.TotalWithdrawalTransactions)
	}
	if report.Metadata.SkippedRecords != 2 {
		t.Errorf("skipped records = %d, want 2", report.Metadata.SkippedRecords)
	}
	if !report.Metadata.ExtractedAt.Equal(now) {
		t.Errorf("extracted at = %v, want %v", report.Metadata.ExtractedAt, now)
	}
}

func TestConsolidateMemberInfoFillsGapsOnly(t *testing.T) {
	c := New(nil, fixedClock(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)), nil)

	report := c.Consolidate(twoYearResults())

	info := report.MemberInfo
	if info.MemberID != "ID1" {
		t.Errorf("member id = %q", info.MemberID)
	}
	// Name comes from the first document, UAN from the second.
	if info.MemberName != "JOHN DOE" {
		t.Errorf("member name = %q", info.MemberName)
	}
	if info.UAN != "100200300400" {
		t.Errorf("uan = %q", info.UAN)
	}
}

func TestConsolidateActivityStatus(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		wantActive bool
	}{
		{"recent transaction", time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"stale transaction", time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil, fixedClock(tt.now), nil)
			report := c.Consolidate(twoYearResults())

			if report.MemberInfo.IsActive == nil {
				t.Fatal("activity status not set")
			}
			if *report.MemberInfo.IsActive != tt.wantActive {
				t.Errorf("is_active = %v, want %v", *report.MemberInfo.IsActive, tt.wantActive)
			}
			if report.MemberInfo.LastTransactionDate != "05-04-2021" {
				t.Errorf("last transaction date = %q", report.MemberInfo.LastTransactionDate)
			}
		})
	}
}

func TestConsolidateNoDatedTransactions(t *testing.T) {
	c := New(nil, fixedClock(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)), nil)

	report := c.Consolidate([]*models.DocumentResult{{
		Year: "2020",
		Balances: models.YearBalances{
			Year:    "2020",
			Closing: models.SubAccountAmounts{Employee: 10},
		},
	}})

	if report.MemberInfo.IsActive != nil {
		t.Errorf("activity status should stay unknown, got %v", *report.MemberInfo.IsActive)
	}
	if report.FinalBalances.Employee != 10 {
		t.Errorf("final employee = %d, want 10", report.FinalBalances.Employee)
	}
}

func TestConsolidateDuplicateYearLastWins(t *testing.T) {
	c := New(nil, fixedClock(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)), nil)

	report := c.Consolidate([]*models.DocumentResult{
		{
			Year:     "2020",
			Balances: models.YearBalances{Year: "2020", Closing: models.SubAccountAmounts{Employee: 1}},
		},
		{
			Year:     "2020",
			Balances: models.YearBalances{Year: "2020", Closing: models.SubAccountAmounts{Employee: 2}},
		},
	})

	if report.FinalBalances.Employee != 2 {
		t.Errorf("final employee = %d, want the later document's 2", report.FinalBalances.Employee)
	}
}

// Consolidating the same inputs twice must produce identical reports
// except for the extraction timestamp.
func TestConsolidateDeterministic(t *testing.T) {
	c1 := New(nil, fixedClock(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)), nil)
	c2 := New(nil, fixedClock(time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC)), nil)

	first := c1.Consolidate(twoYearResults())
	second := c2.Consolidate(twoYearResults())

	second.Metadata.ExtractedAt = first.Metadata.ExtractedAt
	if !reflect.DeepEqual(first, second) {
		t.Error("reports differ beyond the extraction timestamp")
	}
}
