// Package models defines the data model for EPFO passbook extraction.
//
// A member's passbook arrives as one PDF per fiscal year. Each document
// yields a DocumentResult (balances plus a transaction ledger); the
// consolidator merges all years into a single ConsolidatedReport, the
// immutable output consumed by rendering and export.
//
// All monetary amounts are whole rupees held as int64. The passbook format
// prints integral amounts only, and an unparseable amount degrades to zero
// rather than an error (a documented limitation of the source format:
// "zero" and "absent" are indistinguishable).
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar date format used in passbook transaction rows.
const DateLayout = "02-01-2006"

// TransactionType tags a ledger entry as credit or debit.
type TransactionType string

const (
	// TypeCredit marks contributions and transfer-ins.
	TypeCredit TransactionType = "CR"
	// TypeDebit marks withdrawals.
	TypeDebit TransactionType = "DR"
)

// String returns the string representation of the type.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid checks if the transaction type is one of the known tags.
func (t TransactionType) IsValid() bool {
	return t == TypeCredit || t == TypeDebit
}

// TransactionCategory distinguishes the grammar family a record matched.
type TransactionCategory string

const (
	CategoryTransferIn   TransactionCategory = "TRANSFER_IN"
	CategoryContribution TransactionCategory = "CONTRIBUTION"
	CategoryWithdrawal   TransactionCategory = "WITHDRAWAL"
)

// SubAccountAmounts holds one amount per contribution stream. The three
// streams are tracked independently across the whole passbook.
type SubAccountAmounts struct {
	Employee int64 `json:"employee"`
	Employer int64 `json:"employer"`
	Pension  int64 `json:"pension"`
}

// Total returns the sum across the three sub-accounts.
func (s SubAccountAmounts) Total() int64 {
	return s.Employee + s.Employer + s.Pension
}

// Add returns the element-wise sum of two amount triples.
func (s SubAccountAmounts) Add(other SubAccountAmounts) SubAccountAmounts {
	return SubAccountAmounts{
		Employee: s.Employee + other.Employee,
		Employer: s.Employer + other.Employer,
		Pension:  s.Pension + other.Pension,
	}
}

// IsZero reports whether all three sub-accounts are zero.
func (s SubAccountAmounts) IsZero() bool {
	return s.Employee == 0 && s.Employer == 0 && s.Pension == 0
}

// Validate checks the non-negativity invariant.
func (s SubAccountAmounts) Validate() error {
	if s.Employee < 0 || s.Employer < 0 || s.Pension < 0 {
		return fmt.Errorf("sub-account amounts cannot be negative: %+v", s)
	}
	return nil
}

// MemberInfo is the member identity block, captured once per member from
// the first successfully processed document. Later documents only fill
// gaps; already-known fields are never overwritten.
type MemberInfo struct {
	EstablishmentID   string `json:"establishment_id,omitempty"`
	EstablishmentName string `json:"establishment_name,omitempty"`
	MemberID          string `json:"member_id,omitempty"`
	MemberName        string `json:"member_name,omitempty"`
	DateOfBirth       string `json:"date_of_birth,omitempty"`
	UAN               string `json:"uan,omitempty"`

	// Derived, point-in-time activity status. Set by the consolidator,
	// never parsed from a document.
	IsActive            *bool  `json:"is_active,omitempty"`
	LastTransactionDate string `json:"last_transaction_date,omitempty"`
}

// IsEmpty reports whether no identity field has been populated yet.
func (m MemberInfo) IsEmpty() bool {
	return m.EstablishmentID == "" && m.EstablishmentName == "" &&
		m.MemberID == "" && m.MemberName == "" &&
		m.DateOfBirth == "" && m.UAN == ""
}

// Merge fills gaps in m from other without overwriting known fields.
func (m MemberInfo) Merge(other MemberInfo) MemberInfo {
	if m.EstablishmentID == "" {
		m.EstablishmentID = other.EstablishmentID
	}
	if m.EstablishmentName == "" {
		m.EstablishmentName = other.EstablishmentName
	}
	if m.MemberID == "" {
		m.MemberID = other.MemberID
	}
	if m.MemberName == "" {
		m.MemberName = other.MemberName
	}
	if m.DateOfBirth == "" {
		m.DateOfBirth = other.DateOfBirth
	}
	if m.UAN == "" {
		m.UAN = other.UAN
	}
	return m
}

// YearBalances holds the anchored balance blocks extracted from one
// fiscal-year document. A block missing from the document yields zeros,
// not an absent value.
type YearBalances struct {
	Year          string            `json:"year"`
	Opening       SubAccountAmounts `json:"opening_balance"`
	Closing       SubAccountAmounts `json:"closing_balance"`
	Contributions SubAccountAmounts `json:"contributions"`
	Withdrawals   SubAccountAmounts `json:"withdrawals"`
	Interest      SubAccountAmounts `json:"interest"`
}

// Validate checks the non-negativity invariant across all blocks.
func (yb *YearBalances) Validate() error {
	for _, block := range []SubAccountAmounts{
		yb.Opening, yb.Closing, yb.Contributions, yb.Withdrawals, yb.Interest,
	} {
		if err := block.Validate(); err != nil {
			return fmt.Errorf("year %s: %w", yb.Year, err)
		}
	}
	return nil
}

// Transaction is one ledger entry. The Category tag selects which amount
// fields are meaningful: credits carry wage and contribution amounts,
// withdrawals carry the three withdrawal amounts and their sum, and
// transfer-ins additionally carry the originating account reference when
// it could be recovered from the description.
type Transaction struct {
	Year        string              `json:"year"`
	Month       string              `json:"month"`
	Date        string              `json:"date"`
	Type        TransactionType     `json:"type"`
	Category    TransactionCategory `json:"category"`
	Description string              `json:"description"`

	// Credit fields
	OldMemberID          string `json:"old_member_id,omitempty"`
	DueMonthCode         string `json:"due_month_code,omitempty"`
	Wages                int64  `json:"wages"`
	BasicWages           int64  `json:"basic_wages"`
	EmployeeContribution int64  `json:"employee_contribution"`
	EmployerContribution int64  `json:"employer_contribution"`
	PensionContribution  int64  `json:"pension_contribution"`

	// Debit fields
	EmployeeWithdrawal int64 `json:"employee_withdrawal"`
	EmployerWithdrawal int64 `json:"employer_withdrawal"`
	PensionWithdrawal  int64 `json:"pension_withdrawal"`
	TotalWithdrawal    int64 `json:"total_withdrawal"`
}

// DateTime parses the transaction's calendar date.
func (t *Transaction) DateTime() (time.Time, error) {
	return time.Parse(DateLayout, t.Date)
}

// IsDebit reports whether the entry decreases a balance.
func (t *Transaction) IsDebit() bool {
	return t.Type == TypeDebit
}

// IsCredit reports whether the entry increases a balance.
func (t *Transaction) IsCredit() bool {
	return t.Type == TypeCredit
}

// Validate checks the transaction invariants: a known type tag, a
// parseable date, and non-negative amounts.
func (t *Transaction) Validate() error {
	if !t.Type.IsValid() {
		return fmt.Errorf("invalid transaction type: %q", t.Type)
	}
	if _, err := t.DateTime(); err != nil {
		return fmt.Errorf("invalid transaction date %q: %w", t.Date, err)
	}
	amounts := []int64{
		t.Wages, t.BasicWages,
		t.EmployeeContribution, t.EmployerContribution, t.PensionContribution,
		t.EmployeeWithdrawal, t.EmployerWithdrawal, t.PensionWithdrawal,
		t.TotalWithdrawal,
	}
	for _, a := range amounts {
		if a < 0 {
			return fmt.Errorf("transaction amount cannot be negative: %d", a)
		}
	}
	return nil
}

// MarshalJSON emits only the field set that belongs to the transaction's
// variant, mirroring the report's wire shape: credits never carry
// withdrawal fields and debits never carry contribution fields.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	type header struct {
		Year        string              `json:"year"`
		Month       string              `json:"month"`
		Date        string              `json:"date"`
		Type        TransactionType     `json:"type"`
		Category    TransactionCategory `json:"category"`
		Description string              `json:"description"`
	}
	h := header{
		Year:        t.Year,
		Month:       t.Month,
		Date:        t.Date,
		Type:        t.Type,
		Category:    t.Category,
		Description: t.Description,
	}

	if t.IsDebit() {
		return json.Marshal(&struct {
			header
			EmployeeWithdrawal int64 `json:"employee_withdrawal"`
			EmployerWithdrawal int64 `json:"employer_withdrawal"`
			PensionWithdrawal  int64 `json:"pension_withdrawal"`
			TotalWithdrawal    int64 `json:"total_withdrawal"`
		}{
			header:             h,
			EmployeeWithdrawal: t.EmployeeWithdrawal,
			EmployerWithdrawal: t.EmployerWithdrawal,
			PensionWithdrawal:  t.PensionWithdrawal,
			TotalWithdrawal:    t.TotalWithdrawal,
		})
	}

	return json.Marshal(&struct {
		header
		OldMemberID          string `json:"old_member_id,omitempty"`
		DueMonthCode         string `json:"due_month_code,omitempty"`
		Wages                int64  `json:"wages"`
		BasicWages           int64  `json:"basic_wages"`
		EmployeeContribution int64  `json:"employee_contribution"`
		EmployerContribution int64  `json:"employer_contribution"`
		PensionContribution  int64  `json:"pension_contribution"`
	}{
		header:               h,
		OldMemberID:          t.OldMemberID,
		DueMonthCode:         t.DueMonthCode,
		Wages:                t.Wages,
		BasicWages:           t.BasicWages,
		EmployeeContribution: t.EmployeeContribution,
		EmployerContribution: t.EmployerContribution,
		PensionContribution:  t.PensionContribution,
	})
}

// DocumentResult is the year-scoped output of the per-document pipeline.
// Each pipeline run owns its own result; the consolidator takes ownership
// of all of them keyed by fiscal year.
type DocumentResult struct {
	Year           string
	SourcePath     string
	Balances       YearBalances
	Transactions   []Transaction
	MemberInfo     MemberInfo
	SkippedRecords int
}

// YearSummary is the derived per-year aggregate. It is computed by the
// consolidator from YearBalances and the transaction list, never parsed
// directly from a document.
type YearSummary struct {
	Year string `json:"year"`

	OpeningEmployee int64 `json:"opening_employee"`
	OpeningEmployer int64 `json:"opening_employer"`
	OpeningPension  int64 `json:"opening_pension"`
	OpeningTotal    int64 `json:"opening_total"`

	ContributionsEmployee int64 `json:"contributions_employee"`
	ContributionsEmployer int64 `json:"contributions_employer"`
	ContributionsPension  int64 `json:"contributions_pension"`
	ContributionsTotal    int64 `json:"contributions_total"`

	WithdrawalsEmployee int64 `json:"withdrawals_employee"`
	WithdrawalsEmployer int64 `json:"withdrawals_employer"`
	WithdrawalsPension  int64 `json:"withdrawals_pension"`
	WithdrawalsTotal    int64 `json:"withdrawals_total"`

	InterestEmployee int64 `json:"interest_employee"`
	InterestEmployer int64 `json:"interest_employer"`
	InterestPension  int64 `json:"interest_pension"`
	InterestTotal    int64 `json:"interest_total"`

	ClosingEmployee int64 `json:"closing_employee"`
	ClosingEmployer int64 `json:"closing_employer"`
	ClosingPension  int64 `json:"closing_pension"`
	ClosingTotal    int64 `json:"closing_total"`

	TransactionsCount int `json:"transactions_count"`
}

// NewYearSummary derives a summary from one year's balances and ledger.
func NewYearSummary(balances YearBalances, transactionCount int) YearSummary {
	return YearSummary{
		Year: balances.Year,

		OpeningEmployee: balances.Opening.Employee,
		OpeningEmployer: balances.Opening.Employer,
		OpeningPension:  balances.Opening.Pension,
		OpeningTotal:    balances.Opening.Total(),

		ContributionsEmployee: balances.Contributions.Employee,
		ContributionsEmployer: balances.Contributions.Employer,
		ContributionsPension:  balances.Contributions.Pension,
		ContributionsTotal:    balances.Contributions.Total(),

		WithdrawalsEmployee: balances.Withdrawals.Employee,
		WithdrawalsEmployer: balances.Withdrawals.Employer,
		WithdrawalsPension:  balances.Withdrawals.Pension,
		WithdrawalsTotal:    balances.Withdrawals.Total(),

		InterestEmployee: balances.Interest.Employee,
		InterestEmployer: balances.Interest.Employer,
		InterestPension:  balances.Interest.Pension,
		InterestTotal:    balances.Interest.Total(),

		ClosingEmployee: balances.Closing.Employee,
		ClosingEmployer: balances.Closing.Employer,
		ClosingPension:  balances.Closing.Pension,
		ClosingTotal:    balances.Closing.Total(),

		TransactionsCount: transactionCount,
	}
}

// FinalBalances is the closing position taken from the most recent year.
type FinalBalances struct {
	Employee int64  `json:"employee"`
	Employer int64  `json:"employer"`
	Pension  int64  `json:"pension"`
	Total    int64  `json:"total"`
	Year     string `json:"year"`
}

// WithdrawalTotals aggregates withdrawals across all years.
type WithdrawalTotals struct {
	Employee int64 `json:"employee"`
	Employer int64 `json:"employer"`
	Pension  int64 `json:"pension"`
	Total    int64 `json:"total"`
}

// ExtractionMetadata describes the run that produced a report.
type ExtractionMetadata struct {
	ExtractedAt                 time.Time `json:"extracted_at"`
	TotalFilesProcessed         int       `json:"total_files_processed"`
	YearsCovered                []string  `json:"years_covered"`
	TotalTransactions           int       `json:"total_transactions"`
	TotalWithdrawalTransactions int       `json:"total_withdrawal_transactions"`
	SkippedRecords              int       `json:"skipped_records"`
}

// ConsolidatedReport is the system's output: the merged, chronological,
// internally consistent view of the whole passbook. Built once per run and
// immutable after construction.
type ConsolidatedReport struct {
	MemberInfo       MemberInfo         `json:"member_info"`
	YearlySummaries  []YearSummary      `json:"yearly_summaries"`
	AllTransactions  []Transaction      `json:"all_transactions"`
	FinalBalances    FinalBalances      `json:"final_balances"`
	TotalWithdrawals WithdrawalTotals   `json:"total_withdrawals"`
	Metadata         ExtractionMetadata `json:"extraction_metadata"`
}
