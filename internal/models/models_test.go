package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSubAccountAmounts(t *testing.T) {
	a := SubAccountAmounts{Employee: 100, Employer: 50, Pension: 25}

	if a.Total() != 175 {
		t.Errorf("Total() = %d, want 175", a.Total())
	}

	sum := a.Add(SubAccountAmounts{Employee: 1, Employer: 2, Pension: 3})
	want := SubAccountAmounts{Employee: 101, Employer: 52, Pension: 28}
	if sum != want {
		t.Errorf("Add() = %+v, want %+v", sum, want)
	}

	if a.IsZero() {
		t.Error("non-zero amounts reported as zero")
	}
	if !(SubAccountAmounts{}).IsZero() {
		t.Error("zero amounts not reported as zero")
	}

	if err := a.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if err := (SubAccountAmounts{Employee: -1}).Validate(); err == nil {
		t.Error("negative amount passed validation")
	}
}

func TestMemberInfoMerge(t *testing.T) {
	base := MemberInfo{MemberID: "ID1", MemberName: "FIRST NAME"}
	other := MemberInfo{MemberID: "ID2", UAN: "100200300400", DateOfBirth: "01-01-1990"}

	merged := base.Merge(other)

	if merged.MemberID != "ID1" {
		t.Errorf("known field overwritten: %q", merged.MemberID)
	}
	if merged.MemberName != "FIRST NAME" {
		t.Errorf("known field overwritten: %q", merged.MemberName)
	}
	if merged.UAN != "100200300400" {
		t.Errorf("gap not filled: %q", merged.UAN)
	}
	if merged.DateOfBirth != "01-01-1990" {
		t.Errorf("gap not filled: %q", merged.DateOfBirth)
	}
}

func TestTransactionMarshalJSONCredit(t *testing.T) {
	tx := Transaction{
		Year:                 "2021",
		Month:                "Apr-2021",
		Date:                 "05-04-2021",
		Type:                 TypeCredit,
		Category:             CategoryContribution,
		Description:          "CONT. FOR DUE-MONTH",
		DueMonthCode:         "202104",
		Wages:                15000,
		BasicWages:           15000,
		EmployeeContribution: 1800,
		EmployerContribution: 550,
		PensionContribution:  1250,
	}

	data, err := json.Marshal(&tx)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	out := string(data)

	for _, key := range []string{"wages", "due_month_code", "employee_contribution"} {
		if !strings.Contains(out, `"`+key+`"`) {
			t.Errorf("credit JSON missing %q: %s", key, out)
		}
	}
	for _, key := range []string{"employee_withdrawal", "total_withdrawal", "old_member_id"} {
		if strings.Contains(out, `"`+key+`"`) {
			t.Errorf("credit JSON must not carry %q: %s", key, out)
		}
	}
}

func TestTransactionMarshalJSONDebit(t *testing.T) {
	tx := Transaction{
		Year:               "2022",
		Month:              "Dec-2022",
		Date:               "10-12-2022",
		Type:               TypeDebit,
		Category:           CategoryWithdrawal,
		Description:        "PARTIAL WITHDRAWAL",
		EmployeeWithdrawal: 25000,
		EmployerWithdrawal: 10000,
		PensionWithdrawal:  5000,
		TotalWithdrawal:    40000,
	}

	data, err := json.Marshal(&tx)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	out := string(data)

	for _, key := range []string{"employee_withdrawal", "employer_withdrawal", "pension_withdrawal", "total_withdrawal"} {
		if !strings.Contains(out, `"`+key+`"`) {
			t.Errorf("debit JSON missing %q: %s", key, out)
		}
	}
	for _, key := range []string{"wages", "employee_contribution", "due_month_code"} {
		if strings.Contains(out, `"`+key+`"`) {
			t.Errorf("debit JSON must not carry %q: %s", key, out)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{Type: TypeCredit, Date: "05-04-2021"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	badType := Transaction{Type: "XX", Date: "05-04-2021"}
	if err := badType.Validate(); err == nil {
		t.Error("invalid type passed validation")
	}

	badDate := Transaction{Type: TypeDebit, Date: "2021-04-05"}
	if err := badDate.Validate(); err == nil {
		t.Error("wrong date layout passed validation")
	}

	negative := Transaction{Type: TypeCredit, Date: "05-04-2021", Wages: -1}
	if err := negative.Validate(); err == nil {
		t.Error("negative amount passed validation")
	}
}

func TestNewYearSummary(t *testing.T) {
	balances := YearBalances{
		Year:          "2021",
		Opening:       SubAccountAmounts{Employee: 100, Employer: 200, Pension: 300},
		Contributions: SubAccountAmounts{Employee: 10, Employer: 20, Pension: 30},
		Closing:       SubAccountAmounts{Employee: 110, Employer: 220, Pension: 330},
	}

	summary := NewYearSummary(balances, 12)

	if summary.Year != "2021" {
		t.Errorf("year = %q", summary.Year)
	}
	if summary.OpeningTotal != 600 {
		t.Errorf("opening total = %d, want 600", summary.OpeningTotal)
	}
	if summary.ContributionsTotal != 60 {
		t.Errorf("contributions total = %d, want 60", summary.ContributionsTotal)
	}
	if summary.ClosingEmployee != 110 {
		t.Errorf("closing employee = %d, want 110", summary.ClosingEmployee)
	}
	if summary.TransactionsCount != 12 {
		t.Errorf("transactions count = %d, want 12", summary.TransactionsCount)
	}
}
