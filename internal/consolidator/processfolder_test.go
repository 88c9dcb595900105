package consolidator

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"epfo-passbook-parser/internal/parsers"
	pberrors "epfo-passbook-parser/pkg/errors"
)

type stubExtractor struct {
	pagesByBase map[string][]string
	err         error
}

func (s *stubExtractor) ExtractPages(path string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pagesByBase[filepath.Base(path)], nil
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("placeholder"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestProcessFolderEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "member_2019.pdf", "member_2020.pdf", "member_2021.pdf")

	extractor := &stubExtractor{pagesByBase: map[string][]string{
		// No extractable text: the year is still covered, with zeros.
		"member_2019.pdf": {""},
		"member_2020.pdf": {
			"Member ID/Name ABCDE12345678901234567 / JOHN DOE lnL; vkbZMh@uke UAN 100200300400 " +
				"OB Int. Updated upto 31/03/2019 0 0 0 " +
				"Apr-2019 05-04-2019 CR CONT. FOR DUE-MONTH 201904 15000 15000 1000 800 500 " +
				"Closing Balance as on 31/03/2020 1,000 800 500",
		},
		"member_2021.pdf": {
			"OB Int. Updated upto 31/03/2020 1,000 800 500 " +
				"Apr-2021 05-04-2021 CR CONT. FOR DUE-MONTH 202104 15000 15000 200 100 50 " +
				"Closing Balance as on 31/03/2021 1,200 900 550",
		},
	}}

	parser := parsers.NewDocumentParser(extractor, nil)
	c := New(parser, fixedClock(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)), nil)

	report, err := c.ProcessFolder(dir)
	if err != nil {
		t.Fatalf("ProcessFolder failed: %v", err)
	}

	if got := report.Metadata.YearsCovered; !reflect.DeepEqual(got, []string{"2019", "2020", "2021"}) {
		t.Errorf("years covered = %v", got)
	}
	if report.Metadata.TotalFilesProcessed != 3 {
		t.Errorf("files processed = %d, want 3", report.Metadata.TotalFilesProcessed)
	}
	if report.FinalBalances.Employee != 1200 || report.FinalBalances.Year != "2021" {
		t.Errorf("final balances = %+v", report.FinalBalances)
	}
	if report.MemberInfo.MemberName != "JOHN DOE" {
		t.Errorf("member name = %q", report.MemberInfo.MemberName)
	}
	if len(report.AllTransactions) != 2 {
		t.Errorf("expected 2 transactions, got %d", len(report.AllTransactions))
	}

	if issues := ValidateContinuity(report.YearlySummaries); len(issues) != 0 {
		t.Errorf("expected no continuity issues, got %v", issues)
	}
}

func TestProcessFolderSourceNotFound(t *testing.T) {
	parser := parsers.NewDocumentParser(&stubExtractor{}, nil)
	c := New(parser, nil, nil)

	_, err := c.ProcessFolder(filepath.Join(t.TempDir(), "does-not-exist"))
	pbErr, ok := pberrors.AsPassbookError(err)
	if !ok {
		t.Fatalf("expected PassbookError, got %v", err)
	}
	if pbErr.Code != pberrors.CodeSourceNotFound {
		t.Errorf("code = %s, want %s", pbErr.Code, pberrors.CodeSourceNotFound)
	}
	if !pbErr.IsFatal() {
		t.Error("folder-level errors must be fatal")
	}
}

func TestProcessFolderNoDocuments(t *testing.T) {
	parser := parsers.NewDocumentParser(&stubExtractor{}, nil)
	c := New(parser, nil, nil)

	_, err := c.ProcessFolder(t.TempDir())
	pbErr, ok := pberrors.AsPassbookError(err)
	if !ok {
		t.Fatalf("expected PassbookError, got %v", err)
	}
	if pbErr.Code != pberrors.CodeNoDocuments {
		t.Errorf("code = %s, want %s", pbErr.Code, pberrors.CodeNoDocuments)
	}
}

// A folder where every document fails to parse is as empty as one with no
// documents at all.
func TestProcessFolderAllDocumentsFail(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "member_2020.pdf")

	parser := parsers.NewDocumentParser(&stubExtractor{err: errors.New("corrupted")}, nil)
	c := New(parser, nil, nil)

	_, err := c.ProcessFolder(dir)
	pbErr, ok := pberrors.AsPassbookError(err)
	if !ok {
		t.Fatalf("expected PassbookError, got %v", err)
	}
	if pbErr.Code != pberrors.CodeNoDocuments {
		t.Errorf("code = %s, want %s", pbErr.Code, pberrors.CodeNoDocuments)
	}
}
