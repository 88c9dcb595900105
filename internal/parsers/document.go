package parsers

import (
	"path/filepath"
	"regexp"
	"strings"

	"epfo-passbook-parser/internal/models"
	pberrors "epfo-passbook-parser/pkg/errors"
	"epfo-passbook-parser/pkg/logger"
)

// PageTextExtractor turns a passbook document into raw per-page text. The
// concrete implementation lives in internal/extractor; tests substitute an
// in-memory fake.
type PageTextExtractor interface {
	ExtractPages(path string) ([]string, error)
}

// The fiscal year rides in the filename, not the document body:
// <account>_<YYYY>.pdf.
var yearSuffixPattern = regexp.MustCompile(`_(\d{4})\.pdf$`)

// YearFromFilename extracts the 4-digit fiscal year from a passbook
// filename. It returns the empty string when the filename does not follow
// the naming convention.
func YearFromFilename(path string) string {
	m := yearSuffixPattern.FindStringSubmatch(strings.ToLower(filepath.Base(path)))
	if m == nil {
		return ""
	}
	return m[1]
}

// DocumentParser runs the per-document pipeline: extract, normalize,
// segment, classify, and anchor-search, producing one DocumentResult per
// fiscal-year file.
type DocumentParser struct {
	extractor PageTextExtractor
	log       logger.Logger
}

// NewDocumentParser creates a parser around the given extractor.
func NewDocumentParser(extractor PageTextExtractor, log logger.Logger) *DocumentParser {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &DocumentParser{
		extractor: extractor,
		log:       log.WithComponent("document_parser"),
	}
}

// ParseDocument processes a single passbook file. Unclassifiable records
// are dropped and counted; only extraction failure or a malformed filename
// fails the whole document.
func (dp *DocumentParser) ParseDocument(path string) (*models.DocumentResult, error) {
	year := YearFromFilename(path)
	if year == "" {
		return nil, pberrors.ParseError(pberrors.CodeMissingYear, path, "", nil)
	}

	pages, err := dp.extractor.ExtractPages(path)
	if err != nil {
		return nil, pberrors.ExtractError(pberrors.CodeExtractionFailed, path, err)
	}

	// Empty page output is not a failure: the year is still recorded,
	// with zero balances and an empty ledger.
	normalized := NormalizeText(strings.Join(pages, " "))
	if normalized == "" {
		dp.log.WithFields(logger.Fields{
			"file": filepath.Base(path),
			"year": year,
		}).Warn("Document has no extractable text, recording an empty year")
	}

	result := &models.DocumentResult{
		Year:       year,
		SourcePath: path,
		Balances:   ExtractBalances(normalized, year),
		MemberInfo: ExtractMemberInfo(normalized),
	}

	records := SegmentRecords(normalized)
	for _, record := range records {
		tx, ok := ClassifyRecord(record, year)
		if !ok {
			result.SkippedRecords++
			recErr := pberrors.ParseError(pberrors.CodeInvalidRecord, path, truncate(record, 80), nil)
			dp.log.WithError(recErr).WithFields(logger.Fields{
				"file": filepath.Base(path),
				"year": year,
			}).Debug("Dropping unclassifiable record")
			continue
		}
		result.Transactions = append(result.Transactions, *tx)
	}

	dp.log.WithFields(logger.Fields{
		"file":         filepath.Base(path),
		"year":         year,
		"records":      len(records),
		"transactions": len(result.Transactions),
		"skipped":      result.SkippedRecords,
	}).Info("Parsed passbook document")

	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
