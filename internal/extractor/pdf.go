// Package extractor provides the page-to-text collaborator for passbook
// documents, backed by github.com/ledongthuc/pdf.
package extractor

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"epfo-passbook-parser/pkg/logger"
)

// PDFExtractor extracts plain text from each page of a PDF document.
type PDFExtractor struct {
	log logger.Logger
}

// NewPDFExtractor creates a PDF-backed page text extractor.
func NewPDFExtractor(log logger.Logger) *PDFExtractor {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &PDFExtractor{log: log.WithComponent("pdf_extractor")}
}

// ExtractPages returns the plain text of every page in order. Pages whose
// content streams cannot be decoded yield empty strings rather than
// failing the document; a passbook page that resists extraction usually
// just carries the bilingual header image.
func (e *PDFExtractor) ExtractPages(path string) (pages []string, err error) {
	// The pdf library panics on malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf parsing panicked: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, perr := page.GetPlainText(nil)
		if perr != nil {
			e.log.WithError(perr).WithFields(logger.Fields{
				"file": path,
				"page": i,
			}).Warn("Could not extract page text")
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}

	return pages, nil
}
