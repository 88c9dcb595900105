// Package errors defines the categorized error type used across the
// passbook parser.
//
// Errors carry a category and code for programmatic handling, a
// human-readable message, an optional suggestion shown to CLI users, and a
// context map with the details that matter for diagnosis (file path, year,
// record text). Causes are wrapped with stack traces via github.com/pkg/errors.
package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory groups errors by the subsystem that produced them.
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryExtract       ErrorCategory = "extract"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode identifies a specific failure within a category.
type ErrorCode string

const (
	// File errors
	CodeSourceNotFound  ErrorCode = "source_not_found"
	CodeNoDocuments     ErrorCode = "no_documents"
	CodeFilePermission  ErrorCode = "file_permission"
	CodeOutputError     ErrorCode = "output_error"

	// Extraction errors (page-to-text collaborator)
	CodeExtractionFailed ErrorCode = "extraction_failed"

	// Parse errors
	CodeMissingYear   ErrorCode = "missing_year"
	CodeInvalidRecord ErrorCode = "invalid_record"

	// Validation errors
	CodeContinuityBreak ErrorCode = "continuity_break"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// PassbookError is the application error type.
type PassbookError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context carries structured detail about an error.
type Context map[string]interface{}

func (e *PassbookError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e *PassbookError) Unwrap() error {
	return e.Cause
}

// IsFatal reports whether the error should abort the whole run. Only
// folder-level and configuration problems are fatal; per-document and
// per-record failures degrade to skipped input.
func (e *PassbookError) IsFatal() bool {
	switch e.Category {
	case CategoryFile, CategoryConfiguration:
		return true
	default:
		return false
	}
}

// WithContext attaches a key-value pair to the error.
func (e *PassbookError) WithContext(key string, value interface{}) *PassbookError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion attaches a remediation hint to the error.
func (e *PassbookError) WithSuggestion(suggestion string) *PassbookError {
	e.Suggestion = suggestion
	return e
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// New creates a PassbookError without a cause.
func New(category ErrorCategory, code ErrorCode, message string) *PassbookError {
	return &PassbookError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap creates a PassbookError around an existing error.
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *PassbookError {
	if err == nil {
		return nil
	}
	return &PassbookError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// FileError creates a file-category error for the given path.
func FileError(code ErrorCode, path string, err error) *PassbookError {
	var message, suggestion string

	switch code {
	case CodeSourceNotFound:
		message = fmt.Sprintf("source folder not found: %s", path)
		suggestion = "check that the member folder path is correct"
	case CodeNoDocuments:
		message = fmt.Sprintf("no passbook documents found in: %s", path)
		suggestion = "the folder must contain files named <account>_<YYYY>.pdf"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied: %s", path)
		suggestion = "check read permissions on the folder and its files"
	case CodeOutputError:
		message = fmt.Sprintf("failed to write output: %s", path)
		suggestion = "check that the output directory exists and is writable"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the path and try again"
	}

	result := New(CategoryFile, code, message)
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	}
	return result.WithSuggestion(suggestion).WithContext("path", path)
}

// ExtractError creates an extraction-category error for a document.
func ExtractError(code ErrorCode, path string, err error) *PassbookError {
	var message, suggestion string

	switch code {
	case CodeExtractionFailed:
		message = fmt.Sprintf("could not extract text from document: %s", path)
		suggestion = "the file may be corrupted or image-based; the document will be skipped"
	default:
		message = fmt.Sprintf("extraction error: %s", path)
		suggestion = "the document will be skipped"
	}

	result := New(CategoryExtract, code, message)
	if err != nil {
		result = Wrap(err, CategoryExtract, code, message)
	}
	return result.WithSuggestion(suggestion).WithContext("path", path)
}

// ParseError creates a parse-category error for a document or record.
func ParseError(code ErrorCode, path, detail string, err error) *PassbookError {
	var message, suggestion string

	switch code {
	case CodeMissingYear:
		message = fmt.Sprintf("no fiscal year in filename: %s", path)
		suggestion = "passbook files must be named <account>_<YYYY>.pdf"
	case CodeInvalidRecord:
		message = fmt.Sprintf("unrecognized transaction record in %s: %s", path, detail)
		suggestion = "the record will be dropped from the ledger"
	default:
		message = fmt.Sprintf("parse error in %s", path)
		suggestion = "check the document layout"
	}

	result := New(CategoryParse, code, message)
	if err != nil {
		result = Wrap(err, CategoryParse, code, message)
	}
	return result.WithSuggestion(suggestion).
		WithContext("path", path).
		WithContext("detail", detail)
}

// ConfigurationError creates a configuration-category error.
func ConfigurationError(code ErrorCode, setting string, value interface{}) *PassbookError {
	message := fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
	return New(CategoryConfiguration, code, message).
		WithSuggestion("check the command-line flags and configuration file").
		WithContext("setting", setting).
		WithContext("value", value)
}

// InternalError creates an internal-category error.
func InternalError(operation string, err error) *PassbookError {
	message := fmt.Sprintf("unexpected error during %s", operation)
	result := New(CategoryInternal, CodeUnexpectedError, message)
	if err != nil {
		result = Wrap(err, CategoryInternal, CodeUnexpectedError, message)
	}
	return result.WithContext("operation", operation)
}

// IsPassbookError reports whether err is a PassbookError.
func IsPassbookError(err error) bool {
	_, ok := err.(*PassbookError)
	return ok
}

// AsPassbookError extracts a PassbookError from an error chain.
func AsPassbookError(err error) (*PassbookError, bool) {
	var pbErr *PassbookError
	if errors.As(err, &pbErr) {
		return pbErr, true
	}
	return nil, false
}

// WrapIfNeeded wraps err unless it already is a PassbookError.
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *PassbookError {
	if err == nil {
		return nil
	}
	if pbErr, ok := AsPassbookError(err); ok {
		return pbErr
	}
	return Wrap(err, category, code, message)
}

// Summarize formats a list of advisory issues into a single message.
func Summarize(issues []string) string {
	if len(issues) == 0 {
		return "no issues"
	}
	if len(issues) == 1 {
		return issues[0]
	}
	return fmt.Sprintf("%d issues: %s", len(issues), strings.Join(issues, "; "))
}
