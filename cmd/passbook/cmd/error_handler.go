package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"epfo-passbook-parser/pkg/errors"
	"epfo-passbook-parser/pkg/logger"
)

// CLIErrorHandler provides user-friendly error handling for CLI operations
type CLIErrorHandler struct {
	logger  logger.Logger
	verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler() *CLIErrorHandler {
	return &CLIErrorHandler{
		logger:  logger.GetGlobalLogger().WithComponent("cli"),
		verbose: viper.GetBool("verbose"),
	}
}

// HandleError prints a user-friendly message and returns the process exit
// code: 0 for success, 1 for any failure.
func (h *CLIErrorHandler) HandleError(err error) int {
	if err == nil {
		return 0
	}

	h.logger.WithError(err).Error("Command failed")

	if pbErr, ok := errors.AsPassbookError(err); ok {
		return h.handlePassbookError(pbErr)
	}

	return h.handleGenericError(err)
}

func (h *CLIErrorHandler) handlePassbookError(err *errors.PassbookError) int {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Message)

	if len(err.Context) > 0 {
		fmt.Fprintf(os.Stderr, "\nContext:\n")
		for key, value := range err.Context {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", key, value)
		}
	}

	if err.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "\nSuggestion: %s\n", err.Suggestion)
	}

	fmt.Fprintf(os.Stderr, "\n%s\n", h.getCategoryHelp(err.Category))

	if h.verbose && err.Cause != nil {
		fmt.Fprintf(os.Stderr, "\nUnderlying error: %v\n", err.Cause)
	}

	return 1
}

func (h *CLIErrorHandler) handleGenericError(err error) int {
	if os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found\n")
		fmt.Fprintf(os.Stderr, "Suggestion: Check if the path is correct and the file exists\n")
		return 1
	}

	if os.IsPermission(err) {
		fmt.Fprintf(os.Stderr, "Error: Permission denied\n")
		fmt.Fprintf(os.Stderr, "Suggestion: Check file permissions and ensure you have read access\n")
		return 1
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	if !h.verbose {
		fmt.Fprintf(os.Stderr, "\nRun with --verbose for more detailed error information\n")
	}

	return 1
}

// getCategoryHelp returns category-specific help text
func (h *CLIErrorHandler) getCategoryHelp(category errors.ErrorCategory) string {
	switch category {
	case errors.CategoryFile:
		return `File error help:
• Check if the member folder exists and is readable
• Passbook files must be named <account>_<YYYY>.pdf
• Verify the path is correct (use absolute paths if needed)`

	case errors.CategoryExtract:
		return `Extraction error help:
• The PDF may be corrupted or image-based
• Re-download the passbook from the member portal
• Affected documents are skipped; other years still consolidate`

	case errors.CategoryParse:
		return `Parse error help:
• The document layout may differ from the expected passbook format
• Unrecognized records are dropped, not fatal
• Run with --verbose to see which records were skipped`

	case errors.CategoryConfiguration:
		return `Configuration error help:
• Check your command-line flags and arguments
• Verify configuration file syntax if using --config
• Use 'passbook consolidate --help' to see all available options`

	default:
		return `For more help:
• Use 'passbook --help' for general help
• Use 'passbook consolidate --help' for command-specific help
• Run with --verbose for detailed diagnostics`
	}
}
