// Package config assembles component configurations from CLI inputs.
package config

import (
	"epfo-passbook-parser/internal/reporter"
	"epfo-passbook-parser/pkg/logger"
)

// CreateLoggerConfig creates a logger configuration for the CLI.
func CreateLoggerConfig(verbose bool) *logger.Config {
	config := logger.DefaultConfig()
	if verbose {
		config.Level = logger.DebugLevel
	}
	return config
}

// CreateReportConfig creates a report configuration for the specified
// output format.
func CreateReportConfig(format string, includeTransactions bool) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	switch format {
	case "json":
		config.Format = reporter.FormatJSON
	case "csv":
		config.Format = reporter.FormatCSV
	default:
		config.Format = reporter.FormatConsole
	}
	config.IncludeTransactions = includeTransactions

	return config
}
