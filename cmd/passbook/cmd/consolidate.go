package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"epfo-passbook-parser/cmd/passbook/config"
	"epfo-passbook-parser/internal/consolidator"
	"epfo-passbook-parser/internal/extractor"
	"epfo-passbook-parser/internal/parsers"
	"epfo-passbook-parser/internal/reporter"
	"epfo-passbook-parser/pkg/logger"
)

// Flags for the consolidate command
var (
	sourceDir    string
	outputDir    string
	outputFormat string
	skipLedgers  bool
)

// consolidateCmd represents the consolidate command
var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Consolidate a member folder of yearly passbook PDFs",
	Long: `Consolidate parses every fiscal-year passbook PDF in a member
folder (files named <account>_<YYYY>.pdf), merges them into one report,
and validates balance continuity across consecutive years.

Individual documents or records that cannot be parsed are skipped with a
warning; only an unreadable or empty folder aborts the run.

Examples:
  # Print the consolidated report to the console
  passbook consolidate --source-dir ./member_folder

  # Redirect the JSON and CSV exports away from the member folder
  passbook consolidate --source-dir ./member_folder --output-dir ./reports

  # Machine-readable output only
  passbook consolidate --source-dir ./member_folder --format json`,

	PreRunE: validateConsolidateFlags,
	RunE:    runConsolidate,
}

func init() {
	rootCmd.AddCommand(consolidateCmd)

	consolidateCmd.Flags().StringVarP(&sourceDir, "source-dir", "s", "", "member folder containing yearly passbook PDFs (required)")
	consolidateCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for JSON and CSV exports (default: the source directory)")
	consolidateCmd.Flags().StringVarP(&outputFormat, "format", "f", "console", "output format: console, json, csv")
	consolidateCmd.Flags().BoolVar(&skipLedgers, "summary-only", false, "omit per-year transaction tables from console output")

	consolidateCmd.MarkFlagRequired("source-dir")

	viper.BindPFlag("source-dir", consolidateCmd.Flags().Lookup("source-dir"))
	viper.BindPFlag("output-dir", consolidateCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("format", consolidateCmd.Flags().Lookup("format"))
	viper.BindPFlag("summary-only", consolidateCmd.Flags().Lookup("summary-only"))
}

func validateConsolidateFlags(cmd *cobra.Command, args []string) error {
	// Viper values win so the config file and environment can override.
	sourceDir = viper.GetString("source-dir")
	outputDir = viper.GetString("output-dir")
	outputFormat = viper.GetString("format")
	skipLedgers = viper.GetBool("summary-only")

	if sourceDir == "" {
		return fmt.Errorf("source-dir is required")
	}

	info, err := os.Stat(sourceDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("source directory does not exist: %s", sourceDir)
	}
	if err != nil {
		return fmt.Errorf("error accessing source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source path is not a directory: %s", sourceDir)
	}

	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	return nil
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	log := logger.GetGlobalLogger()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Consolidating passbooks...\n")
		fmt.Fprintf(os.Stderr, "Source directory: %s\n", sourceDir)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
		if outputDir != "" {
			fmt.Fprintf(os.Stderr, "Output directory: %s\n", outputDir)
		}
	}

	pdfExtractor := extractor.NewPDFExtractor(log)
	parser := parsers.NewDocumentParser(pdfExtractor, log)
	cons := consolidator.New(parser, nil, log)

	report, err := cons.ProcessFolder(sourceDir)
	if err != nil {
		return err
	}

	issues := consolidator.ValidateContinuity(report.YearlySummaries)
	for _, issue := range issues {
		warn := consolidator.ContinuityError(issue)
		log.WithField("code", string(warn.Code)).Warn(warn.Message)
		fmt.Fprintf(os.Stderr, "Warning: %s\n", issue)
	}

	reportConfig := config.CreateReportConfig(outputFormat, !skipLedgers)
	generator := reporter.NewReportGenerator(reportConfig, log)
	if err := generator.GenerateReport(report, os.Stdout); err != nil {
		return err
	}

	// The consolidated report is always persisted; exports land next to
	// the source documents unless redirected.
	exportDir := outputDir
	if exportDir == "" {
		exportDir = sourceDir
	}
	written, err := reporter.WriteReportFiles(report, exportDir, log)
	if err != nil {
		return err
	}
	if viper.GetBool("verbose") {
		for _, path := range written {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
		}
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nConsolidation completed.\n")
		fmt.Fprintf(os.Stderr, "Processed %d files covering years %v.\n",
			report.Metadata.TotalFilesProcessed, report.Metadata.YearsCovered)
		fmt.Fprintf(os.Stderr, "Extracted %d transactions (%d withdrawals, %d records skipped).\n",
			report.Metadata.TotalTransactions,
			report.Metadata.TotalWithdrawalTransactions,
			report.Metadata.SkippedRecords)
		if len(issues) > 0 {
			fmt.Fprintf(os.Stderr, "Detected %d balance continuity issues.\n", len(issues))
		}
	}

	return nil
}
