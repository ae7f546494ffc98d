package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stempeluhr/config"
	"stempeluhr/internal/calendar"
	"stempeluhr/output"
	"stempeluhr/report"
)

var (
	reportRunFile string
	reportPeriod  string
	reportOutput  string
	reportFormat  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the monthly report matrix and export it",
	Long: `Build the monthly report: hours per task and calendar day, grouped by
accounting profile, with Total/Target/Overtime footers against the German
holiday calendar of the configured Bundesland.

A report run is described by its own YAML file (period, time-off blocks,
excluded tasks, output path); --period alone works for a plain month.
Output format can be selected explicitly via --format or inferred from
--output extension.`,
	Example: `
  # Plain current-month report to CSV
  stempeluhr report --period 2026-01 --output ./january.csv

  # Full run from a report YAML, Excel with dashboard
  stempeluhr report --config ./january.yaml --output ./january.xlsx

  # German period form works too
  stempeluhr report --period 01.2026 --output ./january.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		runCfg, outPath, err := resolveReportRun()
		if err != nil {
			return err
		}
		if strings.TrimSpace(outPath) == "" {
			return fmt.Errorf("no output path: set --output or the run file's output value")
		}

		holidays, err := calendar.New(appCfg.GermanState)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		generator := &report.Generator{
			Tasks:    store,
			Profiles: store,
			Entries:  store,
			Holidays: holidays,
			Prefs:    appCfg.Preferences(),
		}
		result, err := generator.Generate(runCfg)
		if err != nil {
			return err
		}

		format := reportFormat
		if strings.TrimSpace(format) == "" {
			format = output.DetectFormat(outPath)
		}
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}
		if err := writer.Write(outPath, result.Document); err != nil {
			return err
		}

		fmt.Printf("Report %s written. Total: %.1fh, Target: %.1fh, Overtime: %+.1fh, File: %s\n",
			runCfg.Period,
			result.Footer.GrandTotal,
			result.Footer.GrandTarget,
			result.Footer.GrandOvertime,
			outPath)
		if result.Footer.HasWarnings() {
			fmt.Printf("Working-time notes on %d day(s).\n", len(result.Footer.Warnings))
		}
		return nil
	},
}

// resolveReportRun merges the run file (when given) with the command flags;
// flags win for output.
func resolveReportRun() (report.Config, string, error) {
	if strings.TrimSpace(reportRunFile) != "" {
		run, err := config.LoadReportRun(reportRunFile)
		if err != nil {
			return report.Config{}, "", err
		}
		cfg, err := run.ReportConfig()
		if err != nil {
			return report.Config{}, "", err
		}
		outPath := run.Output
		if strings.TrimSpace(reportOutput) != "" {
			outPath = reportOutput
		}
		return cfg, outPath, nil
	}

	if strings.TrimSpace(reportPeriod) == "" {
		return report.Config{}, "", fmt.Errorf("no report period: set --period or --config")
	}
	period, err := report.ParsePeriod(reportPeriod)
	if err != nil {
		return report.Config{}, "", err
	}
	return report.Config{Period: period}, reportOutput, nil
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportRunFile, "config", "", "Report run YAML (period, time_off, excluded_tasks, output)")
	reportCmd.Flags().StringVar(&reportPeriod, "period", "", "Report month as YYYY-MM or MM.YYYY")
	reportCmd.Flags().StringVar(&reportOutput, "output", "", "Output file path")
	reportCmd.Flags().StringVar(&reportFormat, "format", "", "Output format: csv or excel (default: by extension)")
}
