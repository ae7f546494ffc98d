package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage stempeluhr configuration file values.",
	Long: `Create, edit, and display the stempeluhr configuration file.

The configuration stores application-wide values:
- german_state (Bundesland for the holiday calendar)
- language (de/en report labels)
- work_hours_per_day / max_daily_hours / enable_compliance
- accounting_columns (report column order)`,
	Example: `
  # Create default config in $HOME/.stempeluhr.yaml
  stempeluhr config create

  # Show active config and source file
  stempeluhr config show

  # Open active config in editor (creates example if missing)
  stempeluhr config edit
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
