package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stempeluhr/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  stempeluhr config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
			fmt.Println("Configuration:")
			fmt.Printf("german_state: %s\n", cfg.GermanState)
			fmt.Printf("language: %s\n", cfg.Language)
			fmt.Printf("work_hours_per_day: %.1f\n", cfg.WorkHoursPerDay)
			fmt.Printf("max_daily_hours: %.1f\n", cfg.MaxDailyHours)
			fmt.Printf("enable_compliance: %t\n", cfg.EnableCompliance)
			fmt.Printf("accounting_columns: %d\n", len(cfg.AccountingColumns))
			for i, column := range cfg.AccountingColumns {
				fmt.Printf("accounting_columns[%d]: %s\n", i, column)
			}
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
