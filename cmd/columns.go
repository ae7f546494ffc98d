package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stempeluhr/config"
)

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Manage the accounting column order of reports",
	Long: `Show or set the accounting attribute columns of the report matrix.

The configured order decides which profile attributes appear as report
columns and in which sequence. Attributes present on profiles but missing
from the configuration are flagged so they are not silently dropped.`,
	Example: `
  # Show configured columns and attributes in use
  stempeluhr columns

  # Replace the column order
  stempeluhr columns set CostCenter ProjectCode
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		if len(cfg.AccountingColumns) == 0 {
			fmt.Println("No accounting columns configured.")
		} else {
			fmt.Println("Configured columns:")
			for i, column := range cfg.AccountingColumns {
				fmt.Printf("%d. %s\n", i+1, column)
			}
		}

		unconfigured, err := unconfiguredAttributes(cfg.AccountingColumns)
		if err != nil {
			return err
		}
		if len(unconfigured) > 0 {
			fmt.Println("Profile attributes not configured as columns:")
			for _, name := range unconfigured {
				fmt.Printf("- %s\n", name)
			}
		}
		return nil
	},
}

var columnsSetCmd = &cobra.Command{
	Use:   "set <column>...",
	Short: "Replace the accounting column order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		columns := make([]string, 0, len(args))
		for _, arg := range args {
			columns = append(columns, strings.TrimSpace(arg))
		}

		viper.Set(config.KeyAccountingColumns, columns)
		if _, err := config.LoadAndValidate(); err != nil {
			return err
		}

		if err := viper.WriteConfig(); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
		fmt.Printf("Saved %d accounting columns to %s\n", len(columns), viper.ConfigFileUsed())
		return nil
	},
}

// unconfiguredAttributes lists attribute names used by active profiles that
// are absent from the configured column order.
func unconfiguredAttributes(columns []string) ([]string, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	profiles, err := store.ActiveProfiles()
	if err != nil {
		return nil, err
	}

	configured := make(map[string]struct{}, len(columns))
	for _, column := range columns {
		configured[strings.ToLower(column)] = struct{}{}
	}

	missing := make(map[string]struct{})
	for _, profile := range profiles {
		for name := range profile.Attributes {
			if _, ok := configured[strings.ToLower(name)]; !ok {
				missing[name] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	columnsCmd.AddCommand(columnsSetCmd)
}
