/*
Copyright © 2026

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stempeluhr/config"
	"stempeluhr/storage"
)

var (
	cfgFile string
	dbPath  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stempeluhr",
	Short: "Track working hours locally and build monthly accounting reports.",
	Long: `
**********************************************
*               STEMPELUHR                   *
**********************************************

This CLI tracks working time against tasks in a local SQLite database and
builds monthly report matrices grouped by accounting profile, with German
holiday-aware target hours, overtime, and working-time compliance footers.

Reports export to semicolon CSV or to Excel with a chart dashboard.
`,
	Example: `
  # Create configuration file
  stempeluhr config create

  # Define a task and an accounting profile
  stempeluhr profile add "Internal" --attr CostCenter=CC-100
  stempeluhr task add "Development" --profile "Internal"

  # Track time
  stempeluhr start Development
  stempeluhr status
  stempeluhr stop

  # Build this month's report
  stempeluhr report --config ./january.yaml --output ./report.xlsx

  # Browse reports in the browser
  stempeluhr serve
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.stempeluhr.yaml, then ./.stempeluhr.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./stempeluhr.db", "Path to local SQLite database")
}

// openStore opens the SQLite database behind the persistent --db flag.
func openStore() (*storage.SQLiteStore, error) {
	return storage.OpenSQLite(dbPath)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".stempeluhr" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".stempeluhr")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: stempeluhr config create")
	}
}
