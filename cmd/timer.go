package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stempeluhr/config"
	"stempeluhr/internal/calendar"
	"stempeluhr/timer"
)

var startNote string

var startCmd = &cobra.Command{
	Use:   "start <task>",
	Short: "Start tracking a task",
	Long: `Start tracking time on the named task.

If another entry is running it is closed first, so switching tasks is a
single command.`,
	Example: `
  stempeluhr start Development
  stempeluhr start Meetings --note "sprint planning"
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := timer.NewService(store).Start(args[0], startNote)
		if err != nil {
			return err
		}
		fmt.Printf("Started %q at %s\n", args[0], entry.StartTime.Format("15:04"))
		printNonWorkdayNote(entry.StartTime)
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := timer.NewService(store).Stop()
		if err != nil {
			return err
		}
		duration := time.Duration(entry.DurationSeconds) * time.Second
		fmt.Printf("Stopped at %s after %s\n", entry.EndTime.Format("15:04"), formatDuration(duration))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running entry and its live duration",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		status, err := timer.NewService(store).Current()
		if err != nil {
			return err
		}
		if !status.Running {
			fmt.Println("No entry is running.")
			return nil
		}

		fmt.Printf("Tracking %q since %s (%s)\n",
			status.Task.Name,
			status.Entry.StartTime.Format("15:04"),
			formatDuration(status.Elapsed))
		if status.Entry.Note != "" {
			fmt.Printf("Note: %s\n", status.Entry.Note)
		}
		return nil
	},
}

// printNonWorkdayNote flags tracking on a holiday or weekend when the config
// asks for it. Config problems stay silent; tracking must never fail on them.
func printNonWorkdayNote(day time.Time) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return
	}
	holidays, err := calendar.New(cfg.GermanState)
	if err != nil {
		return
	}
	if cfg.RespectHolidays && holidays.IsHoliday(day) {
		fmt.Printf("Note: today is a holiday (%s).\n", holidays.HolidayName(day))
		return
	}
	if cfg.RespectWeekends && holidays.IsWeekend(day) {
		fmt.Println("Note: today is a weekend day.")
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)

	startCmd.Flags().StringVar(&startNote, "note", "", "Optional note on the entry")
}
