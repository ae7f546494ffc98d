package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stempeluhr/internal/timeutil"
	"stempeluhr/timer"
)

var (
	entryNote string
	entryDay  string
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage time entries directly",
	Long: `Add, list, and delete time entries without the timer.

Manual entries are validated against existing ones: overlapping ranges are
refused, and a running entry blocks everything after its start.`,
	Example: `
  # Record a completed session
  stempeluhr entry add Development 09:00 12:30

  # Record on another day
  stempeluhr entry add Development 09:00 12:30 --day 05.01.2026

  # List a day's entries
  stempeluhr entry list --day 05.01.2026

  # Delete by id
  stempeluhr entry delete 42
`,
}

var entryAddCmd = &cobra.Command{
	Use:   "add <task> <start> <end>",
	Short: "Record a completed entry with explicit times",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := resolveEntryDay(entryDay)
		if err != nil {
			return err
		}
		start, err := combineDayTime(day, args[1])
		if err != nil {
			return err
		}
		end, err := combineDayTime(day, args[2])
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := timer.NewService(store).AddManual(args[0], start, end, entryNote)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded entry %d: %s %s-%s (%.1fh)\n",
			entry.ID,
			entry.StartTime.Format("02.01.2006"),
			entry.StartTime.Format("15:04"),
			entry.EndTime.Format("15:04"),
			float64(entry.DurationSeconds)/3600)
		return nil
	},
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries of one day",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := resolveEntryDay(entryDay)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.EntriesInRange(timeutil.StartOfDay(day), timeutil.EndOfDay(day))
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("No entries on %s.\n", day.Format("02.01.2006"))
			return nil
		}

		tasks := make(map[int64]string)
		for _, entry := range entries {
			if _, ok := tasks[entry.TaskID]; ok {
				continue
			}
			task, err := store.TaskByID(entry.TaskID)
			if err != nil {
				return err
			}
			tasks[entry.TaskID] = task.Name
		}

		for _, entry := range entries {
			end := "..."
			if !entry.Active() {
				end = entry.EndTime.Format("15:04")
			}
			fmt.Printf("%-4d %-30s %s-%s %6.1fh  %s\n",
				entry.ID,
				tasks[entry.TaskID],
				entry.StartTime.Format("15:04"),
				end,
				entry.Hours(time.Now()),
				entry.Note)
		}
		return nil
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entry by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid entry id %q", args[0])
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		deleted, err := store.DeleteEntry(id)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("entry %d not found", id)
		}
		fmt.Printf("Deleted entry %d\n", id)
		return nil
	},
}

func resolveEntryDay(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return timeutil.StartOfDay(time.Now()), nil
	}
	for _, layout := range []string{"02.01.2006", "2006-01-02"} {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --day %q (expected DD.MM.YYYY or YYYY-MM-DD)", value)
}

func combineDayTime(day time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected HH:MM)", clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, time.Local), nil
}

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryDeleteCmd)

	entryAddCmd.Flags().StringVar(&entryNote, "note", "", "Optional note on the entry")
	entryCmd.PersistentFlags().StringVar(&entryDay, "day", "", "Day as DD.MM.YYYY or YYYY-MM-DD (default: today)")
}
