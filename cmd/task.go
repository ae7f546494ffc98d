package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stempeluhr/timesheet"
)

var (
	taskDescription string
	taskProfile     string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage trackable tasks",
	Long: `Create, list, archive, and link tasks.

A task optionally carries a link to an accounting profile; reports group
hours under that profile. Tasks without a link land in the informational
section of the report.`,
	Example: `
  # Create a task linked to an accounting profile
  stempeluhr task add "Development" --profile "Internal"

  # Create a free-floating task
  stempeluhr task add "Errands"

  # Re-link later
  stempeluhr task link "Errands" "Internal"

  # Archive a task (history stays in the database)
  stempeluhr task archive "Errands"
`,
}

var taskAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		task := timesheet.Task{Name: strings.TrimSpace(args[0]), Description: taskDescription}
		if task.Name == "" {
			return fmt.Errorf("task name is empty")
		}

		if taskProfile != "" {
			profile, err := profileByName(store, taskProfile)
			if err != nil {
				return err
			}
			task.AccountingID = profile.ID
		}

		created, err := store.CreateTask(task)
		if err != nil {
			return err
		}
		fmt.Printf("Created task %q (id %d)\n", created.Name, created.ID)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		tasks, err := store.ActiveTasks()
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No active tasks. Create one with: stempeluhr task add <name>")
			return nil
		}

		profiles, err := store.ActiveProfiles()
		if err != nil {
			return err
		}
		profileName := make(map[int64]string, len(profiles))
		for _, profile := range profiles {
			profileName[profile.ID] = profile.Name
		}

		for _, task := range tasks {
			accounting := "-"
			if name, ok := profileName[task.AccountingID]; ok {
				accounting = name
			}
			fmt.Printf("%-4d %-30s %s\n", task.ID, task.Name, accounting)
		}
		return nil
	},
}

var taskArchiveCmd = &cobra.Command{
	Use:   "archive <name>",
	Short: "Archive a task, keeping its recorded entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		task, err := store.TaskByName(args[0])
		if err != nil {
			return err
		}
		if err := store.ArchiveTask(task.ID); err != nil {
			return err
		}
		fmt.Printf("Archived task %q\n", task.Name)
		return nil
	},
}

var taskLinkCmd = &cobra.Command{
	Use:   "link <task> [profile]",
	Short: "Link a task to an accounting profile (omit profile to unlink)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		task, err := store.TaskByName(args[0])
		if err != nil {
			return err
		}

		if len(args) == 1 {
			if err := store.LinkTaskAccounting(task.ID, 0); err != nil {
				return err
			}
			fmt.Printf("Unlinked task %q\n", task.Name)
			return nil
		}

		profile, err := profileByName(store, args[1])
		if err != nil {
			return err
		}
		if err := store.LinkTaskAccounting(task.ID, profile.ID); err != nil {
			return err
		}
		fmt.Printf("Linked task %q to profile %q\n", task.Name, profile.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskArchiveCmd)
	taskCmd.AddCommand(taskLinkCmd)

	taskAddCmd.Flags().StringVar(&taskDescription, "description", "", "Optional task description")
	taskAddCmd.Flags().StringVar(&taskProfile, "profile", "", "Accounting profile to link")
}
