package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"stempeluhr/storage"
	"stempeluhr/timesheet"
)

var profileAttrs []string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage accounting profiles",
	Long: `Create, list, and archive accounting profiles.

A profile is a named set of accounting attributes (cost center, project
code, ...). Attribute names are free-form; the report column order comes
from the accounting_columns configuration value.`,
	Example: `
  # Create a profile with two attributes
  stempeluhr profile add "Internal" --attr CostCenter=CC-100 --attr ProjectCode=P-7

  # List profiles with their attributes
  stempeluhr profile list

  # Archive a profile
  stempeluhr profile archive "Internal"
`,
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new accounting profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		attributes, err := parseAttrFlags(profileAttrs)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("profile name is empty")
		}

		created, err := store.CreateProfile(timesheet.Profile{Name: name, Attributes: attributes})
		if err != nil {
			return err
		}
		fmt.Printf("Created profile %q (id %d)\n", created.Name, created.ID)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active accounting profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		profiles, err := store.ActiveProfiles()
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			fmt.Println("No active profiles. Create one with: stempeluhr profile add <name>")
			return nil
		}

		for _, profile := range profiles {
			fmt.Printf("%-4d %s\n", profile.ID, profile.Name)
			names := make([]string, 0, len(profile.Attributes))
			for name := range profile.Attributes {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("     %s=%s\n", name, profile.Attributes[name])
			}
		}
		return nil
	},
}

var profileArchiveCmd = &cobra.Command{
	Use:   "archive <name>",
	Short: "Archive an accounting profile",
	Long: `Archive an accounting profile.

Tasks keep their link; reports resolve entries of a task whose profile is
archived into the unassigned section.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		profile, err := profileByName(store, args[0])
		if err != nil {
			return err
		}
		if err := store.ArchiveProfile(profile.ID); err != nil {
			return err
		}
		fmt.Printf("Archived profile %q\n", profile.Name)
		return nil
	},
}

func profileByName(store *storage.SQLiteStore, name string) (timesheet.Profile, error) {
	profiles, err := store.ActiveProfiles()
	if err != nil {
		return timesheet.Profile{}, err
	}
	for _, profile := range profiles {
		if strings.EqualFold(profile.Name, strings.TrimSpace(name)) {
			return profile, nil
		}
	}
	return timesheet.Profile{}, fmt.Errorf("%w: %s", storage.ErrProfileNotFound, name)
}

// parseAttrFlags turns repeated --attr key=value flags into a map.
func parseAttrFlags(values []string) (map[string]string, error) {
	attributes := make(map[string]string, len(values))
	for _, raw := range values {
		key, value, found := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --attr %q (expected key=value)", raw)
		}
		if _, exists := attributes[key]; exists {
			return nil, fmt.Errorf("duplicate --attr key %q", key)
		}
		attributes[key] = strings.TrimSpace(value)
	}
	return attributes, nil
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileArchiveCmd)

	profileAddCmd.Flags().StringArrayVar(&profileAttrs, "attr", nil, "Profile attribute as key=value (repeatable)")
}
