package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/krlabs/kra/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage workspace settings",
	Long: `View and change the settings stored in .kra/config.toml.

Paths are relative to the workspace root. Dataset specs are configured as
datasets.<name>.url, .key_env, .key_param and .params.<key> in the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Changes one setting and saves it. Durations are given in the unit named
by the key, and lists are comma separated.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if services.Settings == nil {
		return notConfigured("settings")
	}

	p := newPrinter(cmd.OutOrStdout())
	cmd.Println(p.heading("Current Settings"))
	cmd.Println()

	section := ""
	for _, key := range services.Settings.Keys() {
		value, err := services.Settings.Value(key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if s := sectionOf(key); s != section {
			if section != "" {
				cmd.Println()
			}
			section = s
			cmd.Printf("[%s]\n", section)
		}
		cmd.Printf("  %-28s %s\n", key, value)
	}

	if services.Dataset != nil {
		cmd.Println()
		cmd.Println("[datasets]")
		for _, spec := range services.Dataset.Specs() {
			key := spec.KeyEnv
			if key == "" {
				key = "no key"
			}
			cmd.Printf("  %-28s %s (%s)\n", spec.Name, spec.URL, key)
		}
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if services.Settings == nil {
		return notConfigured("settings")
	}

	key, value := args[0], args[1]
	if err := services.Settings.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrInvalidSetting) {
			return fmt.Errorf("%w (run 'kra settings show' for valid keys)", err)
		}
		return fmt.Errorf("failed to save setting: %w", err)
	}

	current, err := services.Settings.Value(key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	cmd.Printf("%s = %s\n", key, current)
	return nil
}

// sectionOf returns the part of a dotted key before the first dot.
func sectionOf(key string) string {
	section, _, _ := strings.Cut(key, ".")
	return section
}
