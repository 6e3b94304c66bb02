package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/azure06/clipsx/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, edit, or reset the clipsxd settings file",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigEditCmd(), newConfigResetCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			settingsPath, err := configFilePath()
			if err != nil {
				return err
			}
			settings, err := config.Load(settingsPath)
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(settings)
		},
	}
}

func newConfigEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open settings.json in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			settingsPath, err := configFilePath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
				if err := config.Save(settingsPath, config.DefaultSettings()); err != nil {
					return fmt.Errorf("write default settings: %w", err)
				}
			}

			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = "vi"
			}
			c := exec.Command(editor, settingsPath)
			c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
			if err := c.Run(); err != nil {
				return fmt.Errorf("run editor: %w", err)
			}

			if _, err := config.Load(settingsPath); err != nil {
				return fmt.Errorf("settings file is no longer valid JSON: %w", err)
			}
			fmt.Println("settings updated")
			return nil
		},
	}
}

func newConfigResetCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Overwrite settings.json with defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			settingsPath, err := configFilePath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(settingsPath); err == nil && !force {
				return fmt.Errorf("settings.json already exists, pass --force to overwrite")
			}
			if err := config.Save(settingsPath, config.DefaultSettings()); err != nil {
				return fmt.Errorf("write default settings: %w", err)
			}
			fmt.Println("settings reset to defaults")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing settings file")
	return cmd
}

func configFilePath() (string, error) {
	if paths != nil {
		return paths.ConfigFile, nil
	}
	resolved, err := config.ResolvePaths()
	if err != nil {
		return "", fmt.Errorf("resolve data directory: %w", err)
	}
	return resolved.ConfigFile, nil
}
