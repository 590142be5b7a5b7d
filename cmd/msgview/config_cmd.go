package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/msgview/internal/config"
	"github.com/muurk/msgview/internal/logging"
	"github.com/muurk/msgview/internal/ui"
)

var forceInit bool

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file without asking")

	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the msgview config file",
	Long: `Show, create or locate the YAML config file.

The file lives in the user config directory unless --config names another
path. Environment variables and flags override values from the file.`,
}

// settingsPath returns --config or the default config file path
func settingsPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Long: `Print the settings msgview would use, after applying the environment
and the --api-url and --base-url flags on top of the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initLogging("", logFile); err != nil {
			return err
		}

		path, err := settingsPath()
		if err != nil {
			return err
		}

		settings, err := config.Load(path)
		if err != nil {
			return err
		}
		settings.ApplyEnv(os.LookupEnv)
		if apiURL != "" {
			settings.APIURL = apiURL
		}
		if baseURL != "" {
			settings.BaseURL = baseURL
		}

		data, err := settings.Marshal(path)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default settings",
	Example: `  # Create the default config file
  msgview config init

  # Replace an existing file
  msgview config init --force`,
	RunE: runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := initLogging("", logFile); err != nil {
		return err
	}

	path, err := settingsPath()
	if err != nil {
		return err
	}

	p := ui.NewPrinter(cmd.OutOrStdout())

	_, statErr := os.Stat(path)
	exists := statErr == nil
	if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("failed to check config file: %w", statErr)
	}

	if exists && !forceInit {
		if !ui.IsTerminal() {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}
		confirmed := p.Confirm(cmd.InOrStdin(), "Overwrite config", []string{
			"A config file already exists at " + path,
			"Its settings will be replaced with defaults",
		}, "Overwrite it?")
		if !confirmed {
			return nil
		}
	}

	if err := config.NewSettings().Save(path); err != nil {
		p.PrintError("Could not write config", err, []string{
			"Check that the directory is writable",
			"Use --config to choose another location",
		})
		return err
	}

	logging.Info("Config file written", zap.String("path", path), zap.Bool("replaced", exists))
	p.PrintSuccess("Config file written", ui.Field{Key: "Path", Value: path})
	return nil
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}
