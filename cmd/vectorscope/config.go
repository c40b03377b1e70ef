// ABOUTME: Cobra commands for writing and inspecting the YAML config.
// ABOUTME: Provides init, show, and path subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
	Long:  "Write a default config, print the effective config, or show where it lives.",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config",
	Long:  "Write the default seven-document, four-theme layout to the config path.",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(globalConfigPath)
		return nil
	},
}

var configForce bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(globalConfigPath); err == nil && !configForce {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", globalConfigPath)
	}
	if err := globalConfig.SaveTo(globalConfigPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("Config saved to %s\n", globalConfigPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := globalConfig.Marshal()
	if err != nil {
		return err
	}
	fmt.Printf("# %s\n", globalConfigPath)
	fmt.Print(string(data))
	return nil
}
