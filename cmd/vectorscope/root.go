// ABOUTME: Root Cobra command and global flags for the vectorscope CLI.
// ABOUTME: Loads config and opens the logger before any subcommand runs.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/vectorscope/internal/config"
	"github.com/2389-research/vectorscope/internal/explorer"
	"github.com/2389-research/vectorscope/internal/logger"
	"github.com/2389-research/vectorscope/internal/render"
)

// debugLogFile receives TUI logs when --verbose is set without --log-file.
const debugLogFile = "vectorscope-debug.log"

var globalConfig *config.Config
var globalConfigPath string
var globalLogger *logger.Logger
var globalLogCloser io.Closer

// Flags
var (
	configFlag  string
	verboseFlag bool
	logFileFlag string
)

var rootCmd = &cobra.Command{
	Use:   "vectorscope",
	Short: "Explore documents in a 2D embedding space",
	Long: `
█░█ █▀▀ █▀▀ ▀█▀ █▀█ █▀█ █▀ █▀▀ █▀█ █▀█ █▀▀
▀▄▀ ██▄ █▄▄ ░█░ █▄█ █▀▄ ▄█ █▄▄ █▄█ █▀▀ ██▄

Plot document chunks and aggregates on a 2D plane, drop a free-text
query into the space, and see which points sit closest to it.

Run without a subcommand to open the interactive explorer.`,
	RunE: runExplore,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		path := configFlag
		if path == "" {
			p, err := config.GetConfigPath()
			if err != nil {
				return fmt.Errorf("failed to resolve config path: %w", err)
			}
			path = p
		}
		path, err := config.ExpandPath(path)
		if err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
		globalConfigPath = path

		// init writes the file, so a broken one must not block it
		if cmd.Name() == "init" {
			globalConfig = config.Default()
			globalLogger = logger.Nop()
			return nil
		}

		cfg, err := config.LoadFrom(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg

		interactive := !cmd.HasParent() || cmd.Name() == "explore"
		return openLogger(cfg, interactive)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalLogCloser != nil {
			_ = globalLogCloser.Close()
			globalLogCloser = nil
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default $XDG_CONFIG_HOME/vectorscope/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Write logs to this file")
}

// openLogger builds globalLogger. Logs go to a file when one is configured;
// otherwise verbose runs log to stderr, except the TUI which owns the terminal
// and logs to a debug file instead.
func openLogger(cfg *config.Config, interactive bool) error {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if verboseFlag {
		level = slog.LevelDebug
	}

	path := logFileFlag
	if path == "" {
		path = cfg.Log.File
	}
	if path != "" {
		path, err = config.ExpandPath(path)
		if err != nil {
			return fmt.Errorf("failed to resolve log file: %w", err)
		}
		l, closer, err := logger.OpenFile(path, level)
		if err != nil {
			return err
		}
		globalLogger, globalLogCloser = l, closer
		return nil
	}

	switch {
	case !verboseFlag:
		globalLogger = logger.Nop()
	case interactive:
		f, err := tea.LogToFile(debugLogFile, "vectorscope")
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		globalLogger, globalLogCloser = logger.NewText(f, level), f
	default:
		globalLogger = logger.NewText(os.Stderr, level)
	}
	return nil
}

// buildExplorer creates the controller and renderer described by the loaded config.
func buildExplorer() (*explorer.Controller, *render.Renderer, error) {
	ctrl, err := explorer.FromConfig(globalConfig, globalLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build explorer: %w", err)
	}
	return ctrl, render.NewRenderer(explorer.RenderOptions(globalConfig)), nil
}
