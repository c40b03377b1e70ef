// ABOUTME: Cobra command that opens the interactive explorer TUI.
// ABOUTME: Optionally watches the config file and reloads the layout on change.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/vectorscope/internal/config"
	"github.com/2389-research/vectorscope/internal/embeddings"
	"github.com/2389-research/vectorscope/internal/explorer"
	"github.com/2389-research/vectorscope/internal/storage"
	"github.com/2389-research/vectorscope/internal/tui"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Open the interactive explorer",
	Long: `Open the embedding-space explorer in the terminal.

Move the mouse over points to inspect them, press / to type a query,
and use +/- and the arrow keys to zoom and pan. Press ? for all keys.`,
	RunE: runExplore,
}

var watchFlag bool

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().BoolVar(&watchFlag, "watch", false, "Reload the layout when the config file changes")
	rootCmd.Flags().BoolVar(&watchFlag, "watch", false, "Reload the layout when the config file changes")
}

func runExplore(cmd *cobra.Command, args []string) error {
	ctrl, renderer, err := buildExplorer()
	if err != nil {
		return err
	}

	opts := tui.Options{
		Renderer:      renderer,
		Logger:        globalLogger,
		TopN:          globalConfig.Query.TopN,
		MinSimilarity: globalConfig.Query.MinSimilarity,
		PanStep:       globalConfig.View.PanStep,
		Samples:       globalConfig.Query.Samples,
	}

	if watchFlag {
		w, err := tui.NewWatcher(globalConfigPath)
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()
		opts.Watcher = w
		opts.Reload = func(path string) (storage.PointStore, embeddings.Projector, error) {
			cfg, err := config.LoadFrom(path)
			if err != nil {
				return nil, nil, err
			}
			return explorer.Components(cfg)
		}
		globalLogger.Info("watching config", "path", w.Path())
	}

	p := tea.NewProgram(tui.NewExplorerModel(ctrl, opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
