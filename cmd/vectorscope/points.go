// ABOUTME: Cobra command that lists plotted points and per-kind totals.
// ABOUTME: Useful for checking a config's layout without opening the TUI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/vectorscope/internal/models"
)

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "List plotted points",
	Long:  "Print the collection totals and every point passing the filter.",
	RunE:  runPoints,
}

// Flags
var (
	pointsFilter string
	pointsLimit  int
)

func init() {
	rootCmd.AddCommand(pointsCmd)
	pointsCmd.Flags().StringVar(&pointsFilter, "filter", "all", "Point kinds to list: all, primary-unit, detail-unit, aggregate")
	pointsCmd.Flags().IntVar(&pointsLimit, "limit", 0, "Maximum number of points to show (0 for all)")
}

func runPoints(cmd *cobra.Command, args []string) error {
	filter, err := models.ParseFilter(pointsFilter)
	if err != nil {
		return err
	}

	ctrl, _, err := buildExplorer()
	if err != nil {
		return err
	}

	counts := ctrl.Counts()
	for _, k := range models.Kinds {
		fmt.Printf("%-20s %d\n", k.Title(), counts[k])
	}
	fmt.Println()

	points := ctrl.Points(filter)
	if len(points) == 0 {
		fmt.Println("No points found.")
		return nil
	}
	for i, p := range points {
		if pointsLimit > 0 && i == pointsLimit {
			fmt.Printf("... %d more\n", len(points)-i)
			break
		}
		owner := ""
		if o, ok := ctrl.Lookup(p.GroupID); ok {
			owner = o.Label
		}
		fmt.Printf("%-28s %-14s %-16s %s\n", p.ID, p.Kind, p.Position, models.Truncate(owner, 24))
	}
	return nil
}
