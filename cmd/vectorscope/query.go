// ABOUTME: Cobra command that projects a query and prints the closest points.
// ABOUTME: Can also print a rendered frame with the query in place.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Place a query and list similar points",
	Long:  "Project free text into the embedding space and rank every point by similarity to it.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

// Flags
var (
	queryTop           int
	queryMinSimilarity float64
	queryRender        bool
)

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().IntVar(&queryTop, "top", 0, "Number of similar points to show (default from config)")
	queryCmd.Flags().Float64Var(&queryMinSimilarity, "min-similarity", -1, "Only show points above this similarity (default from config)")
	queryCmd.Flags().BoolVar(&queryRender, "render", false, "Also print the view with the query placed")
}

func runQuery(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	ctrl, renderer, err := buildExplorer()
	if err != nil {
		return err
	}
	if !ctrl.SubmitQuery(text) {
		return fmt.Errorf("query text is empty")
	}

	top := queryTop
	if top <= 0 {
		top = globalConfig.Query.TopN
	}
	minSim := queryMinSimilarity
	if minSim < 0 {
		minSim = globalConfig.Query.MinSimilarity
	}
	if minSim > 1 {
		return fmt.Errorf("--min-similarity must be between 0 and 1")
	}

	q := ctrl.Query()
	fmt.Printf("Query %q placed at %s\n\n", strings.TrimSpace(text), q.Position)

	similar := ctrl.Similar(top, minSim)
	if len(similar) == 0 {
		fmt.Println("No similar points.")
	}
	for i, p := range similar {
		owner := "-"
		if o, ok := ctrl.Lookup(p.GroupID); ok {
			owner = o.Label
		}
		fmt.Printf("%2d. %.2f  %-12s %-14s %s\n", i+1, p.Similarity, p.Label, p.Kind, owner)
	}

	if queryRender {
		fmt.Println()
		cols, rows := terminalSize()
		fmt.Println(renderFrame(ctrl, renderer, cols, rows, false))
	}
	return nil
}
