// ABOUTME: Cobra command that prints one rendered frame of the explorer.
// ABOUTME: Sizes the canvas to the terminal via golang.org/x/term.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/2389-research/vectorscope/internal/explorer"
	"github.com/2389-research/vectorscope/internal/models"
	"github.com/2389-research/vectorscope/internal/render"
)

// Frame size when stdout is not a terminal.
const (
	fallbackCols = 80
	fallbackRows = 24
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the current view",
	Long:  "Render the point layout once, sized to the terminal, with a legend.",
	RunE:  runRender,
}

// Flags
var (
	renderFilter string
	renderNoGrid bool
	renderZoom   float64
	renderPlain  bool
	renderQuery  string
)

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderFilter, "filter", "all", "Point kinds to draw: all, primary-unit, detail-unit, aggregate")
	renderCmd.Flags().BoolVar(&renderNoGrid, "no-grid", false, "Hide the background grid")
	renderCmd.Flags().Float64Var(&renderZoom, "zoom", 1, "Zoom level")
	renderCmd.Flags().BoolVar(&renderPlain, "plain", false, "Print without colors")
	renderCmd.Flags().StringVar(&renderQuery, "query", "", "Place a query before rendering")
}

func runRender(cmd *cobra.Command, args []string) error {
	filter, err := models.ParseFilter(renderFilter)
	if err != nil {
		return err
	}

	ctrl, renderer, err := buildExplorer()
	if err != nil {
		return err
	}
	ctrl.SetFilter(filter)
	ctrl.SetZoom(renderZoom)
	if renderNoGrid {
		ctrl.ToggleGrid()
	}
	if renderQuery != "" && !ctrl.SubmitQuery(renderQuery) {
		return fmt.Errorf("query text is empty")
	}

	cols, rows := terminalSize()
	fmt.Println(renderFrame(ctrl, renderer, cols, rows, renderPlain))
	return nil
}

// terminalSize returns stdout's size in cells, or a fallback when it is not a terminal.
func terminalSize() (int, int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return fallbackCols, fallbackRows
	}
	return cols, rows
}

// renderFrame draws the scene into a canvas that leaves room for the legend.
func renderFrame(ctrl *explorer.Controller, renderer *render.Renderer, cols, rows int, plain bool) string {
	rows -= 3
	if rows < 5 {
		rows = 5
	}
	w, h := renderer.WorldSize()
	canvas := render.NewCanvas(cols, rows, w, h)
	renderer.Render(canvas, ctrl.Scene())

	var sb strings.Builder
	theme := renderer.Theme()
	if plain {
		sb.WriteString(canvas.Plain())
	} else {
		sb.WriteString(canvas.String())
	}
	sb.WriteString("\n")
	for _, k := range models.Kinds {
		marker := string(theme.Kind(k).Glyph)
		if !plain {
			marker = theme.Swatch(k)
		}
		fmt.Fprintf(&sb, "%s %s  ", marker, k.Title())
	}
	v := ctrl.View()
	fmt.Fprintf(&sb, "\nzoom %.2f  filter %s", v.Zoom, ctrl.Filter())
	if q := ctrl.QueryText(); q != "" {
		fmt.Fprintf(&sb, "  query %q", q)
	}
	return sb.String()
}
