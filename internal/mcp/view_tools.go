// ABOUTME: MCP tool implementations for view and pointer operations.
// ABOUTME: Registers reset_view, set_filter, toggle_grid, zoom, pan, pointer_move, and render_view.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/vectorscope/internal/models"
	"github.com/2389-research/vectorscope/internal/render"
)

// render_view grid bounds in terminal cells.
const (
	defaultRenderCols = 60
	defaultRenderRows = 20
	maxRenderCols     = 240
	maxRenderRows     = 80
)

func (s *Server) registerViewTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "reset_view",
		Description: "Clear the query vector and similarity scores and restore zoom 1 with no pan.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleResetView)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "set_filter",
		Description: "Choose which point kinds are drawn and hit-tested.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"filter": {"type": "string", "enum": ["all", "primary-unit", "detail-unit", "aggregate"], "description": "Point kind to show"}
			},
			"required": ["filter"]
		}`),
	}, s.handleSetFilter)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "toggle_grid",
		Description: "Show or hide the background grid.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleToggleGrid)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "zoom",
		Description: "Zoom the view one step in or out, or to an absolute level. Zoom is clamped to the configured range.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"direction": {"type": "string", "enum": ["in", "out"], "description": "Step direction"},
				"level": {"type": "number", "description": "Absolute zoom level, used when direction is omitted"}
			}
		}`),
	}, s.handleZoom)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "pan",
		Description: "Shift the view by a screen-pixel offset.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"dx": {"type": "number", "description": "Horizontal offset in pixels"},
				"dy": {"type": "number", "description": "Vertical offset in pixels"}
			}
		}`),
	}, s.handlePan)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "pointer_move",
		Description: "Move the pointer to a screen position and report the point under it, if any.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"x": {"type": "number", "description": "Screen x in pixels"},
				"y": {"type": "number", "description": "Screen y in pixels"}
			},
			"required": ["x", "y"]
		}`),
	}, s.handlePointerMove)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "render_view",
		Description: "Render the current view as a plain-text character grid with a legend.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"width": {"type": "number", "description": "Grid width in characters (default 60)"},
				"height": {"type": "number", "description": "Grid height in characters (default 20)"}
			}
		}`),
	}, s.handleRenderView)
}

func (s *Server) handleResetView(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.explorer.Reset()
	s.log.LogTool("reset_view", nil)
	return textResult("View reset: zoom 1.00, pan (0, 0), query cleared."), nil
}

func (s *Server) handleSetFilter(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Filter string `json:"filter"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return s.reject("set_filter", "invalid arguments: %v", err), nil
	}
	if args.Filter == "" {
		return s.reject("set_filter", "filter is required"), nil
	}
	f, err := models.ParseFilter(args.Filter)
	if err != nil {
		return s.reject("set_filter", "%v", err), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.explorer.SetFilter(f)
	s.log.LogTool("set_filter", nil)
	return textResult(fmt.Sprintf("Filter set to %s (%d visible points)", f, len(s.explorer.Visible()))), nil
}

func (s *Server) handleToggleGrid(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := "off"
	if s.explorer.ToggleGrid() {
		state = "on"
	}
	s.log.LogTool("toggle_grid", nil)
	return textResult("Grid " + state), nil
}

func (s *Server) handleZoom(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Direction string   `json:"direction"`
		Level     *float64 `json:"level"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return s.reject("zoom", "invalid arguments: %v", err), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch strings.ToLower(args.Direction) {
	case "in":
		s.explorer.ZoomIn()
	case "out":
		s.explorer.ZoomOut()
	case "":
		if args.Level == nil {
			return s.reject("zoom", "direction or level is required"), nil
		}
		if !(*args.Level > 0) {
			return s.reject("zoom", "level must be positive"), nil
		}
		s.explorer.SetZoom(*args.Level)
	default:
		return s.reject("zoom", "unknown direction %q (want in or out)", args.Direction), nil
	}
	s.log.LogTool("zoom", nil)
	return textResult(fmt.Sprintf("Zoom %.2f", s.explorer.View().Zoom)), nil
}

func (s *Server) handlePan(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		DX float64 `json:"dx"`
		DY float64 `json:"dy"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return s.reject("pan", "invalid arguments: %v", err), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.explorer.Pan(args.DX, args.DY)
	v := s.explorer.View()
	s.log.LogTool("pan", nil)
	return textResult(fmt.Sprintf("Pan %s", models.Vec2{X: v.PanX, Y: v.PanY})), nil
}

func (s *Server) handlePointerMove(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return s.reject("pointer_move", "invalid arguments: %v", err), nil
	}
	if args.X == nil || args.Y == nil {
		return s.reject("pointer_move", "x and y are required"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.explorer.PointerMove(models.Vec2{X: *args.X, Y: *args.Y})
	s.log.LogTool("pointer_move", nil)
	if p == nil {
		return textResult("No point within pick radius."), nil
	}
	return textResult(fmt.Sprintf("%s (ID: %s)", s.explorer.Tooltip(), p.ID)), nil
}

func (s *Server) handleRenderView(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return s.reject("render_view", "invalid arguments: %v", err), nil
	}
	cols := clampInt(args.Width, defaultRenderCols, maxRenderCols)
	rows := clampInt(args.Height, defaultRenderRows, maxRenderRows)

	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.renderer.WorldSize()
	canvas := render.NewCanvas(cols, rows, w, h)
	s.renderer.Render(canvas, s.explorer.Scene())

	var sb strings.Builder
	sb.WriteString(canvas.Plain())
	sb.WriteString("\n")
	theme := s.renderer.Theme()
	for _, k := range models.Kinds {
		fmt.Fprintf(&sb, "%c %s  ", theme.Kind(k).Glyph, k.Title())
	}
	v := s.explorer.View()
	fmt.Fprintf(&sb, "\nzoom %.2f  pan %s  filter %s", v.Zoom, models.Vec2{X: v.PanX, Y: v.PanY}, s.explorer.Filter())
	if q := s.explorer.QueryText(); q != "" {
		fmt.Fprintf(&sb, "  query %q", q)
	}
	s.log.LogTool("render_view", nil)
	return textResult(sb.String()), nil
}

func clampInt(v, def, limit int) int {
	if v <= 0 {
		return def
	}
	if v > limit {
		return limit
	}
	return v
}
