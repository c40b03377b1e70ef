// ABOUTME: MCP tool implementations for query and point listing operations.
// ABOUTME: Registers submit_query, similar_points, and list_points.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/vectorscope/internal/models"
)

func (s *Server) registerQueryTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "submit_query",
		Description: "Project a free-text query into the embedding space. Places the query vector, scores every point by similarity, and returns the closest matches.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"text": {"type": "string", "description": "Query text, e.g. 'neural networks'", "minLength": 1}
			},
			"required": ["text"]
		}`),
	}, s.handleSubmitQuery)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "similar_points",
		Description: "List points ranked by similarity to the active query, highest first.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "number", "description": "Maximum number of results (default 5)"},
				"min_similarity": {"type": "number", "description": "Only return points scoring above this value, between 0 and 1 (default 0)"}
			}
		}`),
	}, s.handleSimilarPoints)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_points",
		Description: "List plotted points with kind, position and similarity, plus per-kind totals.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"filter": {"type": "string", "enum": ["all", "primary-unit", "detail-unit", "aggregate"], "description": "Kind filter (default: the explorer's active filter)"},
				"limit": {"type": "number", "description": "Maximum number of points to list (default 50)"}
			}
		}`),
	}, s.handleListPoints)
}

func (s *Server) handleSubmitQuery(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Text string `json:"text"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return s.reject("submit_query", "invalid arguments: %v", err), nil
	}
	if strings.TrimSpace(args.Text) == "" {
		return s.reject("submit_query", "text is required"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.explorer.SubmitQuery(args.Text) {
		return s.reject("submit_query", "query could not be projected"), nil
	}
	q := s.explorer.Query()
	top := s.explorer.Similar(s.topN, s.minSimilarity)
	s.log.LogTool("submit_query", nil)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Query %q placed at %s (ID: %s)\n", args.Text, q.Position, q.ID)
	writeSimilar(&sb, top, s.explorer.Lookup)
	return textResult(sb.String()), nil
}

func (s *Server) handleSimilarPoints(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Limit         int      `json:"limit"`
		MinSimilarity *float64 `json:"min_similarity"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return s.reject("similar_points", "invalid arguments: %v", err), nil
	}
	if args.Limit <= 0 {
		args.Limit = s.topN
	}
	minSim := s.minSimilarity
	if args.MinSimilarity != nil {
		minSim = *args.MinSimilarity
	}
	if minSim < 0 || minSim > 1 {
		return s.reject("similar_points", "min_similarity must be between 0 and 1"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.explorer.Query() == nil {
		return textResult("No active query. Use submit_query first."), nil
	}
	var sb strings.Builder
	writeSimilar(&sb, s.explorer.Similar(args.Limit, minSim), s.explorer.Lookup)
	s.log.LogTool("similar_points", nil)
	return textResult(sb.String()), nil
}

func (s *Server) handleListPoints(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Filter string `json:"filter"`
		Limit  int    `json:"limit"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return s.reject("list_points", "invalid arguments: %v", err), nil
	}
	if args.Limit <= 0 {
		args.Limit = 50
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filter := s.explorer.Filter()
	if args.Filter != "" {
		f, err := models.ParseFilter(args.Filter)
		if err != nil {
			return s.reject("list_points", "%v", err), nil
		}
		filter = f
	}

	var sb strings.Builder
	counts := s.explorer.Counts()
	for _, k := range models.Kinds {
		fmt.Fprintf(&sb, "%s: %d\n", k.Title(), counts[k])
	}

	points := s.explorer.Points(filter)
	fmt.Fprintf(&sb, "---\n%d points (filter: %s)\n", len(points), filter)
	for i, p := range points {
		if i == args.Limit {
			fmt.Fprintf(&sb, "... %d more\n", len(points)-i)
			break
		}
		fmt.Fprintf(&sb, "%s [%s] %q at %s", p.ID, p.Kind, p.Label, p.Position)
		if p.HasSimilarity {
			fmt.Fprintf(&sb, " similarity %.2f", p.Similarity)
		}
		sb.WriteString("\n")
	}
	s.log.LogTool("list_points", nil)
	return textResult(sb.String()), nil
}

// writeSimilar lists ranked points with their owning document.
func writeSimilar(sb *strings.Builder, points []*models.Point, lookup func(string) (*models.Point, bool)) {
	if len(points) == 0 {
		sb.WriteString("No similar points.\n")
		return
	}
	sb.WriteString("Similar points:\n")
	for i, p := range points {
		fmt.Fprintf(sb, "%d. %.2f %s [%s]", i+1, p.Similarity, p.Label, p.Kind)
		if owner, ok := lookup(p.GroupID); ok {
			fmt.Fprintf(sb, " in %s", owner.Label)
		}
		fmt.Fprintf(sb, " (ID: %s)\n", p.ID)
	}
}

// decodeArgs unmarshals tool arguments, treating a missing body as {}.
func decodeArgs(req *gomcp.CallToolRequest, v interface{}) error {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, v)
}

func textResult(text string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: text}},
	}
}

func (s *Server) reject(tool, format string, args ...interface{}) *gomcp.CallToolResult {
	res := toolError(format, args...)
	s.log.LogTool(tool, fmt.Errorf(format, args...))
	return res
}

func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
