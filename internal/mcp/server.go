// ABOUTME: MCP server initialization and configuration for vectorscope.
// ABOUTME: Exposes the embedding-space explorer as tools for AI agent access.
package mcp

import (
	"context"
	"fmt"
	"sync"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/vectorscope/internal/explorer"
	"github.com/2389-research/vectorscope/internal/logger"
	"github.com/2389-research/vectorscope/internal/render"
)

// Server wraps the MCP server around one explorer controller. Tool calls may
// arrive concurrently, so every handler holds mu while touching the explorer.
type Server struct {
	mcp      *gomcp.Server
	mu       sync.Mutex
	explorer *explorer.Controller
	renderer *render.Renderer
	log      *logger.Logger

	topN          int
	minSimilarity float64
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithRenderer sets the renderer used by render_view.
func WithRenderer(r *render.Renderer) ServerOption {
	return func(s *Server) {
		s.renderer = r
	}
}

// WithLogger sets the logger for tool calls.
func WithLogger(l *logger.Logger) ServerOption {
	return func(s *Server) {
		s.log = l
	}
}

// WithSimilarDefaults sets the result count and threshold used when a
// similar_points call leaves them out.
func WithSimilarDefaults(topN int, minSimilarity float64) ServerOption {
	return func(s *Server) {
		s.topN = topN
		s.minSimilarity = minSimilarity
	}
}

// NewServer creates an MCP server driving the given explorer.
func NewServer(ctrl *explorer.Controller, opts ...ServerOption) (*Server, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("explorer is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "vectorscope",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:      mcpServer,
		explorer: ctrl,
		topN:     explorer.DefaultSimilarLimit,
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = render.NewRenderer(render.DefaultOptions())
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.WithComponent("mcp")

	s.registerViewTools()
	s.registerQueryTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}
