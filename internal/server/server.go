// Package server exposes the agent and its addressing primitives as MCP tools.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ai-agents-2030/AppAgent/internal/platform"
)

// TaskRequest asks for one full agent run.
type TaskRequest struct {
	Task      string
	App       string
	OutputDir string
	MaxRounds int
}

// TaskResult reports how a run ended.
type TaskResult struct {
	ExitCode  int    `yaml:"exit_code"`
	Rounds    int    `yaml:"rounds"`
	Finished  bool   `yaml:"finished"`
	OutputDir string `yaml:"output_dir"`
	Error     string `yaml:"error,omitempty"`
}

// TaskFunc runs a task to completion.
type TaskFunc func(ctx context.Context, req TaskRequest) (TaskResult, error)

// Config holds MCP server configuration.
type Config struct {
	Name     string
	Version  string
	MinDist  float64
	CacheTTL time.Duration
	// WorkDir receives hierarchy dumps made by read_catalog and tap.
	WorkDir string
}

// Server wraps the MCP server with the device provider and the catalog cache.
// Tools run one at a time.
type Server struct {
	cfg        Config
	provider   *platform.Provider
	runTask    TaskFunc
	cache      *CatalogCache
	providerMu sync.Mutex
	mcp        *mcpserver.MCPServer
	logger     *zap.Logger
}

// New creates a server with every tool registered.
func New(cfg Config, provider *platform.Provider, runTask TaskFunc, logger *zap.Logger) *Server {
	if cfg.Name == "" {
		cfg.Name = "appagent"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		provider: provider,
		runTask:  runTask,
		cache:    NewCatalogCache(cfg.CacheTTL, cfg.MinDist, cfg.WorkDir),
		logger:   logger.Named("server"),
	}
	s.mcp = mcpserver.NewMCPServer(cfg.Name, cfg.Version)
	s.registerTools()
	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Serve starts the configured transport and blocks.
func (s *Server) Serve(transport string, port int) error {
	s.logger.Info("serving", zap.String("transport", transport), zap.Int("port", port))
	switch transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		return mcpserver.NewStreamableHTTPServer(s.mcp).Start(fmt.Sprintf(":%d", port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("run_task",
			mcp.WithDescription("Run the agent on the device until the task finishes, fails or reaches the round limit. Returns the exit code and round count."),
			mcp.WithString("task", mcp.Description("Natural-language task description"), mcp.Required()),
			mcp.WithString("app", mcp.Description("App name; selects the documentation base")),
			mcp.WithString("output_dir", mcp.Description("Directory for log.json, error.json and screenshots")),
			mcp.WithNumber("max_rounds", mcp.Description("Round limit (default: configured max_rounds)")),
		),
		s.handleRunTask,
	)

	s.mcp.AddTool(
		mcp.NewTool("read_catalog",
			mcp.WithDescription("List the addressable UI elements on the current screen with their numeric tags, bounding boxes and centers"),
		),
		s.handleReadCatalog,
	)

	s.mcp.AddTool(
		mcp.NewTool("grid_point",
			mcp.WithDescription("Convert a grid area and subarea to screen pixels using the grid laid out for this device"),
			mcp.WithNumber("area", mcp.Description("1-based grid area, row-major"), mcp.Required()),
			mcp.WithString("subarea", mcp.Description("center, top-left, top, top-right, left, right, bottom-left, bottom, bottom-right (default: center)")),
		),
		s.handleGridPoint,
	)

	s.mcp.AddTool(
		mcp.NewTool("tap",
			mcp.WithDescription("Tap an element by numeric tag from read_catalog, or a pixel coordinate"),
			mcp.WithNumber("tag", mcp.Description("Numeric tag of the element")),
			mcp.WithNumber("x", mcp.Description("Tap at X coordinate")),
			mcp.WithNumber("y", mcp.Description("Tap at Y coordinate")),
		),
		s.handleTap,
	)
}
