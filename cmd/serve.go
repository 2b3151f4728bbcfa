package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ai-agents-2030/AppAgent/internal/observability"
	"github.com/ai-agents-2030/AppAgent/internal/output"
	"github.com/ai-agents-2030/AppAgent/internal/server"
	"github.com/ai-agents-2030/AppAgent/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the agent as tools",
	Long: `Start a Model Context Protocol (MCP) server with the tools run_task,
read_catalog, grid_point and tap. Tool calls are executed one at a time.

Supported transports:
  stdio             Standard I/O (default)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  appagent serve
  appagent serve --transport streamable-http --port 8080
  appagent serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 500, "Catalog cache TTL in milliseconds (0 to disable)")
	serveCmd.Flags().String("device", "", "Device serial (default: the only attached device)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")
	serial, _ := cmd.Flags().GetString("device")
	if serial == "" {
		serial = appConfig.Android.Serial
	}

	cfg := appConfig
	logger := observability.GetLogger()
	provider, serial, err := openDevice(cmd.Context(), cfg.Android, serial)
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}

	workDir, err := os.MkdirTemp("", "appagent-serve-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	runTask := func(ctx context.Context, req server.TaskRequest) (server.TaskResult, error) {
		res, err := executeTask(ctx, cfg, provider, taskParams{
			Task:      req.Task,
			App:       req.App,
			OutputDir: req.OutputDir,
			Serial:    serial,
			MaxRounds: req.MaxRounds,
		}, output.Stderr, logger)
		var ee *exitError
		if errors.As(err, &ee) {
			return server.TaskResult{ExitCode: ee.code, OutputDir: res.OutputDir, Error: "task setup failed"}, nil
		}
		if err != nil {
			return server.TaskResult{}, err
		}
		if cfg.Server.RunWait > 0 {
			time.Sleep(cfg.Server.RunWait)
		}
		return server.TaskResult{
			ExitCode:  res.ExitCode,
			Rounds:    res.State.Round,
			Finished:  res.State.TaskComplete,
			OutputDir: res.OutputDir,
		}, nil
	}

	srv := server.New(server.Config{
		Name:     cfg.Server.Name,
		Version:  version.Version,
		MinDist:  cfg.Agent.MinDist,
		CacheTTL: time.Duration(cacheTTLMs) * time.Millisecond,
		WorkDir:  workDir,
	}, provider, runTask, logger)
	return srv.Serve(transport, port)
}
