package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ai-agents-2030/AppAgent/internal/address"
	"github.com/ai-agents-2030/AppAgent/internal/model"
	"github.com/ai-agents-2030/AppAgent/internal/output"
)

// toolResult is the YAML body of a tool response.
type toolResult struct {
	OK     bool         `yaml:"ok"`
	Action string       `yaml:"action"`
	Point  *model.Point `yaml:"point,omitempty,flow"`
	Tag    int          `yaml:"tag,omitempty"`
	Error  string       `yaml:"error,omitempty"`
}

func yamlText(v any) *mcp.CallToolResult {
	b, err := yaml.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err))
	}
	return mcp.NewToolResultText(string(b))
}

func yamlError(v any) *mcp.CallToolResult {
	res := yamlText(v)
	res.IsError = true
	return res
}

func (s *Server) handleRunTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	task, err := requireString(params, "task")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	req := TaskRequest{
		Task:      task,
		App:       stringParam(params, "app", ""),
		OutputDir: stringParam(params, "output_dir", ""),
		MaxRounds: intParam(params, "max_rounds", 0),
	}
	if s.runTask == nil {
		return mcp.NewToolResultError("task runner not configured"), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()
	defer s.cache.Invalidate()

	s.logger.Info("run_task", zap.String("task", req.Task), zap.String("app", req.App))
	res, err := s.runTask(ctx, req)
	if err != nil {
		res.Error = err.Error()
		return yamlError(res), nil
	}
	if res.ExitCode != 0 {
		return yamlError(res), nil
	}
	return yamlText(res), nil
}

func (s *Server) handleReadCatalog(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	snap, err := s.cache.Snapshot(ctx, s.provider)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return yamlText(output.NewReadResult("", snap.Width, snap.Height, snap.Catalog)), nil
}

type gridPointResult struct {
	Area    int             `yaml:"area"`
	Subarea address.Subarea `yaml:"subarea"`
	Rows    int             `yaml:"rows"`
	Cols    int             `yaml:"cols"`
	Point   model.Point     `yaml:"point,flow"`
}

func (s *Server) handleGridPoint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	area, err := requireInt(params, "area")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sub := address.ParseSubarea(stringParam(params, "subarea", string(address.Center)))

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	if s.provider.Screen == nil {
		return mcp.NewToolResultError("screen size not available for this device"), nil
	}
	w, h, err := s.provider.Screen.Size(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rows, cols := address.Layout(w, h)
	g := address.Grid{Rows: rows, Cols: cols, Width: w, Height: h}
	p, err := g.Resolve(area, sub)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return yamlText(gridPointResult{Area: area, Subarea: sub, Rows: rows, Cols: cols, Point: p}), nil
}

func (s *Server) handleTap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	tag := intParam(params, "tag", 0)
	x := intParam(params, "x", -1)
	y := intParam(params, "y", -1)
	result := toolResult{Action: "tap", Tag: tag}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	if s.provider.Inputter == nil {
		return mcp.NewToolResultError("input not available for this device"), nil
	}

	var p model.Point
	switch {
	case tag > 0:
		snap, err := s.cache.Snapshot(ctx, s.provider)
		if err != nil {
			result.Error = err.Error()
			return yamlError(result), nil
		}
		p, err = address.Index(snap.Catalog, tag)
		if err != nil {
			result.Error = err.Error()
			return yamlError(result), nil
		}
	case x >= 0 && y >= 0:
		p = model.Point{X: x, Y: y}
	default:
		result.Error = "specify tag, or x and y"
		return yamlError(result), nil
	}

	result.Point = &p
	if err := s.provider.Inputter.Tap(ctx, p); err != nil {
		result.Error = err.Error()
		return yamlError(result), nil
	}
	s.cache.Invalidate()
	result.OK = true
	return yamlText(result), nil
}
