package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ai-agents-2030/AppAgent/internal/agent"
	"github.com/ai-agents-2030/AppAgent/internal/config"
	"github.com/ai-agents-2030/AppAgent/internal/docs"
	"github.com/ai-agents-2030/AppAgent/internal/llm"
	"github.com/ai-agents-2030/AppAgent/internal/output"
	"github.com/ai-agents-2030/AppAgent/internal/platform"
)

// taskParams describes one run requested from the CLI or the MCP server.
type taskParams struct {
	Task      string
	App       string
	OutputDir string
	Serial    string
	MaxRounds int
	Started   time.Time
}

// executeTask builds the run's collaborators and runs the loop. Setup
// failures are recorded in the output directory and returned as an
// *exitError; otherwise the loop's result is returned. Result.OutputDir is
// the resolved output directory either way.
func executeTask(ctx context.Context, cfg *config.Config, provider *platform.Provider, p taskParams, console *output.Console, logger *zap.Logger) (agent.Result, error) {
	if p.Started.IsZero() {
		p.Started = time.Now()
	}
	if p.MaxRounds <= 0 {
		p.MaxRounds = cfg.Agent.MaxRounds
	}
	root := cfg.Agent.RootDir
	if p.OutputDir == "" {
		p.OutputDir = filepath.Join(root, "outputs", p.Started.Format("2006-01-02_15-04-05"))
	}
	setupFailed := func(c agent.Category, err error) (agent.Result, error) {
		return agent.Result{OutputDir: p.OutputDir}, &exitError{code: agent.ReportSetupError(p.OutputDir, c, err, console)}
	}

	mode, err := platform.ParseLang(cfg.Agent.Lang)
	if err != nil {
		return setupFailed(agent.CategoryUnhandled, err)
	}
	ws, err := agent.NewWorkspace(root, p.App, p.Serial, p.OutputDir, p.Started)
	if err != nil {
		return setupFailed(agent.CategoryUnhandled, err)
	}
	client, err := llm.NewClient(cfg.Model, logger)
	if err != nil {
		return setupFailed(agent.CategoryInference, err)
	}

	var src docs.Source = docs.None{}
	app := agent.SanitizeApp(p.App)
	if dir, kind := docs.SelectDir(root, app); kind != docs.KindNone {
		store, err := docs.NewStore(dir, logger)
		if err != nil {
			return setupFailed(agent.CategoryUnhandled, err)
		}
		src = store
		console.Info("Documentations from %s were found for the app %s. The doc base is selected automatically.", kind, app)
	} else {
		console.Info("No documentations found for the app %s; proceeding without docs.", app)
	}

	runner, err := agent.NewRunner(agent.Options{
		Task:            p.Task,
		MaxRounds:       p.MaxRounds,
		MinDist:         cfg.Agent.MinDist,
		RequestInterval: cfg.Agent.RequestInterval,
		DarkMode:        cfg.Agent.DarkMode,
		TextMode:        mode,
		Started:         p.Started,
	}, provider, client, src, ws, console, logger)
	if err != nil {
		return setupFailed(agent.CategoryUnhandled, fmt.Errorf("build runner: %w", err))
	}
	logger.Info("workspace ready", zap.String("task_dir", ws.Dir), zap.String("output_dir", ws.OutputDir))
	return runner.Run(ctx), nil
}
