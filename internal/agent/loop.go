// Package agent runs the perceive, infer and act round loop for one task.
package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/ai-agents-2030/AppAgent/internal/action"
	"github.com/ai-agents-2030/AppAgent/internal/address"
	"github.com/ai-agents-2030/AppAgent/internal/annotate"
	"github.com/ai-agents-2030/AppAgent/internal/docs"
	"github.com/ai-agents-2030/AppAgent/internal/llm"
	"github.com/ai-agents-2030/AppAgent/internal/model"
	"github.com/ai-agents-2030/AppAgent/internal/output"
	"github.com/ai-agents-2030/AppAgent/internal/platform"
)

// Options configures a task run.
type Options struct {
	Task            string
	MaxRounds       int
	MinDist         float64
	RequestInterval time.Duration
	DarkMode        bool
	TextMode        platform.TextMode
	// Started is when setup began; the gap to the first round is reported
	// as elapsed_time_initial.
	Started time.Time
}

// Result is the outcome of Run.
type Result struct {
	State     LoopState
	Log       *output.ExecLog
	ExitCode  int
	OutputDir string
}

// Runner owns a task run: the device, the model, the doc source and the
// workspace files.
type Runner struct {
	opts     Options
	device   *platform.Provider
	model    llm.Client
	docs     docs.Source
	ws       *Workspace
	dispatch Dispatcher
	console  *output.Console
	logger   *zap.Logger

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewRunner wires a Runner. A nil doc source runs in no-doc mode.
func NewRunner(opts Options, device *platform.Provider, client llm.Client, src docs.Source, ws *Workspace, console *output.Console, logger *zap.Logger) (*Runner, error) {
	if device == nil || device.Screenshotter == nil || device.TreeReader == nil || device.Inputter == nil || device.Screen == nil {
		return nil, errors.New("device provider is incomplete")
	}
	if client == nil {
		return nil, errors.New("model client is required")
	}
	if ws == nil {
		return nil, errors.New("workspace is required")
	}
	if opts.MaxRounds < 1 {
		return nil, fmt.Errorf("max rounds must be at least 1, got %d", opts.MaxRounds)
	}
	if src == nil {
		src = docs.None{}
	}
	if console == nil {
		console = output.NewConsole(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Started.IsZero() {
		opts.Started = time.Now()
	}
	return &Runner{
		opts:     opts,
		device:   device,
		model:    client,
		docs:     src,
		ws:       ws,
		dispatch: Dispatcher{Input: device.Inputter, TextMode: opts.TextMode},
		console:  console,
		logger:   logger.Named("agent").With(zap.String("run_id", ws.ID)),
		now:      time.Now,
		sleep:    sleepContext,
	}, nil
}

// Run executes rounds until the model finishes, a round fails or MaxRounds
// rounds have been recorded. The execution log is written however the run
// ends.
func (r *Runner) Run(ctx context.Context) Result {
	execStart := r.now()
	state := NewLoopState()
	execLog := &output.ExecLog{}

	r.logger.Info("task started", zap.String("task", r.opts.Task), zap.Int("max_rounds", r.opts.MaxRounds))

	width, height, err := r.screenSize(ctx)
	if err != nil {
		state = state.fail(&RoundError{Category: CategoryPerception, Err: err})
	} else {
		r.console.Info("Screen resolution: %dx%d", width, height)
		for !state.Phase.Terminal() {
			state = r.safeRound(ctx, state, execLog, width, height)
			if !state.Phase.Terminal() && state.Round >= r.opts.MaxRounds {
				state.Phase = PhaseMaxRounds
			}
		}
	}

	if state.Failure != nil {
		r.reportFailure(state.Failure)
	}

	end := r.now()
	execLog.Summary = &output.Summary{
		TotalSteps:            state.Round,
		FinishSignal:          boolToInt(state.TaskComplete),
		ElapsedTimeInitial:    execStart.Sub(r.opts.Started).Seconds(),
		ElapsedTimeExec:       end.Sub(execStart).Seconds(),
		TotalPromptTokens:     state.PromptTokens,
		TotalCompletionTokens: state.CompletionTokens,
	}
	if err := output.WriteLog(r.ws.LogPath(), execLog); err != nil {
		r.logger.Error("failed to write execution log", zap.Error(err))
	}

	code := state.ExitCode()
	switch code {
	case ExitFinished:
		r.console.Success("Task completed successfully")
	case ExitMaxRounds:
		r.console.Info("Task finished due to reaching max rounds")
	case ExitUnexpected:
		r.console.Error("Task finished unexpectedly")
	}
	r.logger.Info("task ended",
		zap.Stringer("phase", state.Phase),
		zap.Int("rounds", state.Round),
		zap.Int("exit_code", code))
	return Result{State: state, Log: execLog, ExitCode: code, OutputDir: r.ws.OutputDir}
}

func (r *Runner) screenSize(ctx context.Context) (int, int, error) {
	w, h, err := r.device.Screen.Size(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("get device size: %w", err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid device size %dx%d", w, h)
	}
	return w, h, nil
}

// safeRound turns a panic inside a round into an unhandled failure.
func (r *Runner) safeRound(ctx context.Context, s LoopState, execLog *output.ExecLog, width, height int) (next LoopState) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("round panicked", zap.Any("panic", p), zap.ByteString("stack", debug.Stack()))
			next = s.fail(&RoundError{Category: CategoryUnhandled, Round: s.Round + 1, Err: fmt.Errorf("panic: %v", p)})
		}
	}()
	return r.round(ctx, s, execLog, width, height)
}

// round runs one pass through the phases starting from s.
func (r *Runner) round(ctx context.Context, s LoopState, execLog *output.ExecLog, width, height int) LoopState {
	n := s.Round + 1
	fail := func(c Category, err error) LoopState {
		if ctx.Err() != nil {
			c = CategoryUnhandled
		}
		return s.fail(&RoundError{Category: c, Round: n, Err: err})
	}
	r.console.Step("Round %d", n)

	s.Phase = PhasePerceive
	obs, err := r.perceive(ctx, s, n, width, height)
	if err != nil {
		return fail(CategoryPerception, err)
	}

	s.Phase = PhaseBuildPrompt
	data := PromptData{Task: r.opts.Task, LastAction: s.LastAction}
	if !s.GridMode {
		data.Docs = DocBlock(r.docs, obs.Catalog)
		if data.Docs != "" {
			r.console.Doc("Documentations retrieved for the current interface:\n%s", data.Docs)
		}
	}
	prompt, err := BuildPrompt(s.GridMode, data)
	if err != nil {
		return fail(CategoryUnhandled, err)
	}

	s.Phase = PhaseInfer
	r.console.Info("Thinking about what to do in the next step...")
	reply, err := r.model.Infer(ctx, prompt, []string{obs.Image})
	if err != nil {
		return fail(CategoryInference, fmt.Errorf("model response failed: %w", err))
	}
	if err := r.ws.Prompts.Append(output.PromptEntry{Step: n, Prompt: prompt, Image: filepath.Base(obs.Image), Response: reply.Text}); err != nil {
		r.logger.Warn("prompt log append failed", zap.Error(err))
	}

	s.Phase = PhaseParse
	mode := action.ModeIndex
	if s.GridMode {
		mode = action.ModeGrid
	}
	parsed := action.Parse(reply.Text, mode)
	r.logger.Debug("parsed reply", zap.Int("round", n), zap.String("action", parsed.Action.String()))
	switch parsed.Action.Kind {
	case action.KindFinish:
		execLog.Append(output.RoundRecord{
			Step: n, Response: reply.Text,
			PromptTokens: reply.PromptTokens, CompletionTokens: reply.CompletionTokens,
			Action: finishEntry(),
		})
		return s.finish(reply.PromptTokens, reply.CompletionTokens)
	case action.KindError:
		return fail(CategoryGrammar, fmt.Errorf("an exception occurs while parsing the model response: %s", parsed.Action.Reason))
	}

	s.Phase = PhaseResolve
	resolved, err := Resolve(parsed.Action, obs)
	if err != nil {
		return fail(CategoryAddressing, fmt.Errorf("%s action invalid: %w", parsed.Action.Kind, err))
	}

	s.Phase = PhaseDispatch
	if err := r.dispatch.Dispatch(ctx, resolved); err != nil {
		return fail(CategoryDispatch, err)
	}

	s.Phase = PhaseRecord
	execLog.Append(output.RoundRecord{
		Step: n, Response: reply.Text,
		PromptTokens: reply.PromptTokens, CompletionTokens: reply.CompletionTokens,
		Action: resolved.Entry(),
	})
	s = s.record(parsed.Action.Kind, parsed.Summary, reply.PromptTokens, reply.CompletionTokens)
	if s.Round < r.opts.MaxRounds {
		if err := r.sleep(ctx, r.opts.RequestInterval); err != nil {
			return s.fail(&RoundError{Category: CategoryUnhandled, Round: n, Err: err})
		}
	}
	return s
}

// perceive captures the screen and hierarchy and produces the image the
// model will see: labeled elements in index mode, the grid in grid mode.
func (r *Runner) perceive(ctx context.Context, s LoopState, n, width, height int) (Observation, error) {
	name := r.ws.Capture(n)
	shot, err := r.device.Screenshotter.Screenshot(ctx, name, r.ws.Dir)
	if err != nil {
		return Observation{}, fmt.Errorf("screenshot: %w", err)
	}
	if err := r.ws.CopyScreenshot(shot, n); err != nil {
		return Observation{}, err
	}
	tree, err := r.device.TreeReader.ReadTree(ctx, name, r.ws.Dir)
	if err != nil {
		return Observation{}, fmt.Errorf("hierarchy: %w", err)
	}

	obs := Observation{Screenshot: shot, Tree: tree.Nodes}
	rows, cols := address.Layout(width, height)
	obs.Grid = address.Grid{Rows: rows, Cols: cols, Width: width, Height: height}

	if s.GridMode {
		obs.Image = r.ws.Path(name + "_grid.png")
		g, err := annotate.Grid(shot, obs.Image)
		if err != nil {
			return Observation{}, err
		}
		obs.Grid.Rows, obs.Grid.Cols = g.Rows, g.Cols
		return obs, nil
	}

	obs.Catalog = model.BuildCatalog(tree.Nodes, r.opts.MinDist)
	obs.Image = r.ws.Path(name + "_labeled.png")
	if err := annotate.Labels(shot, obs.Image, obs.Catalog, r.opts.DarkMode); err != nil {
		return Observation{}, err
	}
	r.logger.Debug("catalog built", zap.Int("round", n), zap.Int("elements", len(obs.Catalog)))
	return obs, nil
}

// reportFailure writes the first error of the run to the error record.
func (r *Runner) reportFailure(re *RoundError) {
	msg := "ERROR: " + re.Error()
	r.console.Error("%s", msg)
	r.logger.Error("round failed",
		zap.Int("round", re.Round),
		zap.Stringer("category", re.Category),
		zap.Error(re.Err))
	if _, err := output.WriteErrorOnce(r.ws.ErrorPath(), msg); err != nil {
		r.logger.Error("failed to write error record", zap.Error(err))
	}
}

// ReportSetupError records a failure that happened before the loop could
// start and returns its exit code.
func ReportSetupError(outputDir string, category Category, err error, console *output.Console) int {
	re := &RoundError{Category: category, Err: err}
	msg := "ERROR: " + re.Error()
	if console != nil {
		console.Error("%s", msg)
	}
	if outputDir != "" && os.MkdirAll(outputDir, 0o755) == nil {
		_, _ = output.WriteErrorOnce(filepath.Join(outputDir, "error.json"), msg)
	}
	return category.ExitCode()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
