package agent

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ai-agents-2030/AppAgent/internal/model"
	"github.com/ai-agents-2030/AppAgent/internal/output"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func readLog(t *testing.T, path string) []map[string]any {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(b, &items))
	return items
}

func readErrorRecord(t *testing.T, path string) []output.ErrorRecord {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var recs []output.ErrorRecord
	require.NoError(t, json.Unmarshal(b, &recs))
	return recs
}

func TestRun_TapByTag(t *testing.T) {
	h := newHarness(t, []string{
		"Observation: three buttons\nThought: press the second\nAction: tap(2)\nSummary: I opened the menu.",
		"Action: FINISH",
	}, 5)

	res := h.runner.Run(context.Background())

	require.Equal(t, ExitFinished, res.ExitCode)
	require.Len(t, h.device.calls, 1)
	assert.Equal(t, inputCall{Op: "tap", From: model.Point{X: 25, Y: 25}}, h.device.calls[0])
	assert.Equal(t, 1, res.State.Round)
	assert.True(t, res.State.TaskComplete)

	// The second prompt carries the first round's summary.
	require.Len(t, h.model.prompts, 2)
	assert.Contains(t, h.model.prompts[1], "summarized as follows: I opened the menu.")
	assert.Contains(t, h.model.prompts[0], "summarized as follows: None")

	items := readLog(t, h.ws.LogPath())
	require.Len(t, items, 3)
	assert.Equal(t, []any{"tap", map[string]any{"detail_type": "coordinates", "detail": []any{25.0, 25.0}}}, items[0]["action"])
	assert.Equal(t, "FINISH", items[1]["action"].([]any)[0])
	assert.Equal(t, 1.0, items[2]["total_steps"])
	assert.Equal(t, 1.0, items[2]["finish_signal"])
	assert.Equal(t, 200.0, items[2]["total_prompt_tokens"])
	assert.Equal(t, 20.0, items[2]["total_completion_tokens"])

	assert.FileExists(t, h.ws.OutputDir+"/0.png")
	assert.FileExists(t, h.ws.OutputDir+"/1.png")
	assert.NoFileExists(t, h.ws.ErrorPath())
	assert.FileExists(t, h.ws.Prompts.Path)
	assert.Equal(t, []string{h.ws.Path(h.ws.Capture(1) + "_labeled.png")}, h.model.images[0])
}

func TestRun_FinishFirstRound(t *testing.T) {
	h := newHarness(t, []string{"FINISH"}, 5)

	res := h.runner.Run(context.Background())

	assert.Equal(t, ExitFinished, res.ExitCode)
	assert.Equal(t, 0, res.State.Round)
	assert.Equal(t, PhaseDone, res.State.Phase)
	assert.Equal(t, h.ws.OutputDir, res.OutputDir)
	assert.Empty(t, h.device.calls)
	assert.Empty(t, h.slept)

	items := readLog(t, h.ws.LogPath())
	require.Len(t, items, 2)
	assert.Equal(t, []any{"FINISH", map[string]any{"detail_type": "string", "detail": "Task completed."}}, items[0]["action"])
	assert.Equal(t, 0.0, items[1]["total_steps"])
	assert.Equal(t, 1.0, items[1]["finish_signal"])
}

func TestRun_TagOutOfRange(t *testing.T) {
	h := newHarness(t, []string{"Action: tap(5)"}, 5)

	res := h.runner.Run(context.Background())

	assert.Equal(t, ExitActionFailure, res.ExitCode)
	require.NotNil(t, res.State.Failure)
	assert.Equal(t, CategoryAddressing, res.State.Failure.Category)
	assert.Empty(t, h.device.calls, "resolution must precede dispatch")

	recs := readErrorRecord(t, h.ws.ErrorPath())
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Message, "tap action invalid")

	items := readLog(t, h.ws.LogPath())
	require.Len(t, items, 1)
	assert.Equal(t, 0.0, items[0]["finish_signal"])
}

func TestRun_MaxRounds(t *testing.T) {
	h := newHarness(t, []string{
		"Action: tap(1)", "Action: tap(2)", "Action: tap(3)", "Action: tap(1)",
	}, 3)

	res := h.runner.Run(context.Background())

	assert.Equal(t, ExitMaxRounds, res.ExitCode)
	assert.Equal(t, PhaseMaxRounds, res.State.Phase)
	assert.Equal(t, 3, res.State.Round)
	assert.Len(t, h.model.prompts, 3)
	assert.Len(t, h.device.calls, 3)
	// No sleep after the last round.
	assert.Len(t, h.slept, 2)

	items := readLog(t, h.ws.LogPath())
	require.Len(t, items, 4)
	assert.Equal(t, 3.0, items[3]["total_steps"])
	assert.NoFileExists(t, h.ws.ErrorPath())
}

func TestRun_GridModeLastsOneRound(t *testing.T) {
	h := newHarness(t, []string{
		"Action: grid()\nSummary: asked for the grid",
		`Action: tap(3, "bottom-right")`,
		"Action: tap(1)",
		"FINISH",
	}, 10)

	res := h.runner.Run(context.Background())

	require.Equal(t, ExitFinished, res.ExitCode)
	require.Len(t, h.device.calls, 2)
	// 240x360 lays out as 3 rows x 2 cols of 120px cells.
	assert.Equal(t, model.Point{X: 90, Y: 210}, h.device.calls[0].From)
	assert.Equal(t, model.Point{X: 5, Y: 5}, h.device.calls[1].From)

	assert.Contains(t, h.model.prompts[1], "overlaid by a grid")
	assert.NotContains(t, h.model.prompts[2], "overlaid by a grid")
	assert.Equal(t, []string{h.ws.Path(h.ws.Capture(2) + "_grid.png")}, h.model.images[1])

	items := readLog(t, h.ws.LogPath())
	assert.Equal(t, []any{"grid", map[string]any{"detail_type": "string", "detail": ""}}, items[0]["action"])
	assert.Equal(t, "tap", items[1]["action"].([]any)[0])
}

func TestRun_PerceptionFailure(t *testing.T) {
	h := newHarness(t, nil, 5)
	h.device.shotErr = errors.New("device offline")

	res := h.runner.Run(context.Background())

	assert.Equal(t, ExitInfrastructure, res.ExitCode)
	assert.Equal(t, CategoryPerception, res.State.Failure.Category)
	assert.Empty(t, h.model.prompts)
	assert.FileExists(t, h.ws.LogPath())
}

func TestRun_InvalidSize(t *testing.T) {
	h := newHarness(t, nil, 5)
	h.device.width = 0

	res := h.runner.Run(context.Background())

	assert.Equal(t, ExitInfrastructure, res.ExitCode)
	recs := readErrorRecord(t, h.ws.ErrorPath())
	assert.Contains(t, recs[0].Message, "invalid device size")
}

func TestRun_InferenceFailure(t *testing.T) {
	h := newHarness(t, nil, 5)
	h.model.err = errors.New("503")

	res := h.runner.Run(context.Background())

	assert.Equal(t, ExitInfrastructure, res.ExitCode)
	assert.Equal(t, CategoryInference, res.State.Failure.Category)
}

func TestRun_GrammarFailure(t *testing.T) {
	h := newHarness(t, []string{"Action: wiggle(3)"}, 5)

	res := h.runner.Run(context.Background())

	assert.Equal(t, ExitActionFailure, res.ExitCode)
	assert.Equal(t, CategoryGrammar, res.State.Failure.Category)
}

func TestRun_DispatchFailure(t *testing.T) {
	h := newHarness(t, []string{`Action: text("hello")`}, 5)
	h.device.inputErr = errors.New("input rejected")

	res := h.runner.Run(context.Background())

	assert.Equal(t, ExitActionFailure, res.ExitCode)
	assert.Equal(t, CategoryDispatch, res.State.Failure.Category)
	assert.ErrorContains(t, res.State.Failure, "input rejected")
}

func TestRun_PanicIsUnhandled(t *testing.T) {
	h := newHarness(t, []string{"Action: long_press(1)"}, 5)
	h.device.panicOn = "long_press"

	res := h.runner.Run(context.Background())

	assert.Equal(t, ExitUnexpected, res.ExitCode)
	assert.Equal(t, CategoryUnhandled, res.State.Failure.Category)
	assert.FileExists(t, h.ws.LogPath())
}

func TestRun_CancelledContextIsUnexpected(t *testing.T) {
	h := newHarness(t, nil, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.model.err = context.Canceled

	res := h.runner.Run(ctx)

	assert.Equal(t, ExitUnexpected, res.ExitCode)
}

func TestRun_FirstErrorWins(t *testing.T) {
	h := newHarness(t, []string{"Action: tap(9)"}, 5)
	_, err := output.WriteErrorOnce(h.ws.ErrorPath(), "earlier failure")
	require.NoError(t, err)

	h.runner.Run(context.Background())

	recs := readErrorRecord(t, h.ws.ErrorPath())
	require.Len(t, recs, 1)
	assert.Equal(t, "earlier failure", recs[0].Message)
}

func TestNewRunner_Validation(t *testing.T) {
	h := newHarness(t, nil, 1)
	_, err := NewRunner(Options{MaxRounds: 0}, h.device.provider(), h.model, nil, h.ws, nil, nil)
	assert.Error(t, err)
	_, err = NewRunner(Options{MaxRounds: 1}, nil, h.model, nil, h.ws, nil, nil)
	assert.Error(t, err)
	_, err = NewRunner(Options{MaxRounds: 1}, h.device.provider(), nil, nil, h.ws, nil, nil)
	assert.Error(t, err)
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, 0), context.Canceled)
	assert.NoError(t, sleepContext(context.Background(), 0))
}
