package agent

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ai-agents-2030/AppAgent/internal/llm"
	"github.com/ai-agents-2030/AppAgent/internal/model"
	"github.com/ai-agents-2030/AppAgent/internal/platform"
)

type inputCall struct {
	Op   string
	From model.Point
	To   model.Point
	Text string
	Dir  model.Direction
	Dist model.Distance
}

// fakeDevice serves a fixed screen and records every input.
type fakeDevice struct {
	width, height int
	nodes         []model.Node

	shotErr  error
	treeErr  error
	sizeErr  error
	inputErr error
	panicOn  string

	calls []inputCall
}

func (d *fakeDevice) Screenshot(_ context.Context, name, dir string) (string, error) {
	if d.shotErr != nil {
		return "", d.shotErr
	}
	path := filepath.Join(dir, name+".png")
	img := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			img.Set(x, y, color.White)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return path, png.Encode(f, img)
}

func (d *fakeDevice) ReadTree(context.Context, string, string) (platform.Tree, error) {
	if d.treeErr != nil {
		return platform.Tree{}, d.treeErr
	}
	return platform.Tree{Nodes: d.nodes}, nil
}

func (d *fakeDevice) Size(context.Context) (int, int, error) {
	return d.width, d.height, d.sizeErr
}

func (d *fakeDevice) input(c inputCall) error {
	if d.panicOn == c.Op {
		panic("driver exploded")
	}
	if d.inputErr != nil {
		return d.inputErr
	}
	d.calls = append(d.calls, c)
	return nil
}

func (d *fakeDevice) Tap(_ context.Context, p model.Point) error {
	return d.input(inputCall{Op: "tap", From: p})
}

func (d *fakeDevice) LongPress(_ context.Context, p model.Point) error {
	return d.input(inputCall{Op: "long_press", From: p})
}

func (d *fakeDevice) Text(_ context.Context, v string, _ platform.TextMode) error {
	return d.input(inputCall{Op: "text", Text: v})
}

func (d *fakeDevice) Swipe(_ context.Context, p model.Point, dir model.Direction, dist model.Distance) error {
	return d.input(inputCall{Op: "swipe", From: p, Dir: dir, Dist: dist})
}

func (d *fakeDevice) SwipePrecise(_ context.Context, from, to model.Point) error {
	return d.input(inputCall{Op: "swipe_precise", From: from, To: to})
}

func (d *fakeDevice) provider() *platform.Provider {
	return &platform.Provider{Screenshotter: d, TreeReader: d, Inputter: d, Screen: d}
}

// scriptedModel replays replies in order and records every prompt.
type scriptedModel struct {
	replies []string
	err     error
	prompts []string
	images  [][]string
}

func (m *scriptedModel) Infer(_ context.Context, prompt string, images []string) (llm.Reply, error) {
	m.prompts = append(m.prompts, prompt)
	m.images = append(m.images, images)
	if m.err != nil {
		return llm.Reply{}, m.err
	}
	if len(m.prompts) > len(m.replies) {
		return llm.Reply{}, fmt.Errorf("no scripted reply for call %d", len(m.prompts))
	}
	return llm.Reply{Text: m.replies[len(m.prompts)-1], PromptTokens: 100, CompletionTokens: 10}, nil
}

// threeButtons is a tree whose catalog holds three clickable elements.
func threeButtons() []model.Node {
	return []model.Node{{
		Class: "android.widget.FrameLayout",
		BBox:  model.BBox{{X: 0, Y: 0}, {X: 240, Y: 360}},
		Children: []model.Node{
			{Index: 0, ResourceID: "a", Clickable: true, BBox: model.BBox{{X: 0, Y: 0}, {X: 10, Y: 10}}},
			{Index: 1, ResourceID: "b", Clickable: true, BBox: model.BBox{{X: 20, Y: 20}, {X: 30, Y: 30}}},
			{Index: 2, ResourceID: "c", Clickable: true, BBox: model.BBox{{X: 40, Y: 40}, {X: 50, Y: 50}}},
		},
	}}
}

type harness struct {
	device *fakeDevice
	model  *scriptedModel
	ws     *Workspace
	runner *Runner
	slept  []time.Duration
}

func newHarness(t *testing.T, replies []string, maxRounds int) *harness {
	t.Helper()
	h := &harness{
		device: &fakeDevice{width: 240, height: 360, nodes: threeButtons()},
		model:  &scriptedModel{replies: replies},
	}
	root := t.TempDir()
	ws, err := NewWorkspace(root, "Demo App", "emulator-5554", filepath.Join(root, "out"), time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	h.ws = ws
	h.build(t, maxRounds)
	return h
}

func (h *harness) build(t *testing.T, maxRounds int) {
	t.Helper()
	r, err := NewRunner(Options{
		Task:            "open the settings",
		MaxRounds:       maxRounds,
		MinDist:         30,
		RequestInterval: time.Second,
	}, h.device.provider(), h.model, nil, h.ws, nil, nil)
	require.NoError(t, err)
	r.sleep = func(_ context.Context, d time.Duration) error {
		h.slept = append(h.slept, d)
		return nil
	}
	h.runner = r
}
