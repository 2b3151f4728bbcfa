package android

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-agents-2030/AppAgent/internal/model"
	"github.com/ai-agents-2030/AppAgent/internal/platform"
)

const sampleDump = `<?xml version='1.0' encoding='UTF-8' standalone='yes' ?>
<hierarchy rotation="0">
  <node index="0" text="" resource-id="" class="android.widget.FrameLayout" content-desc="" clickable="false" focusable="false" bounds="[0,0][1080,2400]">
    <node index="0" text="Search" resource-id="com.example:id/search" class="android.widget.EditText" content-desc="" clickable="true" focusable="true" bounds="[40,100][1040,220]" />
    <node index="1" text="" resource-id="" class="android.widget.Button" content-desc="Send" clickable="true" focusable="false" bounds="[900,2200][1060,2360]" />
  </node>
</hierarchy>`

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls   []call
	outputs map[string]string
	err     error
	onCall  func(args []string)
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if f.onCall != nil {
		f.onCall(args)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.outputs[strings.Join(args, " ")], nil
}

func (f *fakeRunner) last() []string {
	return f.calls[len(f.calls)-1].args
}

func newTestDevice(t *testing.T, opts platform.Options, f *fakeRunner) *Device {
	t.Helper()
	d, err := New(opts, f.run, nil)
	require.NoError(t, err)
	return d
}

func TestParseBounds(t *testing.T) {
	b, err := ParseBounds("[10,20][110,220]")
	require.NoError(t, err)
	assert.Equal(t, model.BBox{{X: 10, Y: 20}, {X: 110, Y: 220}}, b)

	_, err = ParseBounds("10,20,110,220")
	assert.Error(t, err)
}

func TestParseHierarchy(t *testing.T) {
	nodes, err := ParseHierarchy([]byte(sampleDump))
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	root := nodes[0]
	assert.Equal(t, "android.widget.FrameLayout", root.Class)
	require.Len(t, root.Children, 2)

	search := root.Children[0]
	assert.Equal(t, "com.example:id/search", search.ResourceID)
	assert.Equal(t, "Search", search.Text)
	assert.True(t, search.Clickable)
	assert.True(t, search.Focusable)
	assert.Equal(t, model.Point{X: 540, Y: 160}, search.BBox.Center())

	send := root.Children[1]
	assert.Equal(t, 1, send.Index)
	assert.Equal(t, "Send", send.ContentDesc)
	assert.False(t, send.Focusable)

	catalog := model.BuildCatalog(nodes, 30)
	assert.Len(t, catalog, 2)
}

func TestParseHierarchy_Invalid(t *testing.T) {
	_, err := ParseHierarchy([]byte("<hierarchy><node bounds=\"oops\"/></hierarchy>"))
	assert.Error(t, err)

	_, err = ParseHierarchy([]byte(""))
	assert.Error(t, err)
}

func TestParseWMSize(t *testing.T) {
	w, h, err := ParseWMSize("Physical size: 1080x2400\n")
	require.NoError(t, err)
	assert.Equal(t, 1080, w)
	assert.Equal(t, 2400, h)

	w, h, err = ParseWMSize("Physical size: 1440x3120\nOverride size: 1080x2340\n")
	require.NoError(t, err)
	assert.Equal(t, 1080, w)
	assert.Equal(t, 2340, h)

	_, _, err = ParseWMSize("")
	assert.Error(t, err)
}

func TestSize_Override(t *testing.T) {
	f := &fakeRunner{}
	d := newTestDevice(t, platform.Options{Width: 720, Height: 1600}, f)
	w, h, err := d.Size(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 720, w)
	assert.Equal(t, 1600, h)
	assert.Empty(t, f.calls)
}

func TestSize_QueriedOnce(t *testing.T) {
	f := &fakeRunner{outputs: map[string]string{"shell wm size": "Physical size: 1080x2400"}}
	d := newTestDevice(t, platform.Options{}, f)
	for i := 0; i < 2; i++ {
		w, _, err := d.Size(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1080, w)
	}
	assert.Len(t, f.calls, 1)
}

func TestSize_RetriedAfterFailure(t *testing.T) {
	f := &fakeRunner{
		outputs: map[string]string{"shell wm size": "Physical size: 1080x2400"},
		err:     errors.New("device offline"),
	}
	d := newTestDevice(t, platform.Options{}, f)

	_, _, err := d.Size(context.Background())
	require.Error(t, err)

	f.err = nil
	w, h, err := d.Size(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1080, w)
	assert.Equal(t, 2400, h)

	_, _, err = d.Size(context.Background())
	require.NoError(t, err)
	assert.Len(t, f.calls, 2)
}

func TestSize_UnparsableOutputNotCached(t *testing.T) {
	f := &fakeRunner{outputs: map[string]string{"shell wm size": "garbage"}}
	d := newTestDevice(t, platform.Options{}, f)

	_, _, err := d.Size(context.Background())
	require.Error(t, err)

	f.outputs["shell wm size"] = "Physical size: 720x1280"
	w, _, err := d.Size(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 720, w)
}

func TestCommandPrefixAndSerial(t *testing.T) {
	f := &fakeRunner{}
	d := newTestDevice(t, platform.Options{Command: "/opt/sdk/adb -H 'remote host'", Serial: "emulator-5554"}, f)
	require.NoError(t, d.Tap(context.Background(), model.Point{X: 1, Y: 2}))

	require.Len(t, f.calls, 1)
	assert.Equal(t, "/opt/sdk/adb", f.calls[0].name)
	assert.Equal(t, []string{"-H", "remote host", "-s", "emulator-5554", "shell", "input", "tap", "1", "2"}, f.calls[0].args)
}

func TestInputCommands(t *testing.T) {
	ctx := context.Background()
	f := &fakeRunner{outputs: map[string]string{"shell wm size": "Physical size: 1000x2000"}}
	d := newTestDevice(t, platform.Options{}, f)

	require.NoError(t, d.LongPress(ctx, model.Point{X: 5, Y: 6}))
	assert.Equal(t, []string{"shell", "input", "swipe", "5", "6", "5", "6", "1000"}, f.last())

	require.NoError(t, d.SwipePrecise(ctx, model.Point{X: 1, Y: 2}, model.Point{X: 3, Y: 4}))
	assert.Equal(t, []string{"shell", "input", "swipe", "1", "2", "3", "4", "400"}, f.last())

	require.NoError(t, d.Swipe(ctx, model.Point{X: 500, Y: 1000}, model.DirUp, model.DistMedium))
	assert.Equal(t, []string{"shell", "input", "swipe", "500", "1000", "500", "600", "400"}, f.last())

	require.NoError(t, d.Text(ctx, "hello world", platform.TextASCII))
	assert.Equal(t, []string{"shell", "input", "text", "hello%sworld"}, f.last())

	require.NoError(t, d.Text(ctx, "你好", platform.TextUnicode))
	assert.Equal(t, []string{"shell", "am", "broadcast", "-a", "ADB_INPUT_TEXT", "--es", "msg", "'你好'"}, f.last())
}

func TestSwipeVector(t *testing.T) {
	tests := []struct {
		dir    model.Direction
		dist   model.Distance
		dx, dy int
	}{
		{model.DirUp, model.DistShort, 0, -200},
		{model.DirDown, model.DistLong, 0, 600},
		{model.DirLeft, model.DistMedium, -200, 0},
		{model.DirRight, model.DistShort, 100, 0},
	}
	for _, tt := range tests {
		dx, dy := SwipeVector(1000, tt.dir, tt.dist)
		assert.Equal(t, tt.dx, dx, "%s/%s", tt.dir, tt.dist)
		assert.Equal(t, tt.dy, dy, "%s/%s", tt.dir, tt.dist)
	}
}

func TestEscapeInputText(t *testing.T) {
	assert.Equal(t, "its%sfine", EscapeInputText("it's fine"))
	assert.Equal(t, `a\&b\;c`, EscapeInputText("a&b;c"))
	assert.Equal(t, `\(x\)`, EscapeInputText("(x)"))
}

func TestErrorOutput(t *testing.T) {
	f := &fakeRunner{outputs: map[string]string{
		"shell input tap 1 1": "error: device offline",
	}}
	d := newTestDevice(t, platform.Options{}, f)
	err := d.Tap(context.Background(), model.Point{X: 1, Y: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device offline")

	f.err = errors.New("exit 1")
	assert.Error(t, d.Tap(context.Background(), model.Point{X: 2, Y: 2}))
}

func TestScreenshotAndReadTree(t *testing.T) {
	dir := t.TempDir()
	f := &fakeRunner{}
	f.onCall = func(args []string) {
		if len(args) == 3 && args[0] == "pull" && strings.HasSuffix(args[2], ".xml") {
			_ = os.WriteFile(args[2], []byte(sampleDump), 0o644)
		}
	}
	d := newTestDevice(t, platform.Options{RemoteScreenDir: "/data/local/tmp"}, f)
	ctx := context.Background()

	shot, err := d.Screenshot(ctx, "1", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1.png"), shot)
	assert.Equal(t, []string{"shell", "screencap", "-p", "/data/local/tmp/1.png"}, f.calls[0].args)
	assert.Equal(t, []string{"pull", "/data/local/tmp/1.png", shot}, f.calls[1].args)

	tree, err := d.ReadTree(ctx, "1", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1.xml"), tree.Path)
	assert.Equal(t, []string{"shell", "uiautomator", "dump", "/sdcard/1.xml"}, f.calls[2].args)
	require.Len(t, tree.Nodes, 1)
}

func TestDevices(t *testing.T) {
	f := &fakeRunner{outputs: map[string]string{
		"devices": "List of devices attached\nemulator-5554\tdevice\n192.168.1.5:5555\toffline\n\n",
	}}
	d := newTestDevice(t, platform.Options{Serial: "ignored"}, f)
	devices, err := d.Devices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []platform.Device{
		{Serial: "emulator-5554", State: "device"},
		{Serial: "192.168.1.5:5555", State: "offline"},
	}, devices)
	assert.Equal(t, []string{"devices"}, f.last())
}

func TestNewProviderRegistered(t *testing.T) {
	p, err := platform.NewProvider(platform.Options{Serial: "x"})
	require.NoError(t, err)
	assert.NotNil(t, p.Inputter)
	assert.NotNil(t, p.Screen)
}
