package agent

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-agents-2030/AppAgent/internal/docs"
	"github.com/ai-agents-2030/AppAgent/internal/model"
)

type mapSource map[string]*docs.Record

func (m mapSource) Lookup(uid string) (*docs.Record, bool) {
	r, ok := m[uid]
	return r, ok
}

func TestBuildPrompt(t *testing.T) {
	p, err := BuildPrompt(false, PromptData{Task: "send a message", LastAction: "None"})
	require.NoError(t, err)
	assert.Contains(t, p, "The task you need to complete is to send a message.")
	assert.Contains(t, p, "summarized as follows: None")
	assert.NotContains(t, p, docs.Preamble)
	assert.Contains(t, p, "tap, long press, or swipe.\nThe task")

	p, err = BuildPrompt(false, PromptData{Task: "t", LastAction: "x", Docs: "DOCS"})
	require.NoError(t, err)
	assert.Contains(t, p, "swipe.\nDOCS\nThe task")

	p, err = BuildPrompt(true, PromptData{Task: "t", LastAction: "x", Docs: "DOCS"})
	require.NoError(t, err)
	assert.Contains(t, p, "overlaid by a grid")
	assert.NotContains(t, p, "DOCS")
}

func TestDocBlock(t *testing.T) {
	catalog := model.BuildCatalog(threeButtons(), 30)
	require.Len(t, catalog, 3)

	assert.Empty(t, DocBlock(nil, catalog))
	assert.Empty(t, DocBlock(docs.None{}, catalog))

	src := mapSource{catalog[1].UID: {Tap: "Opens the menu."}}
	block := DocBlock(src, catalog)
	assert.True(t, strings.HasPrefix(block, docs.Preamble))
	assert.Contains(t, block, "labeled with the numeric tag '2'")
	assert.Contains(t, block, "This UI element is clickable. Opens the menu.")
	assert.NotContains(t, block, "tag '1'")
}

func TestSanitizeApp(t *testing.T) {
	assert.Equal(t, "Gmail", SanitizeApp("Gmail"))
	assert.Equal(t, "GoogleMaps", SanitizeApp("['Google Maps']"))
	assert.Equal(t, "Settingsxx", SanitizeApp("Settings xx yy zz"))
}

func TestTaskDirName(t *testing.T) {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "task_Gmail_2024-01-02_03-04-05_127.0.0.15555", TaskDirName("Gmail", start, "127.0.0.1:5555"))
}

func TestWorkspace(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "results")
	ws, err := NewWorkspace(root, "My App", "emulator-5554", out, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "tasks", "task_MyApp_2024-01-02_03-04-05_emulator-5554"), ws.Dir)
	assert.DirExists(t, ws.Dir)
	assert.DirExists(t, out)
	assert.NotEmpty(t, ws.ID)
	assert.Equal(t, ws.Name+"_3", ws.Capture(3))
	assert.Equal(t, filepath.Join(ws.Dir, "log_MyApp_"+ws.Name+".txt"), ws.Prompts.Path)

	src := ws.Path("shot.png")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0o644))
	require.NoError(t, ws.CopyScreenshot(src, 3))
	b, err := os.ReadFile(filepath.Join(out, "2.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(b))

	_, err = NewWorkspace(root, "x", "d", "", time.Now())
	assert.Error(t, err)
}
