package agent

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ai-agents-2030/AppAgent/internal/output"
)

const appNameLimit = 10

// SanitizeApp strips characters that are unsafe in directory names and
// truncates the result.
func SanitizeApp(app string) string {
	app = strings.Map(func(r rune) rune {
		if strings.ContainsRune(" [],'\"", r) {
			return -1
		}
		return r
	}, app)
	if r := []rune(app); len(r) > appNameLimit {
		app = string(r[:appNameLimit])
	}
	return app
}

// TaskDirName names a task directory after the app, start time and device.
func TaskDirName(app string, start time.Time, device string) string {
	return fmt.Sprintf("task_%s_%s_%s", app, start.Format("2006-01-02_15-04-05"), strings.ReplaceAll(device, ":", ""))
}

// Workspace holds the files of one task run.
type Workspace struct {
	// ID identifies the run in logs.
	ID string
	// Name is the task directory's base name and the prefix of every capture.
	Name string
	// Dir holds captures, annotated images and the prompt log.
	Dir string
	// OutputDir receives log.json, error.json and the raw screenshots.
	OutputDir string
	Prompts   output.PromptLog
}

// NewWorkspace creates <root>/tasks/<task dir> and the output directory.
func NewWorkspace(root, app, device, outputDir string, start time.Time) (*Workspace, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	app = SanitizeApp(app)
	name := TaskDirName(app, start, device)
	dir := filepath.Join(root, "tasks", name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create task directory: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Workspace{
		ID:        uuid.NewString(),
		Name:      name,
		Dir:       dir,
		OutputDir: outputDir,
		Prompts:   output.PromptLog{Path: filepath.Join(dir, fmt.Sprintf("log_%s_%s.txt", app, name))},
	}, nil
}

// Capture returns the capture name for a 1-based round.
func (w *Workspace) Capture(round int) string {
	return fmt.Sprintf("%s_%d", w.Name, round)
}

// Path joins name onto the task directory.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// LogPath is the execution log location.
func (w *Workspace) LogPath() string { return filepath.Join(w.OutputDir, "log.json") }

// ErrorPath is the error record location.
func (w *Workspace) ErrorPath() string { return filepath.Join(w.OutputDir, "error.json") }

// CopyScreenshot copies the raw screenshot of a 1-based round to the output
// directory under its zero-based index.
func (w *Workspace) CopyScreenshot(src string, round int) error {
	dst := filepath.Join(w.OutputDir, fmt.Sprintf("%d.png", round-1))
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy screenshot: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("copy screenshot: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy screenshot: %w", err)
	}
	return out.Close()
}
