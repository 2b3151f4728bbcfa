package agent

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/ai-agents-2030/AppAgent/internal/docs"
	"github.com/ai-agents-2030/AppAgent/internal/model"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var (
	taskTemplate     = template.Must(template.ParseFS(promptFS, "prompts/task.tmpl")).Lookup("task.tmpl")
	taskGridTemplate = template.Must(template.ParseFS(promptFS, "prompts/task_grid.tmpl")).Lookup("task_grid.tmpl")
)

// PromptData fills the task templates.
type PromptData struct {
	Task       string
	LastAction string
	// Docs is the documentation block; index mode only.
	Docs string
}

// BuildPrompt renders the grid or index template.
func BuildPrompt(grid bool, data PromptData) (string, error) {
	tmpl := taskTemplate
	if grid {
		tmpl = taskGridTemplate
		data.Docs = ""
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}

// DocBlock describes every catalog element that has a documentation record.
// It returns "" when none has one.
func DocBlock(src docs.Source, c model.Catalog) string {
	if src == nil {
		return ""
	}
	var b strings.Builder
	for i, el := range c {
		rec, ok := src.Lookup(el.UID)
		if !ok {
			continue
		}
		b.WriteString(docs.Render(i+1, *rec))
	}
	if b.Len() == 0 {
		return ""
	}
	return docs.Preamble + "\n" + b.String()
}
