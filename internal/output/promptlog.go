package output

import (
	"encoding/json"
	"fmt"
	"os"
)

// PromptEntry is one line of the per-task prompt log.
type PromptEntry struct {
	Step     int    `json:"step"`
	Prompt   string `json:"prompt"`
	Image    string `json:"image"`
	Response string `json:"response"`
}

// PromptLog appends JSON lines to a file.
type PromptLog struct {
	Path string
}

// Append writes e as one JSON line.
func (l PromptLog) Append(e PromptEntry) error {
	f, err := os.OpenFile(l.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open prompt log: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(e); err != nil {
		return fmt.Errorf("append prompt log: %w", err)
	}
	return nil
}
