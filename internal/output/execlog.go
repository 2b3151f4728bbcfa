package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ai-agents-2030/AppAgent/internal/model"
)

// Detail types used in the execution log.
const (
	DetailCoordinates = "coordinates"
	DetailString      = "string"
)

// Detail describes what an executed action did.
type Detail struct {
	Type  string `json:"detail_type"`
	Value any    `json:"detail"`
}

// CoordinatesDetail records the pixel an action landed on as [x, y].
func CoordinatesDetail(p model.Point) Detail {
	return Detail{Type: DetailCoordinates, Value: []int{p.X, p.Y}}
}

// StringDetail records a free-form description.
func StringDetail(format string, args ...any) Detail {
	return Detail{Type: DetailString, Value: fmt.Sprintf(format, args...)}
}

// ActionEntry is encoded as the two-element array [name, detail].
type ActionEntry struct {
	Name   string
	Detail Detail
}

func (a ActionEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{a.Name, a.Detail})
}

func (a *ActionEntry) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("action entry: expected 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &a.Name); err != nil {
		return fmt.Errorf("action entry name: %w", err)
	}
	return json.Unmarshal(raw[1], &a.Detail)
}

// RoundRecord is the execution-log entry for one completed round.
type RoundRecord struct {
	Step             int         `json:"step"`
	Response         string      `json:"response"`
	PromptTokens     int         `json:"prompt_tokens"`
	CompletionTokens int         `json:"completion_tokens"`
	Action           ActionEntry `json:"action"`
}

// Summary closes the execution log.
type Summary struct {
	TotalSteps            int     `json:"total_steps"`
	FinishSignal          int     `json:"finish_signal"`
	ElapsedTimeInitial    float64 `json:"elapsed_time_initial"`
	ElapsedTimeExec       float64 `json:"elapsed_time_exec"`
	TotalPromptTokens     int     `json:"total_prompt_tokens"`
	TotalCompletionTokens int     `json:"total_completion_tokens"`
}

// ExecLog is the append-only list of round records plus a trailing summary.
type ExecLog struct {
	Rounds  []RoundRecord
	Summary *Summary
}

// Append adds a round record. Records are never modified once appended.
func (l *ExecLog) Append(r RoundRecord) {
	l.Rounds = append(l.Rounds, r)
}

// MarshalJSON encodes the log as a single array: every round record
// followed by the summary object when present.
func (l ExecLog) MarshalJSON() ([]byte, error) {
	items := make([]any, 0, len(l.Rounds)+1)
	for _, r := range l.Rounds {
		items = append(items, r)
	}
	if l.Summary != nil {
		items = append(items, l.Summary)
	}
	return marshalNoEscape(items)
}

// WriteLog writes the execution log to path, replacing any previous file.
func WriteLog(path string, l *ExecLog) error {
	b, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode execution log: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write execution log: %w", err)
	}
	return nil
}

// ErrorRecord is one entry of error.json.
type ErrorRecord struct {
	Message string `json:"error_message"`
}

// WriteErrorOnce creates path holding [{"error_message": msg}]. If the file
// already exists it is left untouched and written reports false.
func WriteErrorOnce(path, msg string) (written bool, err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create error record: %w", err)
	}
	defer f.Close()

	b, err := marshalNoEscape([]ErrorRecord{{Message: msg}})
	if err != nil {
		return false, err
	}
	if _, err := f.Write(b); err != nil {
		return false, fmt.Errorf("write error record: %w", err)
	}
	return true, nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
