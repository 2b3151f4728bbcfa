package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Console prints colored status lines for a human watching a run.
type Console struct {
	w io.Writer
}

// Stderr is the default console.
var Stderr = NewConsole(os.Stderr)

var (
	styleStep    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styleDoc     = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// NewConsole writes to w. A nil writer discards everything.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = io.Discard
	}
	return &Console{w: w}
}

func (c *Console) line(style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(c.w, style.Render(fmt.Sprintf(format, args...)))
}

// Step announces a phase such as a new round.
func (c *Console) Step(format string, args ...any) { c.line(styleStep, format, args...) }

// Info prints a neutral progress message.
func (c *Console) Info(format string, args ...any) { c.line(styleInfo, format, args...) }

// Doc prints retrieved element documentation.
func (c *Console) Doc(format string, args ...any) { c.line(styleDoc, format, args...) }

// Success prints a positive final outcome.
func (c *Console) Success(format string, args ...any) { c.line(styleSuccess, format, args...) }

// Error prints a failure.
func (c *Console) Error(format string, args ...any) { c.line(styleError, format, args...) }
