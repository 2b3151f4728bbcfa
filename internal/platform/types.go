package platform

import (
	"fmt"
	"strings"

	"github.com/ai-agents-2030/AppAgent/internal/model"
)

// TextMode selects how text is injected.
type TextMode int

const (
	// TextASCII uses the stock input command; spaces and quotes are escaped.
	TextASCII TextMode = iota
	// TextUnicode routes through an on-device IME broadcast.
	TextUnicode
)

// ParseLang maps a task language to a text mode.
func ParseLang(s string) (TextMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ENG", "EN":
		return TextASCII, nil
	case "CHN", "ZH", "CN":
		return TextUnicode, nil
	default:
		return TextASCII, fmt.Errorf("unknown language: %q (expected ENG or CHN)", s)
	}
}

func (m TextMode) String() string {
	if m == TextUnicode {
		return "unicode"
	}
	return "ascii"
}

// Tree is one hierarchy dump.
type Tree struct {
	Path  string       // local copy of the dump
	Nodes []model.Node // top-level nodes in document order
}

// Device is an attached device as reported by the driver.
type Device struct {
	Serial string `yaml:"serial" json:"serial"`
	State  string `yaml:"state"  json:"state"`
}

// Options configures a device backend.
type Options struct {
	Serial          string // device serial; empty selects the only attached device
	Command         string // driver command prefix, e.g. "adb" or "/opt/sdk/adb -H host"
	RemoteScreenDir string // on-device directory for screenshots
	RemoteXMLDir    string // on-device directory for hierarchy dumps
	Width, Height   int    // override reported size when both are positive
}
