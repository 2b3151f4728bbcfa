package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ai-agents-2030/AppAgent/internal/model"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Stdout is where Print writes. Tests replace it.
var Stdout io.Writer = os.Stdout

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q (expected yaml or json)", s)
	}
}

// CatalogEntry is one addressable element as shown by the `read` command.
type CatalogEntry struct {
	Tag       int         `yaml:"tag"                 json:"tag"`
	UID       string      `yaml:"uid"                 json:"uid"`
	BBox      model.BBox  `yaml:"bbox,flow"           json:"bbox"`
	Center    model.Point `yaml:"center,flow"         json:"center"`
	Clickable bool        `yaml:"clickable,omitempty" json:"clickable,omitempty"`
	Focusable bool        `yaml:"focusable,omitempty" json:"focusable,omitempty"`
}

// ReadResult is the top-level output of the `read` command.
type ReadResult struct {
	Device   string         `yaml:"device,omitempty" json:"device,omitempty"`
	Width    int            `yaml:"width"            json:"width"`
	Height   int            `yaml:"height"           json:"height"`
	TS       int64          `yaml:"ts"               json:"ts"`
	Elements []CatalogEntry `yaml:"elements"         json:"elements"`
}

// NewReadResult tags every catalog element with its 1-based position.
func NewReadResult(device string, width, height int, c model.Catalog) ReadResult {
	res := ReadResult{
		Device:   device,
		Width:    width,
		Height:   height,
		TS:       time.Now().Unix(),
		Elements: make([]CatalogEntry, 0, len(c)),
	}
	for i, el := range c {
		res.Elements = append(res.Elements, CatalogEntry{
			Tag:       i + 1,
			UID:       el.UID,
			BBox:      el.BBox,
			Center:    el.Center(),
			Clickable: el.Clickable,
			Focusable: el.Focusable,
		})
	}
	return res
}

// Print serializes v to Stdout in the current output format.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return PrintJSON(Stdout, v, PrettyOutput)
	case FormatYAML:
		return PrintYAML(Stdout, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}
