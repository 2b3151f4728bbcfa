// Package docs loads per-element documentation records and renders them
// into prompt text.
package docs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

// Record documents what the interactions on one UI element do. Empty fields
// are omitted from prompts.
type Record struct {
	Tap       string `yaml:"tap,omitempty"        json:"tap,omitempty"`
	Text      string `yaml:"text,omitempty"       json:"text,omitempty"`
	LongPress string `yaml:"long_press,omitempty" json:"long_press,omitempty"`
	VSwipe    string `yaml:"v_swipe,omitempty"    json:"v_swipe,omitempty"`
	HSwipe    string `yaml:"h_swipe,omitempty"    json:"h_swipe,omitempty"`
}

var recordKeys = map[string]bool{
	"tap": true, "text": true, "long_press": true, "v_swipe": true, "h_swipe": true,
}

// Empty reports whether no field carries documentation.
func (r Record) Empty() bool {
	return r == Record{}
}

// Decode parses a record in YAML, JSON or the dict-literal form written by
// older tooling (single-quoted keys and strings). Unknown keys, non-string
// values and records with nothing documented are rejected.
func Decode(data []byte, format string) (Record, error) {
	raw := map[string]any{}
	var err error
	switch format {
	case "yaml":
		err = yaml.Unmarshal(data, &raw)
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		err = dec.Decode(&raw)
	default:
		err = json5.Unmarshal(normalizeLiteral(data), &raw)
	}
	if err != nil {
		return Record{}, fmt.Errorf("decode %s doc: %w", format, err)
	}

	var r Record
	for k, v := range raw {
		if !recordKeys[k] {
			return Record{}, fmt.Errorf("unknown doc field %q", k)
		}
		var s string
		switch val := v.(type) {
		case nil:
		case string:
			s = strings.TrimSpace(val)
		default:
			return Record{}, fmt.Errorf("doc field %q: expected string, got %T", k, v)
		}
		switch k {
		case "tap":
			r.Tap = s
		case "text":
			r.Text = s
		case "long_press":
			r.LongPress = s
		case "v_swipe":
			r.VSwipe = s
		case "h_swipe":
			r.HSwipe = s
		}
	}
	if r.Empty() {
		return Record{}, fmt.Errorf("doc has no documented interaction")
	}
	return r, nil
}

// normalizeLiteral maps the bare None literal to null outside of strings.
func normalizeLiteral(data []byte) []byte {
	var out bytes.Buffer
	var quote byte
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(data) {
				out.WriteByte(c)
				i++
				c = data[i]
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case bytes.HasPrefix(data[i:], []byte("None")) && boundary(data, i-1) && boundary(data, i+4):
			out.WriteString("null")
			i += 3
			continue
		}
		out.WriteByte(c)
	}
	return out.Bytes()
}

func boundary(data []byte, i int) bool {
	if i < 0 || i >= len(data) {
		return true
	}
	c := data[i]
	return !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z')
}
