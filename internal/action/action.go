// Package action defines the closed set of actions a model may request and
// parses them out of free-text replies.
package action

import (
	"fmt"
	"strconv"

	"github.com/ai-agents-2030/AppAgent/internal/address"
	"github.com/ai-agents-2030/AppAgent/internal/model"
)

// Kind identifies an action. The string values are the grammar keywords.
type Kind string

const (
	KindTap           Kind = "tap"
	KindLongPress     Kind = "long_press"
	KindText          Kind = "text"
	KindSwipe         Kind = "swipe"
	KindTapGrid       Kind = "tap_grid"
	KindLongPressGrid Kind = "long_press_grid"
	KindSwipeGrid     Kind = "swipe_grid"
	KindGrid          Kind = "grid"
	KindFinish        Kind = "FINISH"
	KindError         Kind = "ERROR"
)

// Kinds lists every action kind a well-formed reply can produce.
var Kinds = []Kind{
	KindTap, KindLongPress, KindText, KindSwipe,
	KindTapGrid, KindLongPressGrid, KindSwipeGrid, KindGrid, KindFinish,
}

// IsGrid reports whether the kind addresses the screen by grid area.
func (k Kind) IsGrid() bool {
	return k == KindTapGrid || k == KindLongPressGrid || k == KindSwipeGrid
}

// Action is one parsed model decision. Only the fields relevant to Kind are set.
type Action struct {
	Kind Kind `yaml:"kind" json:"kind"`

	// Area is the numeric tag (index mode) or the grid area (grid kinds).
	Area    int             `yaml:"area,omitempty"    json:"area,omitempty"`
	Subarea address.Subarea `yaml:"subarea,omitempty" json:"subarea,omitempty"`

	// EndArea and EndSubarea are the swipe_grid destination.
	EndArea    int             `yaml:"end_area,omitempty"    json:"end_area,omitempty"`
	EndSubarea address.Subarea `yaml:"end_subarea,omitempty" json:"end_subarea,omitempty"`

	Text      string          `yaml:"text,omitempty"      json:"text,omitempty"`
	Direction model.Direction `yaml:"direction,omitempty" json:"direction,omitempty"`
	Distance  model.Distance  `yaml:"distance,omitempty"  json:"distance,omitempty"`

	// Reason explains a KindError result.
	Reason string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// Errorf builds an ERROR action.
func Errorf(format string, args ...any) Action {
	return Action{Kind: KindError, Reason: fmt.Sprintf(format, args...)}
}

// String renders the action in reply syntax. Parse(a.String()) yields a again
// for every kind except ERROR.
func (a Action) String() string {
	switch a.Kind {
	case KindTap, KindLongPress:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Area)
	case KindText:
		return fmt.Sprintf("text(%s)", strconv.Quote(a.Text))
	case KindSwipe:
		return fmt.Sprintf("swipe(%d, %q, %q)", a.Area, a.Direction, a.Distance)
	case KindTapGrid, KindLongPressGrid:
		return fmt.Sprintf("%s(%d, %q)", a.Kind, a.Area, a.Subarea)
	case KindSwipeGrid:
		return fmt.Sprintf("swipe_grid(%d, %q, %d, %q)", a.Area, a.Subarea, a.EndArea, a.EndSubarea)
	case KindGrid:
		return "grid()"
	case KindFinish:
		return "FINISH"
	default:
		return "ERROR"
	}
}
