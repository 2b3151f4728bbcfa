package agent

import (
	"fmt"

	"github.com/ai-agents-2030/AppAgent/internal/action"
	"github.com/ai-agents-2030/AppAgent/internal/address"
	"github.com/ai-agents-2030/AppAgent/internal/model"
	"github.com/ai-agents-2030/AppAgent/internal/output"
)

// Observation is what one round perceived.
type Observation struct {
	Screenshot string
	// Image is the annotated screenshot sent to the model.
	Image   string
	Tree    []model.Node
	Catalog model.Catalog
	Grid    address.Grid
}

// Resolved is an action with every symbolic address converted to pixels.
// Grid kinds are normalized: Kind is one of tap, long_press, text, swipe or
// grid, and Source keeps the parsed kind.
type Resolved struct {
	Kind   action.Kind
	Source action.Kind

	Point model.Point
	// End is set for precise swipes.
	End model.Point

	Text      string
	Direction model.Direction
	Distance  model.Distance
}

// Precise reports whether the swipe runs between two explicit points.
func (r Resolved) Precise() bool {
	return r.Source == action.KindSwipeGrid
}

// Resolve maps a's tag or grid area to pixel coordinates. It performs no
// device calls.
func Resolve(a action.Action, obs Observation) (Resolved, error) {
	r := Resolved{Kind: a.Kind, Source: a.Kind}
	var err error
	switch a.Kind {
	case action.KindTap, action.KindLongPress:
		r.Point, err = address.Index(obs.Catalog, a.Area)
	case action.KindSwipe:
		r.Point, err = address.Index(obs.Catalog, a.Area)
		r.Direction, r.Distance = a.Direction, a.Distance
	case action.KindText:
		r.Text = a.Text
	case action.KindGrid:
	case action.KindTapGrid:
		r.Kind = action.KindTap
		r.Point, err = obs.Grid.Resolve(a.Area, a.Subarea)
	case action.KindLongPressGrid:
		r.Kind = action.KindLongPress
		r.Point, err = obs.Grid.Resolve(a.Area, a.Subarea)
	case action.KindSwipeGrid:
		r.Kind = action.KindSwipe
		if r.Point, err = obs.Grid.Resolve(a.Area, a.Subarea); err == nil {
			r.End, err = obs.Grid.Resolve(a.EndArea, a.EndSubarea)
		}
	default:
		err = fmt.Errorf("%s is not an executable action", a.Kind)
	}
	if err != nil {
		return Resolved{}, err
	}
	return r, nil
}

// Entry is the execution-log encoding of r.
func (r Resolved) Entry() output.ActionEntry {
	e := output.ActionEntry{Name: string(r.Kind)}
	switch r.Kind {
	case action.KindTap, action.KindLongPress:
		e.Detail = output.CoordinatesDetail(r.Point)
	case action.KindText:
		e.Detail = output.StringDetail("The text \"%s\" has been inputted.", r.Text)
	case action.KindSwipe:
		if r.Precise() {
			e.Detail = output.StringDetail("The swipe action has been performed starting from coordinates (%d,%d) to (%d,%d).",
				r.Point.X, r.Point.Y, r.End.X, r.End.Y)
		} else {
			e.Detail = output.StringDetail("The coordinates (%d,%d) have been swiped to the %s.", r.Point.X, r.Point.Y, r.Direction)
		}
	default:
		e.Detail = output.Detail{Type: output.DetailString, Value: ""}
	}
	return e
}

func finishEntry() output.ActionEntry {
	return output.ActionEntry{Name: string(action.KindFinish), Detail: output.StringDetail("Task completed.")}
}
