package agent

import (
	"context"
	"fmt"

	"github.com/ai-agents-2030/AppAgent/internal/action"
	"github.com/ai-agents-2030/AppAgent/internal/platform"
)

// Dispatcher executes resolved actions on the device.
type Dispatcher struct {
	Input    platform.Inputter
	TextMode platform.TextMode
}

// Dispatch issues exactly one driver call for r. A grid action issues none.
func (d Dispatcher) Dispatch(ctx context.Context, r Resolved) error {
	var err error
	switch r.Kind {
	case action.KindTap:
		err = d.Input.Tap(ctx, r.Point)
	case action.KindLongPress:
		err = d.Input.LongPress(ctx, r.Point)
	case action.KindText:
		err = d.Input.Text(ctx, r.Text, d.TextMode)
	case action.KindSwipe:
		if r.Precise() {
			err = d.Input.SwipePrecise(ctx, r.Point, r.End)
		} else {
			err = d.Input.Swipe(ctx, r.Point, r.Direction, r.Distance)
		}
	case action.KindGrid:
		return nil
	default:
		return fmt.Errorf("cannot dispatch %s", r.Kind)
	}
	if err != nil {
		return fmt.Errorf("%s execution failed: %w", r.Kind, err)
	}
	return nil
}
