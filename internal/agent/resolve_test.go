package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-agents-2030/AppAgent/internal/action"
	"github.com/ai-agents-2030/AppAgent/internal/address"
	"github.com/ai-agents-2030/AppAgent/internal/model"
	"github.com/ai-agents-2030/AppAgent/internal/output"
)

func testObservation() Observation {
	return Observation{
		Catalog: model.BuildCatalog(threeButtons(), 30),
		Grid:    address.Grid{Rows: 2, Cols: 2, Width: 200, Height: 100},
	}
}

func TestResolve_GridBottomRight(t *testing.T) {
	r, err := Resolve(action.Action{Kind: action.KindTapGrid, Area: 3, Subarea: address.BottomRight}, testObservation())
	require.NoError(t, err)
	assert.Equal(t, action.KindTap, r.Kind)
	assert.Equal(t, action.KindTapGrid, r.Source)
	assert.Equal(t, model.Point{X: 75, Y: 87}, r.Point)
}

func TestResolve(t *testing.T) {
	obs := testObservation()
	tests := []struct {
		name   string
		in     action.Action
		kind   action.Kind
		point  model.Point
		end    model.Point
		detail output.Detail
	}{
		{
			name:   "long press by tag",
			in:     action.Action{Kind: action.KindLongPress, Area: 3},
			kind:   action.KindLongPress,
			point:  model.Point{X: 45, Y: 45},
			detail: output.Detail{Type: output.DetailCoordinates, Value: []int{45, 45}},
		},
		{
			name:   "swipe by tag",
			in:     action.Action{Kind: action.KindSwipe, Area: 1, Direction: model.DirUp, Distance: model.DistLong},
			kind:   action.KindSwipe,
			point:  model.Point{X: 5, Y: 5},
			detail: output.Detail{Type: output.DetailString, Value: "The coordinates (5,5) have been swiped to the up."},
		},
		{
			name:   "text",
			in:     action.Action{Kind: action.KindText, Text: "hi there"},
			kind:   action.KindText,
			detail: output.Detail{Type: output.DetailString, Value: `The text "hi there" has been inputted.`},
		},
		{
			name:   "long press grid",
			in:     action.Action{Kind: action.KindLongPressGrid, Area: 1, Subarea: address.Center},
			kind:   action.KindLongPress,
			point:  model.Point{X: 50, Y: 25},
			detail: output.Detail{Type: output.DetailCoordinates, Value: []int{50, 25}},
		},
		{
			name:   "swipe grid",
			in:     action.Action{Kind: action.KindSwipeGrid, Area: 1, Subarea: address.TopLeft, EndArea: 4, EndSubarea: address.Center},
			kind:   action.KindSwipe,
			point:  model.Point{X: 25, Y: 12},
			end:    model.Point{X: 150, Y: 75},
			detail: output.Detail{Type: output.DetailString, Value: "The swipe action has been performed starting from coordinates (25,12) to (150,75)."},
		},
		{
			name:   "grid",
			in:     action.Action{Kind: action.KindGrid},
			kind:   action.KindGrid,
			detail: output.Detail{Type: output.DetailString, Value: ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Resolve(tt.in, obs)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, r.Kind)
			assert.Equal(t, tt.point, r.Point)
			assert.Equal(t, tt.end, r.End)
			e := r.Entry()
			assert.Equal(t, string(tt.kind), e.Name)
			assert.Equal(t, tt.detail, e.Detail)
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	obs := testObservation()
	bad := []action.Action{
		{Kind: action.KindTap, Area: 0},
		{Kind: action.KindSwipe, Area: 4, Direction: model.DirUp, Distance: model.DistShort},
		{Kind: action.KindTapGrid, Area: 5, Subarea: address.Center},
		{Kind: action.KindSwipeGrid, Area: 1, Subarea: address.Center, EndArea: 9, EndSubarea: address.Center},
		{Kind: action.KindFinish},
	}
	for _, a := range bad {
		_, err := Resolve(a, obs)
		assert.Error(t, err, a.String())
	}
	_, err := Resolve(action.Action{Kind: action.KindTap, Area: 4}, obs)
	assert.True(t, errors.Is(err, address.ErrOutOfRange))
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	dev := &fakeDevice{}
	d := Dispatcher{Input: dev}

	require.NoError(t, d.Dispatch(ctx, Resolved{Kind: action.KindGrid, Source: action.KindGrid}))
	assert.Empty(t, dev.calls)

	require.NoError(t, d.Dispatch(ctx, Resolved{Kind: action.KindSwipe, Source: action.KindSwipeGrid, Point: model.Point{X: 1, Y: 2}, End: model.Point{X: 3, Y: 4}}))
	require.NoError(t, d.Dispatch(ctx, Resolved{Kind: action.KindSwipe, Source: action.KindSwipe, Point: model.Point{X: 1, Y: 2}, Direction: model.DirLeft, Distance: model.DistShort}))
	require.NoError(t, d.Dispatch(ctx, Resolved{Kind: action.KindText, Source: action.KindText, Text: "x"}))
	assert.Equal(t, []inputCall{
		{Op: "swipe_precise", From: model.Point{X: 1, Y: 2}, To: model.Point{X: 3, Y: 4}},
		{Op: "swipe", From: model.Point{X: 1, Y: 2}, Dir: model.DirLeft, Dist: model.DistShort},
		{Op: "text", Text: "x"},
	}, dev.calls)

	assert.Error(t, d.Dispatch(ctx, Resolved{Kind: action.KindFinish}))

	dev.inputErr = errors.New("boom")
	err := d.Dispatch(ctx, Resolved{Kind: action.KindTap})
	assert.ErrorContains(t, err, "tap execution failed: boom")
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("x")))
	assert.Equal(t, 3, ExitCode(&RoundError{Category: CategoryPerception}))
	assert.Equal(t, 3, ExitCode(&RoundError{Category: CategoryInference}))
	assert.Equal(t, 2, ExitCode(&RoundError{Category: CategoryGrammar}))
	assert.Equal(t, 2, ExitCode(&RoundError{Category: CategoryAddressing}))
	assert.Equal(t, 2, ExitCode(&RoundError{Category: CategoryDispatch}))
	assert.Equal(t, 1, ExitCode(&RoundError{Category: CategoryUnhandled}))
}

func TestLoopState_RecordFlipsGridMode(t *testing.T) {
	s := NewLoopState()
	assert.Equal(t, "None", s.LastAction)

	s = s.record(action.KindGrid, "grid()", 1, 1)
	assert.True(t, s.GridMode)
	assert.Equal(t, 1, s.Round)

	s = s.record(action.KindTapGrid, "tapped", 1, 1)
	assert.False(t, s.GridMode)
	assert.Equal(t, "tapped", s.LastAction)
	assert.Equal(t, 2, s.PromptTokens)
}
