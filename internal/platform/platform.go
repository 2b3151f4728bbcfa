package platform

import (
	"context"

	"github.com/ai-agents-2030/AppAgent/internal/model"
)

// Screenshotter captures the device screen.
type Screenshotter interface {
	// Screenshot captures the screen into dir/<name>.png and returns the local path.
	Screenshot(ctx context.Context, name, dir string) (string, error)
}

// TreeReader dumps the UI hierarchy.
type TreeReader interface {
	// ReadTree dumps the hierarchy into dir/<name>.xml and returns it parsed.
	ReadTree(ctx context.Context, name, dir string) (Tree, error)
}

// Screen reports the device resolution.
type Screen interface {
	Size(ctx context.Context) (width, height int, err error)
}

// Inputter injects touch and keyboard input.
type Inputter interface {
	Tap(ctx context.Context, p model.Point) error
	LongPress(ctx context.Context, p model.Point) error
	Text(ctx context.Context, value string, mode TextMode) error
	// Swipe starts at p and moves a fixed amount in dir, scaled by dist.
	Swipe(ctx context.Context, p model.Point, dir model.Direction, dist model.Distance) error
	SwipePrecise(ctx context.Context, from, to model.Point) error
}

// DeviceLister enumerates attached devices.
type DeviceLister interface {
	Devices(ctx context.Context) ([]Device, error)
}
