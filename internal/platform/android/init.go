package android

import (
	"github.com/ai-agents-2030/AppAgent/internal/observability"
	"github.com/ai-agents-2030/AppAgent/internal/platform"
)

func init() {
	platform.NewProviderFunc = func(opts platform.Options) (*platform.Provider, error) {
		d, err := New(opts, nil, observability.GetLogger())
		if err != nil {
			return nil, err
		}
		return &platform.Provider{
			Screenshotter: d,
			TreeReader:    d,
			Inputter:      d,
			Screen:        d,
			DeviceLister:  d,
		}, nil
	}
}
