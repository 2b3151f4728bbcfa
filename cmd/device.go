package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ai-agents-2030/AppAgent/internal/config"
	"github.com/ai-agents-2030/AppAgent/internal/platform"
)

func providerOptions(cfg config.AndroidConfig, serial string) platform.Options {
	return platform.Options{
		Serial:          serial,
		Command:         cfg.ADB,
		RemoteScreenDir: cfg.ScreenshotDir,
		RemoteXMLDir:    cfg.XMLDir,
		Width:           cfg.Width,
		Height:          cfg.Height,
	}
}

// openDevice returns a provider for serial. An empty serial selects the only
// attached device.
func openDevice(ctx context.Context, cfg config.AndroidConfig, serial string) (*platform.Provider, string, error) {
	provider, err := platform.NewProvider(providerOptions(cfg, serial))
	if err != nil {
		return nil, "", err
	}
	if serial != "" || provider.DeviceLister == nil {
		return provider, serial, nil
	}

	devices, err := provider.DeviceLister.Devices(ctx)
	if err != nil {
		return nil, "", err
	}
	var ready []string
	for _, d := range devices {
		if d.State == "device" {
			ready = append(ready, d.Serial)
		}
	}
	switch len(ready) {
	case 0:
		return nil, "", fmt.Errorf("no device found")
	case 1:
		provider, err = platform.NewProvider(providerOptions(cfg, ready[0]))
		return provider, ready[0], err
	default:
		return nil, "", fmt.Errorf("multiple devices attached (%s); choose one with --device", strings.Join(ready, ", "))
	}
}
