package platform

import "errors"

// Provider bundles all driver backends for one device.
type Provider struct {
	Screenshotter Screenshotter
	TreeReader    TreeReader
	Inputter      Inputter
	Screen        Screen
	DeviceLister  DeviceLister
}

// ErrUnsupported is returned when no device backend is linked in.
var ErrUnsupported = errors.New("no device backend registered; build with the android driver")

// NewProviderFunc is set by backend packages via init().
// See internal/platform/android/init.go for the adb registration.
var NewProviderFunc func(opts Options) (*Provider, error)

// NewProvider returns a Provider for the configured device.
func NewProvider(opts Options) (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc(opts)
}
