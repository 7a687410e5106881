package midi

import (
	"github.com/leandrodaf/midicore/sdk/contracts"
	"github.com/leandrodaf/midicore/sdk/device"
)

// NewManager creates a device manager with the specified options. Defaults
// are applied first. When no backend is given, the one named by
// contracts.WithAPI is created, or else the preferred one for the platform.
//
// The caller owns the manager and must Close it, which disposes every device
// it created and releases the backend.
func NewManager(opts ...contracts.Option) (*device.Manager, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	if options.Backend == nil {
		var backend contracts.Backend
		if options.API != "" {
			backend, err = NewBackendFor(options.API, &options)
		} else {
			backend, err = NewBackend(&options)
		}
		if err != nil {
			return nil, err
		}
		options.Backend = backend
	}

	return device.NewManager(&options)
}
