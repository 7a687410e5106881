package device

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/leandrodaf/midicore/internal/logger"
	"github.com/leandrodaf/midicore/sdk/contracts"
	"go.uber.org/multierr"
)

// Manager is the entry point for enumerating ports and creating devices on
// one backend. It owns the token registry shared by its input devices and
// disposes every device it created when closed.
type Manager struct {
	options  contracts.ClientOptions
	backend  contracts.Backend
	registry *Registry
	logger   contracts.Logger

	mu      sync.Mutex
	closed  bool
	inputs  map[*InputDevice]struct{}
	outputs map[*OutputDevice]struct{}
}

// NewManager creates a manager for options.Backend.
func NewManager(options *contracts.ClientOptions) (*Manager, error) {
	if options == nil || options.Backend == nil {
		return nil, ErrNoBackend
	}
	opts := *options
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}

	return &Manager{
		options:  opts,
		backend:  opts.Backend,
		registry: NewRegistry(),
		logger:   opts.Logger,
		inputs:   make(map[*InputDevice]struct{}),
		outputs:  make(map[*OutputDevice]struct{}),
	}, nil
}

// API returns the name of the backend in use.
func (m *Manager) API() string { return m.backend.API() }

// Registry returns the token registry used by this manager's input devices.
func (m *Manager) Registry() *Registry { return m.registry }

// InputDevices lists the input ports visible to the backend.
func (m *Manager) InputDevices() ([]contracts.DeviceInfo, error) {
	devices, err := m.backend.Inputs()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI inputs: %w", err)
	}
	for i := range devices {
		devices[i].API = m.backend.API()
	}
	return devices, nil
}

// OutputDevices lists the output ports visible to the backend.
func (m *Manager) OutputDevices() ([]contracts.DeviceInfo, error) {
	ob, ok := m.backend.(contracts.OutputBackend)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no output support", ErrNotSupported, m.backend.API())
	}
	devices, err := ob.Outputs()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI outputs: %w", err)
	}
	for i := range devices {
		devices[i].API = m.backend.API()
	}
	return devices, nil
}

// FindInput returns the first input port whose name equals name, falling back
// to the first one containing it.
func (m *Manager) FindInput(name string) (contracts.DeviceInfo, error) {
	devices, err := m.InputDevices()
	if err != nil {
		return contracts.DeviceInfo{}, err
	}
	return findByName(devices, name)
}

// FindOutput is FindInput for output ports.
func (m *Manager) FindOutput(name string) (contracts.DeviceInfo, error) {
	devices, err := m.OutputDevices()
	if err != nil {
		return contracts.DeviceInfo{}, err
	}
	return findByName(devices, name)
}

func findByName(devices []contracts.DeviceInfo, name string) (contracts.DeviceInfo, error) {
	for _, d := range devices {
		if d.Name == name {
			return d, nil
		}
	}
	for _, d := range devices {
		if strings.Contains(d.Name, name) {
			return d, nil
		}
	}
	return contracts.DeviceInfo{}, fmt.Errorf("%w: %s", ErrNoDevice, name)
}

// CreateInput creates an input device for info. The device is not opened.
func (m *Manager) CreateInput(info contracts.DeviceInfo) (*InputDevice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	d, err := NewInputDevice(m.registry, info, &m.options)
	if err != nil {
		return nil, err
	}
	m.inputs[d] = struct{}{}
	d.onDispose(func() {
		m.mu.Lock()
		delete(m.inputs, d)
		m.mu.Unlock()
	})
	return d, nil
}

// CreateOutput creates an output device for info. The device is not opened.
func (m *Manager) CreateOutput(info contracts.DeviceInfo) (*OutputDevice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	o, err := NewOutputDevice(info, &m.options)
	if err != nil {
		return nil, err
	}
	m.outputs[o] = struct{}{}
	o.onDispose(func() {
		m.mu.Lock()
		delete(m.outputs, o)
		m.mu.Unlock()
	})
	return o, nil
}

// Devices returns the number of live input and output devices.
func (m *Manager) Devices() (inputs, outputs int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs), len(m.outputs)
}

// Close disposes every device created by the manager and, if the backend
// holds resources of its own, closes it. Later calls are no-ops.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	inputs := make([]*InputDevice, 0, len(m.inputs))
	for d := range m.inputs {
		inputs = append(inputs, d)
	}
	outputs := make([]*OutputDevice, 0, len(m.outputs))
	for o := range m.outputs {
		outputs = append(outputs, o)
	}
	m.mu.Unlock()

	for _, d := range inputs {
		d.Dispose()
	}
	for _, o := range outputs {
		o.Dispose()
	}

	var errs error
	if c, ok := m.backend.(io.Closer); ok {
		errs = multierr.Append(errs, c.Close())
	}
	m.logger.Info("MIDI device manager closed",
		m.logger.Field().Int("inputs", len(inputs)),
		m.logger.Field().Int("outputs", len(outputs)))
	return errs
}
