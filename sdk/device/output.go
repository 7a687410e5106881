package device

import (
	"fmt"
	"sync"

	"github.com/leandrodaf/midicore/internal/logger"
	"github.com/leandrodaf/midicore/sdk/contracts"
	"github.com/leandrodaf/midicore/sdk/message"
	"go.uber.org/multierr"
)

// OutputDevice is a session on one native output port.
type OutputDevice struct {
	name    string
	port    int
	backend contracts.OutputBackend
	logger  contracts.Logger

	mu       sync.Mutex
	handle   contracts.Handle
	state    State
	teardown []func()
}

// NewOutputDevice allocates a native output handle for the port described by
// info. options.Backend must also implement contracts.OutputBackend.
func NewOutputDevice(info contracts.DeviceInfo, options *contracts.ClientOptions) (*OutputDevice, error) {
	if options == nil || options.Backend == nil {
		return nil, ErrNoBackend
	}
	ob, ok := options.Backend.(contracts.OutputBackend)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no output support", ErrNotSupported, options.Backend.API())
	}
	log := options.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	h, err := ob.CreateOutput()
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrCreateDevice, info.Name, err)
	}
	if h == contracts.NilHandle {
		return nil, fmt.Errorf("%w %q: %w", ErrCreateDevice, info.Name, ErrNilHandle)
	}

	log.Info("MIDI output device created", log.Field().String("device", info.Name))
	return &OutputDevice{
		name:    info.Name,
		port:    info.Port,
		backend: ob,
		logger:  log,
		handle:  h,
	}, nil
}

// Name returns the display name of the device.
func (o *OutputDevice) Name() string { return o.name }

// Port returns the backend port number.
func (o *OutputDevice) Port() int { return o.port }

// State returns the current lifecycle state.
func (o *OutputDevice) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// IsOpen reports whether the device is connected.
func (o *OutputDevice) IsOpen() bool { return o.State() == StateOpen }

func (o *OutputDevice) String() string { return o.name }

// Open connects the port. Opening an open device is a no-op.
func (o *OutputDevice) Open() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateDisposed:
		return ErrDisposed
	case StateOpen:
		return nil
	}
	if err := o.backend.OpenOutput(o.handle, o.port, o.name); err != nil {
		o.logger.Error("Failed to open MIDI output",
			o.logger.Field().String("device", o.name),
			o.logger.Field().Error("error", err))
		return fmt.Errorf("%w %q: %w", ErrOpenDevice, o.name, err)
	}
	o.state = StateOpen
	return nil
}

// Close disconnects the port and keeps the handle.
func (o *OutputDevice) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateOpen {
		return nil
	}
	if err := o.backend.CloseOutput(o.handle); err != nil {
		return fmt.Errorf("%w %q: %w", ErrCloseDevice, o.name, err)
	}
	o.state = StateClosed
	return nil
}

// Send encodes msg and writes it to the port.
func (o *OutputDevice) Send(msg message.Message) error {
	return o.SendRaw(message.Encode(msg))
}

// SendRaw writes an already encoded message to the port.
func (o *OutputDevice) SendRaw(data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateDisposed:
		return ErrDisposed
	case StateOpen:
	default:
		return ErrNotOpen
	}
	if err := o.backend.Send(o.handle, data); err != nil {
		return fmt.Errorf("%w to %q: %w", ErrSendMessage, o.name, err)
	}
	return nil
}

// Dispose closes the port if needed and frees the handle. Only the first call
// does any work and it never panics.
func (o *OutputDevice) Dispose() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateDisposed {
		return
	}

	var errs error
	if o.state == StateOpen {
		errs = multierr.Append(errs, guard("close port", func() error {
			return o.backend.CloseOutput(o.handle)
		}))
	}
	for _, fn := range o.teardown {
		errs = multierr.Append(errs, guard("teardown", func() error { fn(); return nil }))
	}
	errs = multierr.Append(errs, guard("free handle", func() error {
		return o.backend.FreeOutput(o.handle)
	}))
	o.handle = contracts.NilHandle
	o.state = StateDisposed

	if errs != nil {
		o.logger.Error("Error while disposing MIDI output",
			o.logger.Field().String("device", o.name),
			o.logger.Field().Error("error", errs))
	}
}

func (o *OutputDevice) onDispose(fn func()) {
	o.mu.Lock()
	o.teardown = append(o.teardown, fn)
	o.mu.Unlock()
}
