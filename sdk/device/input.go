package device

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/leandrodaf/midicore/internal/logger"
	"github.com/leandrodaf/midicore/sdk/contracts"
	"github.com/leandrodaf/midicore/sdk/message"
	"go.uber.org/multierr"
)

// InputDevice is a session on one native input port. Messages arrive on a
// thread owned by the backend, are decoded and handed to subscribers
// synchronously on that thread, in arrival order.
//
// Handlers must return quickly and must not call Open, Close or Dispose on
// the device that is delivering to them.
type InputDevice struct {
	name     string
	port     int
	backend  contracts.Backend
	registry *Registry
	logger   contracts.Logger

	mu       sync.Mutex // serializes Open, Close and Dispose
	handle   contracts.Handle
	token    contracts.Token
	state    atomic.Int32
	teardown []func()

	// Callbacks hold gate for reading while they run; Dispose takes it for
	// writing after cancelling the callback, which waits them out.
	gate    sync.RWMutex
	closing bool

	subsMu     sync.Mutex
	subs       atomic.Pointer[[]subscriber]
	nextSub    uint64
	subsClosed bool // set when Dispose drops subscribers; guarded by subsMu

	received      atomic.Uint64
	published     atomic.Uint64
	decodeErrors  atomic.Uint64
	handlerPanics atomic.Uint64
}

// Stats counts what an input device has seen since it was created.
type Stats struct {
	Received      uint64 // Buffers accepted from the backend.
	Published     uint64 // Buffers decoded and handed to subscribers.
	DecodeErrors  uint64 // Buffers dropped because they did not decode.
	HandlerPanics uint64 // Handler invocations that panicked.
}

// NewInputDevice allocates a native input handle for the port described by
// info and registers the device's callback with the backend. The device
// starts in StateCreated. options.Backend is required.
func NewInputDevice(reg *Registry, info contracts.DeviceInfo, options *contracts.ClientOptions) (*InputDevice, error) {
	if options == nil || options.Backend == nil {
		return nil, ErrNoBackend
	}
	log := options.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	ignore := contracts.DefaultIgnoreTypes
	if options.IgnoreTypes != nil {
		ignore = *options.IgnoreTypes
	}
	b := options.Backend

	log.Debug("Creating input device", log.Field().String("device", info.Name), log.Field().Int("port", info.Port))
	h, err := b.CreateInput()
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrCreateDevice, info.Name, err)
	}
	if h == contracts.NilHandle {
		return nil, fmt.Errorf("%w %q: %w", ErrCreateDevice, info.Name, ErrNilHandle)
	}

	d := &InputDevice{
		name:     info.Name,
		port:     info.Port,
		backend:  b,
		registry: reg,
		logger:   log,
		handle:   h,
	}

	if err := b.IgnoreTypes(h, ignore.SysEx, ignore.Timing, ignore.Sense); err != nil {
		d.abandon()
		return nil, fmt.Errorf("%w %q: ignore types: %w", ErrCreateDevice, info.Name, err)
	}

	d.token = reg.register(d)
	if err := b.SetCallback(h, reg.dispatch, d.token); err != nil {
		reg.release(d.token)
		d.abandon()
		return nil, fmt.Errorf("%w %q: set callback: %w", ErrCreateDevice, info.Name, err)
	}

	log.Info("MIDI input device created", log.Field().String("device", d.name), log.Field().String("api", b.API()))
	return d, nil
}

// abandon frees the handle of a device whose construction failed.
func (d *InputDevice) abandon() {
	if err := d.backend.FreeInput(d.handle); err != nil {
		d.logger.Error("Unable to free input device handle",
			d.logger.Field().String("device", d.name),
			d.logger.Field().Error("error", err))
	}
	d.handle = contracts.NilHandle
	d.state.Store(int32(StateDisposed))
}

// Name returns the display name of the device.
func (d *InputDevice) Name() string { return d.name }

// Port returns the backend port number the device connects to.
func (d *InputDevice) Port() int { return d.port }

// State returns the current lifecycle state.
func (d *InputDevice) State() State { return State(d.state.Load()) }

// IsOpen reports whether the device is connected.
func (d *InputDevice) IsOpen() bool { return d.State() == StateOpen }

// Stats returns a snapshot of the device counters.
func (d *InputDevice) Stats() Stats {
	return Stats{
		Received:      d.received.Load(),
		Published:     d.published.Load(),
		DecodeErrors:  d.decodeErrors.Load(),
		HandlerPanics: d.handlerPanics.Load(),
	}
}

func (d *InputDevice) String() string { return d.name }

// Open connects the port. Opening an open device is a no-op. On failure the
// device keeps its previous state and its handle.
func (d *InputDevice) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.State() {
	case StateDisposed:
		return ErrDisposed
	case StateOpen:
		return nil
	}

	if err := d.backend.OpenInput(d.handle, d.port, d.name); err != nil {
		d.logger.Error("Failed to open MIDI input",
			d.logger.Field().String("device", d.name),
			d.logger.Field().Error("error", err))
		return fmt.Errorf("%w %q: %w", ErrOpenDevice, d.name, err)
	}

	d.state.Store(int32(StateOpen))
	d.logger.Info("MIDI input opened", d.logger.Field().String("device", d.name))
	return nil
}

// Close disconnects the port but keeps the handle, so the device can be
// opened again. Closing a device that is not open is a no-op.
func (d *InputDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.State() != StateOpen {
		return nil
	}
	if err := d.backend.CloseInput(d.handle); err != nil {
		d.logger.Error("Failed to close MIDI input",
			d.logger.Field().String("device", d.name),
			d.logger.Field().Error("error", err))
		return fmt.Errorf("%w %q: %w", ErrCloseDevice, d.name, err)
	}

	d.state.Store(int32(StateClosed))
	d.logger.Info("MIDI input closed", d.logger.Field().String("device", d.name))
	return nil
}

// Dispose releases the native handle. Only the first call does any work;
// later and concurrent calls return once it has finished. Teardown runs in
// order: cancel the callback and wait for running callbacks to return, close
// the port and drop subscribers, free the handle. A failing step is logged and
// the remaining steps still run. Dispose never panics.
func (d *InputDevice) Dispose() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.State() == StateDisposed {
		return
	}
	defer d.state.Store(int32(StateDisposed))

	var errs error

	d.logger.Debug("Cancelling input callback", d.logger.Field().String("device", d.name))
	errs = multierr.Append(errs, guard("cancel callback", func() error {
		return d.backend.CancelCallback(d.handle)
	}))
	d.gate.Lock()
	d.closing = true
	d.gate.Unlock()
	d.registry.release(d.token)

	if d.State() == StateOpen {
		errs = multierr.Append(errs, guard("close port", func() error {
			return d.backend.CloseInput(d.handle)
		}))
	}
	d.subsMu.Lock()
	d.subsClosed = true
	d.subs.Store(nil)
	d.subsMu.Unlock()
	for _, fn := range d.teardown {
		errs = multierr.Append(errs, guard("teardown", func() error { fn(); return nil }))
	}

	d.logger.Debug("Freeing input device handle", d.logger.Field().String("device", d.name))
	errs = multierr.Append(errs, guard("free handle", func() error {
		return d.backend.FreeInput(d.handle)
	}))
	d.handle = contracts.NilHandle

	if errs != nil {
		d.logger.Error("Error while disposing MIDI input",
			d.logger.Field().String("device", d.name),
			d.logger.Field().Error("error", errs))
		return
	}
	d.logger.Info("MIDI input disposed", d.logger.Field().String("device", d.name))
}

// guard runs one teardown step, turning a panic into an error.
func guard(step string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", step, r)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	return nil
}

// onDispose registers fn to run during the teardown step of Dispose.
func (d *InputDevice) onDispose(fn func()) {
	d.mu.Lock()
	d.teardown = append(d.teardown, fn)
	d.mu.Unlock()
}

// receive runs on the backend's thread. data is copied before anything else
// touches it and nothing escapes back into the backend, panics included.
func (d *InputDevice) receive(timestamp float64, data []byte) {
	d.gate.RLock()
	defer d.gate.RUnlock()
	if d.closing {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Unexpected panic while receiving MIDI message",
				d.logger.Field().String("device", d.name),
				d.logger.Field().Any("panic", r))
		}
	}()

	buf := make([]byte, len(data))
	copy(buf, data)
	d.received.Add(1)

	msg, err := message.Decode(buf)
	if err != nil {
		d.decodeErrors.Add(1)
		d.logger.Warn("Dropping undecodable MIDI message",
			d.logger.Field().String("device", d.name),
			d.logger.Field().String("data", fmt.Sprintf("% X", buf)),
			d.logger.Field().Float64("timestamp", timestamp),
			d.logger.Field().Error("error", err))
		return
	}

	d.published.Add(1)
	d.publish(msg)
}
