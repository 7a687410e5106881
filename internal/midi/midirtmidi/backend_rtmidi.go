//go:build rtmidi

package midirtmidi

import (
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/midicore/internal/logger"
	"github.com/leandrodaf/midicore/internal/midi/nativeio"
	"github.com/leandrodaf/midicore/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Available reports whether this backend was compiled in.
const Available = true

type input struct {
	mu   sync.Mutex
	port drivers.In
	stop func()

	cbMu   sync.Mutex
	filter nativeio.Filter
	cb     contracts.Callback
	token  contracts.Token
	clock  nativeio.DeltaClock
}

type output struct {
	mu   sync.Mutex
	port drivers.Out
}

// Backend wraps an rtmididrv driver. It implements contracts.Backend,
// contracts.OutputBackend and io.Closer.
type Backend struct {
	logger  contracts.Logger
	drv     *rtmididrv.Driver
	inputs  *nativeio.Table[input]
	outputs *nativeio.Table[output]
}

// New opens the RtMidi driver.
func New(options *contracts.ClientOptions) (contracts.Backend, error) {
	log := options.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv.New: %w", err)
	}
	log.Info("MIDI backend created", log.Field().String("api", API), log.Field().String("driver", drv.String()))

	return &Backend{
		logger:  log,
		drv:     drv,
		inputs:  nativeio.NewTable[input](),
		outputs: nativeio.NewTable[output](),
	}, nil
}

func (b *Backend) API() string { return API }

// Close shuts the driver down. Every handle must be freed first.
func (b *Backend) Close() error {
	return b.drv.Close()
}

func (b *Backend) Inputs() ([]contracts.DeviceInfo, error) {
	ins, err := b.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI inputs: %w", err)
	}
	devices := make([]contracts.DeviceInfo, len(ins))
	for i, in := range ins {
		devices[i] = contracts.DeviceInfo{Port: in.Number(), Name: in.String(), API: API}
	}
	return devices, nil
}

// findPort picks the port with the given number, or the one named portName
// if the numbering moved since enumeration.
func findPort[P drivers.Port](ports []P, number int, portName string) (P, error) {
	for _, p := range ports {
		if p.Number() == number && (portName == "" || p.String() == portName) {
			return p, nil
		}
	}
	for _, p := range ports {
		if portName != "" && p.String() == portName {
			return p, nil
		}
	}
	var zero P
	return zero, fmt.Errorf("%w: %d %q", ErrInvalidPort, number, portName)
}

func (b *Backend) CreateInput() (contracts.Handle, error) {
	return b.inputs.Add(&input{}), nil
}

func (b *Backend) OpenInput(h contracts.Handle, port int, portName string) error {
	in, err := b.inputs.Get(h)
	if err != nil {
		return err
	}
	ins, err := b.drv.Ins()
	if err != nil {
		return fmt.Errorf("error listing MIDI inputs: %w", err)
	}
	p, err := findPort(ins, port, portName)
	if err != nil {
		return err
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.stop != nil {
		return nil
	}

	in.cbMu.Lock()
	filter := in.filter
	in.cbMu.Unlock()
	opts := []midi.Option{
		midi.HandleError(func(err error) {
			b.logger.Warn("RtMidi input error", b.logger.Field().String("device", p.String()), b.logger.Field().Error("error", err))
		}),
	}
	if !filter.SysEx {
		opts = append(opts, midi.UseSysEx())
	}
	if !filter.Timing {
		opts = append(opts, midi.UseTimeCode())
	}
	if !filter.Sense {
		opts = append(opts, midi.UseActiveSense())
	}

	in.clock.Reset()
	stop, err := midi.ListenTo(p, func(msg midi.Message, timestampms int32) {
		b.receive(in, msg, timestampms)
	}, opts...)
	if err != nil {
		if p.IsOpen() {
			_ = p.Close()
		}
		return fmt.Errorf("error listening on %q: %w", p.String(), err)
	}
	in.port, in.stop = p, stop
	return nil
}

func (b *Backend) receive(in *input, msg midi.Message, timestampms int32) {
	in.cbMu.Lock()
	cb, token, filter := in.cb, in.token, in.filter
	in.cbMu.Unlock()
	if cb == nil || filter.Drop(msg) {
		return
	}
	cb(token, in.clock.Tick(time.Duration(timestampms)*time.Millisecond), []byte(msg))
}

func (b *Backend) CloseInput(h contracts.Handle) error {
	in, err := b.inputs.Get(h)
	if err != nil {
		return err
	}
	return in.close()
}

func (in *input) close() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.stop == nil {
		return nil
	}
	in.stop()
	err := in.port.Close()
	in.port, in.stop = nil, nil
	return err
}

func (b *Backend) IgnoreTypes(h contracts.Handle, sysex, timing, sense bool) error {
	in, err := b.inputs.Get(h)
	if err != nil {
		return err
	}
	in.cbMu.Lock()
	in.filter = nativeio.Filter{SysEx: sysex, Timing: timing, Sense: sense}
	in.cbMu.Unlock()
	return nil
}

func (b *Backend) SetCallback(h contracts.Handle, cb contracts.Callback, token contracts.Token) error {
	in, err := b.inputs.Get(h)
	if err != nil {
		return err
	}
	in.cbMu.Lock()
	in.cb, in.token = cb, token
	in.cbMu.Unlock()
	return nil
}

func (b *Backend) CancelCallback(h contracts.Handle) error {
	return b.SetCallback(h, nil, 0)
}

func (b *Backend) FreeInput(h contracts.Handle) error {
	in, err := b.inputs.Remove(h)
	if err != nil {
		return err
	}
	in.cbMu.Lock()
	in.cb = nil
	in.cbMu.Unlock()
	return in.close()
}

func (b *Backend) Outputs() ([]contracts.DeviceInfo, error) {
	outs, err := b.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI outputs: %w", err)
	}
	devices := make([]contracts.DeviceInfo, len(outs))
	for i, out := range outs {
		devices[i] = contracts.DeviceInfo{Port: out.Number(), Name: out.String(), API: API}
	}
	return devices, nil
}

func (b *Backend) CreateOutput() (contracts.Handle, error) {
	return b.outputs.Add(&output{}), nil
}

func (b *Backend) OpenOutput(h contracts.Handle, port int, portName string) error {
	out, err := b.outputs.Get(h)
	if err != nil {
		return err
	}
	outs, err := b.drv.Outs()
	if err != nil {
		return fmt.Errorf("error listing MIDI outputs: %w", err)
	}
	p, err := findPort(outs, port, portName)
	if err != nil {
		return err
	}

	out.mu.Lock()
	defer out.mu.Unlock()
	if out.port != nil {
		return nil
	}
	if err := p.Open(); err != nil {
		return fmt.Errorf("error opening %q: %w", p.String(), err)
	}
	out.port = p
	return nil
}

func (b *Backend) CloseOutput(h contracts.Handle) error {
	out, err := b.outputs.Get(h)
	if err != nil {
		return err
	}
	return out.close()
}

func (out *output) close() error {
	out.mu.Lock()
	defer out.mu.Unlock()
	if out.port == nil {
		return nil
	}
	err := out.port.Close()
	out.port = nil
	return err
}

func (b *Backend) Send(h contracts.Handle, data []byte) error {
	out, err := b.outputs.Get(h)
	if err != nil {
		return err
	}
	out.mu.Lock()
	defer out.mu.Unlock()
	if out.port == nil {
		return fmt.Errorf("output %d is not open", h)
	}
	return out.port.Send(data)
}

func (b *Backend) FreeOutput(h contracts.Handle) error {
	out, err := b.outputs.Remove(h)
	if err != nil {
		return err
	}
	return out.close()
}
