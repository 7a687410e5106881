//go:build darwin

package mididarwin

import (
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/midicore/internal/logger"
	"github.com/leandrodaf/midicore/internal/midi/nativeio"
	"github.com/leandrodaf/midicore/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Available reports whether this backend was compiled in.
const Available = true

// internalPortConnection is the connection returned by InputPort.Connect.
type internalPortConnection interface {
	Disconnect()
}

type input struct {
	mu   sync.Mutex
	slot *portSlot[coremidi.InputPort]
	conn internalPortConnection

	cbMu   sync.Mutex
	filter nativeio.Filter
	cb     contracts.Callback
	token  contracts.Token
	clock  nativeio.DeltaClock
}

type output struct {
	mu   sync.Mutex
	dest *coremidi.Destination
}

// Backend talks to CoreMIDI. It implements contracts.Backend and
// contracts.OutputBackend.
type Backend struct {
	logger  contracts.Logger
	client  coremidi.Client
	epoch   time.Time
	inputs  *nativeio.Table[input]
	outputs *nativeio.Table[output]
	ports   portPool[coremidi.InputPort]

	outMu   sync.Mutex
	outPort *coremidi.OutputPort
}

// New registers a CoreMIDI client named after options.CoreMIDIConfig.
func New(options *contracts.ClientOptions) (contracts.Backend, error) {
	log := options.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	name := DefaultClientName
	if options.CoreMIDIConfig != nil && options.CoreMIDIConfig.ClientName != "" {
		name = options.CoreMIDIConfig.ClientName
	}

	client, err := coremidi.NewClient(name)
	if err != nil {
		return nil, fmt.Errorf("creating CoreMIDI client %q: %w", name, err)
	}
	log.Info("MIDI backend created", log.Field().String("api", API), log.Field().String("client", name))

	return &Backend{
		logger:  log,
		client:  client,
		epoch:   time.Now(),
		inputs:  nativeio.NewTable[input](),
		outputs: nativeio.NewTable[output](),
	}, nil
}

func (b *Backend) API() string { return API }

func (b *Backend) Inputs() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		entity := source.Entity()
		devices[i] = endpointInfo(i, source.Name(), entity.Manufacturer(), entity.Name())
	}
	return devices, nil
}

// CreateInput takes a released input port from the pool, or creates one.
// CoreMIDI ports live as long as the client, so they are recycled rather
// than leaked.
func (b *Backend) CreateInput() (contracts.Handle, error) {
	in := &input{}
	h := b.inputs.Add(in)

	slot, err := b.ports.get(h, func(s *portSlot[coremidi.InputPort]) (coremidi.InputPort, error) {
		return coremidi.NewInputPort(b.client, "Input Port", func(_ coremidi.Source, packet coremidi.Packet) {
			b.receive(s.Handle(), packet)
		})
	})
	if err != nil {
		b.inputs.Remove(h)
		return contracts.NilHandle, fmt.Errorf("error creating input port: %w", err)
	}
	in.mu.Lock()
	in.slot = slot
	in.mu.Unlock()
	return h, nil
}

func (b *Backend) OpenInput(h contracts.Handle, port int, portName string) error {
	in, err := b.inputs.Get(h)
	if err != nil {
		return err
	}
	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if port < 0 || port >= len(sources) {
		return fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.conn != nil {
		return nil
	}
	in.clock.Reset()
	conn, err := in.slot.port.Connect(sources[port])
	if err != nil {
		return fmt.Errorf("error connecting to MIDI source %q: %w", portName, err)
	}
	in.conn = conn
	return nil
}

func (b *Backend) CloseInput(h contracts.Handle) error {
	in, err := b.inputs.Get(h)
	if err != nil {
		return err
	}
	in.disconnect()
	return nil
}

func (in *input) disconnect() {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.conn != nil {
		in.conn.Disconnect()
		in.conn = nil
	}
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

// FreeInput disconnects the port, returns it to the pool and forgets the handle.
func (b *Backend) FreeInput(h contracts.Handle) error {
	in, err := b.inputs.Remove(h)
	if err != nil {
		return err
	}
	in.cbMu.Lock()
	in.cb = nil
	in.cbMu.Unlock()
	in.disconnect()

	in.mu.Lock()
	slot := in.slot
	in.slot = nil
	in.mu.Unlock()
	if slot != nil {
		b.ports.put(slot)
	}
	return nil
}

// receive runs on the CoreMIDI thread. One packet may carry several messages.
func (b *Backend) receive(h contracts.Handle, packet coremidi.Packet) {
	in := b.inputs.Lookup(h)
	if in == nil {
		return
	}
	in.cbMu.Lock()
	cb, token, filter := in.cb, in.token, in.filter
	in.cbMu.Unlock()
	if cb == nil {
		return
	}

	nativeio.Split(packet.Data, func(msg []byte) {
		if filter.Drop(msg) {
			return
		}
		cb(token, in.clock.Tick(time.Since(b.epoch)), msg)
	})
}

func (b *Backend) Outputs() ([]contracts.DeviceInfo, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	devices := make([]contracts.DeviceInfo, len(destinations))
	for i, dest := range destinations {
		devices[i] = endpointInfo(i, dest.Name(), dest.Manufacturer(), "")
	}
	return devices, nil
}

// outputPort lazily creates the single output port shared by all outputs.
func (b *Backend) outputPort() (*coremidi.OutputPort, error) {
	b.outMu.Lock()
	defer b.outMu.Unlock()
	if b.outPort != nil {
		return b.outPort, nil
	}
	port, err := coremidi.NewOutputPort(b.client, "Output Port")
	if err != nil {
		return nil, fmt.Errorf("error creating output port: %w", err)
	}
	b.outPort = &port
	return b.outPort, nil
}

func (b *Backend) CreateOutput() (contracts.Handle, error) {
	if _, err := b.outputPort(); err != nil {
		return contracts.NilHandle, err
	}
	return b.outputs.Add(&output{}), nil
}

func (b *Backend) OpenOutput(h contracts.Handle, port int, portName string) error {
	out, err := b.outputs.Get(h)
	if err != nil {
		return err
	}
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI destinations: %w", err)
	}
	if port < 0 || port >= len(destinations) {
		return fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	out.mu.Lock()
	out.dest = &destinations[port]
	out.mu.Unlock()
	return nil
}

func (b *Backend) CloseOutput(h contracts.Handle) error {
	out, err := b.outputs.Get(h)
	if err != nil {
		return err
	}
	out.mu.Lock()
	out.dest = nil
	out.mu.Unlock()
	return nil
}

func (b *Backend) Send(h contracts.Handle, data []byte) error {
	out, err := b.outputs.Get(h)
	if err != nil {
		return err
	}
	port, err := b.outputPort()
	if err != nil {
		return err
	}
	out.mu.Lock()
	defer out.mu.Unlock()
	if out.dest == nil {
		return fmt.Errorf("output %d is not open", h)
	}
	packet := coremidi.NewPacket(data, 0)
	return packet.Send(port, out.dest)
}

func (b *Backend) FreeOutput(h contracts.Handle) error {
	_, err := b.outputs.Remove(h)
	return err
}
