//go:build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/leandrodaf/midicore/internal/logger"
	"github.com/leandrodaf/midicore/internal/midi/nativeio"
	"github.com/leandrodaf/midicore/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Available reports whether this backend was compiled in.
const Available = true

const (
	callbackNull     = 0x00000000
	callbackFunction = 0x00030000
)

// midiInProc message identifiers.
const (
	mimData      = 0x3C3
	mimError     = 0x3C5
	mimLongError = 0x3C6
)

// midiInCaps mirrors MIDIINCAPSW.
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// midiOutCaps mirrors MIDIOUTCAPSW.
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

var (
	winmm                 = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs  = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps  = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen        = winmm.NewProc("midiInOpen")
	procMidiInStart       = winmm.NewProc("midiInStart")
	procMidiInStop        = winmm.NewProc("midiInStop")
	procMidiInReset       = winmm.NewProc("midiInReset")
	procMidiInClose       = winmm.NewProc("midiInClose")
	procMidiOutGetNumDevs = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen       = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg   = winmm.NewProc("midiOutShortMsg")
	procMidiOutReset      = winmm.NewProc("midiOutReset")
	procMidiOutClose      = winmm.NewProc("midiOutClose")
)

// ErrMessageTooLong is returned by Send for anything longer than a short message.
var ErrMessageTooLong = errors.New("winmm only sends messages of up to 3 bytes")

// MMError is a non-zero MMRESULT.
type MMError struct {
	Op   string
	Code uintptr
}

func (e *MMError) Error() string {
	return fmt.Sprintf("%s failed: MMRESULT %d", e.Op, e.Code)
}

func mmCall(op string, proc *windows.LazyProc, args ...uintptr) error {
	r, _, _ := proc.Call(args...)
	if r != 0 {
		return &MMError{Op: op, Code: r}
	}
	return nil
}

// There is exactly one callback for the whole process. windows.NewCallback
// slots are never released, so allocating one per port would run out. Each
// port passes its table handle as dwInstance and the callback routes on it.
var (
	inputs     = nativeio.NewTable[input]()
	inCallback = windows.NewCallback(midiInProc)
)

// input keeps open/close state under mu and the callback fields under cbMu.
// winmm may block midiInStop or midiInClose until a running midiInProc
// returns, so the callback never touches mu.
type input struct {
	mu   sync.Mutex
	hmi  uintptr
	open bool

	cbMu   sync.Mutex
	filter nativeio.Filter
	cb     contracts.Callback
	token  contracts.Token
	logger contracts.Logger
	clock  nativeio.DeltaClock
}

type output struct {
	mu   sync.Mutex
	hmo  uintptr
	open bool
}

// Backend talks to winmm. It implements contracts.Backend and
// contracts.OutputBackend.
type Backend struct {
	logger  contracts.Logger
	outputs *nativeio.Table[output]
}

// New returns the winmm backend.
func New(options *contracts.ClientOptions) (contracts.Backend, error) {
	if err := winmm.Load(); err != nil {
		return nil, fmt.Errorf("loading winmm.dll: %w", err)
	}
	log := options.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	log.Info("MIDI backend created", log.Field().String("api", API))
	return &Backend{logger: log, outputs: nativeio.NewTable[output]()}, nil
}

func (b *Backend) API() string { return API }

func (b *Backend) Inputs() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	n := uint32(r0)

	devices := make([]contracts.DeviceInfo, 0, n)
	for i := uint32(0); i < n; i++ {
		var caps midiInCaps
		if err := mmCall("midiInGetDevCaps", procMidiInGetDevCaps,
			uintptr(i), uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps)); err != nil {
			b.logger.Warn("Failed to read MIDI input capabilities",
				b.logger.Field().Int("port", int(i)),
				b.logger.Field().Error("error", err))
			continue
		}
		devices = append(devices, capsInfo(int(i), caps.szPname[:], caps.wMid, caps.wPid))
	}
	return devices, nil
}

func capsInfo(port int, pname []uint16, mid, pid uint16) contracts.DeviceInfo {
	name := windows.UTF16ToString(pname)
	return contracts.DeviceInfo{
		Port:         port,
		Name:         name,
		EntityName:   name,
		Manufacturer: fmt.Sprintf("MID: %d PID: %d", mid, pid),
		API:          API,
	}
}

func (b *Backend) CreateInput() (contracts.Handle, error) {
	return inputs.Add(&input{logger: b.logger}), nil
}

func (b *Backend) OpenInput(h contracts.Handle, port int, portName string) error {
	in, err := inputs.Get(h)
	if err != nil {
		return err
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.open {
		return nil
	}

	var hmi uintptr
	if err := mmCall("midiInOpen", procMidiInOpen,
		uintptr(unsafe.Pointer(&hmi)), uintptr(port), inCallback, uintptr(h), callbackFunction); err != nil {
		return err
	}
	in.clock.Reset()
	if err := mmCall("midiInStart", procMidiInStart, hmi); err != nil {
		procMidiInClose.Call(hmi)
		return err
	}
	in.hmi, in.open = hmi, true
	b.logger.Debug("winmm input opened", b.logger.Field().Int("port", port), b.logger.Field().String("name", portName))
	return nil
}

// CloseInput stops and closes the port. Once midiInClose returns winmm makes
// no further calls for it.
func (b *Backend) CloseInput(h contracts.Handle) error {
	in, err := inputs.Get(h)
	if err != nil {
		return err
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.close()
}

func (in *input) close() error {
	if !in.open {
		return nil
	}
	released, err := releaseHandle(
		func() error { return mmCall("midiInClose", procMidiInClose, in.hmi) },
		func() error { return mmCall("midiInStop", procMidiInStop, in.hmi) },
		func() error { return mmCall("midiInReset", procMidiInReset, in.hmi) },
	)
	if released {
		in.hmi, in.open = 0, false
	}
	return err
}

func (b *Backend) IgnoreTypes(h contracts.Handle, sysex, timing, sense bool) error {
	in, err := inputs.Get(h)
	if err != nil {
		return err
	}
	in.cbMu.Lock()
	in.filter = nativeio.Filter{SysEx: sysex, Timing: timing, Sense: sense}
	in.cbMu.Unlock()
	return nil
}

func (b *Backend) SetCallback(h contracts.Handle, cb contracts.Callback, token contracts.Token) error {
	in, err := inputs.Get(h)
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

// FreeInput closes the port before forgetting the handle. If midiInClose
// fails the handle stays valid and FreeInput can be called again.
func (b *Backend) FreeInput(h contracts.Handle) error {
	return freeHandle(inputs, h, func(in *input) (bool, error) {
		in.cbMu.Lock()
		in.cb = nil
		in.cbMu.Unlock()

		in.mu.Lock()
		defer in.mu.Unlock()
		err := in.close()
		return in.open, err
	})
}

// midiInProc runs on a winmm thread.
func midiInProc(hMidiIn, wMsg, dwInstance, dwParam1, dwParam2 uintptr) uintptr {
	in := inputs.Lookup(contracts.Handle(dwInstance))
	if in == nil {
		return 0
	}
	switch wMsg {
	case mimData:
	case mimError, mimLongError:
		in.logger.Warn("winmm reported an invalid MIDI message", in.logger.Field().Uint64("param", uint64(dwParam1)))
		return 0
	default:
		return 0
	}

	in.cbMu.Lock()
	cb, token, filter := in.cb, in.token, in.filter
	in.cbMu.Unlock()
	if cb == nil {
		return 0
	}

	buf := [3]byte{byte(dwParam1), byte(dwParam1 >> 8), byte(dwParam1 >> 16)}
	n := nativeio.Length(buf[0])
	if n <= 0 {
		return 0
	}
	msg := buf[:n]
	if filter.Drop(msg) {
		return 0
	}
	// dwParam2 is milliseconds since midiInStart.
	cb(token, in.clock.Tick(time.Duration(dwParam2)*time.Millisecond), msg)
	return 0
}

func (b *Backend) Outputs() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	n := uint32(r0)

	devices := make([]contracts.DeviceInfo, 0, n)
	for i := uint32(0); i < n; i++ {
		var caps midiOutCaps
		if err := mmCall("midiOutGetDevCaps", procMidiOutGetDevCaps,
			uintptr(i), uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps)); err != nil {
			b.logger.Warn("Failed to read MIDI output capabilities",
				b.logger.Field().Int("port", int(i)),
				b.logger.Field().Error("error", err))
			continue
		}
		devices = append(devices, capsInfo(int(i), caps.szPname[:], caps.wMid, caps.wPid))
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
	out.mu.Lock()
	defer out.mu.Unlock()
	if out.open {
		return nil
	}
	var hmo uintptr
	if err := mmCall("midiOutOpen", procMidiOutOpen,
		uintptr(unsafe.Pointer(&hmo)), uintptr(port), 0, 0, callbackNull); err != nil {
		return err
	}
	out.hmo, out.open = hmo, true
	return nil
}

func (b *Backend) CloseOutput(h contracts.Handle) error {
	out, err := b.outputs.Get(h)
	if err != nil {
		return err
	}
	out.mu.Lock()
	defer out.mu.Unlock()
	return out.close()
}

func (out *output) close() error {
	if !out.open {
		return nil
	}
	released, err := releaseHandle(
		func() error { return mmCall("midiOutClose", procMidiOutClose, out.hmo) },
		func() error { return mmCall("midiOutReset", procMidiOutReset, out.hmo) },
	)
	if released {
		out.hmo, out.open = 0, false
	}
	return err
}

// Send writes a short message. data is packed status first into the low byte.
func (b *Backend) Send(h contracts.Handle, data []byte) error {
	if len(data) == 0 || len(data) > 3 {
		return ErrMessageTooLong
	}
	out, err := b.outputs.Get(h)
	if err != nil {
		return err
	}
	var packed uintptr
	for i, v := range data {
		packed |= uintptr(v) << (8 * i)
	}

	out.mu.Lock()
	defer out.mu.Unlock()
	if !out.open {
		return fmt.Errorf("output %d is not open", h)
	}
	return mmCall("midiOutShortMsg", procMidiOutShortMsg, out.hmo, packed)
}

func (b *Backend) FreeOutput(h contracts.Handle) error {
	return freeHandle(b.outputs, h, func(out *output) (bool, error) {
		out.mu.Lock()
		defer out.mu.Unlock()
		err := out.close()
		return out.open, err
	})
}
