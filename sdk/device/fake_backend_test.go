package device

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/midicore/sdk/contracts"
)

var errNative = errors.New("native failure")

type fakeHandle struct {
	output bool
	cb     contracts.Callback
	token  contracts.Token
	open   bool
	freed  bool
	ignore [3]bool
}

// fakeBackend records every call made to it, in order, and lets tests play
// the role of the native receive thread through fire.
type fakeBackend struct {
	mu        sync.Mutex
	calls     []string
	last      contracts.Handle
	handles   map[contracts.Handle]*fakeHandle
	inputs    []contracts.DeviceInfo
	outputs   []contracts.DeviceInfo
	errs      map[string]error
	panics    map[string]bool
	nilHandle bool
	sent      [][]byte
	closed    int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		handles: make(map[contracts.Handle]*fakeHandle),
		errs:    make(map[string]error),
		panics:  make(map[string]bool),
		inputs: []contracts.DeviceInfo{
			{Port: 0, Name: "Keystation 49"},
			{Port: 1, Name: "nanoKONTROL2 SLIDER/KNOB"},
		},
		outputs: []contracts.DeviceInfo{
			{Port: 0, Name: "Synth Out"},
		},
	}
}

func (f *fakeBackend) failOn(method string, err error) {
	f.mu.Lock()
	f.errs[method] = err
	f.mu.Unlock()
}

func (f *fakeBackend) panicOn(method string) {
	f.mu.Lock()
	f.panics[method] = true
	f.mu.Unlock()
}

// call records method and returns the configured error. Callers hold f.mu.
func (f *fakeBackend) call(method string) error {
	f.calls = append(f.calls, method)
	if f.panics[method] {
		panic(fmt.Sprintf("%s exploded", method))
	}
	return f.errs[method]
}

// note appends a marker to the call log from test code.
func (f *fakeBackend) note(event string) {
	f.mu.Lock()
	f.calls = append(f.calls, event)
	f.mu.Unlock()
}

func (f *fakeBackend) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) count(method string) int {
	n := 0
	for _, c := range f.callLog() {
		if c == method {
			n++
		}
	}
	return n
}

func (f *fakeBackend) handle(h contracts.Handle) *fakeHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handles[h]
}

// fire invokes the registered callback for h the way a native thread would,
// then scribbles over data since the native buffer is only valid during the
// call. It reports whether a callback was registered.
func (f *fakeBackend) fire(h contracts.Handle, data ...byte) bool {
	f.mu.Lock()
	fh := f.handles[h]
	var cb contracts.Callback
	var token contracts.Token
	if fh != nil {
		cb, token = fh.cb, fh.token
	}
	f.mu.Unlock()

	if cb == nil {
		return false
	}
	cb(token, 0.25, data)
	for i := range data {
		data[i] = 0xFF
	}
	return true
}

func (f *fakeBackend) API() string { return "fake" }

func (f *fakeBackend) Inputs() ([]contracts.DeviceInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("Inputs"); err != nil {
		return nil, err
	}
	return append([]contracts.DeviceInfo(nil), f.inputs...), nil
}

func (f *fakeBackend) create(method string, output bool) (contracts.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(method); err != nil {
		return contracts.NilHandle, err
	}
	if f.nilHandle {
		return contracts.NilHandle, nil
	}
	f.last++
	f.handles[f.last] = &fakeHandle{output: output}
	return f.last, nil
}

func (f *fakeBackend) update(method string, h contracts.Handle, fn func(*fakeHandle)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(method); err != nil {
		return err
	}
	fh, ok := f.handles[h]
	if !ok || fh.freed {
		return fmt.Errorf("%s: invalid handle %d", method, h)
	}
	if fn != nil {
		fn(fh)
	}
	return nil
}

func (f *fakeBackend) CreateInput() (contracts.Handle, error) { return f.create("CreateInput", false) }

func (f *fakeBackend) OpenInput(h contracts.Handle, port int, portName string) error {
	return f.update("OpenInput", h, func(fh *fakeHandle) { fh.open = true })
}

func (f *fakeBackend) CloseInput(h contracts.Handle) error {
	return f.update("CloseInput", h, func(fh *fakeHandle) { fh.open = false })
}

func (f *fakeBackend) IgnoreTypes(h contracts.Handle, sysex, timing, sense bool) error {
	return f.update("IgnoreTypes", h, func(fh *fakeHandle) { fh.ignore = [3]bool{sysex, timing, sense} })
}

func (f *fakeBackend) SetCallback(h contracts.Handle, cb contracts.Callback, token contracts.Token) error {
	return f.update("SetCallback", h, func(fh *fakeHandle) { fh.cb, fh.token = cb, token })
}

func (f *fakeBackend) CancelCallback(h contracts.Handle) error {
	return f.update("CancelCallback", h, func(fh *fakeHandle) { fh.cb = nil })
}

func (f *fakeBackend) FreeInput(h contracts.Handle) error {
	return f.update("FreeInput", h, func(fh *fakeHandle) { fh.freed = true })
}

func (f *fakeBackend) Outputs() ([]contracts.DeviceInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("Outputs"); err != nil {
		return nil, err
	}
	return append([]contracts.DeviceInfo(nil), f.outputs...), nil
}

func (f *fakeBackend) CreateOutput() (contracts.Handle, error) { return f.create("CreateOutput", true) }

func (f *fakeBackend) OpenOutput(h contracts.Handle, port int, portName string) error {
	return f.update("OpenOutput", h, func(fh *fakeHandle) { fh.open = true })
}

func (f *fakeBackend) CloseOutput(h contracts.Handle) error {
	return f.update("CloseOutput", h, func(fh *fakeHandle) { fh.open = false })
}

func (f *fakeBackend) Send(h contracts.Handle, data []byte) error {
	return f.update("Send", h, func(fh *fakeHandle) {
		f.sent = append(f.sent, append([]byte(nil), data...))
	})
}

func (f *fakeBackend) FreeOutput(h contracts.Handle) error {
	return f.update("FreeOutput", h, func(fh *fakeHandle) { fh.freed = true })
}

func (f *fakeBackend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return f.call("Close")
}

// inputOnly hides the output half of a backend.
type inputOnly struct {
	contracts.Backend
}
