package contracts

// Handle is an opaque native resource owned by a backend. The zero value is
// the null handle and is never returned alongside a nil error.
type Handle uintptr

// NilHandle is the null handle.
const NilHandle Handle = 0

// Token is the opaque context value handed to a backend together with a
// Callback. Backends pass it back verbatim on every invocation.
type Token uintptr

// Callback receives a raw message on a thread owned by the backend.
// data is only valid for the duration of the call.
type Callback func(token Token, timestamp float64, data []byte)

// Backend is the native input transport. Every method reports native
// failures through its error result.
type Backend interface {
	// API names the native backend (for example "rtmidi", "coremidi", "winmm").
	API() string
	// Inputs enumerates the input ports currently visible to the backend.
	Inputs() ([]DeviceInfo, error)

	CreateInput() (Handle, error)
	OpenInput(h Handle, port int, portName string) error
	CloseInput(h Handle) error
	IgnoreTypes(h Handle, sysex, timing, sense bool) error
	SetCallback(h Handle, cb Callback, token Token) error
	CancelCallback(h Handle) error
	FreeInput(h Handle) error
}

// OutputBackend is implemented by backends that can also send messages.
type OutputBackend interface {
	Outputs() ([]DeviceInfo, error)

	CreateOutput() (Handle, error)
	OpenOutput(h Handle, port int, portName string) error
	CloseOutput(h Handle) error
	Send(h Handle, data []byte) error
	FreeOutput(h Handle) error
}
