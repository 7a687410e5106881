package device

import "errors"

// Error definitions for device lifecycle failures. Native errors are wrapped
// alongside these, so both can be matched with errors.Is.
var (
	ErrCreateDevice = errors.New("error creating MIDI device")
	ErrOpenDevice   = errors.New("error opening MIDI device")
	ErrCloseDevice  = errors.New("error closing MIDI device")
	ErrSendMessage  = errors.New("error sending MIDI message")
	ErrNilHandle    = errors.New("backend returned a null handle")
	ErrDisposed     = errors.New("device disposed")
	ErrNotOpen      = errors.New("device not open")
	ErrNoDevice     = errors.New("no such MIDI device")
	ErrNotSupported = errors.New("operation not supported by backend")
	ErrClosed       = errors.New("device manager closed")
	ErrNoBackend    = errors.New("no MIDI backend configured")
)
