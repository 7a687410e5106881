// Package midirtmidi implements the native backend on top of RtMidi through
// gitlab.com/gomidi/midi/v2. It needs cgo and is only compiled with the
// rtmidi build tag.
package midirtmidi

import "errors"

// API is the backend name reported to callers.
const API = "rtmidi"

var (
	// ErrUnavailable is returned by New when built without the rtmidi tag.
	ErrUnavailable = errors.New("rtmidi backend not compiled in (build with -tags rtmidi)")
	// ErrInvalidPort is returned when no port matches the requested number or name.
	ErrInvalidPort = errors.New("invalid MIDI port")
)
