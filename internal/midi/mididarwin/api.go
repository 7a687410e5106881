// Package mididarwin implements the native backend on top of CoreMIDI.
package mididarwin

import "errors"

// API is the backend name reported to callers.
const API = "coremidi"

// DefaultClientName is registered with CoreMIDI when none is configured.
const DefaultClientName = "GO MIDI Client"

var (
	// ErrUnavailable is returned by New on platforms other than macOS.
	ErrUnavailable = errors.New("coremidi backend is only available on darwin")
	// ErrInvalidPort is returned when a port number does not name a current endpoint.
	ErrInvalidPort = errors.New("invalid MIDI port")
)
