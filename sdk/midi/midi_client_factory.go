package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/midicore/internal/midi/mididarwin"
	"github.com/leandrodaf/midicore/internal/midi/midirtmidi"
	"github.com/leandrodaf/midicore/internal/midi/midiwindows"
	"github.com/leandrodaf/midicore/sdk/contracts"
)

// ErrUnsupportedOS is returned when no backend is available for the operating system.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// ErrUnknownAPI is returned by NewBackendFor for names AvailableAPIs does not list.
var ErrUnknownAPI = errors.New("unknown MIDI API")

type backendInitializer struct {
	api       string
	available bool
	init      func(*contracts.ClientOptions) (contracts.Backend, error)
}

// backendInitializers maps OS names to the native backend for that OS.
var backendInitializers = map[string]backendInitializer{
	"darwin":  {mididarwin.API, mididarwin.Available, mididarwin.New},   // macOS (Darwin) CoreMIDI backend.
	"windows": {midiwindows.API, midiwindows.Available, midiwindows.New}, // Windows winmm backend.
}

// rtmidiBackend works on every OS that RtMidi supports but needs cgo, so it
// only takes part when built with the rtmidi tag.
var rtmidiBackend = backendInitializer{midirtmidi.API, midirtmidi.Available, midirtmidi.New}

// candidates returns the usable backends in order of preference.
func candidates() []backendInitializer {
	var list []backendInitializer
	if rtmidiBackend.available {
		list = append(list, rtmidiBackend)
	}
	if native, ok := backendInitializers[runtime.GOOS]; ok && native.available {
		list = append(list, native)
	}
	return list
}

// AvailableAPIs lists the backends compiled into this binary for the current
// OS, preferred first.
func AvailableAPIs() []string {
	var apis []string
	for _, c := range candidates() {
		apis = append(apis, c.api)
	}
	return apis
}

// NewBackend creates the preferred backend for the current operating system.
// It returns ErrUnsupportedOS if there is none.
func NewBackend(opts *contracts.ClientOptions) (contracts.Backend, error) {
	list := candidates()
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
	}
	return list[0].init(opts)
}

// NewBackendFor creates the backend named api, one of AvailableAPIs.
func NewBackendFor(api string, opts *contracts.ClientOptions) (contracts.Backend, error) {
	for _, c := range candidates() {
		if c.api == api {
			return c.init(opts)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAPI, api)
}
