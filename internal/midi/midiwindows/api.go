// Package midiwindows implements the native backend on top of the Windows
// multimedia API (winmm.dll).
package midiwindows

import "errors"

// API is the backend name reported to callers.
const API = "winmm"

// ErrUnavailable is returned by New on platforms other than Windows.
var ErrUnavailable = errors.New("winmm backend is only available on windows")
