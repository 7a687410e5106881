//go:build !darwin

package mididarwin

import (
	"github.com/leandrodaf/midicore/sdk/contracts"
)

// Available reports whether this backend was compiled in.
const Available = false

// New always fails outside macOS.
func New(options *contracts.ClientOptions) (contracts.Backend, error) {
	return nil, ErrUnavailable
}
