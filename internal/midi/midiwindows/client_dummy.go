//go:build !windows

package midiwindows

import (
	"github.com/leandrodaf/midicore/sdk/contracts"
)

// Available reports whether this backend was compiled in.
const Available = false

// New always fails outside Windows.
func New(options *contracts.ClientOptions) (contracts.Backend, error) {
	return nil, ErrUnavailable
}
