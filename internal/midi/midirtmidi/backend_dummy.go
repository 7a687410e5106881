//go:build !rtmidi

package midirtmidi

import (
	"github.com/leandrodaf/midicore/sdk/contracts"
)

// Available reports whether this backend was compiled in.
const Available = false

// New always fails without the rtmidi build tag.
func New(options *contracts.ClientOptions) (contracts.Backend, error) {
	return nil, ErrUnavailable
}
