package device

import (
	"sync"

	"github.com/leandrodaf/midicore/sdk/contracts"
)

// Registry maps the opaque tokens handed to native backends back to the input
// devices that own them, so backend threads never need a Go pointer.
// Tokens are never reused.
type Registry struct {
	mu       sync.RWMutex
	last     contracts.Token
	sessions map[contracts.Token]*InputDevice
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[contracts.Token]*InputDevice)}
}

func (r *Registry) register(d *InputDevice) contracts.Token {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.last++
	r.sessions[r.last] = d
	return r.last
}

func (r *Registry) release(token contracts.Token) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

func (r *Registry) lookup(token contracts.Token) (*InputDevice, bool) {
	r.mu.RLock()
	d, ok := r.sessions[token]
	r.mu.RUnlock()
	return d, ok
}

// Len returns the number of registered devices.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// dispatch is the callback registered with every backend. Unknown tokens are
// ignored: the device may already be gone.
func (r *Registry) dispatch(token contracts.Token, timestamp float64, data []byte) {
	if d, ok := r.lookup(token); ok {
		d.receive(timestamp, data)
	}
}
