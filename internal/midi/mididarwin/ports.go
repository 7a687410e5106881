package mididarwin

import (
	"sync"
	"sync/atomic"

	"github.com/leandrodaf/midicore/sdk/contracts"
)

// portSlot is a native input port plus the handle it currently serves. The
// port's read proc is bound to the slot, not to a handle, so a freed port can
// be handed to a new handle without creating another CoreMIDI port.
type portSlot[P any] struct {
	port   P
	handle atomic.Uintptr
}

// Handle returns the handle the slot serves, or contracts.NilHandle while the
// slot sits in the pool.
func (s *portSlot[P]) Handle() contracts.Handle {
	return contracts.Handle(s.handle.Load())
}

func (s *portSlot[P]) bind(h contracts.Handle) { s.handle.Store(uintptr(h)) }

// portPool keeps released input ports for reuse.
type portPool[P any] struct {
	mu   sync.Mutex
	free []*portSlot[P]
}

// get returns a pooled slot bound to h, or calls create for a new one.
func (p *portPool[P]) get(h contracts.Handle, create func(*portSlot[P]) (P, error)) (*portSlot[P], error) {
	p.mu.Lock()
	if n := len(p.free); n > 0 {
		s := p.free[n-1]
		p.free = p.free[:n-1]
		p.mu.Unlock()
		s.bind(h)
		return s, nil
	}
	p.mu.Unlock()

	s := &portSlot[P]{}
	port, err := create(s)
	if err != nil {
		return nil, err
	}
	s.port = port
	s.bind(h)
	return s, nil
}

// put unbinds s and keeps it for the next get.
func (p *portPool[P]) put(s *portSlot[P]) {
	s.bind(contracts.NilHandle)
	p.mu.Lock()
	p.free = append(p.free, s)
	p.mu.Unlock()
}

// idle returns the number of pooled slots.
func (p *portPool[P]) idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// endpointInfo describes a CoreMIDI endpoint. Sources carry an entity;
// destinations only expose their own name and manufacturer.
func endpointInfo(port int, name, manufacturer, entityName string) contracts.DeviceInfo {
	if entityName == "" {
		entityName = name
	}
	return contracts.DeviceInfo{
		Port:         port,
		Name:         name,
		EntityName:   entityName,
		Manufacturer: manufacturer,
		API:          API,
	}
}
