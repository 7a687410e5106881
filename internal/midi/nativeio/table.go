// Package nativeio holds the pieces shared by the native backends: a handle
// table that keeps Go state off the native side, the ignore filter, packet
// splitting and the delta clock used for callback timestamps.
package nativeio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/midicore/sdk/contracts"
)

// ErrInvalidHandle is returned for handles a table never issued or already freed.
var ErrInvalidHandle = errors.New("invalid handle")

// Table maps handles to backend state. Handles start at 1 and are never
// reused, so a stale handle coming back from a native thread misses instead
// of landing on a newer port.
type Table[T any] struct {
	mu    sync.RWMutex
	last  contracts.Handle
	items map[contracts.Handle]*T
}

// NewTable returns an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{items: make(map[contracts.Handle]*T)}
}

// Add stores v under a fresh handle.
func (t *Table[T]) Add(v *T) contracts.Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last++
	t.items[t.last] = v
	return t.last
}

// Get returns the state for h.
func (t *Table[T]) Get(h contracts.Handle) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.items[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	return v, nil
}

// Lookup is Get without the error, for callback paths.
func (t *Table[T]) Lookup(h contracts.Handle) *T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.items[h]
}

// Remove deletes h and returns what it held.
func (t *Table[T]) Remove(h contracts.Handle) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.items[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	delete(t.items, h)
	return v, nil
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

// Each calls fn for every live handle. fn must not modify the table.
func (t *Table[T]) Each(fn func(contracts.Handle, *T)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for h, v := range t.items {
		fn(h, v)
	}
}
