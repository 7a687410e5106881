package midiwindows

import (
	"github.com/leandrodaf/midicore/internal/midi/nativeio"
	"github.com/leandrodaf/midicore/sdk/contracts"
	"go.uber.org/multierr"
)

// releaseHandle runs the prepare steps (stop, reset) and then release
// (close). release runs even when a prepare step fails, so a driver that
// rejects midiInStop still gets its handle closed. The bool reports whether
// release succeeded.
func releaseHandle(release func() error, prepare ...func() error) (bool, error) {
	var err error
	for _, step := range prepare {
		err = multierr.Append(err, step())
	}
	if rerr := release(); rerr != nil {
		return false, multierr.Append(err, rerr)
	}
	return true, err
}

// freeHandle closes the state behind h and drops h from the table only once
// nothing native is left open. While closeFn reports the handle still open, h
// stays valid so Free can be retried.
func freeHandle[T any](t *nativeio.Table[T], h contracts.Handle, closeFn func(*T) (open bool, err error)) error {
	v, err := t.Get(h)
	if err != nil {
		return err
	}
	open, err := closeFn(v)
	if open {
		return err
	}
	if _, rerr := t.Remove(h); rerr != nil {
		return multierr.Append(err, rerr)
	}
	return err
}
