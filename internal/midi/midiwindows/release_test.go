package midiwindows

import (
	"errors"
	"reflect"
	"testing"

	"github.com/leandrodaf/midicore/internal/midi/nativeio"
)

var (
	errStop  = errors.New("stop failed")
	errClose = errors.New("close failed")
)

func TestReleaseHandle(t *testing.T) {
	tests := []struct {
		name      string
		stopErr   error
		closeErr  error
		released  bool
		wantErrs  []error
		wantCalls []string
	}{
		{
			name:      "clean",
			released:  true,
			wantCalls: []string{"stop", "reset", "close"},
		},
		{
			name:      "stop fails but close still runs",
			stopErr:   errStop,
			released:  true,
			wantErrs:  []error{errStop},
			wantCalls: []string{"stop", "reset", "close"},
		},
		{
			name:      "close fails",
			stopErr:   errStop,
			closeErr:  errClose,
			wantErrs:  []error{errStop, errClose},
			wantCalls: []string{"stop", "reset", "close"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			step := func(name string, err error) func() error {
				return func() error {
					calls = append(calls, name)
					return err
				}
			}

			released, err := releaseHandle(step("close", tt.closeErr), step("stop", tt.stopErr), step("reset", nil))
			if released != tt.released {
				t.Errorf("released = %v, want %v", released, tt.released)
			}
			if !reflect.DeepEqual(calls, tt.wantCalls) {
				t.Errorf("calls = %v, want %v", calls, tt.wantCalls)
			}
			if len(tt.wantErrs) == 0 && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			for _, want := range tt.wantErrs {
				if !errors.Is(err, want) {
					t.Errorf("error %v does not wrap %v", err, want)
				}
			}
		})
	}
}

type fakePort struct {
	open     bool
	closeErr error
	closes   int
}

func (p *fakePort) close() (bool, error) {
	p.closes++
	if p.closeErr != nil {
		return p.open, p.closeErr
	}
	p.open = false
	return false, nil
}

func TestFreeHandle_KeepsHandleWhileStillOpen(t *testing.T) {
	table := nativeio.NewTable[fakePort]()
	port := &fakePort{open: true, closeErr: errClose}
	h := table.Add(port)

	if err := freeHandle(table, h, (*fakePort).close); !errors.Is(err, errClose) {
		t.Fatalf("freeHandle error = %v, want %v", err, errClose)
	}
	if table.Lookup(h) != port {
		t.Fatal("handle was dropped although the native port is still open")
	}

	port.closeErr = nil
	if err := freeHandle(table, h, (*fakePort).close); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("table still holds %d entries", table.Len())
	}
	if port.closes != 2 {
		t.Errorf("close ran %d times, want 2", port.closes)
	}

	if err := freeHandle(table, h, (*fakePort).close); !errors.Is(err, nativeio.ErrInvalidHandle) {
		t.Errorf("second free error = %v, want %v", err, nativeio.ErrInvalidHandle)
	}
}

func TestFreeHandle_DropsHandleWhenReleasedWithError(t *testing.T) {
	table := nativeio.NewTable[fakePort]()
	h := table.Add(&fakePort{open: true})

	err := freeHandle(table, h, func(p *fakePort) (bool, error) {
		p.open = false
		return false, errStop
	})
	if !errors.Is(err, errStop) {
		t.Errorf("error = %v, want %v", err, errStop)
	}
	if table.Lookup(h) != nil {
		t.Error("handle should be gone once the native port is closed")
	}
}
