package mididarwin

import (
	"errors"
	"testing"

	"github.com/leandrodaf/midicore/sdk/contracts"
)

func TestPortPool_ReusesReleasedPorts(t *testing.T) {
	var pool portPool[string]
	created := 0
	create := func(*portSlot[string]) (string, error) {
		created++
		return "Input Port", nil
	}

	a, err := pool.get(1, create)
	if err != nil {
		t.Fatalf("get() error = %v", err)
	}
	if a.Handle() != 1 {
		t.Fatalf("Handle() = %d, want 1", a.Handle())
	}

	pool.put(a)
	if a.Handle() != contracts.NilHandle {
		t.Fatalf("released slot still serves handle %d", a.Handle())
	}
	if pool.idle() != 1 {
		t.Fatalf("idle() = %d, want 1", pool.idle())
	}

	b, err := pool.get(2, create)
	if err != nil {
		t.Fatal(err)
	}
	if b != a {
		t.Fatal("released port was not reused")
	}
	if b.Handle() != 2 || created != 1 || pool.idle() != 0 {
		t.Fatalf("Handle() = %d, created = %d, idle = %d", b.Handle(), created, pool.idle())
	}

	c, err := pool.get(3, create)
	if err != nil {
		t.Fatal(err)
	}
	if c == b || created != 2 {
		t.Fatalf("expected a new port, created = %d", created)
	}
}

func TestPortPool_CreateFailure(t *testing.T) {
	var pool portPool[string]
	boom := errors.New("MIDIInputPortCreate failed")

	if _, err := pool.get(1, func(*portSlot[string]) (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("get() error = %v, want %v", err, boom)
	}
	if pool.idle() != 0 {
		t.Fatalf("idle() = %d after failed create", pool.idle())
	}
}

func TestEndpointInfo(t *testing.T) {
	src := endpointInfo(0, "Keystation 49", "M-Audio", "Keystation")
	if src.EntityName != "Keystation" || src.Manufacturer != "M-Audio" || src.API != API {
		t.Errorf("source info = %+v", src)
	}

	dst := endpointInfo(2, "IAC Bus 1", "Apple Inc.", "")
	want := contracts.DeviceInfo{Port: 2, Name: "IAC Bus 1", EntityName: "IAC Bus 1", Manufacturer: "Apple Inc.", API: API}
	if dst != want {
		t.Errorf("destination info = %+v, want %+v", dst, want)
	}
}
