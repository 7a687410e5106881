package midi

import (
	"errors"
	"testing"

	"github.com/leandrodaf/midicore/internal/logger"
	"github.com/leandrodaf/midicore/internal/midi/mididarwin"
	"github.com/leandrodaf/midicore/sdk/contracts"
)

type stubBackend struct{}

func (stubBackend) API() string                                   { return "stub" }
func (stubBackend) Inputs() ([]contracts.DeviceInfo, error)       { return nil, nil }
func (stubBackend) CreateInput() (contracts.Handle, error)        { return 1, nil }
func (stubBackend) OpenInput(contracts.Handle, int, string) error { return nil }
func (stubBackend) CloseInput(contracts.Handle) error             { return nil }
func (stubBackend) IgnoreTypes(contracts.Handle, bool, bool, bool) error {
	return nil
}
func (stubBackend) SetCallback(contracts.Handle, contracts.Callback, contracts.Token) error {
	return nil
}
func (stubBackend) CancelCallback(contracts.Handle) error { return nil }
func (stubBackend) FreeInput(contracts.Handle) error      { return nil }

func TestApplyDefaultOptions(t *testing.T) {
	options, err := applyDefaultOptions()
	if err != nil {
		t.Fatalf("applyDefaultOptions() error = %v", err)
	}
	if options.Logger == nil {
		t.Error("no default logger")
	}
	if options.IgnoreTypes == nil || *options.IgnoreTypes != contracts.DefaultIgnoreTypes {
		t.Errorf("IgnoreTypes = %+v, want %+v", options.IgnoreTypes, contracts.DefaultIgnoreTypes)
	}
	if options.CoreMIDIConfig == nil || options.CoreMIDIConfig.ClientName != mididarwin.DefaultClientName {
		t.Errorf("CoreMIDIConfig = %+v", options.CoreMIDIConfig)
	}
}

func TestApplyDefaultOptions_KeepsExplicitValues(t *testing.T) {
	ignore := contracts.IgnoreTypes{SysEx: true}
	options, err := applyDefaultOptions(
		contracts.WithLogger(logger.NewNopLogger()),
		contracts.WithIgnoreTypes(ignore),
		contracts.WithClientName("Studio"),
		contracts.WithAPI("rtmidi"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if *options.IgnoreTypes != ignore {
		t.Errorf("IgnoreTypes = %+v, want %+v", *options.IgnoreTypes, ignore)
	}
	if options.CoreMIDIConfig.ClientName != "Studio" {
		t.Errorf("ClientName = %q", options.CoreMIDIConfig.ClientName)
	}
	if options.API != "rtmidi" {
		t.Errorf("API = %q", options.API)
	}
}

func TestNewManager_WithBackend(t *testing.T) {
	m, err := NewManager(contracts.WithLogger(logger.NewNopLogger()), contracts.WithBackend(stubBackend{}))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	defer m.Close()

	if m.API() != "stub" {
		t.Errorf("API() = %q, want stub", m.API())
	}
}

func TestNewManager_UnknownAPI(t *testing.T) {
	_, err := NewManager(contracts.WithLogger(logger.NewNopLogger()), contracts.WithAPI("jack"))
	if !errors.Is(err, ErrUnknownAPI) {
		t.Fatalf("error = %v, want ErrUnknownAPI", err)
	}
}

func TestNewBackend_NoneAvailable(t *testing.T) {
	if len(AvailableAPIs()) > 0 {
		t.Skipf("backends available: %v", AvailableAPIs())
	}
	_, err := NewBackend(&contracts.ClientOptions{Logger: logger.NewNopLogger()})
	if !errors.Is(err, ErrUnsupportedOS) {
		t.Fatalf("error = %v, want ErrUnsupportedOS", err)
	}
}

func TestAvailableAPIs_MatchCandidates(t *testing.T) {
	apis := AvailableAPIs()
	list := candidates()
	if len(apis) != len(list) {
		t.Fatalf("AvailableAPIs() = %v, candidates = %d", apis, len(list))
	}
	for i, c := range list {
		if !c.available || c.api != apis[i] {
			t.Errorf("candidate %d = %+v, want available %q", i, c, apis[i])
		}
	}
}
