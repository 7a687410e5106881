package midi

import (
	"github.com/leandrodaf/midicore/internal/logger"
	"github.com/leandrodaf/midicore/internal/midi/mididarwin"
	"github.com/leandrodaf/midicore/sdk/contracts"
)

// applyDefaultOptions sets default values for ClientOptions if not explicitly provided.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.IgnoreTypes == nil {
		ignore := contracts.DefaultIgnoreTypes
		options.IgnoreTypes = &ignore
	}
	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: mididarwin.DefaultClientName}
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
