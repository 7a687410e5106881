package contracts

// IgnoreTypes selects which non-channel messages the backend drops before
// they reach the input callback.
type IgnoreTypes struct {
	SysEx  bool // System-Exclusive messages.
	Timing bool // MIDI time code and clock.
	Sense  bool // Active sensing.
}

// DefaultIgnoreTypes keeps SysEx and drops timing and active sensing.
var DefaultIgnoreTypes = IgnoreTypes{SysEx: false, Timing: true, Sense: true}

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
}

// ClientOptions defines the configuration options for the device manager.
type ClientOptions struct {
	Logger         Logger          // Logger for logging events and errors.
	LogLevel       LogLevel        // Level of logging to use.
	IgnoreTypes    *IgnoreTypes    // Message classes filtered out by the backend.
	Backend        Backend         // Explicit backend; when nil one is picked for the OS.
	API            string          // Backend name to pick when Backend is nil; empty means the OS default.
	CoreMIDIConfig *CoreMIDIConfig // Configuration specific to CoreMIDI.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the device manager.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithIgnoreTypes sets which message classes input devices drop.
func WithIgnoreTypes(ignore IgnoreTypes) Option {
	return func(opts *ClientOptions) {
		opts.IgnoreTypes = &ignore
	}
}

// WithBackend forces a specific native backend instead of the OS default.
func WithBackend(b Backend) Option {
	return func(opts *ClientOptions) {
		opts.Backend = b
	}
}

// WithClientName sets the client name registered with CoreMIDI.
func WithClientName(name string) Option {
	return func(opts *ClientOptions) {
		opts.CoreMIDIConfig = &CoreMIDIConfig{ClientName: name}
	}
}

// WithAPI selects a compiled-in backend by name, for example "rtmidi".
func WithAPI(api string) Option {
	return func(opts *ClientOptions) {
		opts.API = api
	}
}
