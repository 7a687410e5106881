// Package message converts MIDI channel messages between typed values and
// their wire encoding.
//
// Every message value is immutable and can only be obtained through one of
// the New* constructors (or Decode), which reject out-of-range fields. The
// zero value of each message type is a valid message on channel 0 with all
// data fields set to 0.
package message

import "fmt"

// Bit masks used on the wire.
const (
	StatusMask  = 0xF0 // High nibble of a status byte: message type.
	ChannelMask = 0x0F // Low nibble of a status byte: channel.
	DataMask    = 0x7F // Payload bits of a data byte.
)

// Field limits.
const (
	MaxChannel   = 15
	MaxDataValue = 127
	MaxPitchBend = 1<<14 - 1

	// PitchBendCenter is the neutral pitch wheel position.
	PitchBendCenter = 1 << 13
)

// Type is the message-type tag carried in the high nibble of the status byte.
type Type uint8

// Recognized channel message types.
const (
	TypeNoteOff         Type = 0x8
	TypeNoteOn          Type = 0x9
	TypePolyPressure    Type = 0xA
	TypeControlChange   Type = 0xB
	TypeProgramChange   Type = 0xC
	TypeChannelPressure Type = 0xD
	TypePitchBend       Type = 0xE
)

// String returns the name of the message type.
func (t Type) String() string {
	switch t {
	case TypeNoteOff:
		return "NoteOff"
	case TypeNoteOn:
		return "NoteOn"
	case TypePolyPressure:
		return "PolyPressure"
	case TypeControlChange:
		return "ControlChange"
	case TypeProgramChange:
		return "ProgramChange"
	case TypeChannelPressure:
		return "ChannelPressure"
	case TypePitchBend:
		return "PitchBend"
	default:
		return fmt.Sprintf("Type(0x%X)", uint8(t))
	}
}

// WireLength returns the encoded size of messages of this type, or 0 when the
// type is not recognized.
func (t Type) WireLength() int {
	switch t {
	case TypeNoteOff, TypeNoteOn, TypePolyPressure, TypeControlChange, TypePitchBend:
		return 3
	case TypeProgramChange, TypeChannelPressure:
		return 2
	default:
		return 0
	}
}

// Channel identifies one of the 16 MIDI channels (0-15).
type Channel uint8

// NewChannel validates n as a channel number.
func NewChannel(n int) (Channel, error) {
	if err := checkRange("channel", n, MaxChannel); err != nil {
		return 0, err
	}
	return Channel(n), nil
}

// Key is a MIDI note number (0-127). Key 60 is middle C (C4).
type Key uint8

// NewKey validates n as a note number.
func NewKey(n int) (Key, error) {
	if err := checkRange("key", n, MaxDataValue); err != nil {
		return 0, err
	}
	return Key(n), nil
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// String returns the scientific pitch name of the key, for example "C4".
func (k Key) String() string {
	return fmt.Sprintf("%s%d", noteNames[k%12], int(k)/12-1)
}

// Message is a decoded MIDI channel message. The set of implementations is
// closed; use a type switch over the concrete types.
type Message interface {
	fmt.Stringer
	Type() Type
	Channel() Channel

	appendTo(b []byte) []byte
}

func statusByte(t Type, ch Channel) byte {
	return byte(t)<<4 | byte(ch)&ChannelMask
}

func dataByte(v uint8) byte {
	return v & DataMask
}
