package message

import "fmt"

// NoteOn is sent when a note is pressed.
type NoteOn struct {
	channel  Channel
	key      Key
	velocity uint8
}

// NewNoteOn builds a NoteOn message.
func NewNoteOn(channel, key, velocity int) (NoteOn, error) {
	if err := firstError(
		checkRange("channel", channel, MaxChannel),
		checkRange("key", key, MaxDataValue),
		checkRange("velocity", velocity, MaxDataValue),
	); err != nil {
		return NoteOn{}, err
	}
	return NoteOn{channel: Channel(channel), key: Key(key), velocity: uint8(velocity)}, nil
}

func (m NoteOn) Type() Type       { return TypeNoteOn }
func (m NoteOn) Channel() Channel { return m.channel }
func (m NoteOn) Key() Key         { return m.key }
func (m NoteOn) Velocity() uint8  { return m.velocity }

func (m NoteOn) String() string {
	return fmt.Sprintf("NoteOn Channel: %d, Key: %d (%s), Velocity: %d", m.channel, m.key, m.key, m.velocity)
}

func (m NoteOn) appendTo(b []byte) []byte {
	return append(b, statusByte(TypeNoteOn, m.channel), dataByte(uint8(m.key)), dataByte(m.velocity))
}

// NoteOff is sent when a note is released.
type NoteOff struct {
	channel  Channel
	key      Key
	velocity uint8
}

// NewNoteOff builds a NoteOff message.
func NewNoteOff(channel, key, velocity int) (NoteOff, error) {
	if err := firstError(
		checkRange("channel", channel, MaxChannel),
		checkRange("key", key, MaxDataValue),
		checkRange("velocity", velocity, MaxDataValue),
	); err != nil {
		return NoteOff{}, err
	}
	return NoteOff{channel: Channel(channel), key: Key(key), velocity: uint8(velocity)}, nil
}

func (m NoteOff) Type() Type       { return TypeNoteOff }
func (m NoteOff) Channel() Channel { return m.channel }
func (m NoteOff) Key() Key         { return m.key }
func (m NoteOff) Velocity() uint8  { return m.velocity }

func (m NoteOff) String() string {
	return fmt.Sprintf("NoteOff Channel: %d, Key: %d (%s), Velocity: %d", m.channel, m.key, m.key, m.velocity)
}

func (m NoteOff) appendTo(b []byte) []byte {
	return append(b, statusByte(TypeNoteOff, m.channel), dataByte(uint8(m.key)), dataByte(m.velocity))
}

// PolyPressure carries per-key aftertouch.
type PolyPressure struct {
	channel  Channel
	key      Key
	pressure uint8
}

// NewPolyPressure builds a PolyPressure message.
func NewPolyPressure(channel, key, pressure int) (PolyPressure, error) {
	if err := firstError(
		checkRange("channel", channel, MaxChannel),
		checkRange("key", key, MaxDataValue),
		checkRange("pressure", pressure, MaxDataValue),
	); err != nil {
		return PolyPressure{}, err
	}
	return PolyPressure{channel: Channel(channel), key: Key(key), pressure: uint8(pressure)}, nil
}

func (m PolyPressure) Type() Type       { return TypePolyPressure }
func (m PolyPressure) Channel() Channel { return m.channel }
func (m PolyPressure) Key() Key         { return m.key }
func (m PolyPressure) Pressure() uint8  { return m.pressure }

func (m PolyPressure) String() string {
	return fmt.Sprintf("PolyPressure Channel: %d, Key: %d (%s), Pressure: %d", m.channel, m.key, m.key, m.pressure)
}

func (m PolyPressure) appendTo(b []byte) []byte {
	return append(b, statusByte(TypePolyPressure, m.channel), dataByte(uint8(m.key)), dataByte(m.pressure))
}
