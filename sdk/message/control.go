package message

import "fmt"

// ControlChange reports a controller (knob, fader, pedal) moving.
type ControlChange struct {
	channel Channel
	control uint8
	value   uint8
}

// NewControlChange builds a ControlChange message.
func NewControlChange(channel, control, value int) (ControlChange, error) {
	if err := firstError(
		checkRange("channel", channel, MaxChannel),
		checkRange("control", control, MaxDataValue),
		checkRange("value", value, MaxDataValue),
	); err != nil {
		return ControlChange{}, err
	}
	return ControlChange{channel: Channel(channel), control: uint8(control), value: uint8(value)}, nil
}

func (m ControlChange) Type() Type       { return TypeControlChange }
func (m ControlChange) Channel() Channel { return m.channel }
func (m ControlChange) Control() uint8   { return m.control }
func (m ControlChange) Value() uint8     { return m.value }

func (m ControlChange) String() string {
	return fmt.Sprintf("ControlChange Channel: %d, Control: %d, Value: %d", m.channel, m.control, m.value)
}

func (m ControlChange) appendTo(b []byte) []byte {
	return append(b, statusByte(TypeControlChange, m.channel), dataByte(m.control), dataByte(m.value))
}

// ProgramChange selects a patch. It is a two-byte message on the wire.
type ProgramChange struct {
	channel Channel
	program uint8
}

// NewProgramChange builds a ProgramChange message.
func NewProgramChange(channel, program int) (ProgramChange, error) {
	if err := firstError(
		checkRange("channel", channel, MaxChannel),
		checkRange("program", program, MaxDataValue),
	); err != nil {
		return ProgramChange{}, err
	}
	return ProgramChange{channel: Channel(channel), program: uint8(program)}, nil
}

func (m ProgramChange) Type() Type       { return TypeProgramChange }
func (m ProgramChange) Channel() Channel { return m.channel }
func (m ProgramChange) Program() uint8   { return m.program }

func (m ProgramChange) String() string {
	return fmt.Sprintf("ProgramChange Channel: %d, Program: %d", m.channel, m.program)
}

func (m ProgramChange) appendTo(b []byte) []byte {
	return append(b, statusByte(TypeProgramChange, m.channel), dataByte(m.program))
}

// ChannelPressure carries channel-wide aftertouch. It is a two-byte message
// on the wire.
type ChannelPressure struct {
	channel  Channel
	pressure uint8
}

// NewChannelPressure builds a ChannelPressure message.
func NewChannelPressure(channel, pressure int) (ChannelPressure, error) {
	if err := firstError(
		checkRange("channel", channel, MaxChannel),
		checkRange("pressure", pressure, MaxDataValue),
	); err != nil {
		return ChannelPressure{}, err
	}
	return ChannelPressure{channel: Channel(channel), pressure: uint8(pressure)}, nil
}

func (m ChannelPressure) Type() Type       { return TypeChannelPressure }
func (m ChannelPressure) Channel() Channel { return m.channel }
func (m ChannelPressure) Pressure() uint8  { return m.pressure }

func (m ChannelPressure) String() string {
	return fmt.Sprintf("ChannelPressure Channel: %d, Pressure: %d", m.channel, m.pressure)
}

func (m ChannelPressure) appendTo(b []byte) []byte {
	return append(b, statusByte(TypeChannelPressure, m.channel), dataByte(m.pressure))
}
