package message

import "fmt"

// PitchBend reports the pitch wheel position as a 14-bit value, where
// PitchBendCenter means no bend.
type PitchBend struct {
	channel Channel
	value   uint16
}

// NewPitchBend builds a PitchBend message from an unsigned 14-bit value.
func NewPitchBend(channel, value int) (PitchBend, error) {
	if err := firstError(
		checkRange("channel", channel, MaxChannel),
		checkRange("value", value, MaxPitchBend),
	); err != nil {
		return PitchBend{}, err
	}
	return PitchBend{channel: Channel(channel), value: uint16(value)}, nil
}

func (m PitchBend) Type() Type       { return TypePitchBend }
func (m PitchBend) Channel() Channel { return m.channel }
func (m PitchBend) Value() uint16    { return m.value }

// Relative returns the bend relative to the centre, in [-8192, 8191].
func (m PitchBend) Relative() int { return int(m.value) - PitchBendCenter }

func (m PitchBend) String() string {
	return fmt.Sprintf("PitchBend Channel: %d, Value: %d", m.channel, m.value)
}

// The wire carries the low seven bits first.
func (m PitchBend) appendTo(b []byte) []byte {
	return append(b,
		statusByte(TypePitchBend, m.channel),
		dataByte(uint8(m.value)),
		dataByte(uint8(m.value>>7)),
	)
}
