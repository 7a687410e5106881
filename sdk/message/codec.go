package message

// Encode returns the wire form of m: three bytes for note, pressure, control
// and pitch bend messages, two for program change and channel pressure.
func Encode(m Message) []byte {
	return m.appendTo(make([]byte, 0, 3))
}

// AppendEncode appends the wire form of m to b.
func AppendEncode(b []byte, m Message) []byte {
	return m.appendTo(b)
}

// Decode parses a single, already framed channel message. Bit 7 of the data
// bytes is ignored. Failures are returned as *DecodeError and buf is never
// retained.
func Decode(buf []byte) (Message, error) {
	if len(buf) == 0 {
		return nil, &DecodeError{Length: 0, Err: ErrInvalidLength}
	}

	status := buf[0]
	t := Type(status >> 4)
	want := t.WireLength()
	if want == 0 {
		return nil, &DecodeError{Length: len(buf), Status: status, Err: ErrUnknownType}
	}
	if len(buf) != want {
		return nil, &DecodeError{Length: len(buf), Expected: want, Status: status, Err: ErrInvalidLength}
	}

	ch := Channel(status & ChannelMask)
	d1 := buf[1] & DataMask
	var d2 uint8
	if want == 3 {
		d2 = buf[2] & DataMask
	}

	switch t {
	case TypeNoteOff:
		return NoteOff{channel: ch, key: Key(d1), velocity: d2}, nil
	case TypeNoteOn:
		return NoteOn{channel: ch, key: Key(d1), velocity: d2}, nil
	case TypePolyPressure:
		return PolyPressure{channel: ch, key: Key(d1), pressure: d2}, nil
	case TypeControlChange:
		return ControlChange{channel: ch, control: d1, value: d2}, nil
	case TypeProgramChange:
		return ProgramChange{channel: ch, program: d1}, nil
	case TypeChannelPressure:
		return ChannelPressure{channel: ch, pressure: d1}, nil
	default: // TypePitchBend
		return PitchBend{channel: ch, value: uint16(d2)<<7 | uint16(d1)}, nil
	}
}
