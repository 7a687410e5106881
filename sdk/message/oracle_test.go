package message

import (
	"bytes"
	"testing"

	"gitlab.com/gomidi/midi/v2"
)

// The gomidi encoder is an independent implementation of the same wire format.
func TestEncode_MatchesGomidi(t *testing.T) {
	for ch := uint8(0); ch <= MaxChannel; ch++ {
		for v := uint8(0); v <= MaxDataValue; v += 7 {
			on, _ := NewNoteOn(int(ch), int(v), int(MaxDataValue-v))
			off, _ := NewNoteOff(int(ch), int(v), int(v/2))
			cc, _ := NewControlChange(int(ch), int(v), int(v))
			pc, _ := NewProgramChange(int(ch), int(v))
			cp, _ := NewChannelPressure(int(ch), int(v))
			pp, _ := NewPolyPressure(int(ch), int(v), int(v))

			pairs := []struct {
				ours   Message
				theirs midi.Message
			}{
				{on, midi.NoteOn(ch, v, MaxDataValue-v)},
				{off, midi.NoteOffVelocity(ch, v, v/2)},
				{cc, midi.ControlChange(ch, v, v)},
				{pc, midi.ProgramChange(ch, v)},
				{cp, midi.AfterTouch(ch, v)},
				{pp, midi.PolyAfterTouch(ch, v, v)},
			}
			for _, p := range pairs {
				if got := Encode(p.ours); !bytes.Equal(got, []byte(p.theirs)) {
					t.Fatalf("Encode(%v) = % X, gomidi = % X", p.ours, got, []byte(p.theirs))
				}
			}
		}
	}
}

func TestDecode_AgreesWithGomidi(t *testing.T) {
	var ch, key, vel, cc, val uint8

	raw := midi.NoteOn(5, 60, 100)
	m, err := Decode([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if !raw.GetNoteOn(&ch, &key, &vel) {
		t.Fatal("gomidi does not recognise its own NoteOn")
	}
	on := m.(NoteOn)
	if uint8(on.Channel()) != ch || uint8(on.Key()) != key || on.Velocity() != vel {
		t.Errorf("Decode = %v, gomidi = ch %d key %d vel %d", on, ch, key, vel)
	}

	raw = midi.ControlChange(3, 7, 127)
	m, err = Decode([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if !raw.GetControlChange(&ch, &cc, &val) {
		t.Fatal("gomidi does not recognise its own ControlChange")
	}
	c := m.(ControlChange)
	if uint8(c.Channel()) != ch || c.Control() != cc || c.Value() != val {
		t.Errorf("Decode = %v, gomidi = ch %d cc %d val %d", c, ch, cc, val)
	}
}

func TestPitchBend_MatchesGomidi(t *testing.T) {
	for _, rel := range []int16{-8192, -1, 0, 1, 100, 8191} {
		pb, err := NewPitchBend(3, int(rel)+PitchBendCenter)
		if err != nil {
			t.Fatal(err)
		}
		want := []byte(midi.Pitchbend(3, rel))
		if got := Encode(pb); !bytes.Equal(got, want) {
			t.Errorf("Encode(%v) = % X, gomidi = % X", pb, got, want)
		}
		if pb.Relative() != int(rel) {
			t.Errorf("Relative() = %d, want %d", pb.Relative(), rel)
		}
	}
}
