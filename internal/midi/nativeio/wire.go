package nativeio

import "github.com/leandrodaf/midicore/sdk/message"

// System message status bytes the filter and splitter care about.
const (
	SysExStart      byte = 0xF0
	TimeCodeQuarter byte = 0xF1
	SongPosition    byte = 0xF2
	SongSelect      byte = 0xF3
	SysExEnd        byte = 0xF7
	TimingClock     byte = 0xF8
	ActiveSensing   byte = 0xFE
)

// Length returns the wire length of the message that starts with status, or
// -1 for SysEx, which runs until SysExEnd.
func Length(status byte) int {
	if status < 0x80 {
		return 0
	}
	if status < 0xF0 {
		return message.Type(status >> 4).WireLength()
	}
	switch status {
	case SysExStart:
		return -1
	case TimeCodeQuarter, SongSelect:
		return 2
	case SongPosition:
		return 3
	default:
		return 1
	}
}

// Filter drops the message classes an input was told to ignore.
type Filter struct {
	SysEx  bool
	Timing bool
	Sense  bool
}

// Drop reports whether msg belongs to an ignored class.
func (f Filter) Drop(msg []byte) bool {
	if len(msg) == 0 {
		return true
	}
	switch msg[0] {
	case SysExStart:
		return f.SysEx
	case TimeCodeQuarter, TimingClock:
		return f.Timing
	case ActiveSensing:
		return f.Sense
	}
	return false
}

// Split walks a packet that may carry several messages and calls fn once per
// message. Running status is expanded, so every slice passed to fn starts
// with a status byte. Slices alias a scratch buffer and are only valid during
// the call. A truncated trailing message is passed as is.
func Split(packet []byte, fn func(msg []byte)) {
	var (
		running byte
		scratch [3]byte
	)
	for i := 0; i < len(packet); {
		status := packet[i]
		if status < 0x80 {
			if running == 0 {
				i++
				continue
			}
			n := Length(running)
			scratch[0] = running
			k := copy(scratch[1:n], packet[i:])
			fn(scratch[:1+k])
			i += k
			continue
		}

		n := Length(status)
		if n < 0 {
			end := i + 1
			for end < len(packet) && packet[end] != SysExEnd {
				end++
			}
			if end < len(packet) {
				end++
			}
			fn(packet[i:end])
			i = end
			running = 0
			continue
		}
		if status < 0xF0 {
			running = status
		} else if status < TimingClock {
			running = 0
		}
		end := min(i+n, len(packet))
		fn(packet[i:end])
		i = end
	}
}
