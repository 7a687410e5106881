package device

import (
	"github.com/leandrodaf/midicore/sdk/message"
)

// Handler receives messages of type M from an input device.
type Handler[M message.Message] func(src *InputDevice, msg M)

type subscriber struct {
	id uint64
	fn func(*InputDevice, message.Message)
}

// Subscribe registers h for every decoded message of type M. Use
// message.Message as M to receive everything. The returned function removes
// the subscription and is safe to call more than once.
func Subscribe[M message.Message](d *InputDevice, h Handler[M]) (unsubscribe func()) {
	return d.subscribe(func(src *InputDevice, m message.Message) {
		if msg, ok := m.(M); ok {
			h(src, msg)
		}
	})
}

// OnMessage subscribes to every message.
func (d *InputDevice) OnMessage(h Handler[message.Message]) func() { return Subscribe(d, h) }

// OnNoteOn subscribes to NoteOn messages.
func (d *InputDevice) OnNoteOn(h Handler[message.NoteOn]) func() { return Subscribe(d, h) }

// OnNoteOff subscribes to NoteOff messages.
func (d *InputDevice) OnNoteOff(h Handler[message.NoteOff]) func() { return Subscribe(d, h) }

// OnControlChange subscribes to ControlChange messages.
func (d *InputDevice) OnControlChange(h Handler[message.ControlChange]) func() {
	return Subscribe(d, h)
}

// OnProgramChange subscribes to ProgramChange messages.
func (d *InputDevice) OnProgramChange(h Handler[message.ProgramChange]) func() {
	return Subscribe(d, h)
}

// OnPitchBend subscribes to PitchBend messages.
func (d *InputDevice) OnPitchBend(h Handler[message.PitchBend]) func() { return Subscribe(d, h) }

// OnPolyPressure subscribes to PolyPressure messages.
func (d *InputDevice) OnPolyPressure(h Handler[message.PolyPressure]) func() {
	return Subscribe(d, h)
}

// OnChannelPressure subscribes to ChannelPressure messages.
func (d *InputDevice) OnChannelPressure(h Handler[message.ChannelPressure]) func() {
	return Subscribe(d, h)
}

// subscribe and unsubscribe copy the list, so publish can iterate a snapshot
// without locking.
func (d *InputDevice) subscribe(fn func(*InputDevice, message.Message)) func() {
	d.subsMu.Lock()
	if d.subsClosed {
		d.subsMu.Unlock()
		return func() {}
	}
	d.nextSub++
	id := d.nextSub
	var next []subscriber
	if cur := d.subs.Load(); cur != nil {
		next = append(next, *cur...)
	}
	next = append(next, subscriber{id: id, fn: fn})
	d.subs.Store(&next)
	d.subsMu.Unlock()

	return func() { d.unsubscribe(id) }
}

func (d *InputDevice) unsubscribe(id uint64) {
	d.subsMu.Lock()
	defer d.subsMu.Unlock()

	cur := d.subs.Load()
	if cur == nil {
		return
	}
	next := make([]subscriber, 0, len(*cur))
	for _, s := range *cur {
		if s.id != id {
			next = append(next, s)
		}
	}
	d.subs.Store(&next)
}

// Subscribers returns the number of active subscriptions.
func (d *InputDevice) Subscribers() int {
	if cur := d.subs.Load(); cur != nil {
		return len(*cur)
	}
	return 0
}

func (d *InputDevice) publish(msg message.Message) {
	cur := d.subs.Load()
	if cur == nil {
		return
	}
	for _, s := range *cur {
		d.invoke(s, msg)
	}
}

// invoke isolates one handler: a panic is logged and the next handler still runs.
func (d *InputDevice) invoke(s subscriber, msg message.Message) {
	defer func() {
		if r := recover(); r != nil {
			d.handlerPanics.Add(1)
			d.logger.Error("MIDI message handler panicked",
				d.logger.Field().String("device", d.name),
				d.logger.Field().String("message", msg.String()),
				d.logger.Field().Any("panic", r))
		}
	}()
	s.fn(d, msg)
}
