package engine

import "sync"

// eventOutbox is the bounded, drop-oldest event queue of §4.7: a send
// past capacity discards the oldest pending event rather than blocking
// the goroutine that produced it. A plain mutex-guarded slice is enough
// here — unlike transport.Ring this is never touched by a real-time audio
// callback, only by the supervisor and level-ticker goroutines
// (producers) and whatever control-layer goroutine polls TryRecvEvent
// (consumer).
type eventOutbox struct {
	mu       sync.Mutex
	buf      []Event
	capacity int
}

func newEventOutbox(capacity int) eventOutbox {
	if capacity <= 0 {
		capacity = 64
	}
	return eventOutbox{capacity: capacity}
}

func (o *eventOutbox) send(evt Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.buf) >= o.capacity {
		o.buf = o.buf[1:]
	}
	o.buf = append(o.buf, evt)
}

func (o *eventOutbox) tryRecv() (Event, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.buf) == 0 {
		return Event{}, false
	}
	evt := o.buf[0]
	o.buf = o.buf[1:]
	return evt, true
}
