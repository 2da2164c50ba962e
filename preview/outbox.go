package preview

import "sync"

// outbox is the preview engine's bounded, drop-oldest event queue,
// the same shape as engine.eventOutbox (§4.7's drop-oldest contract)
// duplicated here rather than exported from engine/ since the two
// engines' Event types are distinct and this type is a handful of lines.
type outbox struct {
	mu       sync.Mutex
	buf      []Event
	capacity int
}

func newOutbox(capacity int) outbox {
	if capacity <= 0 {
		capacity = 64
	}
	return outbox{capacity: capacity}
}

func (o *outbox) send(evt Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.buf) >= o.capacity {
		o.buf = o.buf[1:]
	}
	o.buf = append(o.buf, evt)
}

func (o *outbox) tryRecv() (Event, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.buf) == 0 {
		return Event{}, false
	}
	evt := o.buf[0]
	o.buf = o.buf[1:]
	return evt, true
}
