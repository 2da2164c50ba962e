// Package bridge implements the Command/Event Bridge of §4.7: a narrow
// port in front of either the Audio Engine or the Preview Engine with
// exactly two operations, send_command and try_recv_event, that never
// blocks the caller longer than a bounded queue insertion.
//
// Grounded on original_source/src-tauri/src/audio/engine.rs's
// send_command/event-mpsc-channel pair and on the reference engine's
// Dispatcher response-channel idiom (_examples/shaban-macaudio/
// dispatcher.go), generalized with a type parameter so the one port
// shape fronts both engine.Engine and preview.Engine without a second
// copy of this file.
package bridge

// Result is the bridge's send_command outcome (§4.7).
type Result string

const (
	OK          Result = "ok"
	QueueClosed Result = "queue_closed"
)

// Port is satisfied by engine.Engine and preview.Engine: a bounded
// command inbox (SendCommand returns non-nil only once shut down) and a
// bounded, drop-oldest event outbox (TryRecvEvent never blocks).
type Port[C any, E any] interface {
	SendCommand(cmd C) error
	TryRecvEvent() (E, bool)
}

// Bridge wraps a Port, translating its error-returning SendCommand into
// the §4.7 OK|QueueClosed result the control layer expects.
type Bridge[C any, E any] struct {
	target Port[C, E]
}

// New wraps target (an *engine.Engine or *preview.Engine) as a Bridge.
func New[C any, E any](target Port[C, E]) *Bridge[C, E] {
	return &Bridge[C, E]{target: target}
}

// SendCommand enqueues cmd, never blocking longer than the bounded
// insertion the underlying Port already performs.
func (b *Bridge[C, E]) SendCommand(cmd C) Result {
	if err := b.target.SendCommand(cmd); err != nil {
		return QueueClosed
	}
	return OK
}

// TryRecvEvent returns the oldest pending event, or ok=false if none is
// pending.
func (b *Bridge[C, E]) TryRecvEvent() (E, bool) {
	return b.target.TryRecvEvent()
}
