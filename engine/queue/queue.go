// Package queue implements the bounded, single-worker command inbox of
// §4.7: Engine and preview.Engine each own one, so every command a caller
// sends is serialized onto a single supervisor goroutine instead of
// racing with the audio callbacks it configures.
//
// Grounded on _examples/shaban-macaudio/engine/queue/queue.go's
// channel-backed worker/Enqueue/Close shape, retargeted from that
// package's graph-mutation Op vocabulary to this package's engine
// commands, and extended with Len/Cap so a caller can watch inbox
// pressure build before Enqueue would start blocking.
package queue

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Command is one unit of work the queue's worker applies in order. It
// should be quick and non-blocking; any heavy work should be prepared in
// advance. It receives a context canceled on shutdown, and returns an
// error only for unrecoverable failures — idempotent no-ops return nil.
type Command interface {
	Apply(ctx context.Context) error
}

// Func adapts a plain function into a Command.
type Func func(ctx context.Context) error

func (f Func) Apply(ctx context.Context) error { return f(ctx) }

// Queue serializes commands onto a single worker goroutine with a fixed
// buffer (§4.7's "bounded command inbox"). Use Enqueue to push commands,
// Len/Cap to inspect current pressure, and Close to drain and stop.
type Queue struct {
	ch      chan Command
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
}

// New creates a queue with a fixed buffer. buffer <= 0 falls back to a
// conservative default rather than an unbounded queue, since an unbounded
// inbox would let a stuck supervisor goroutine grow memory without limit.
func New(buffer int) *Queue {
	if buffer <= 0 {
		buffer = 32
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{ch: make(chan Command, buffer), ctx: ctx, cancel: cancel}
}

// Start begins the worker goroutine. Safe to call multiple times.
func (q *Queue) Start() {
	if q.started {
		return
	}
	q.started = true
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-q.ctx.Done():
				// Drain outstanding commands best-effort with a short
				// deadline so a Shutdown command already in flight still
				// gets applied.
				drainUntil := time.After(10 * time.Millisecond)
				for {
					select {
					case cmd := <-q.ch:
						_ = cmd.Apply(q.ctx)
					case <-drainUntil:
						return
					default:
						return
					}
				}
			case cmd := <-q.ch:
				if cmd == nil {
					continue
				}
				_ = cmd.Apply(q.ctx)
			}
		}
	}()
}

// Enqueue adds a command to the queue, blocking only until there is
// buffer room or the queue is closed.
func (q *Queue) Enqueue(cmd Command) error {
	if q == nil || q.ch == nil {
		return errors.New("queue not initialized")
	}
	select {
	case q.ch <- cmd:
		return nil
	case <-q.ctx.Done():
		return errors.New("queue closed")
	}
}

// Len returns the number of commands currently buffered, waiting for the
// worker. A caller approaching Cap can use this to log or back off before
// Enqueue would start blocking.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.ch)
}

// Cap returns the queue's fixed buffer size.
func (q *Queue) Cap() int {
	if q == nil {
		return 0
	}
	return cap(q.ch)
}

// Close stops the worker and waits for it to finish.
func (q *Queue) Close() {
	if q == nil {
		return
	}
	q.cancel()
	q.wg.Wait()
}
