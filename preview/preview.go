// Package preview implements the Preview Engine of §4.5: a single
// playing-source audio player a soundboard pad editor uses to audition a
// file before committing it, kept deliberately separate from the main
// Audio Engine's duplex capture/render path.
//
// Grounded structurally on the reference engine's PlaybackChannel
// (_examples/shaban-macaudio/channel_impl.go: Play/Pause/StopPlayback/
// GetPosition/SetPosition) narrowed to single-source, single-stream
// semantics, and on original_source/src-tauri/src/application's prose
// description of preview_engine.rs's Play/Stop/Shutdown/50ms-poll
// contract (no corresponding source file survived the distillation).
package preview

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"

	"github.com/shaban/voiceboard/config"
	"github.com/shaban/voiceboard/decode"
	"github.com/shaban/voiceboard/devices"
	"github.com/shaban/voiceboard/engine/queue"
)

// CommandKind enumerates the preview engine's three commands (§4.5).
type CommandKind string

const (
	CmdPlay     CommandKind = "play"
	CmdStop     CommandKind = "stop"
	CmdShutdown CommandKind = "shutdown"
)

// PlayParams is the Play command's payload.
type PlayParams struct {
	Path       string
	DeviceName string
	PadID      string
}

// Command is one control-to-preview-engine message.
type Command struct {
	Kind CommandKind
	Play PlayParams
}

func NewPlayCommand(p PlayParams) Command { return Command{Kind: CmdPlay, Play: p} }
func NewStopCommand() Command             { return Command{Kind: CmdStop} }
func NewShutdownCommand() Command         { return Command{Kind: CmdShutdown} }

// EventKind enumerates the preview engine's events (§6).
type EventKind string

const (
	EvtStarted EventKind = "preview-started"
	EvtStopped EventKind = "preview-stopped"
	EvtError   EventKind = "error"
)

// Event is one preview-engine-to-control message.
type Event struct {
	Kind    EventKind
	PadID   string
	Message string
}

func startedEvent(padID string) Event { return Event{Kind: EvtStarted, PadID: padID} }
func stoppedEvent(padID string) Event { return Event{Kind: EvtStopped, PadID: padID} }
func errorEvent(format string, args ...any) Event {
	return Event{Kind: EvtError, Message: fmt.Sprintf(format, args...)}
}

// Engine is the Preview Engine (§4.5). It owns at most one open output
// stream and at most one playing source at a time.
type Engine struct {
	registry *devices.Registry
	decoder  decode.Decoder
	logger   *log.Logger
	poll     time.Duration

	inbox  *queue.Queue
	events outbox

	mu      sync.Mutex
	stream  *portaudio.Stream
	padID   string
	playing bool
	cursor  atomic.Int64
	total   int64

	// samplesPtr holds the currently playing source, published through an
	// atomic pointer rather than mu so the render callback (§5: no
	// blocking lock on the audio thread) never contends with handlePlay/
	// stopLocked for it.
	samplesPtr atomic.Pointer[[]float32]

	pollDone chan struct{}
}

// New constructs a Preview Engine. decoder is usually decode.WAVDecoder{}.
func New(registry *devices.Registry, decoder decode.Decoder, cfg config.Config, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	poll := cfg.PreviewPollInterval
	if poll <= 0 {
		poll = 50 * time.Millisecond
	}
	e := &Engine{
		registry: registry,
		decoder:  decoder,
		logger:   logger,
		poll:     poll,
		inbox:    queue.New(cfg.CommandInboxCapacity),
		events:   newOutbox(cfg.EventOutboxCapacity),
		pollDone: make(chan struct{}),
	}
	e.inbox.Start()
	go e.pollLoop()
	return e
}

// SendCommand enqueues cmd for the supervisor goroutine.
func (e *Engine) SendCommand(cmd Command) error {
	if depth, cap := e.inbox.Len(), e.inbox.Cap(); cap > 0 && depth >= cap-1 {
		e.logger.Warn("preview command inbox nearly full", "depth", depth, "cap", cap)
	}
	err := e.inbox.Enqueue(queue.Func(func(ctx context.Context) error {
		e.apply(cmd)
		return nil
	}))
	if err != nil {
		return fmt.Errorf("preview: command queue closed")
	}
	return nil
}

// TryRecvEvent returns the oldest pending event, or ok=false if none.
func (e *Engine) TryRecvEvent() (Event, bool) {
	return e.events.tryRecv()
}

func (e *Engine) apply(cmd Command) {
	switch cmd.Kind {
	case CmdPlay:
		e.handlePlay(cmd.Play)
	case CmdStop:
		e.handleStop()
	case CmdShutdown:
		e.handleShutdown()
	}
}

// handlePlay implements §4.5's Play contract: stop current playback
// first, then resolve/open/decode the new source; any failure along the
// way is logged and surfaced as an Error event without a spurious
// preview-started.
func (e *Engine) handlePlay(p PlayParams) {
	e.stopLocked("")

	dev, err := e.resolveDevice(p.DeviceName)
	if err != nil {
		e.logger.Error("preview: device resolution failed", "err", err)
		e.events.send(errorEvent("preview: device resolution failed: %v", err))
		return
	}
	info, err := e.registry.PortAudioInfo(dev.ID)
	if err != nil {
		e.logger.Error("preview: device info unavailable", "err", err)
		e.events.send(errorEvent("preview: device info unavailable: %v", err))
		return
	}
	decoded, err := e.decoder.Decode(p.Path)
	if err != nil {
		e.logger.Error("preview: decode failed", "path", p.Path, "err", err)
		e.events.send(errorEvent("preview: decode failed: %v", err))
		return
	}
	if decoded.Channels <= 0 {
		decoded.Channels = 1
	}

	samples := decoded.Samples
	e.samplesPtr.Store(&samples)
	e.cursor.Store(0)

	e.mu.Lock()
	e.total = int64(len(decoded.Samples))
	e.padID = p.PadID
	e.mu.Unlock()

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   info,
			Channels: decoded.Channels,
			Latency:  info.DefaultLowOutputLatency,
		},
		SampleRate:      float64(decoded.SampleRate),
		FramesPerBuffer: portaudio.FramesPerBufferUnspecified,
	}, e.buildCallback())
	if err != nil {
		e.logger.Error("preview: stream open failed", "err", err)
		e.events.send(errorEvent("preview: stream open failed: %v", err))
		return
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		e.logger.Error("preview: stream start failed", "err", err)
		e.events.send(errorEvent("preview: stream start failed: %v", err))
		return
	}

	e.mu.Lock()
	e.stream = stream
	e.playing = true
	e.mu.Unlock()

	e.events.send(startedEvent(p.PadID))
}

func (e *Engine) resolveDevice(name string) (devices.Device, error) {
	for _, d := range e.registry.List().Outputs() {
		if d.Name == name {
			return d, nil
		}
	}
	return e.registry.DefaultOutput()
}

func (e *Engine) buildCallback() func(out []float32) {
	return func(out []float32) {
		start := e.cursor.Load()
		var samples []float32
		if p := e.samplesPtr.Load(); p != nil {
			samples = *p
		}

		n := int64(len(samples)) - start
		if n < 0 {
			n = 0
		}
		if n > int64(len(out)) {
			n = int64(len(out))
		}
		for i := int64(0); i < n; i++ {
			out[i] = samples[start+i]
		}
		for i := n; i < int64(len(out)); i++ {
			out[i] = 0
		}
		e.cursor.Store(start + n)
	}
}

// handleStop implements §4.5's Stop: halt audio and emit stopped; a Stop
// when nothing is playing emits no event (§8 boundary behavior).
func (e *Engine) handleStop() {
	e.stopLocked("")
}

// stopLocked tears down the current stream (if any) and, when something
// was playing, emits preview-stopped for its pad id. padIDOverride lets
// handlePlay reuse this for the "stop prior playback" step without
// fetching padID itself.
func (e *Engine) stopLocked(padIDOverride string) {
	e.mu.Lock()
	stream := e.stream
	wasPlaying := e.playing
	padID := e.padID
	e.stream = nil
	e.playing = false
	e.mu.Unlock()
	e.samplesPtr.Store(nil)

	if stream != nil {
		if err := stream.Stop(); err != nil {
			e.logger.Error("preview: stream stop failed", "err", err)
		}
		if err := stream.Close(); err != nil {
			e.logger.Error("preview: stream close failed", "err", err)
		}
	}
	if wasPlaying {
		if padIDOverride != "" {
			padID = padIDOverride
		}
		e.events.send(stoppedEvent(padID))
	}
}

func (e *Engine) handleShutdown() {
	e.stopLocked("")
	close(e.pollDone)
	go e.inbox.Close()
}

// pollLoop checks for natural playback completion at the configured
// interval (§4.5: "polls playback status at 50ms granularity").
func (e *Engine) pollLoop() {
	ticker := time.NewTicker(e.poll)
	defer ticker.Stop()
	for {
		select {
		case <-e.pollDone:
			return
		case <-ticker.C:
			e.checkCompletion()
		}
	}
}

// checkCompletion runs on the poll goroutine, not the supervisor
// goroutine, so it never touches the stream directly — it submits a Stop
// command through the inbox like any other caller would, preserving the
// rule that only the supervisor goroutine mutates stream ownership.
func (e *Engine) checkCompletion() {
	e.mu.Lock()
	playing := e.playing
	total := e.total
	e.mu.Unlock()
	if !playing {
		return
	}
	if e.cursor.Load() >= total {
		_ = e.SendCommand(NewStopCommand())
	}
}
