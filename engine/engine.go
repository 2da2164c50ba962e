package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"

	"github.com/shaban/voiceboard/config"
	"github.com/shaban/voiceboard/devices"
	"github.com/shaban/voiceboard/dsp"
	"github.com/shaban/voiceboard/engine/queue"
	"github.com/shaban/voiceboard/errs"
	"github.com/shaban/voiceboard/mixer"
	"github.com/shaban/voiceboard/transport"
)

// Engine is the Audio Engine of §4.6. It owns the capture/render
// portaudio streams, the ring transport, the soundboard mixer state, and
// the DSP chain; a single supervisor goroutine (the reused
// engine/queue.Queue worker) applies every command serially so two
// concurrent callers never race on stream lifetime.
//
// Callers must have already called portaudio.Initialize() once for the
// process (New does not do this — it only opens/closes streams on
// an already-initialized host, matching the reference engine's pattern
// of a single process-wide AVFoundation/CoreAudio init done outside any
// one Engine instance).
type Engine struct {
	cfg        config.Config
	registry   *devices.Registry
	logger     *log.Logger
	errHandler errs.Handler

	inbox *queue.Queue

	mu    sync.Mutex
	state State

	capture *portaudio.Stream
	render  *portaudio.Stream
	ring    *transport.Ring

	sampleRate int
	channels   int

	mix   *mixer.State
	chain *dsp.Chain

	inputLevel  *levelTracker
	outputLevel *levelTracker

	events eventOutbox

	levelTickerDone chan struct{}
}

// New constructs an Engine. The returned Engine starts Stopped; call
// SendCommand(NewStartCommand(...)) to bring it up.
func New(cfg config.Config, registry *devices.Registry, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	e := &Engine{
		cfg:             cfg,
		registry:        registry,
		logger:          logger,
		errHandler:      errs.NewDefaultHandler(logger),
		inbox:           queue.New(cfg.CommandInboxCapacity),
		state:           Stopped,
		mix:             mixer.NewState(),
		chain:           dsp.NewChain(48000),
		inputLevel:      &levelTracker{},
		outputLevel:     &levelTracker{},
		events:          newEventOutbox(cfg.EventOutboxCapacity),
		levelTickerDone: make(chan struct{}),
	}
	e.inbox.Start()
	go e.levelTickerLoop()
	return e
}

// SetErrorHandler replaces the engine's errs.Handler, which receives
// every supervisor-path error (§7's user-visible kinds) in addition to
// the Error event already emitted through the bridge. Tests typically
// install errs.PanicHandler{} to fail loudly on an unexpected Start
// failure rather than having to poll TryRecvEvent.
func (e *Engine) SetErrorHandler(h errs.Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errHandler = h
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SendCommand enqueues cmd for the supervisor goroutine. It never blocks
// longer than the bounded inbox insertion (§4.7); it returns
// ErrQueueClosed once the engine has been shut down.
func (e *Engine) SendCommand(cmd Command) error {
	if depth, cap := e.inbox.Len(), e.inbox.Cap(); cap > 0 && depth >= cap-1 {
		e.logger.Warn("command inbox nearly full", "depth", depth, "cap", cap)
	}
	err := e.inbox.Enqueue(queue.Func(func(ctx context.Context) error {
		e.apply(cmd)
		return nil
	}))
	if err != nil {
		return ErrQueueClosed
	}
	return nil
}

// TryRecvEvent returns the oldest pending event, or ok=false if none is
// pending (§4.7).
func (e *Engine) TryRecvEvent() (Event, bool) {
	return e.events.tryRecv()
}

func (e *Engine) emit(evt Event) {
	e.events.send(evt)
}

func (e *Engine) apply(cmd Command) {
	switch cmd.Kind {
	case CmdStart:
		e.handleStart(cmd.Start)
	case CmdStop:
		e.handleStop()
	case CmdPlaySound:
		e.mix.PlaySound(cmd.SoundID, cmd.Samples)
	case CmdStopSound:
		e.mix.StopSound(cmd.SoundID)
	case CmdSetMicVolume:
		e.mix.SetMicVolume(cmd.MicVolume)
	case CmdSetMasterVolume:
		e.mix.SetMasterVolume(cmd.MasterVolume)
	case CmdSetMicMuted:
		e.mix.SetMicMuted(cmd.MicMuted)
	case CmdSetEffectConfig:
		if cmd.Effect != nil {
			e.applyEffectConfig(*cmd.Effect)
		}
	case CmdShutdown:
		e.handleShutdown()
	}
}

func (e *Engine) applyEffectConfig(cfg EffectConfigCommand) {
	if err := e.chain.Apply(dsp.EffectConfig{
		PitchShiftSemitones:   cfg.PitchShiftSemitones,
		FormantShiftSemitones: cfg.FormantShiftSemitones,
		ReverbOn:              cfg.ReverbOn,
		RobotOn:               cfg.RobotOn,
		DistortionAmount:      cfg.DistortionAmount,
	}); err != nil {
		e.logger.Error("effect config rejected", "err", err)
	}
}

// resolveInput resolves id to an input-role device. "default"/"" means
// the host default *input*, not whichever device the registry happens
// to have marked default first (§4.1) — Registry.Get alone is role-
// agnostic, so the default case goes through DefaultInput instead,
// matching preview.Engine's use of DefaultOutput for its own role.
func (e *Engine) resolveInput(id string) (devices.Device, error) {
	if id == "" || id == string(devices.DefaultID) {
		return e.registry.DefaultInput()
	}
	return e.registry.Get(devices.ID(id))
}

// resolveOutput is resolveInput's output-role counterpart.
func (e *Engine) resolveOutput(id string) (devices.Device, error) {
	if id == "" || id == string(devices.DefaultID) {
		return e.registry.DefaultOutput()
	}
	return e.registry.Get(devices.ID(id))
}

// handleStart implements the Stopped → Running transition of §4.6.
func (e *Engine) handleStart(p StartParams) {
	e.mu.Lock()
	if e.state != Stopped {
		e.mu.Unlock()
		e.emit(errorEvent("cannot start: engine is %s", e.state))
		return
	}
	e.state = Starting
	e.mu.Unlock()

	if err := e.registry.Refresh(); err != nil {
		e.failStart(fmt.Errorf("%w: %v", ErrEnumeration, err))
		return
	}

	inDev, err := e.resolveInput(p.InputDevice)
	if err != nil {
		e.failStart(fmt.Errorf("%w: input device %s", ErrDeviceNotFound, p.InputDevice))
		return
	}
	outDev, err := e.resolveOutput(p.OutputDevice)
	if err != nil {
		e.failStart(fmt.Errorf("%w: output device %s", ErrDeviceNotFound, p.OutputDevice))
		return
	}

	channels := p.Channels
	if channels != 1 && channels != 2 {
		e.failStart(fmt.Errorf("%w: got %d", ErrInvalidChannels, channels))
		return
	}
	rate := p.SampleRate
	if rate == 0 {
		rate = 48000
	}
	if !inDev.SupportsSampleRate(rate) || !outDev.SupportsSampleRate(rate) {
		e.failStart(fmt.Errorf("%w: %d", ErrUnsupportedRate, rate))
		return
	}

	inInfo, err := e.registry.PortAudioInfo(inDev.ID)
	if err != nil {
		e.failStart(fmt.Errorf("%w: input device %s", ErrDeviceNotFound, p.InputDevice))
		return
	}
	outInfo, err := e.registry.PortAudioInfo(outDev.ID)
	if err != nil {
		e.failStart(fmt.Errorf("%w: output device %s", ErrDeviceNotFound, p.OutputDevice))
		return
	}

	ring := transport.New(e.cfg.RingCapacity)

	capture, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   inInfo,
			Channels: channels,
			Latency:  inInfo.DefaultLowInputLatency,
		},
		SampleRate:      float64(rate),
		FramesPerBuffer: portaudio.FramesPerBufferUnspecified,
	}, buildCaptureCallback(captureHandles{ring: ring, mix: e.mix, chain: e.chain, levels: e.inputLevel}))
	if err != nil {
		e.failStart(fmt.Errorf("%w: capture: %v", ErrStreamOpen, err))
		return
	}

	render, err := portaudio.OpenStream(portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   outInfo,
			Channels: channels,
			Latency:  outInfo.DefaultLowOutputLatency,
		},
		SampleRate:      float64(rate),
		FramesPerBuffer: portaudio.FramesPerBufferUnspecified,
	}, buildRenderCallback(renderHandles{ring: ring, mix: e.mix, levels: e.outputLevel}))
	if err != nil {
		capture.Close()
		e.failStart(fmt.Errorf("%w: render: %v", ErrStreamOpen, err))
		return
	}

	if err := capture.Start(); err != nil {
		capture.Close()
		render.Close()
		e.failStart(fmt.Errorf("%w: capture start: %v", ErrStreamOpen, err))
		return
	}
	if err := render.Start(); err != nil {
		capture.Stop()
		capture.Close()
		render.Close()
		e.failStart(fmt.Errorf("%w: render start: %v", ErrStreamOpen, err))
		return
	}

	e.mu.Lock()
	e.ring = ring
	e.capture = capture
	e.render = render
	e.sampleRate = rate
	e.channels = channels
	e.state = Running
	e.mu.Unlock()

	e.emit(startedEvent())
}

// failStart releases any partial resources and returns the engine to
// Stopped, emitting a single Error event (§4.6/§7) and handing the
// classified error to errHandler for anything that wants to observe
// supervisor-path failures beyond the event outbox (tests, a debug
// counter).
func (e *Engine) failStart(err error) {
	e.logger.Error("start failed", "err", err)
	e.mu.Lock()
	e.state = Stopped
	handler := e.errHandler
	e.mu.Unlock()
	if handler != nil {
		handler.HandleError(errs.New(classifyStartError(err), err))
	}
	e.emit(errorEvent("%v", err))
}

// classifyStartError maps a Start-path sentinel error to its §7 kind.
func classifyStartError(err error) errs.Kind {
	switch {
	case errors.Is(err, ErrEnumeration):
		return errs.KindEnumeration
	case errors.Is(err, ErrDeviceNotFound):
		return errs.KindDeviceNotFound
	case errors.Is(err, ErrStreamOpen):
		return errs.KindStreamOpen
	default:
		return errs.KindStreamStart
	}
}

// handleStop implements the Running → Stopped transition of §4.6: pause
// both streams, drop them and the ring, clear the soundboard, emit
// Stopped. Device handles from this run are fully released before a
// subsequent Start opens new ones (§8).
func (e *Engine) handleStop() {
	e.mu.Lock()
	if e.state != Running {
		e.mu.Unlock()
		return
	}
	e.state = Stopping
	capture, render := e.capture, e.render
	e.mu.Unlock()

	stopAndClose(capture, e.logger)
	stopAndClose(render, e.logger)

	e.mix.Clear()

	e.mu.Lock()
	e.capture = nil
	e.render = nil
	e.ring = nil
	e.state = Stopped
	e.mu.Unlock()

	e.emit(stoppedEvent())
}

func stopAndClose(s *portaudio.Stream, logger *log.Logger) {
	if s == nil {
		return
	}
	if err := s.Stop(); err != nil {
		logger.Error("stream stop failed", "err", err)
	}
	if err := s.Close(); err != nil {
		logger.Error("stream close failed", "err", err)
	}
}

// handleShutdown tears down any running streams and closes the command
// inbox (§4.6: Shutdown from any state). The inbox is closed from a
// separate goroutine because Queue.Close waits for its worker goroutine
// to finish, and apply() itself runs on that worker — calling Close
// synchronously here would deadlock.
func (e *Engine) handleShutdown() {
	e.mu.Lock()
	running := e.state == Running
	capture, render := e.capture, e.render
	e.mu.Unlock()

	if running {
		stopAndClose(capture, e.logger)
		stopAndClose(render, e.logger)
		e.mix.Clear()
	}

	e.mu.Lock()
	e.capture, e.render, e.ring = nil, nil, nil
	e.state = Stopped
	e.mu.Unlock()

	close(e.levelTickerDone)
	go e.inbox.Close()
}

func (e *Engine) levelTickerLoop() {
	interval := e.cfg.LevelUpdateInterval()
	if interval <= 0 {
		interval = time.Second / 60
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-e.levelTickerDone:
			return
		case <-ticker.C:
			e.publishLevels()
		}
	}
}

// IsMixing reports whether the engine currently has both streams open
// and running (§8 scenario 6's "is_mixing").
func (e *Engine) IsMixing() bool {
	return e.State() == Running
}
