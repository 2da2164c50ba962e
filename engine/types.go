// Package engine implements the Audio Engine of §4.6: it owns the
// capture and render portaudio streams, the ring transport, the
// soundboard mixer state, and the optional DSP chain, and translates a
// bounded command inbox into start/stop/mutate actions on a dedicated
// supervisor goroutine, publishing events to a bounded outbox.
//
// Grounded on the reference engine's Engine/Dispatcher shape
// (_examples/shaban-macaudio/engine.go, dispatcher.go — the EngineInitState
// progression, the serialize-mutations-onto-one-goroutine dispatcher
// pattern) and on original_source/src-tauri/src/audio/engine.rs
// (AudioEngine/EngineState, the run_engine_thread capture/render
// callback closures this package's callbacks.go translates to
// portaudio's (in, out []float32) signature).
package engine

import "fmt"

// State is one of the four lifecycle states of §3/§4.6.
type State string

const (
	Stopped  State = "stopped"
	Starting State = "starting"
	Running  State = "running"
	Stopping State = "stopping"
)

// StartParams is the Start command's payload (§6).
type StartParams struct {
	InputDevice  string
	OutputDevice string
	SampleRate   int
	Channels     int
}

// Command is one control-to-engine message (§6). Exactly one of the
// payload fields is meaningful per Kind; callers should use the
// New*Command constructors rather than populating Command directly.
type Command struct {
	Kind CommandKind

	Start            StartParams
	SoundID          string
	Samples          []float32
	MicVolume        float32
	MasterVolume     float32
	MicMuted         bool
	Effect           *EffectConfigCommand
}

// CommandKind enumerates every command §6 names.
type CommandKind string

const (
	CmdStart            CommandKind = "start"
	CmdStop             CommandKind = "stop"
	CmdPlaySound        CommandKind = "play_sound"
	CmdStopSound        CommandKind = "stop_sound"
	CmdSetMicVolume     CommandKind = "set_mic_volume"
	CmdSetMasterVolume  CommandKind = "set_master_volume"
	CmdSetMicMuted      CommandKind = "set_mic_muted"
	CmdSetEffectConfig  CommandKind = "set_effect_config"
	CmdShutdown         CommandKind = "shutdown"
)

// EffectConfigCommand carries the DSP chain toggles of §3's EffectConfig
// through the command inbox without engine/ importing dsp's Chain type
// directly into the wire payload (kept as plain optional fields so this
// package alone decides how to translate it into dsp.Chain calls).
type EffectConfigCommand struct {
	PitchShiftSemitones   *float64
	FormantShiftSemitones *float64
	ReverbOn              bool
	RobotOn               bool
	DistortionAmount      *float32
}

func NewStartCommand(p StartParams) Command { return Command{Kind: CmdStart, Start: p} }
func NewStopCommand() Command                { return Command{Kind: CmdStop} }
func NewShutdownCommand() Command            { return Command{Kind: CmdShutdown} }

func NewPlaySoundCommand(id string, samples []float32) Command {
	return Command{Kind: CmdPlaySound, SoundID: id, Samples: samples}
}

func NewStopSoundCommand(id string) Command {
	return Command{Kind: CmdStopSound, SoundID: id}
}

func NewSetMicVolumeCommand(v float32) Command { return Command{Kind: CmdSetMicVolume, MicVolume: v} }

func NewSetMasterVolumeCommand(v float32) Command {
	return Command{Kind: CmdSetMasterVolume, MasterVolume: v}
}

func NewSetMicMutedCommand(muted bool) Command {
	return Command{Kind: CmdSetMicMuted, MicMuted: muted}
}

func NewSetEffectConfigCommand(cfg EffectConfigCommand) Command {
	return Command{Kind: CmdSetEffectConfig, Effect: &cfg}
}

// EventKind enumerates every event §6 names.
type EventKind string

const (
	EvtStarted      EventKind = "started"
	EvtStopped      EventKind = "stopped"
	EvtError        EventKind = "error"
	EvtLevelUpdate  EventKind = "level_update"
)

// LevelUpdate is the §4.6/§6 periodic metering payload.
type LevelUpdate struct {
	InputRMS   float64
	InputPeak  float64
	OutputRMS  float64
	OutputPeak float64
}

// Event is one engine-to-control message (§6).
type Event struct {
	Kind    EventKind
	Message string
	Level   LevelUpdate
}

func startedEvent() Event { return Event{Kind: EvtStarted} }
func stoppedEvent() Event { return Event{Kind: EvtStopped} }

func errorEvent(format string, args ...any) Event {
	return Event{Kind: EvtError, Message: fmt.Sprintf(format, args...)}
}

func levelEvent(l LevelUpdate) Event {
	return Event{Kind: EvtLevelUpdate, Level: l}
}

// Sentinel error kinds (§7), wrapped with %w and tested with errors.Is.
var (
	ErrDeviceNotFound   = fmt.Errorf("engine: device not found")
	ErrEnumeration      = fmt.Errorf("engine: device enumeration failed")
	ErrStreamOpen       = fmt.Errorf("engine: failed to open stream")
	ErrAlreadyRunning   = fmt.Errorf("engine: already running")
	ErrNotRunning       = fmt.Errorf("engine: not running")
	ErrQueueClosed      = fmt.Errorf("engine: command queue closed")
	ErrUnsupportedRate  = fmt.Errorf("engine: sample rate not supported by both devices")
	ErrInvalidChannels  = fmt.Errorf("engine: channels must be 1 or 2")
)
