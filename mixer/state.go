package mixer

import (
	"math"
	"sync"
	"sync/atomic"
)

// PlayingSound is one finite soundboard source mid-playback (§3).
// Samples is treated as immutable for the lifetime of the sound; only
// Cursor advances. Invariant: 0 <= Cursor <= len(Samples) at every
// observable moment; the render tick removes the sound once
// Cursor == len(Samples).
type PlayingSound struct {
	ID      string
	Samples []float32
	Cursor  int
}

func (p *PlayingSound) done() bool {
	return p.Cursor >= len(p.Samples)
}

// mixInto copies up to len(out) not-yet-played samples into out
// (adding, not overwriting — callers pre-populate out with whatever they
// already have) and advances the cursor. It returns the number of
// samples actually contributed.
func (p *PlayingSound) mixInto(out []float32) int {
	n := len(p.Samples) - p.Cursor
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		out[i] += p.Samples[p.Cursor+i]
	}
	p.Cursor += n
	return n
}

// State is the soundboard mixer's shared, cross-thread state (§4.3): a
// map of active PlayingSounds guarded by a mutex the render callback only
// ever try-locks, plus the three atomic scalars {mic_gain, master_gain,
// mic_muted} every capture/render callback reads lock-free.
//
// Grounded on original_source/src-tauri/src/audio/mixer.rs AudioMixer::mix
// (clear, add mic*gain, sum sources*volume, clamp, remove finished).
type State struct {
	mu     sync.Mutex
	active map[string]*PlayingSound

	micGainBits    atomic.Uint32
	masterGainBits atomic.Uint32
	micMuted       atomic.Bool
}

// NewState returns a State with unity mic/master gain and mic unmuted.
func NewState() *State {
	s := &State{active: make(map[string]*PlayingSound)}
	s.SetMicVolume(1)
	s.SetMasterVolume(1)
	return s
}

// PlaySound inserts a sound, replacing any existing entry with the same
// id (§4.3's "inserting with an existing id replaces"). An empty samples
// sequence is a deliberate no-op (§8 boundary behavior).
func (s *State) PlaySound(id string, samples []float32) {
	if len(samples) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[id] = &PlayingSound{ID: id, Samples: samples}
}

// StopSound removes a sound by id; removing an absent id is a no-op.
func (s *State) StopSound(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, id)
}

// Clear removes every active sound, used on engine Stop.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = make(map[string]*PlayingSound)
}

// ActiveCount reports how many sounds are currently playing (for tests
// and diagnostics; never called from a callback).
func (s *State) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// TryMix attempts a non-blocking acquire of the mixer state and, on
// success, adds every active source's next samples into out with a
// per-sample clamp to [-1,1], advances cursors, and removes sources that
// reach their end. On lock contention it leaves out untouched and
// returns false — the render tick proceeds with silence for the sound
// layer rather than blocking the audio device (§4.3, §5).
func (s *State) TryMix(out []float32) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()

	for id, sound := range s.active {
		sound.mixInto(out)
		if sound.done() {
			delete(s.active, id)
		}
	}
	for i, v := range out {
		out[i] = clampSample(v)
	}
	return true
}

func clampSample(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// SetMicVolume clamps to [0,2] and atomically publishes the mic gain.
func (s *State) SetMicVolume(v float32) {
	s.micGainBits.Store(math.Float32bits(clampVolume(v)))
}

// MicVolume reads the mic gain atomically (callback-safe).
func (s *State) MicVolume() float32 {
	return math.Float32frombits(s.micGainBits.Load())
}

// SetMasterVolume clamps to [0,2] (the engine-level control the spec
// names for SetMasterVolume, §6) and atomically publishes it; the
// console-level MixerConfig.MasterVolume in channel.go is a distinct,
// [0,1]-ranged snapshot field the control layer serializes separately.
func (s *State) SetMasterVolume(v float32) {
	s.masterGainBits.Store(math.Float32bits(clampVolume(v)))
}

// MasterVolume reads the master gain atomically (callback-safe).
func (s *State) MasterVolume() float32 {
	return math.Float32frombits(s.masterGainBits.Load())
}

// SetMicMuted atomically publishes the mic mute flag. Unmuting restores
// exactly the prior audible gain because Volume itself is never touched
// by mute/unmute — only EffectiveMicGain's reading of it changes (§8).
func (s *State) SetMicMuted(muted bool) {
	s.micMuted.Store(muted)
}

// MicMuted reads the mute flag atomically (callback-safe).
func (s *State) MicMuted() bool {
	return s.micMuted.Load()
}

// EffectiveMicGain is the gain the capture callback should apply: 0 when
// muted, the published mic volume otherwise.
func (s *State) EffectiveMicGain() float32 {
	if s.MicMuted() {
		return 0
	}
	return s.MicVolume()
}
