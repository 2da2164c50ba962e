// Package mixer implements the soundboard mixer state (§4.3): the
// PlayingSound map, the mic/master gain and mute atomics, and the
// MixerChannel/MixerConfig console model (§3) that the control layer
// reads and writes.
//
// Grounded on original_source/src-tauri/src/audio/mixer.rs (AudioMixer::mix)
// and domain/mixer/channel.rs, and on the reference engine's atomic-volume
// idiom (dispatcher.go's setMute, channel_impl.go's BaseChannel gain
// fields with premuteVolume restore-on-unmute).
package mixer

import (
	"fmt"

	"github.com/google/uuid"
)

// ChannelKind is one of the three fixed mixer-channel roles (§3).
type ChannelKind string

const (
	KindMicrophone  ChannelKind = "microphone"
	KindAudioFile   ChannelKind = "audio_file"
	KindSystemAudio ChannelKind = "system_audio"
)

// Channel is one entry in a MixerConfig's channel list (§3). Volume is
// clamped to [0,2] when read through EffectiveGain; effective gain is zero whenever Muted is set,
// independent of Volume, so toggling Muted back off restores exactly the
// prior Volume (the round-trip invariant of §8).
type Channel struct {
	ID     string
	Name   string
	Kind   ChannelKind
	Volume float32
	Muted  bool
	Solo   bool
}

// NewChannel returns a channel with Volume defaulted to unity gain. An
// empty id is replaced with a freshly generated UUID (google/uuid, the
// reference engine's id idiom throughout engine.go/channel_impl.go) so
// callers that only care about uniqueness — not a caller-supplied name —
// don't have to invent one.
func NewChannel(id, name string, kind ChannelKind) Channel {
	if id == "" {
		id = uuid.NewString()
	}
	return Channel{ID: id, Name: name, Kind: kind, Volume: 1}
}

// EffectiveGain returns 0 when muted, otherwise the clamped volume.
func (c Channel) EffectiveGain() float32 {
	if c.Muted {
		return 0
	}
	return clampVolume(c.Volume)
}

func clampVolume(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 2 {
		return 2
	}
	return v
}

// Config is the mixer configuration (§3): buffer size, master volume,
// and an ordered, uniquely-keyed channel list. It carries no output
// format field.
type Config struct {
	BufferSizeFrames int
	MasterVolume     float32 // range [0,1]; neither clamped nor checked by Validate
	Channels         []Channel
}

// Validate checks the channel-id-uniqueness invariant.
func (c Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Channels))
	for _, ch := range c.Channels {
		if _, dup := seen[ch.ID]; dup {
			return fmt.Errorf("mixer: duplicate channel id %q", ch.ID)
		}
		seen[ch.ID] = struct{}{}
	}
	return nil
}
