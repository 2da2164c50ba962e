// Package audio defines the value types shared by every stage of the
// capture/mix/render pipeline: a clamped float sample, an interleaved
// sample buffer, and the format tuple that tags it.
package audio

import "fmt"

// Sample is a single audio sample clamped to [-1.0, +1.0].
type Sample float32

// NewSample clamps v into the valid sample range.
func NewSample(v float32) Sample {
	return Sample(clamp32(v, -1, 1))
}

// Silence is the zero sample.
const Silence Sample = 0

// Gain returns s scaled by g, clamped.
func (s Sample) Gain(g float32) Sample {
	return NewSample(float32(s) * g)
}

// Mix averages two samples, clamping the result.
func Mix(a, b Sample) Sample {
	return NewSample((float32(a) + float32(b)) / 2)
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BitsPerSample is the on-the-wire sample width. Only a fixed set of
// widths is meaningful for PCM audio devices.
type BitsPerSample int

const (
	Bits16 BitsPerSample = 16
	Bits24 BitsPerSample = 24
	Bits32 BitsPerSample = 32
)

// Format describes the shape of a stream of interleaved samples:
// sample rate, channel count, and on-the-wire bit depth.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample BitsPerSample
}

// CDQuality is 44.1kHz stereo 16-bit.
var CDQuality = Format{SampleRate: 44100, Channels: 2, BitsPerSample: Bits16}

// Voice is 48kHz mono 32-bit float, the engine's native working format.
var Voice = Format{SampleRate: 48000, Channels: 1, BitsPerSample: Bits32}

// Validate reports whether the format's fields are in range.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("audio: sample rate must be positive, got %d", f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("audio: channel count must be positive, got %d", f.Channels)
	}
	switch f.BitsPerSample {
	case Bits16, Bits24, Bits32:
	default:
		return fmt.Errorf("audio: unsupported bit depth %d", f.BitsPerSample)
	}
	return nil
}

// BytesPerFrame is the byte size of one frame (one sample per channel).
func (f Format) BytesPerFrame() int {
	return f.Channels * int(f.BitsPerSample) / 8
}

// BytesPerSecond is BytesPerFrame times the sample rate.
func (f Format) BytesPerSecond() int {
	return f.BytesPerFrame() * f.SampleRate
}

// Equal reports whether two formats describe the same sample rate and
// channel count; bit depth is a wire-format detail that callers of the
// real-time path (which works entirely in float32) do not compare on.
func (f Format) Equal(other Format) bool {
	return f.SampleRate == other.SampleRate && f.Channels == other.Channels
}
