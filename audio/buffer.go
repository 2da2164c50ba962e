package audio

import "fmt"

// Buffer is an interleaved sequence of samples tagged with a format.
// len(Samples) is always a multiple of Format.Channels.
type Buffer struct {
	Samples []Sample
	Format  Format
}

// NewBuffer wraps samples with a format, validating the interleaving
// invariant.
func NewBuffer(samples []Sample, format Format) (Buffer, error) {
	if format.Channels > 0 && len(samples)%format.Channels != 0 {
		return Buffer{}, fmt.Errorf("audio: %d samples is not a multiple of %d channels", len(samples), format.Channels)
	}
	return Buffer{Samples: samples, Format: format}, nil
}

// Zeros returns a silent buffer of the given frame count.
func Zeros(frames int, format Format) Buffer {
	return Buffer{Samples: make([]Sample, frames*format.Channels), Format: format}
}

// Frames returns the number of frames (samples per channel) in the buffer.
func (b Buffer) Frames() int {
	if b.Format.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Format.Channels
}

// DurationSeconds returns the buffer's duration.
func (b Buffer) DurationSeconds() float64 {
	if b.Format.SampleRate == 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.Format.SampleRate)
}

// Gain scales every sample in place by g, clamping.
func (b Buffer) Gain(g float32) {
	for i, s := range b.Samples {
		b.Samples[i] = s.Gain(g)
	}
}

// MixBuffers averages two buffers sample-by-sample. Both buffers must share a
// channel count and sample rate. The result length is min(len(a), len(b));
// this mirrors the reference implementation's truncate-to-shortest mix.
func MixBuffers(a, b Buffer) (Buffer, error) {
	if !a.Format.Equal(b.Format) {
		return Buffer{}, fmt.Errorf("audio: mix requires matching channels/sample-rate, got %+v and %+v", a.Format, b.Format)
	}
	n := len(a.Samples)
	if len(b.Samples) < n {
		n = len(b.Samples)
	}
	out := make([]Sample, n)
	for i := 0; i < n; i++ {
		out[i] = Mix(a.Samples[i], b.Samples[i])
	}
	return Buffer{Samples: out, Format: a.Format}, nil
}

// Clear zeros every sample in place without reallocating.
func (b Buffer) Clear() {
	for i := range b.Samples {
		b.Samples[i] = Silence
	}
}
