package audio

import (
	"testing"

	"pgregory.net/rapid"
)

func TestNewBuffer_RejectsNonMultipleOfChannels(t *testing.T) {
	_, err := NewBuffer(make([]Sample, 5), Format{SampleRate: 48000, Channels: 2, BitsPerSample: Bits32})
	if err == nil {
		t.Fatalf("expected an error for 5 samples over 2 channels")
	}
}

func TestNewBuffer_AcceptsMultipleOfChannels(t *testing.T) {
	b, err := NewBuffer(make([]Sample, 6), Format{SampleRate: 48000, Channels: 2, BitsPerSample: Bits32})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Frames() != 3 {
		t.Fatalf("expected 3 frames, got %d", b.Frames())
	}
}

func TestMixBuffers_RejectsMismatchedFormat(t *testing.T) {
	a := Zeros(4, Format{SampleRate: 48000, Channels: 2, BitsPerSample: Bits32})
	b := Zeros(4, Format{SampleRate: 44100, Channels: 2, BitsPerSample: Bits32})
	if _, err := MixBuffers(a, b); err == nil {
		t.Fatalf("expected mismatched sample rate to be rejected")
	}
}

// TestMixBuffers_LengthAndMean is §8's second quantified invariant: for
// every mix of two buffers with equal channels and sample rate,
// mix(A,B).len() = min(A.len(), B.len()) and each element is the mean of
// the corresponding inputs (pre-clamp, since inputs here are already
// valid Samples).
func TestMixBuffers_LengthAndMean(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		format := Format{SampleRate: 48000, Channels: 1, BitsPerSample: Bits32}
		av := rapid.SliceOfN(rapid.Float32Range(-1, 1), 0, 64).Draw(t, "a")
		bv := rapid.SliceOfN(rapid.Float32Range(-1, 1), 0, 64).Draw(t, "b")

		a := Buffer{Samples: toSamples(av), Format: format}
		b := Buffer{Samples: toSamples(bv), Format: format}

		mixed, err := MixBuffers(a, b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantLen := len(av)
		if len(bv) < wantLen {
			wantLen = len(bv)
		}
		if len(mixed.Samples) != wantLen {
			t.Fatalf("mixed length = %d, want %d", len(mixed.Samples), wantLen)
		}
		for i, got := range mixed.Samples {
			want := NewSample((av[i] + bv[i]) / 2)
			if got != want {
				t.Fatalf("sample %d: got %v, want %v", i, got, want)
			}
		}
	})
}

func toSamples(v []float32) []Sample {
	out := make([]Sample, len(v))
	for i, f := range v {
		out[i] = Sample(f)
	}
	return out
}

func TestBuffer_GainScalesInPlace(t *testing.T) {
	b := Buffer{Samples: []Sample{0.5, -0.5, 1}, Format: Voice}
	b.Gain(0.5)
	want := []Sample{0.25, -0.25, 0.5}
	for i, w := range want {
		if b.Samples[i] != w {
			t.Fatalf("sample %d: got %v, want %v", i, b.Samples[i], w)
		}
	}
}

func TestBuffer_Clear(t *testing.T) {
	b := Buffer{Samples: []Sample{1, -1, 0.5}, Format: Voice}
	b.Clear()
	for i, s := range b.Samples {
		if s != Silence {
			t.Fatalf("sample %d not cleared: %v", i, s)
		}
	}
}

func TestBuffer_DurationSeconds(t *testing.T) {
	b := Zeros(48000, Format{SampleRate: 48000, Channels: 1, BitsPerSample: Bits32})
	if got := b.DurationSeconds(); got != 1.0 {
		t.Fatalf("expected 1 second, got %v", got)
	}
}
