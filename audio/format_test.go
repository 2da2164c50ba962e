package audio

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

// TestSample_AlwaysInRange is §8's first quantified invariant: for every
// Sample produced by construction or gain, -1 <= s <= 1.
func TestSample_AlwaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Float32Range(-1e6, 1e6).Draw(t, "v")
		g := rapid.Float32Range(-1e3, 1e3).Draw(t, "g")

		s := NewSample(v)
		if s < -1 || s > 1 {
			t.Fatalf("NewSample(%v) = %v, out of [-1,1]", v, s)
		}

		gained := s.Gain(g)
		if gained < -1 || gained > 1 {
			t.Fatalf("Sample(%v).Gain(%v) = %v, out of [-1,1]", s, g, gained)
		}
	})
}

func TestNewSample_ClampsExactBoundaries(t *testing.T) {
	if got := NewSample(2); got != 1 {
		t.Fatalf("expected clamp to 1, got %v", got)
	}
	if got := NewSample(-2); got != -1 {
		t.Fatalf("expected clamp to -1, got %v", got)
	}
	if got := NewSample(0.5); got != 0.5 {
		t.Fatalf("expected 0.5 unchanged, got %v", got)
	}
}

func TestMix_AveragesPreClamp(t *testing.T) {
	got := Mix(NewSample(1), NewSample(0.5))
	want := Sample(0.75)
	if math.Abs(float64(got-want)) > 1e-6 {
		t.Fatalf("Mix(1, 0.5) = %v, want %v", got, want)
	}
}

func TestFormat_Validate(t *testing.T) {
	cases := []struct {
		name    string
		f       Format
		wantErr bool
	}{
		{"cd quality", CDQuality, false},
		{"voice", Voice, false},
		{"zero rate", Format{SampleRate: 0, Channels: 1, BitsPerSample: Bits16}, true},
		{"zero channels", Format{SampleRate: 44100, Channels: 0, BitsPerSample: Bits16}, true},
		{"bad bit depth", Format{SampleRate: 44100, Channels: 1, BitsPerSample: 17}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.f.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestFormat_BytesPerFrameAndSecond(t *testing.T) {
	f := Format{SampleRate: 48000, Channels: 2, BitsPerSample: Bits16}
	if got := f.BytesPerFrame(); got != 4 {
		t.Fatalf("expected 4 bytes per frame, got %d", got)
	}
	if got := f.BytesPerSecond(); got != 4*48000 {
		t.Fatalf("expected %d bytes per second, got %d", 4*48000, got)
	}
}

func TestFormat_EqualIgnoresBitDepth(t *testing.T) {
	a := Format{SampleRate: 44100, Channels: 2, BitsPerSample: Bits16}
	b := Format{SampleRate: 44100, Channels: 2, BitsPerSample: Bits32}
	if !a.Equal(b) {
		t.Fatalf("expected formats to be equal ignoring bit depth")
	}
}
