package dsp

import "math"

// FrameSize and HopSize are the fixed phase-vocoder analysis window and
// hop length named in §4.4: N=2048, H=N/4=512.
const (
	FrameSize = 2048
	HopSize   = FrameSize / 4
)

// hannWindow returns a Hann window of length n: w[i] = 0.5*(1-cos(2*pi*i/n)).
func hannWindow(n int) []float32 {
	w := make([]float32, n)
	for i := range w {
		w[i] = float32(0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n))))
	}
	return w
}

// semitonesToRatio converts a semitone shift to a frequency/pitch ratio.
func semitonesToRatio(semitones float64) float64 {
	return math.Pow(2, semitones/12)
}

// wrapPhase wraps a phase deviation into (-pi, pi].
func wrapPhase(phase float64) float64 {
	for phase > math.Pi {
		phase -= 2 * math.Pi
	}
	for phase <= -math.Pi {
		phase += 2 * math.Pi
	}
	return phase
}

// safeSample substitutes zero for a non-finite value, the §4.4 failure
// mode for any DSP block whose internal invariants are violated.
func safeSample(v float32) float32 {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return 0
	}
	return v
}
