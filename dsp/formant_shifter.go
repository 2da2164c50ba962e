package dsp

import "math"

// FormantShifter moves the spectral envelope by resampling bin indices,
// leaving the phase relationships (and so, to first order, the pitch
// contour) largely intact — §4.4's S'[k] = S[floor(k/r_f)] construction.
//
// Ported from original_source/src/dsp/formant_shifter.rs; shares the
// windowing/FFT/overlap-add scaffolding with PitchShifter but replaces
// the phase-vocoder rephasing with direct bin remapping.
type FormantShifter struct {
	ratio  float64
	window []float32

	inputBuf   []float32
	hopCount   int
	outOverlap []float32

	out      []float32    // reused Process output buffer
	spectrum []complex128 // reused runFrame forward-FFT scratch
	shifted  []complex128 // reused runFrame bin-remapped scratch
}

// NewFormantShifter returns a shifter for the given semitone offset.
func NewFormantShifter(semitones float64) *FormantShifter {
	return &FormantShifter{
		ratio:      semitonesToRatio(semitones),
		window:     hannWindow(FrameSize),
		inputBuf:   make([]float32, FrameSize),
		outOverlap: make([]float32, FrameSize),
	}
}

// SetSemitones updates the envelope-shift ratio.
func (f *FormantShifter) SetSemitones(semitones float64) {
	f.ratio = semitonesToRatio(semitones)
}

// Process shifts a contiguous mono frame.
func (f *FormantShifter) Process(in []float32) []float32 {
	f.out = growFloat32(f.out, len(in))
	out := f.out
	for i, s := range in {
		copy(f.inputBuf, f.inputBuf[1:])
		f.inputBuf[len(f.inputBuf)-1] = s

		out[i] = safeSample(f.outOverlap[0])
		copy(f.outOverlap, f.outOverlap[1:])
		f.outOverlap[len(f.outOverlap)-1] = 0

		f.hopCount++
		if f.hopCount >= HopSize {
			f.hopCount = 0
			f.runFrame()
		}
	}
	return out
}

func (f *FormantShifter) runFrame() {
	f.spectrum = growComplex128(f.spectrum, FrameSize)
	spectrum := f.spectrum
	for i, s := range f.inputBuf {
		spectrum[i] = complex(float64(s)*float64(f.window[i]), 0)
	}
	fft(spectrum)

	numBins := FrameSize/2 + 1
	f.shifted = growComplex128(f.shifted, FrameSize)
	shifted := f.shifted
	clearComplex128(shifted)
	for k := 0; k < numBins; k++ {
		idx := int(math.Floor(float64(k) / f.ratio))
		if idx >= 0 && idx < numBins {
			shifted[k] = spectrum[idx]
		}
		if k > 0 && k < numBins-1 {
			mirror := FrameSize - k
			shifted[mirror] = complex(real(shifted[k]), -imag(shifted[k]))
		}
	}

	ifft(shifted)

	for i := range f.outOverlap {
		windowed := float32(real(shifted[i])) * f.window[i]
		f.outOverlap[i] = safeSample(f.outOverlap[i] + windowed)
	}
}
