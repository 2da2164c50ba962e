package dsp

import "math"

// PitchShifter implements the phase-vocoder pitch shift of §4.4: forward
// FFT, per-bin phase unwrap against the bin's nominal advance, true
// frequency estimate, phase accumulation scaled by the pitch ratio,
// inverse FFT, and overlap-add.
//
// Ported line-for-line from the phase unwrap / true-frequency / overlap-add
// algorithm in original_source/src/dsp/pitch_shifter.rs.
type PitchShifter struct {
	ratio  float64
	window []float32

	inputBuf []float32 // last FrameSize input samples, newest at the end
	hopCount int

	prevPhase []float64 // per-bin phase from the previous frame
	sumPhase  []float64 // accumulated output phase per bin

	outOverlap []float32 // N-sized overlap-add output buffer

	out      []float32    // reused Process output buffer
	spectrum []complex128 // reused runFrame FFT scratch
}

// NewPitchShifter returns a shifter for the given semitone offset.
// semitones == 0 is the identity ratio.
func NewPitchShifter(semitones float64) *PitchShifter {
	numBins := FrameSize/2 + 1
	return &PitchShifter{
		ratio:      semitonesToRatio(semitones),
		window:     hannWindow(FrameSize),
		inputBuf:   make([]float32, FrameSize),
		prevPhase:  make([]float64, numBins),
		sumPhase:   make([]float64, numBins),
		outOverlap: make([]float32, FrameSize),
	}
}

// SetSemitones updates the shift ratio without resetting phase state, so
// a user adjusting the control mid-stream doesn't hear a discontinuity
// reset (only the ratio used in future hops changes).
func (p *PitchShifter) SetSemitones(semitones float64) {
	p.ratio = semitonesToRatio(semitones)
}

// Process shifts a contiguous mono frame, returning the same number of
// output samples as input samples (one sample of output latency per
// sample of input, per §4.4's per-sample overlap-add description).
func (p *PitchShifter) Process(in []float32) []float32 {
	p.out = growFloat32(p.out, len(in))
	out := p.out
	for i, s := range in {
		copy(p.inputBuf, p.inputBuf[1:])
		p.inputBuf[len(p.inputBuf)-1] = s

		out[i] = safeSample(p.outOverlap[0])
		copy(p.outOverlap, p.outOverlap[1:])
		p.outOverlap[len(p.outOverlap)-1] = 0

		p.hopCount++
		if p.hopCount >= HopSize {
			p.hopCount = 0
			p.runFrame()
		}
	}
	return out
}

func (p *PitchShifter) runFrame() {
	p.spectrum = growComplex128(p.spectrum, FrameSize)
	spectrum := p.spectrum
	for i, s := range p.inputBuf {
		spectrum[i] = complex(float64(s)*float64(p.window[i]), 0)
	}
	fft(spectrum)

	numBins := FrameSize/2 + 1
	for k := 0; k < numBins; k++ {
		mag := math.Hypot(real(spectrum[k]), imag(spectrum[k]))
		phase := math.Atan2(imag(spectrum[k]), real(spectrum[k]))

		delta := phase - p.prevPhase[k]
		p.prevPhase[k] = phase

		nominalAdvance := 2 * math.Pi * float64(k) * float64(HopSize) / float64(FrameSize)
		deviation := wrapPhase(delta - nominalAdvance)
		trueFreq := 2*math.Pi*float64(k)/float64(FrameSize) + deviation/float64(HopSize)

		p.sumPhase[k] += trueFreq * float64(HopSize) * p.ratio

		spectrum[k] = complex(mag*math.Cos(p.sumPhase[k]), mag*math.Sin(p.sumPhase[k]))
		if k > 0 && k < FrameSize-numBins+1 {
			mirror := FrameSize - k
			if mirror < FrameSize {
				spectrum[mirror] = complex(real(spectrum[k]), -imag(spectrum[k]))
			}
		}
	}

	ifft(spectrum)

	for i := range p.outOverlap {
		windowed := float32(real(spectrum[i])) * p.window[i]
		p.outOverlap[i] = safeSample(p.outOverlap[i] + windowed)
	}
}
