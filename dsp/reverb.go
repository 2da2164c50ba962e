package dsp

// combDelaysMS and the all-pass delays/coefficient are the fixed
// Schroeder reverb constants of §4.4.
var combDelaysMS = [4]float64{29.7, 37.1, 41.1, 43.7}

const combFeedback = 0.742

var allpassDelaysMS = [2]float64{5.0, 1.7}

const allpassCoefficient = 0.7

// comb is a single feedback comb filter: a delay line with feedback.
type comb struct {
	buf    []float32
	pos    int
	feedback float32
}

func newComb(delaySamples int, feedback float32) *comb {
	if delaySamples < 1 {
		delaySamples = 1
	}
	return &comb{buf: make([]float32, delaySamples), feedback: feedback}
}

func (c *comb) process(x float32) float32 {
	y := c.buf[c.pos]
	c.buf[c.pos] = safeSample(x + y*c.feedback)
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return y
}

// allpass is a Schroeder all-pass filter used to diffuse the comb sum.
type allpass struct {
	buf         []float32
	pos         int
	coefficient float32
}

func newAllpass(delaySamples int, coefficient float32) *allpass {
	if delaySamples < 1 {
		delaySamples = 1
	}
	return &allpass{buf: make([]float32, delaySamples), coefficient: coefficient}
}

func (a *allpass) process(x float32) float32 {
	bufOut := a.buf[a.pos]
	y := safeSample(-a.coefficient*x + bufOut)
	a.buf[a.pos] = safeSample(x + a.coefficient*bufOut)
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return y
}

// Reverb is a four-comb/two-allpass Schroeder reverb (§4.4).
type Reverb struct {
	combs     [4]*comb
	allpasses [2]*allpass

	out []float32 // reused Process output buffer
}

// NewReverb constructs a reverb tuned to sampleRate.
func NewReverb(sampleRate int) *Reverb {
	r := &Reverb{}
	for i, ms := range combDelaysMS {
		r.combs[i] = newComb(msToSamples(ms, sampleRate), combFeedback)
	}
	for i, ms := range allpassDelaysMS {
		r.allpasses[i] = newAllpass(msToSamples(ms, sampleRate), allpassCoefficient)
	}
	return r
}

func msToSamples(ms float64, sampleRate int) int {
	return int(ms * float64(sampleRate) / 1000)
}

// Process runs the reverb over a contiguous mono frame, mixing 0.7 dry
// with 0.3 wet per §4.4.
func (r *Reverb) Process(in []float32) []float32 {
	r.out = growFloat32(r.out, len(in))
	out := r.out
	for i, x := range in {
		var sum float32
		for _, c := range r.combs {
			sum += c.process(x)
		}
		wet := sum / float32(len(r.combs))
		for _, a := range r.allpasses {
			wet = a.process(wet)
		}
		out[i] = safeSample(0.7*x + 0.3*wet)
	}
	return out
}
