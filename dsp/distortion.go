package dsp

import "math"

// Distortion is a tanh waveshaper blended 50/50 with the dry signal,
// driven by an amount in [0,1] (§4.4).
type Distortion struct {
	amount float32

	out []float32 // reused Process output buffer
}

// NewDistortion constructs a distortion block at the given amount.
func NewDistortion(amount float32) *Distortion {
	return &Distortion{amount: clamp01(amount)}
}

// SetAmount updates the drive amount, clamped to [0,1].
func (d *Distortion) SetAmount(amount float32) {
	d.amount = clamp01(amount)
}

// Process shapes a contiguous mono frame: tanh(x*(1+9*amount)) blended
// 50/50 with dry.
func (d *Distortion) Process(in []float32) []float32 {
	d.out = growFloat32(d.out, len(in))
	out := d.out
	drive := 1 + 9*d.amount
	for i, x := range in {
		wet := float32(math.Tanh(float64(x * drive)))
		out[i] = safeSample(0.5*x + 0.5*wet)
	}
	return out
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
