package dsp

import "math"

const robotCarrierHz = 30.0
const robotClipLimit = 0.8

// Robot ring-modulates the signal against a fixed-frequency sine carrier
// and hard clips the result (§4.4), the "robot voice" effect.
type Robot struct {
	phase     float64
	phaseIncr float64

	out []float32 // reused Process output buffer
}

// NewRobot constructs a robot effect for the given sample rate.
func NewRobot(sampleRate int) *Robot {
	return &Robot{phaseIncr: 2 * math.Pi * robotCarrierHz / float64(sampleRate)}
}

// Process ring-modulates and clips a contiguous mono frame.
func (r *Robot) Process(in []float32) []float32 {
	r.out = growFloat32(r.out, len(in))
	out := r.out
	for i, x := range in {
		carrier := float32(math.Sin(r.phase))
		r.phase += r.phaseIncr
		if r.phase >= 2*math.Pi {
			r.phase -= 2 * math.Pi
		}
		y := x * carrier
		out[i] = safeSample(clip(y, robotClipLimit))
	}
	return out
}

func clip(v, limit float32) float32 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
