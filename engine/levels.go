package engine

import (
	"math"
	"sync/atomic"

	"github.com/shaban/voiceboard/audio"
)

// levelTracker accumulates one tick's worth of samples from a callback
// and hands the resulting RMS/peak to the level ticker's periodic
// publisher. Record runs on the audio callback thread, so the snapshot is
// published through a pair of atomics — the same float-bits-in-an-atomic
// idiom mixer.State uses for its mic/master gain, here Float64bits over
// atomic.Uint64 (§5: no blocking lock on the callback thread) — rather
// than a mutex.
type levelTracker struct {
	rmsBits  atomic.Uint64
	peakBits atomic.Uint64
}

// Record replaces the tracker's snapshot with the measurement for the
// samples just produced/consumed by a callback.
func (t *levelTracker) Record(samples []float32) {
	l := measureLevel(samples)
	t.rmsBits.Store(math.Float64bits(l.RMSLinear))
	t.peakBits.Store(math.Float64bits(l.PeakLinear))
}

// Snapshot returns the most recently recorded level.
func (t *levelTracker) Snapshot() audio.Level {
	return audio.Level{
		RMSLinear:  math.Float64frombits(t.rmsBits.Load()),
		PeakLinear: math.Float64frombits(t.peakBits.Load()),
	}
}

// measureLevel computes the linear RMS and peak in place, without
// allocating, since Record runs on the audio callback thread.
func measureLevel(samples []float32) audio.Level {
	if len(samples) == 0 {
		return audio.SilenceLevel()
	}
	var sumSquares, peak float64
	for _, s := range samples {
		v := float64(s)
		sumSquares += v * v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return audio.Level{RMSLinear: math.Sqrt(sumSquares / float64(len(samples))), PeakLinear: peak}
}

// publishLevels reads the capture/render trackers' latest snapshots and
// emits a single LevelUpdate event (§4.6: emitted from the engine's
// dedicated level-ticker goroutine, not from inside the callbacks
// themselves — the Open Question resolved in SPEC_FULL §9/DESIGN.md).
func (e *Engine) publishLevels() {
	in := e.inputLevel.Snapshot()
	out := e.outputLevel.Snapshot()
	e.emit(levelEvent(LevelUpdate{
		InputRMS:   zeroIfNaN(in.RMSLinear),
		InputPeak:  zeroIfNaN(in.PeakLinear),
		OutputRMS:  zeroIfNaN(out.RMSLinear),
		OutputPeak: zeroIfNaN(out.PeakLinear),
	}))
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
