package engine

import (
	"github.com/shaban/voiceboard/dsp"
	"github.com/shaban/voiceboard/mixer"
	"github.com/shaban/voiceboard/transport"
)

// captureHandles is the small, copyable record of shared-state handles
// the capture callback closes over (§9's "callback closures capturing
// shared state" note): a ring producer endpoint, the mixer state for its
// atomic mic gain/mute, an optional DSP chain, and a level tracker. None
// of these allocate when read from the audio callback thread.
type captureHandles struct {
	ring   *transport.Ring
	mix    *mixer.State
	chain  *dsp.Chain
	levels *levelTracker
}

// buildCaptureCallback returns the portaudio input-stream callback of
// §4.6: read mic_muted/mic_volume atomically, apply gain, optionally run
// the DSP chain, then try-push to the ring (dropping on overflow). The
// gain-stage scratch buffer is closed over and reused across invocations
// (reallocated only when a callback delivers more samples than any
// before it) so the callback allocates only on such growth;
// dsp.Chain.Process keeps its own per-block output buffers the same way.
func buildCaptureCallback(h captureHandles) func(in []float32) {
	var scratch []float32
	return func(in []float32) {
		scratch = growFloat32Slice(scratch, len(in))
		gain := h.mix.EffectiveMicGain()
		for i, s := range in {
			scratch[i] = clampf(s * gain)
		}
		processed := scratch
		if h.chain != nil {
			processed = h.chain.Process(scratch)
		}
		h.levels.Record(processed)
		h.ring.Push(processed)
	}
}

// growFloat32Slice resizes buf to length n, reusing its backing array
// when there is already enough capacity instead of allocating.
func growFloat32Slice(buf []float32, n int) []float32 {
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float32, n)
}

// renderHandles is the render callback's equivalent small handle record.
type renderHandles struct {
	ring   *transport.Ring
	mix    *mixer.State
	levels *levelTracker
}

// buildRenderCallback returns the portaudio output-stream callback of
// §4.6: drain the ring (zero-filling underrun), try-acquire the mixer
// state to add the sound layer with per-sample clamp, then apply the
// master gain and clamp again.
func buildRenderCallback(h renderHandles) func(out []float32) {
	return func(out []float32) {
		h.ring.Pop(out)
		h.mix.TryMix(out)

		master := h.mix.MasterVolume()
		for i, s := range out {
			out[i] = clampf(s * master)
		}
		h.levels.Record(out)
	}
}

func clampf(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

