// Package dsp implements the phase-vocoder pitch/formant shifters,
// Schroeder reverb, ring-modulation robot effect, and tanh distortion of
// §4.4, composed into an ordered effect chain (§4.4a).
//
// Grounded on original_source/src/dsp/*.rs (the Rust implementation this
// spec was distilled from — realfft/num_complex forward/inverse real
// FFT, per-bin phase unwrap, comb/all-pass reverb, ring modulator, tanh
// waveshaper). No repository in the retrieval pack imports an FFT
// library (a corpus-wide grep for "fft"/"FFT" across every Go file,
// including other_examples/*.go.go, returned no hits outside this
// module's own comments), so fft.go is a stdlib-only radix-2 Cooley-Tukey
// implementation — justified because no third-party candidate exists
// anywhere in the retrieval pack.
package dsp

import "math"

// fft computes the in-place iterative radix-2 Cooley-Tukey DFT of data,
// whose length must be a power of two. Real-valued input is represented
// with a zero imaginary part; this trades the throughput of a packed
// real-FFT for simplicity, which is acceptable at the spec's fixed
// N=2048 block size running well under one device period.
func fft(data []complex128) {
	n := len(data)
	if n <= 1 {
		return
	}
	bitReverse(data)
	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		angleStep := -2 * math.Pi / float64(size)
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				angle := angleStep * float64(k)
				twiddle := complex(math.Cos(angle), math.Sin(angle))
				even := data[start+k]
				odd := data[start+k+half] * twiddle
				data[start+k] = even + odd
				data[start+k+half] = even - odd
			}
		}
	}
}

// ifft computes the in-place inverse DFT, normalized by 1/N.
func ifft(data []complex128) {
	n := len(data)
	for i := range data {
		data[i] = complex(real(data[i]), -imag(data[i]))
	}
	fft(data)
	scale := 1 / float64(n)
	for i := range data {
		data[i] = complex(real(data[i])*scale, -imag(data[i])*scale)
	}
}

func bitReverse(data []complex128) {
	n := len(data)
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j &^= bit
		}
		j |= bit
		if i < j {
			data[i], data[j] = data[j], data[i]
		}
	}
}
