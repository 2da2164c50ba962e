package dsp

// growFloat32 returns buf resized to length n, reusing its backing array
// when buf already has enough capacity instead of allocating. Every block's
// Process keeps its output slice as a struct field and runs it through
// this helper so the real-time audio thread only allocates the very first
// time a given frame size is seen, not on every call (§5).
func growFloat32(buf []float32, n int) []float32 {
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float32, n)
}

// growComplex128 is growFloat32's counterpart for the FFT scratch spectra.
func growComplex128(buf []complex128, n int) []complex128 {
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]complex128, n)
}

func clearComplex128(buf []complex128) {
	for i := range buf {
		buf[i] = 0
	}
}
