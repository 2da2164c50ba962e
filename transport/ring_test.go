package transport

import (
	"sync"
	"testing"
)

func TestPushPopRoundTrip(t *testing.T) {
	r := New(16)
	r.Push([]float32{1, 2, 3, 4})

	out := make([]float32, 4)
	n := r.Pop(out)
	if n != 4 {
		t.Fatalf("expected 4 samples, got %d", n)
	}
	for i, v := range []float32{1, 2, 3, 4} {
		if out[i] != v {
			t.Fatalf("sample %d: want %v got %v", i, v, out[i])
		}
	}
}

func TestPopUnderrunZeroFills(t *testing.T) {
	r := New(16)
	r.Push([]float32{1, 2})

	out := make([]float32, 5)
	n := r.Pop(out)
	if n != 2 {
		t.Fatalf("expected 2 real samples, got %d", n)
	}
	want := []float32{1, 2, 0, 0, 0}
	for i, v := range want {
		if out[i] != v {
			t.Fatalf("sample %d: want %v got %v", i, v, out[i])
		}
	}
}

func TestPushOverflowDropsOldest(t *testing.T) {
	r := New(4) // power of two already
	r.Push([]float32{1, 2, 3, 4})
	r.Push([]float32{5, 6}) // overflow by 2; oldest (1,2) dropped

	out := make([]float32, 4)
	n := r.Pop(out)
	if n != 4 {
		t.Fatalf("expected 4 samples, got %d", n)
	}
	want := []float32{3, 4, 5, 6}
	for i, v := range want {
		if out[i] != v {
			t.Fatalf("sample %d: want %v got %v", i, v, out[i])
		}
	}
}

func TestPushOverflowIncrementsDebugCounter(t *testing.T) {
	r := New(4)
	if r.OverflowCount() != 0 {
		t.Fatalf("expected 0 overflow count before any push, got %d", r.OverflowCount())
	}
	r.Push([]float32{1, 2, 3, 4})
	r.Push([]float32{5, 6})
	if r.OverflowCount() != 1 {
		t.Fatalf("expected overflow count 1, got %d", r.OverflowCount())
	}
}

func TestNewRoundsUpToPowerOfTwo(t *testing.T) {
	r := New(10)
	if r.Cap() != 16 {
		t.Fatalf("expected capacity 16, got %d", r.Cap())
	}
}

func TestResetDropsBufferedSamples(t *testing.T) {
	r := New(16)
	r.Push([]float32{1, 2, 3})
	r.Reset()
	if r.Available() != 0 {
		t.Fatalf("expected 0 available after reset, got %d", r.Available())
	}
	out := make([]float32, 3)
	n := r.Pop(out)
	if n != 0 {
		t.Fatalf("expected underrun after reset, got %d real samples", n)
	}
}

// TestConcurrentSPSC exercises a single producer and single consumer
// goroutine concurrently, as the real capture/render callbacks would.
func TestConcurrentSPSC(t *testing.T) {
	r := New(1024)
	const total = 100000

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		chunk := make([]float32, 16)
		for i := 0; i < total; i += len(chunk) {
			for j := range chunk {
				chunk[j] = float32(i + j)
			}
			r.Push(chunk)
		}
	}()

	go func() {
		defer wg.Done()
		out := make([]float32, 16)
		for i := 0; i < total/len(out)*2; i++ {
			r.Pop(out)
		}
	}()

	wg.Wait()
}
