package audio

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/argusdusty/gofft"
)

// TestProcessChunk_MatchesGofft cross-checks the gonum real FFT path against
// gofft's complex in-place FFT on the same windowed input.
func TestProcessChunk_MatchesGofft(t *testing.T) {
	const size = 2048

	rng := rand.New(rand.NewSource(42))
	signal := make([]float64, size)
	for i := range signal {
		signal[i] = rng.Float64()*2 - 1
	}

	p := NewProcessor(size)
	got := p.ProcessChunk(signal)
	if len(got) != size/2+1 {
		t.Fatalf("Expected %d coefficients, got %d", size/2+1, len(got))
	}

	ref := gofft.Float64ToComplex128Array(ApplyHanning(signal))
	if err := gofft.FFT(ref); err != nil {
		t.Fatalf("gofft failed: %v", err)
	}

	for k := range got {
		diff := cmplx.Abs(got[k] - ref[k])
		if diff > 1e-6*math.Max(1, cmplx.Abs(ref[k])) {
			t.Fatalf("Bin %d differs: gonum %v, gofft %v", k, got[k], ref[k])
		}
	}
}

// TestProcessChunk_SinePeak verifies a 440 Hz tone peaks at the expected bin.
// Bin width at 44.1 kHz with 2048 points is ~21.5 Hz, so 440 Hz is bin ~20.
func TestProcessChunk_SinePeak(t *testing.T) {
	const (
		sampleRate = 44100
		frequency  = 440
		size       = 2048
	)

	p := NewProcessor(size)
	coeffs := p.ProcessChunk(sine(frequency, sampleRate, 0.1, 1)[:size])

	peak := 0
	for k := range coeffs {
		if cmplx.Abs(coeffs[k]) > cmplx.Abs(coeffs[peak]) {
			peak = k
		}
	}

	want := int(math.Round(frequency * size / sampleRate))
	if peak < want-1 || peak > want+1 {
		t.Errorf("Peak at bin %d (%.1f Hz), expected near bin %d", peak, p.BinFrequency(peak, sampleRate), want)
	}
}

func TestProcessChunk_ZeroPadsShortInput(t *testing.T) {
	p := NewProcessor(1024)

	// Dirty the scratch buffer, then feed a short chunk of silence
	p.ProcessChunk(sine(1000, 44100, 0.1, 1))
	coeffs := p.ProcessChunk(make([]float64, 100))

	for k, c := range coeffs {
		if c != 0 {
			t.Fatalf("Bin %d non-zero after silent short chunk: %v", k, c)
		}
	}
}

func TestApplyHanning(t *testing.T) {
	data := []float64{1, 1, 1, 1, 1}
	w := ApplyHanning(data)

	if w[0] != 0 || w[4] != 0 {
		t.Errorf("Window endpoints should be zero, got %f and %f", w[0], w[4])
	}
	if math.Abs(w[2]-1) > 1e-12 {
		t.Errorf("Window centre should be 1, got %f", w[2])
	}
	if data[2] != 1 {
		t.Error("ApplyHanning must not modify its input")
	}
}
