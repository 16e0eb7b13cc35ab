package audio

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ApplyHanning applies a Hanning window to the input data
func ApplyHanning(data []float64) []float64 {
	windowed := make([]float64, len(data))
	applyWindow(windowed, data, hanningWindow(len(data)))
	return windowed
}

func hanningWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

func applyWindow(dst, src, window []float64) {
	for i := range src {
		dst[i] = src[i] * window[i]
	}
}

// Processor performs windowed real FFTs of a fixed size. A Processor is not
// safe for concurrent use.
type Processor struct {
	size    int
	fft     *fourier.FFT
	window  []float64
	scratch []float64
	coeffs  []complex128
}

// NewProcessor creates a processor for windows of size samples
func NewProcessor(size int) *Processor {
	return &Processor{
		size:    size,
		fft:     fourier.NewFFT(size),
		window:  hanningWindow(size),
		scratch: make([]float64, size),
		coeffs:  make([]complex128, size/2+1),
	}
}

// Size returns the window length
func (p *Processor) Size() int {
	return p.size
}

// ProcessChunk windows samples (zero padded to Size) and returns the positive
// frequency coefficients, bins 0..Size/2. The returned slice is reused by the
// next call.
func (p *Processor) ProcessChunk(samples []float64) []complex128 {
	n := copy(p.scratch, samples)
	for i := n; i < p.size; i++ {
		p.scratch[i] = 0
	}
	applyWindow(p.scratch, p.scratch, p.window)

	return p.fft.Coefficients(p.coeffs, p.scratch)
}

// BinFrequency returns the centre frequency of bin k in Hz
func (p *Processor) BinFrequency(k, sampleRate int) float64 {
	return float64(k) * float64(sampleRate) / float64(p.size)
}

// magnitude is |c|
func magnitude(c complex128) float64 {
	return cmplx.Abs(c)
}
