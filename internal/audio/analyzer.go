package audio

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/linuxmatters/jivepulse/internal/config"
	jerrors "github.com/linuxmatters/jivepulse/internal/errors"
)

// AnalysisProgress is reported while band energy is being extracted
type AnalysisProgress struct {
	Frame       int
	TotalFrames int
	RMSLevel    float64   // RMS of the current analysis window
	Spectrum    []float64 // coarse log-magnitude snapshot, roughly 0.0-1.0
	Elapsed     time.Duration
}

// ProgressCallback is called with progress updates during analysis
type ProgressCallback func(AnalysisProgress)

// AnalyzerConfig tunes band extraction. The zero value is not useful; start
// from DefaultAnalyzerConfig.
type AnalyzerConfig struct {
	MinWindow    int     // smallest FFT window; grown to cover one frame period
	BassCutoffHz float64 // bass is below this
	MidCutoffHz  float64 // mid is [BassCutoffHz, MidCutoffHz), high is at or above

	Percentile float64 // normalisation ceiling

	Progress      ProgressCallback
	ProgressEvery int // frames between progress callbacks
}

// DefaultAnalyzerConfig returns the fixed analysis settings
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		MinWindow:     config.FFTSize,
		BassCutoffHz:  config.BassCutoffHz,
		MidCutoffHz:   config.MidCutoffHz,
		Percentile:    config.NormalizePercentile,
		ProgressEvery: 30,
	}
}

// spectrumBars is the width of the progress spectrum snapshot
const spectrumBars = 32

// Analyze converts a decoded track into a frame-aligned band energy envelope
func Analyze(samples *Samples, frameRate int) (*Envelope, error) {
	return AnalyzeWith(context.Background(), samples, frameRate, DefaultAnalyzerConfig())
}

// AnalyzeFile decodes path and analyses it
func AnalyzeFile(ctx context.Context, path string, frameRate int) (*Envelope, error) {
	samples, err := DecodeFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return AnalyzeWith(ctx, samples, frameRate, DefaultAnalyzerConfig())
}

// AnalyzeWith is Analyze with explicit settings and cancellation. The whole
// track is processed before anything is returned, since normalisation needs
// per-track statistics.
func AnalyzeWith(ctx context.Context, samples *Samples, frameRate int, cfg AnalyzerConfig) (*Envelope, error) {
	if samples == nil || len(samples.Data) == 0 {
		return nil, jerrors.Decodef("", "no audio data")
	}
	if samples.SampleRate <= 0 {
		return nil, jerrors.UnsupportedAudio("sample rate must be positive")
	}
	if frameRate <= 0 {
		return nil, jerrors.UnsupportedAudio("frame rate must be positive")
	}

	raw, err := extractBands(ctx, samples, frameRate, cfg)
	if err != nil {
		return nil, err
	}

	for b := range raw {
		shapeBand(raw[b], cfg.Percentile)
	}

	frames := make([]FrameEnergy, len(raw[0]))
	for i := range frames {
		frames[i] = FrameEnergy{
			Bass:    raw[BandBass][i],
			Mid:     raw[BandMid][i],
			High:    raw[BandHigh][i],
			Overall: raw[BandComposite][i],
		}
	}

	return &Envelope{
		Frames:    frames,
		FrameRate: frameRate,
		Duration:  samples.Duration(),
	}, nil
}

// frameCount is ceil(numSamples*frameRate/sampleRate) in integer arithmetic
func frameCount(numSamples, sampleRate, frameRate int) int {
	return int((int64(numSamples)*int64(frameRate) + int64(sampleRate) - 1) / int64(sampleRate))
}

// windowSize returns the FFT length for a frame period: at least minWindow
// and never shorter than one frame of samples
func windowSize(sampleRate, frameRate, minWindow int) int {
	period := (sampleRate + frameRate - 1) / frameRate
	n := 1
	for n < period {
		n <<= 1
	}
	return max(n, minWindow)
}

// extractBands returns raw (unnormalised) per-frame energy indexed by Band
func extractBands(ctx context.Context, samples *Samples, frameRate int, cfg AnalyzerConfig) ([4][]float64, error) {
	var bands [4][]float64

	sr := samples.SampleRate
	numFrames := frameCount(len(samples.Data), sr, frameRate)
	size := windowSize(sr, frameRate, cfg.MinWindow)
	processor := NewProcessor(size)

	for b := range bands {
		bands[b] = make([]float64, numFrames)
	}

	// Precompute bin -> band routing
	numBins := size/2 + 1
	binBand := make([]Band, numBins)
	for k := 0; k < numBins; k++ {
		freq := processor.BinFrequency(k, sr)
		switch {
		case freq < cfg.BassCutoffHz:
			binBand[k] = BandBass
		case freq < cfg.MidCutoffHz:
			binBand[k] = BandMid
		default:
			binBand[k] = BandHigh
		}
	}

	window := make([]float64, size)
	framePeriod := float64(sr) / float64(frameRate)
	startTime := time.Now()

	for i := 0; i < numFrames; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return bands, jerrors.Cancelled(err)
			}
		}

		// Window centred on the middle of frame i's period, zero padded
		centre := int(math.Round((float64(i) + 0.5) * framePeriod))
		fillWindow(window, samples.Data, centre-size/2)

		coeffs := processor.ProcessChunk(window)
		for k, c := range coeffs {
			m := magnitude(c)
			bands[binBand[k]][i] += m
			bands[BandComposite][i] += m
		}

		if cfg.Progress != nil && cfg.ProgressEvery > 0 && (i%cfg.ProgressEvery == 0 || i == numFrames-1) {
			cfg.Progress(AnalysisProgress{
				Frame:       i + 1,
				TotalFrames: numFrames,
				RMSLevel:    rms(window),
				Spectrum:    spectrumSnapshot(coeffs, size),
				Elapsed:     time.Since(startTime),
			})
		}
	}

	return bands, nil
}

// fillWindow copies data[start:start+len(dst)] into dst, zero filling
// anything outside data
func fillWindow(dst, data []float64, start int) {
	for j := range dst {
		idx := start + j
		if idx >= 0 && idx < len(data) {
			dst[j] = data[idx]
		} else {
			dst[j] = 0
		}
	}
}

// shapeBand normalises, smooths and curves one band in place
func shapeBand(x []float64, percentile float64) {
	normalizeBand(x, percentile)
	smoothBand(x, config.EnvelopeSmoothingTaps)
	for i, v := range x {
		x[i] = clamp01(math.Pow(clamp01(v), config.EnvelopeCurve))
	}
}

// normalizeBand maps [min, percentile ceiling] onto [0, 1]. A band with no
// usable range (silence, a constant tone) becomes all zeros.
func normalizeBand(x []float64, percentile float64) {
	if len(x) == 0 {
		return
	}

	floor := x[0]
	for _, v := range x {
		floor = math.Min(floor, v)
	}
	ceil := percentileOf(x, percentile)

	span := ceil - floor
	if span <= config.NormalizeEpsilon {
		for i := range x {
			x[i] = 0
		}
		return
	}

	for i, v := range x {
		x[i] = clamp01((v - floor) / span)
	}
}

// percentileOf returns the nearest-rank percentile of x without modifying it
func percentileOf(x []float64, p float64) float64 {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	idx := max(0, min(rank-1, len(sorted)-1))
	return sorted[idx]
}

// smoothBand applies a centred moving average of width taps, treating
// samples beyond either end as zero
func smoothBand(x []float64, taps int) {
	if taps <= 1 || len(x) == 0 {
		return
	}
	half := taps / 2
	src := make([]float64, len(x))
	copy(src, x)

	for i := range x {
		var sum float64
		for j := i - half; j <= i+half; j++ {
			if j >= 0 && j < len(src) {
				sum += src[j]
			}
		}
		x[i] = sum / float64(2*half+1)
	}
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// spectrumSnapshot groups the lower three quarters of the spectrum into
// spectrumBars log-scaled bars for the progress display
func spectrumSnapshot(coeffs []complex128, size int) []float64 {
	bars := make([]float64, spectrumBars)
	maxBin := (len(coeffs) * 3) / 4
	perBar := max(1, maxBin/spectrumBars)

	for bar := range bars {
		start := bar * perBar
		end := min(start+perBar, maxBin)
		var sum float64
		for k := start; k < end; k++ {
			sum += magnitude(coeffs[k])
		}
		avg := sum / float64(perBar) / float64(size) * 8
		bars[bar] = clamp01(math.Log10(1 + avg*9))
	}
	return bars
}
