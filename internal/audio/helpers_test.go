package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeWAV writes 16-bit PCM frames to a temporary WAV file. samples holds one
// slice per channel, all the same length.
func writeWAV(t *testing.T, sampleRate int, samples ...[]float64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create fixture: %v", err)
	}
	defer f.Close()

	numChans := len(samples)
	enc := wav.NewEncoder(f, sampleRate, 16, numChans, 1)

	data := make([]int, len(samples[0])*numChans)
	for i := range samples[0] {
		for ch := 0; ch < numChans; ch++ {
			data[i*numChans+ch] = int(math.Round(samples[ch][i] * 32767))
		}
	}

	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: numChans, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Failed to finalise fixture: %v", err)
	}
	return path
}

func sine(freq float64, sampleRate int, seconds, amplitude float64) []float64 {
	n := int(float64(sampleRate) * seconds)
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}
