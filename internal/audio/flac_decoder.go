package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
)

// FLACDecoder implements AudioDecoder for FLAC files
type FLACDecoder struct {
	stream      *flac.Stream
	file        *os.File
	sampleRate  int
	numSamples  int64 // 0 when the StreamInfo block leaves it unset
	numChannels int
	position    int64

	// Samples decoded from the last frame but not yet returned
	pending []float64
}

// NewFLACDecoder creates a new FLAC decoder
func NewFLACDecoder(filename string) (*FLACDecoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	// Parse FLAC stream - reads signature and StreamInfo block
	stream, err := flac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create FLAC decoder: %w", err)
	}

	return &FLACDecoder{
		stream:      stream,
		file:        f,
		sampleRate:  int(stream.Info.SampleRate),
		numSamples:  int64(stream.Info.NSamples),
		numChannels: int(stream.Info.NChannels),
	}, nil
}

// ReadChunk reads up to numSamples mono samples
func (d *FLACDecoder) ReadChunk(numSamples int) ([]float64, error) {
	if d.numSamples > 0 && d.position >= d.numSamples && len(d.pending) == 0 {
		return nil, io.EOF
	}

	samples := make([]float64, 0, numSamples)

	for len(samples) < numSamples {
		if len(d.pending) > 0 {
			take := min(numSamples-len(samples), len(d.pending))
			samples = append(samples, d.pending[:take]...)
			d.pending = d.pending[take:]
			continue
		}

		frame, err := d.stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}

		// One subframe per channel; downmix by averaging
		frameSamples := len(frame.Subframes[0].Samples)
		maxVal := float64(int64(1) << (frame.BitsPerSample - 1))
		decoded := make([]float64, frameSamples)
		for i := 0; i < frameSamples; i++ {
			var sum int64
			for _, subframe := range frame.Subframes {
				sum += int64(subframe.Samples[i])
			}
			decoded[i] = float64(sum) / float64(len(frame.Subframes)) / maxVal
		}
		d.pending = decoded
	}

	if len(samples) == 0 {
		return nil, io.EOF
	}

	// Some encoders pad the final frame; honour the declared length
	if d.numSamples > 0 && d.position+int64(len(samples)) > d.numSamples {
		samples = samples[:d.numSamples-d.position]
		d.pending = nil
	}

	d.position += int64(len(samples))
	if len(samples) == 0 {
		return nil, io.EOF
	}
	return samples, nil
}

// SampleRate returns the sample rate
func (d *FLACDecoder) SampleRate() int {
	return d.sampleRate
}

// NumSamples returns the total number of samples, 0 if unknown
func (d *FLACDecoder) NumSamples() int64 {
	return d.numSamples
}

// NumChannels returns the number of audio channels
func (d *FLACDecoder) NumChannels() int {
	return d.numChannels
}

// Close closes the decoder and releases resources.
// Stream.Close also closes the underlying file.
func (d *FLACDecoder) Close() error {
	if d.stream != nil {
		return d.stream.Close()
	}
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
