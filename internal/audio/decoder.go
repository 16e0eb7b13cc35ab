package audio

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/linuxmatters/jivepulse/internal/config"
	jerrors "github.com/linuxmatters/jivepulse/internal/errors"
)

// AudioDecoder defines the interface for all audio format decoders
type AudioDecoder interface {
	// ReadChunk reads the next chunk of mono samples as float64
	// Returns io.EOF when the stream is exhausted
	ReadChunk(numSamples int) ([]float64, error)

	// SampleRate returns the audio sample rate in Hz
	SampleRate() int

	// NumChannels returns the channel count of the source (1=mono, 2=stereo)
	NumChannels() int

	// Close closes the decoder and releases resources
	Close() error
}

// decodeChunkSize is the number of mono samples requested per ReadChunk call
const decodeChunkSize = 8192

// Samples is a fully decoded, mono-downmixed track
type Samples struct {
	Data       []float64 // amplitude in [-1, 1]
	SampleRate int
	Channels   int // channel count of the source before downmix
}

// Duration returns the track length in seconds
func (s *Samples) Duration() float64 {
	if s == nil || s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Data)) / float64(s.SampleRate)
}

// Open selects a decoder by file extension. WAV, MP3 and FLAC are decoded
// natively; every other supported container goes through ffmpeg.
func Open(ctx context.Context, filename string) (AudioDecoder, error) {
	return OpenWith(ctx, filename, config.DefaultFFmpeg)
}

// OpenWith is Open with an explicit ffmpeg binary for non-native containers
func OpenWith(ctx context.Context, filename, ffmpegPath string) (AudioDecoder, error) {
	if !config.IsAudioFile(filename) {
		return nil, jerrors.Decodef(filename, "unsupported audio format %q", filepath.Ext(filename))
	}

	var (
		dec AudioDecoder
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		dec, err = NewWAVDecoder(filename)
	case ".mp3":
		dec, err = NewMP3Decoder(filename)
	case ".flac":
		dec, err = NewFLACDecoder(filename)
	default:
		dec, err = NewFFmpegDecoder(ctx, filename, ffmpegPath)
	}
	if err != nil {
		return nil, jerrors.Decode(filename, err)
	}
	return dec, nil
}

// DecodeFile decodes an entire audio file into memory
func DecodeFile(ctx context.Context, filename string) (*Samples, error) {
	return DecodeFileWith(ctx, filename, config.DefaultFFmpeg)
}

// DecodeFileWith is DecodeFile with an explicit ffmpeg binary
func DecodeFileWith(ctx context.Context, filename, ffmpegPath string) (*Samples, error) {
	dec, err := OpenWith(ctx, filename, ffmpegPath)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	samples, err := ReadAll(ctx, dec)
	if err != nil {
		return nil, jerrors.Decode(filename, err)
	}
	if len(samples.Data) == 0 {
		return nil, jerrors.Decodef(filename, "no audio data in file")
	}
	return samples, nil
}

// ReadAll drains a decoder into a Samples buffer
func ReadAll(ctx context.Context, dec AudioDecoder) (*Samples, error) {
	s := &Samples{
		SampleRate: dec.SampleRate(),
		Channels:   dec.NumChannels(),
		Data:       make([]float64, 0, decodeChunkSize),
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunk, err := dec.ReadChunk(decodeChunkSize)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples at %d: %w", len(s.Data), err)
		}
		s.Data = append(s.Data, chunk...)
	}

	return s, nil
}
