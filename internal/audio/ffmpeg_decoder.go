package audio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/linuxmatters/jivepulse/internal/config"
)

// FFmpegDecoder implements AudioDecoder by running ffmpeg as a subprocess and
// reading mono 32-bit float PCM from its stdout. This covers every container
// ffmpeg understands (OGG, M4A, AAC, AIFF, WMA, ...).
type FFmpegDecoder struct {
	cmd        *exec.Cmd
	stdout     io.ReadCloser
	reader     *bufio.Reader
	stderr     bytes.Buffer
	sampleRate int
	channels   int
	buf        []byte
	done       bool
}

// NewFFmpegDecoder starts ffmpeg decoding filename. The native sample rate is
// kept when ffprobe can report it; otherwise ffmpeg resamples to
// config.DecodeSampleRate.
func NewFFmpegDecoder(ctx context.Context, filename, ffmpegPath string) (*FFmpegDecoder, error) {
	if _, err := exec.LookPath(ffmpegPath); err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	d := &FFmpegDecoder{
		sampleRate: config.DecodeSampleRate,
	}
	if meta, err := GetAudioMetadata(ctx, filename, ffmpegPath); err == nil {
		d.sampleRate = meta.SampleRate
		d.channels = meta.Channels
	}

	args := []string{
		"-nostdin",
		"-v", "error",
		"-i", filename,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(d.sampleRate),
		"-f", "f32le",
		"pipe:1",
	}
	d.cmd = exec.CommandContext(ctx, ffmpegPath, args...)
	d.cmd.Stderr = &d.stderr

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	d.stdout = stdout
	d.reader = bufio.NewReaderSize(stdout, 64*1024)

	if err := d.cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	return d, nil
}

// ReadChunk reads up to numSamples mono samples
func (d *FFmpegDecoder) ReadChunk(numSamples int) ([]float64, error) {
	if d.done {
		return nil, io.EOF
	}

	want := numSamples * 4
	if cap(d.buf) < want {
		d.buf = make([]byte, want)
	}
	buf := d.buf[:want]

	n, err := io.ReadFull(d.reader, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read decoded audio: %w", err)
	}

	if err == io.EOF || err == io.ErrUnexpectedEOF {
		d.done = true
		if werr := d.wait(); werr != nil {
			return nil, werr
		}
	}

	count := n / 4
	if count == 0 {
		return nil, io.EOF
	}

	samples := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint32(buf[i*4:])
		samples[i] = float64(math.Float32frombits(bits))
	}

	return samples, nil
}

func (d *FFmpegDecoder) wait() error {
	if d.cmd == nil || d.cmd.ProcessState != nil {
		return nil
	}
	if err := d.cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("ffmpeg exited with code %d: %s", exitErr.ExitCode(), stderrTail(d.stderr.String()))
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// SampleRate returns the sample rate of the decoded stream
func (d *FFmpegDecoder) SampleRate() int {
	return d.sampleRate
}

// NumChannels returns the source channel count, 0 if ffprobe was unavailable
func (d *FFmpegDecoder) NumChannels() int {
	return d.channels
}

// Close stops ffmpeg if it is still running and releases resources
func (d *FFmpegDecoder) Close() error {
	if d.cmd == nil || d.cmd.ProcessState != nil {
		return nil
	}
	if !d.done && d.cmd.Process != nil {
		_ = d.cmd.Process.Kill()
	}
	_ = d.stdout.Close()
	_ = d.cmd.Wait()
	return nil
}

// stderrTail keeps the last few lines of ffmpeg's diagnostics
func stderrTail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "\n")
}
