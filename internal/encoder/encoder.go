package encoder

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/linuxmatters/jivepulse/internal/config"
	jerrors "github.com/linuxmatters/jivepulse/internal/errors"
	log "github.com/sirupsen/logrus"
)

// Config holds the encoder configuration
type Config struct {
	OutputPath string // Path to output MP4 file
	AudioPath  string // Audio track muxed into the output unchanged in length
	Width      int    // Video width in pixels
	Height     int    // Video height in pixels
	Framerate  int    // Frames per second

	FFmpegPath   string     // ffmpeg binary; defaults to "ffmpeg" on PATH
	HWEncoder    *HWEncoder // Hardware H.264 encoder, nil for libx264
	CRF          int        // Constant rate factor (or equivalent quality) for H.264
	Preset       string     // libx264 speed preset
	AudioBitrate string     // AAC bitrate, e.g. "192k"
}

// withDefaults fills unset fields from the frozen encoder defaults
func (c Config) withDefaults() Config {
	if c.FFmpegPath == "" {
		c.FFmpegPath = config.DefaultFFmpeg
	}
	if c.Framerate == 0 {
		c.Framerate = config.FPS
	}
	if c.CRF == 0 {
		c.CRF = config.VideoCRF
	}
	if c.Preset == "" {
		c.Preset = config.VideoPreset
	}
	if c.AudioBitrate == "" {
		c.AudioBitrate = config.AudioBitrate
	}
	return c
}

// VideoCodec returns the ffmpeg encoder name in use
func (c Config) VideoCodec() string {
	if c.HWEncoder != nil {
		return c.HWEncoder.Name
	}
	return "libx264"
}

// Encoder streams frames to an ffmpeg subprocess that muxes them with the
// original audio. Output goes to a ".partial" sibling of OutputPath and is
// renamed into place by Close only when ffmpeg succeeds.
type Encoder struct {
	config      Config
	partialPath string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	writer *bufio.Writer
	stderr *tailBuffer

	rowBuf []byte
	frames int

	waitOnce sync.Once
	waitErr  error
	finished bool
}

// New creates a new encoder instance
func New(cfg Config) (*Encoder, error) {
	cfg = cfg.withDefaults()

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, jerrors.Encode(cfg.OutputPath, fmt.Errorf("invalid dimensions: %dx%d", cfg.Width, cfg.Height))
	}
	if cfg.Framerate <= 0 {
		return nil, jerrors.Encode(cfg.OutputPath, fmt.Errorf("invalid framerate: %d", cfg.Framerate))
	}
	if cfg.OutputPath == "" {
		return nil, jerrors.Encode("", errors.New("output path cannot be empty"))
	}
	if cfg.AudioPath == "" {
		return nil, jerrors.Encode(cfg.OutputPath, errors.New("audio path cannot be empty"))
	}

	return &Encoder{
		config:      cfg,
		partialPath: cfg.OutputPath + config.PartialFileSuffix,
		rowBuf:      make([]byte, cfg.Width*3),
	}, nil
}

// PartialPath returns the temporary file ffmpeg writes to
func (e *Encoder) PartialPath() string {
	return e.partialPath
}

// FramesWritten returns the number of frames sent so far
func (e *Encoder) FramesWritten() int {
	return e.frames
}

// Start launches ffmpeg. The process is killed if ctx is cancelled.
func (e *Encoder) Start(ctx context.Context) error {
	if e.cmd != nil {
		return jerrors.Encode(e.config.OutputPath, errors.New("encoder already started"))
	}

	args := buildArgs(e.config, e.partialPath)
	log.WithFields(log.Fields{
		"ffmpeg": e.config.FFmpegPath,
		"codec":  e.config.VideoCodec(),
		"size":   fmt.Sprintf("%dx%d", e.config.Width, e.config.Height),
		"output": e.partialPath,
	}).Debug("starting encoder")
	log.Tracef("ffmpeg %s", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, e.config.FFmpegPath, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return jerrors.Encode(e.config.OutputPath, err)
	}
	e.stderr = newTailBuffer(stderrTailLines)
	cmd.Stderr = e.stderr

	if err := cmd.Start(); err != nil {
		return jerrors.Encode(e.config.OutputPath, fmt.Errorf("starting ffmpeg: %w", err))
	}

	e.cmd = cmd
	e.stdin = stdin
	e.writer = bufio.NewWriterSize(stdin, len(e.rowBuf)*16)
	return nil
}

// WriteFrame sends one frame as packed RGB24. Frames must match the
// configured size.
func (e *Encoder) WriteFrame(img *image.RGBA) error {
	if e.cmd == nil || e.finished {
		return jerrors.Encode(e.config.OutputPath, errors.New("encoder is not running"))
	}
	if img.Rect.Dx() != e.config.Width || img.Rect.Dy() != e.config.Height {
		return jerrors.Encode(e.config.OutputPath, fmt.Errorf("frame size %dx%d does not match %dx%d",
			img.Rect.Dx(), img.Rect.Dy(), e.config.Width, e.config.Height))
	}

	// Strip alpha while copying each row; ffmpeg converts RGB24 to yuv420p
	for y := 0; y < e.config.Height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+e.config.Width*4]
		for x, j := 0, 0; x < len(row); x, j = x+4, j+3 {
			e.rowBuf[j] = row[x]
			e.rowBuf[j+1] = row[x+1]
			e.rowBuf[j+2] = row[x+2]
		}
		if _, err := e.writer.Write(e.rowBuf); err != nil {
			return e.failed(fmt.Errorf("writing frame %d: %w", e.frames, err))
		}
	}

	e.frames++
	return nil
}

// Close flushes the remaining frames, waits for ffmpeg to finish and moves
// the partial file into place. On failure the partial file is removed.
func (e *Encoder) Close() error {
	if e.cmd == nil {
		return jerrors.Encode(e.config.OutputPath, errors.New("encoder is not running"))
	}
	if e.finished {
		return nil
	}

	if err := e.writer.Flush(); err != nil {
		return e.failed(fmt.Errorf("flushing frames: %w", err))
	}
	if err := e.stdin.Close(); err != nil {
		return e.failed(fmt.Errorf("closing ffmpeg input: %w", err))
	}
	if err := e.wait(); err != nil {
		return e.failed(err)
	}
	e.finished = true

	if err := os.Rename(e.partialPath, e.config.OutputPath); err != nil {
		os.Remove(e.partialPath)
		return jerrors.Encode(e.config.OutputPath, err)
	}

	log.WithFields(log.Fields{
		"output": e.config.OutputPath,
		"frames": e.frames,
	}).Debug("encoder finished")
	return nil
}

// Abort stops ffmpeg without finalising and removes the partial output.
// Safe to call at any point, including after Close.
func (e *Encoder) Abort() {
	if e.cmd != nil && !e.finished {
		e.finished = true
		e.stdin.Close()
		if e.cmd.Process != nil {
			e.cmd.Process.Kill()
		}
		e.wait()
		log.WithField("output", e.partialPath).Debug("encoder aborted")
	}
	os.Remove(e.partialPath)
}

func (e *Encoder) wait() error {
	e.waitOnce.Do(func() {
		e.waitErr = e.cmd.Wait()
	})
	return e.waitErr
}

// failed tears the process down and wraps cause with ffmpeg's last words
func (e *Encoder) failed(cause error) error {
	if !e.finished {
		e.finished = true
		e.stdin.Close()
		if err := e.wait(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				cause = fmt.Errorf("%w (ffmpeg exit status %d)", cause, exitErr.ExitCode())
			}
		}
	}
	os.Remove(e.partialPath)
	return jerrors.New(jerrors.KindEncode, "encode", e.config.OutputPath, e.stderr.String(), cause)
}

// buildArgs assembles the ffmpeg command line: raw RGB24 frames on stdin as
// input 0, the original audio as input 1
func buildArgs(cfg Config, outputPath string) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgb24",
		"-video_size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-framerate", strconv.Itoa(cfg.Framerate),
		"-i", "pipe:0",
		"-i", cfg.AudioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		// H.264 with 4:2:0 chroma needs even dimensions
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-c:v", cfg.VideoCodec(),
	}
	args = append(args, videoQualityArgs(cfg)...)
	args = append(args,
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(cfg.Framerate),
		"-g", strconv.Itoa(cfg.Framerate*2), // Keyframe every 2 seconds
		"-c:a", "aac",
		"-b:a", cfg.AudioBitrate,
		"-shortest",
		"-movflags", "+faststart",
		"-f", "mp4",
		outputPath,
	)
	return args
}

// videoQualityArgs maps the CRF onto each encoder's own quality control
func videoQualityArgs(cfg Config) []string {
	crf := strconv.Itoa(cfg.CRF)
	if cfg.HWEncoder == nil {
		return []string{"-preset", cfg.Preset, "-crf", crf}
	}

	switch cfg.HWEncoder.Type {
	case HWAccelNVENC:
		return []string{"-preset", "p5", "-rc", "vbr", "-cq", crf, "-b:v", "0"}
	case HWAccelAMF:
		return []string{"-quality", "quality", "-rc", "cqp", "-qp_i", crf, "-qp_p", crf}
	case HWAccelVideoToolbox:
		return []string{"-b:v", "8M", "-allow_sw", "1"}
	default:
		return nil
	}
}

const stderrTailLines = 8

// tailBuffer keeps the last few lines written to it
type tailBuffer struct {
	mu    sync.Mutex
	max   int
	lines []string
	part  []byte
}

func newTailBuffer(maxLines int) *tailBuffer {
	return &tailBuffer{max: maxLines}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.part = append(t.part, p...)
	for {
		i := bytes.IndexByte(t.part, '\n')
		if i < 0 {
			break
		}
		t.push(strings.TrimRight(string(t.part[:i]), "\r"))
		t.part = t.part[i+1:]
	}
	return len(p), nil
}

func (t *tailBuffer) push(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[len(t.lines)-t.max:]
	}
}

// String returns the retained lines, including any unterminated last line
func (t *tailBuffer) String() string {
	if t == nil {
		return ""
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	lines := t.lines
	if tail := strings.TrimSpace(string(t.part)); tail != "" {
		lines = append(append([]string(nil), lines...), tail)
	}
	return strings.Join(lines, "\n")
}
