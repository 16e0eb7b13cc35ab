// Package pipeline wires analysis, effects, rendering and encoding into the
// end-to-end still-image-plus-audio to MP4 conversion.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"runtime"
	"time"

	"github.com/linuxmatters/jivepulse/internal/audio"
	"github.com/linuxmatters/jivepulse/internal/config"
	"github.com/linuxmatters/jivepulse/internal/effects"
	"github.com/linuxmatters/jivepulse/internal/encoder"
	jerrors "github.com/linuxmatters/jivepulse/internal/errors"
	"github.com/linuxmatters/jivepulse/internal/preset"
	"github.com/linuxmatters/jivepulse/internal/renderer"
	log "github.com/sirupsen/logrus"
)

// FrameSink consumes rendered frames in index order
type FrameSink interface {
	WriteFrame(img *image.RGBA) error
	Close() error // finalise the output
	Abort()       // discard everything written so far
}

// SinkFactory opens the sink for a run. The default starts an ffmpeg encoder.
type SinkFactory func(ctx context.Context, cfg encoder.Config) (FrameSink, error)

// Options configures one Generate run
type Options struct {
	AudioPath  string
	ImagePath  string
	OutputPath string
	Preset     string // defaults to preset.Default

	Workers  int            // render goroutines; defaults to runtime.NumCPU()
	Progress func(Progress) // optional, called from a separate goroutine
	// PreviewEvery attaches a copy of every Nth frame to render progress; 0 disables
	PreviewEvery int

	FFmpegPath    string
	HWAccel       encoder.HWAccelType
	CRF           int
	EncoderPreset string

	// Optional poster image rendered from the loudest frame
	ThumbnailPath  string
	ThumbnailTitle string
	ThumbnailColor color.RGBA

	NewSink SinkFactory
}

func (o Options) withDefaults() Options {
	if o.Preset == "" {
		o.Preset = preset.Default
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.FFmpegPath == "" {
		o.FFmpegPath = config.DefaultFFmpeg
	}
	if o.ThumbnailColor == (color.RGBA{}) {
		o.ThumbnailColor = renderer.DefaultTextColor()
	}
	if o.NewSink == nil {
		o.NewSink = newEncoderSink
	}
	return o
}

func newEncoderSink(ctx context.Context, cfg encoder.Config) (FrameSink, error) {
	enc, err := encoder.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := enc.Start(ctx); err != nil {
		return nil, err
	}
	return enc, nil
}

// ValidateInputs checks the input paths by extension and existence before any
// work starts
func ValidateInputs(audioPath, imagePath string) error {
	if !config.IsAudioFile(audioPath) {
		return jerrors.Decodef(audioPath, "unsupported audio format")
	}
	if !config.IsImageFile(imagePath) {
		return jerrors.Decodef(imagePath, "unsupported image format")
	}
	for _, p := range []string{audioPath, imagePath} {
		if _, err := os.Stat(p); err != nil {
			return jerrors.Decode(p, err)
		}
	}
	return nil
}

// prepared is the immutable state shared by every frame of a run
type prepared struct {
	cfg      preset.Config
	env      *audio.Envelope
	renderer *renderer.Renderer
}

// inputs names what prepare reads
type inputs struct {
	preset     string
	audioPath  string
	imagePath  string
	ffmpegPath string
}

// prepare resolves the preset, analyses the audio and loads the image. The
// preset is resolved first so a bad name fails before any decoding.
func prepare(ctx context.Context, in inputs, relay *progressRelay) (*prepared, error) {
	presetName, audioPath, imagePath := in.preset, in.audioPath, in.imagePath
	cfg, err := preset.Resolve(presetName)
	if err != nil {
		return nil, err
	}
	if err := ValidateInputs(audioPath, imagePath); err != nil {
		return nil, err
	}

	start := time.Now()
	samples, err := audio.DecodeFileWith(ctx, audioPath, in.ffmpegPath)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"path":        audioPath,
		"sample_rate": samples.SampleRate,
		"channels":    samples.Channels,
		"duration":    fmt.Sprintf("%.2fs", samples.Duration()),
	}).Info("decoded audio")

	acfg := audio.DefaultAnalyzerConfig()
	if relay.wants() {
		acfg.Progress = func(p audio.AnalysisProgress) {
			relay.send(Progress{
				Phase:       PhaseAnalysis,
				Frame:       p.Frame,
				TotalFrames: p.TotalFrames,
				Elapsed:     p.Elapsed,
				RMSLevel:    p.RMSLevel,
				Spectrum:    p.Spectrum,
			})
		}
	}
	env, err := audio.AnalyzeWith(ctx, samples, config.FPS, acfg)
	if err != nil {
		return nil, err
	}
	relay.send(Progress{
		Phase:       PhaseAnalysis,
		Frame:       env.Len(),
		TotalFrames: env.Len(),
		Elapsed:     time.Since(start),
		Done:        true,
	})
	log.WithFields(log.Fields{
		"frames":  env.Len(),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("analysed audio")

	base, err := renderer.LoadBaseImage(imagePath)
	if err != nil {
		return nil, err
	}
	r, err := renderer.NewRenderer(base)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"path": imagePath,
		"size": fmt.Sprintf("%dx%d", base.Width(), base.Height()),
	}).Info("loaded image")

	return &prepared{cfg: cfg, env: env, renderer: r}, nil
}

// Generate renders the video described by opts and returns the output path.
// Nothing is left at OutputPath unless the whole run succeeds.
func Generate(ctx context.Context, opts Options) (string, error) {
	opts = opts.withDefaults()
	if opts.OutputPath == "" {
		return "", jerrors.Encode("", errors.New("output path cannot be empty"))
	}

	relay := newProgressRelay(opts.Progress)
	defer relay.close()

	p, err := prepare(ctx, inputs{
		preset:     opts.Preset,
		audioPath:  opts.AudioPath,
		imagePath:  opts.ImagePath,
		ffmpegPath: opts.FFmpegPath,
	}, relay)
	if err != nil {
		return "", cancelledOr(ctx, err)
	}

	encCfg := encoder.Config{
		OutputPath: opts.OutputPath,
		AudioPath:  opts.AudioPath,
		Width:      p.renderer.Bounds().Dx(),
		Height:     p.renderer.Bounds().Dy(),
		Framerate:  config.FPS,
		FFmpegPath: opts.FFmpegPath,
		CRF:        opts.CRF,
		Preset:     opts.EncoderPreset,
	}
	if opts.HWAccel != "" && opts.HWAccel != encoder.HWAccelNone {
		encCfg.HWEncoder = encoder.SelectBestEncoder(ctx, opts.FFmpegPath, opts.HWAccel)
		if encCfg.HWEncoder == nil {
			log.WithField("requested", opts.HWAccel).Warn("hardware encoder not available, using libx264")
		}
	}

	sink, err := opts.NewSink(ctx, encCfg)
	if err != nil {
		return "", cancelledOr(ctx, err)
	}

	start := time.Now()
	stats, err := renderAll(ctx, p, sink, renderSettings{
		workers:      opts.Workers,
		previewEvery: opts.PreviewEvery,
		videoCodec:   fmt.Sprintf("H.264 %dx%d (%s)", encCfg.Width, encCfg.Height, encCfg.VideoCodec()),
	}, relay)
	if err != nil {
		sink.Abort()
		err = cancelledOr(ctx, err)
		log.WithError(err).WithField("frames", stats.written).Warn("render aborted")
		return "", err
	}

	if err := sink.Close(); err != nil {
		sink.Abort()
		return "", cancelledOr(ctx, err)
	}

	var size int64
	if info, err := os.Stat(opts.OutputPath); err == nil {
		size = info.Size()
	}
	relay.send(Progress{
		Phase:       PhaseRender,
		Frame:       stats.written,
		TotalFrames: p.env.Len(),
		Elapsed:     time.Since(start),
		FileSize:    size,
		VideoCodec:  encCfg.VideoCodec(),
		Done:        true,
	})
	log.WithFields(log.Fields{
		"output":  opts.OutputPath,
		"frames":  stats.written,
		"workers": opts.Workers,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("video complete")

	if opts.ThumbnailPath != "" {
		if err := writeThumbnail(p, opts.ThumbnailPath, opts.ThumbnailTitle, opts.ThumbnailColor); err != nil {
			return opts.OutputPath, err
		}
	}

	return opts.OutputPath, nil
}

// writeThumbnail renders the loudest frame and draws the title over it
func writeThumbnail(p *prepared, path, title string, textColor color.RGBA) error {
	index := p.env.Loudest()
	params, err := effects.ComputeFrame(p.env, index, p.cfg)
	if err != nil {
		return err
	}
	frame := p.renderer.RenderFrame(params)
	defer p.renderer.Release(frame)

	if err := renderer.GenerateThumbnail(path, frame, title, textColor); err != nil {
		return jerrors.New(jerrors.KindRender, "thumbnail", path, "", err)
	}
	log.WithFields(log.Fields{"path": path, "frame": index}).Info("wrote thumbnail")
	return nil
}

// cancelledOr reports a cancelled context in preference to whatever error
// the cancellation caused downstream
func cancelledOr(ctx context.Context, err error) error {
	if ctx.Err() != nil && !errors.Is(err, jerrors.ErrCancelled) {
		return jerrors.Cancelled(ctx.Err())
	}
	return err
}
