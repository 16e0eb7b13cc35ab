package pipeline

import (
	"context"
	"fmt"

	"github.com/linuxmatters/jivepulse/internal/config"
	"github.com/linuxmatters/jivepulse/internal/effects"
	jerrors "github.com/linuxmatters/jivepulse/internal/errors"
	"github.com/linuxmatters/jivepulse/internal/preset"
	"github.com/linuxmatters/jivepulse/internal/renderer"
	log "github.com/sirupsen/logrus"
)

// SnapshotOptions configures a single-frame render
type SnapshotOptions struct {
	AudioPath  string
	ImagePath  string
	OutputPath string // PNG
	Preset     string
	At         float64 // seconds into the track, clamped to its length
	FFmpegPath string  // decodes non-native audio containers
}

// Snapshot renders the frame at opts.At to a PNG and returns the frame index
// used. Effect smoothing reads the preceding frames, so the result matches
// the same frame of a full render.
func Snapshot(ctx context.Context, opts SnapshotOptions) (int, error) {
	if opts.Preset == "" {
		opts.Preset = preset.Default
	}
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = config.DefaultFFmpeg
	}

	p, err := prepare(ctx, inputs{
		preset:     opts.Preset,
		audioPath:  opts.AudioPath,
		imagePath:  opts.ImagePath,
		ffmpegPath: opts.FFmpegPath,
	}, nil)
	if err != nil {
		return 0, cancelledOr(ctx, err)
	}

	index := p.env.FrameAt(opts.At)
	params, err := effects.ComputeFrame(p.env, index, p.cfg)
	if err != nil {
		return 0, err
	}
	frame := p.renderer.RenderFrame(params)
	defer p.renderer.Release(frame)

	if err := renderer.WritePNG(frame, opts.OutputPath); err != nil {
		return 0, jerrors.New(jerrors.KindRender, "snapshot", opts.OutputPath, "", err)
	}

	log.WithFields(log.Fields{
		"path":  opts.OutputPath,
		"frame": index,
		"at":    fmt.Sprintf("%.2fs", opts.At),
	}).Info("wrote snapshot")
	return index, nil
}
