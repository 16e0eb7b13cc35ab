package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/jivepulse/internal/cli"
	"github.com/linuxmatters/jivepulse/internal/config"
	"github.com/linuxmatters/jivepulse/internal/encoder"
	jerrors "github.com/linuxmatters/jivepulse/internal/errors"
	"github.com/linuxmatters/jivepulse/internal/pipeline"
	"github.com/linuxmatters/jivepulse/internal/preset"
	"github.com/linuxmatters/jivepulse/internal/ui"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

// previewEvery sends a preview frame to the TUI at 5Hz
const previewEvery = 6

var CLI struct {
	Audio  string `arg:"" name:"audio" help:"Input audio file (wav, mp3, flac, or anything ffmpeg can read)" optional:""`
	Image  string `arg:"" name:"image" help:"Still image to animate (png, jpg, webp, bmp, tiff, gif)" optional:""`
	Output string `arg:"" name:"output" help:"Output MP4 file, or PNG with --snapshot" optional:""`

	Preset     string  `short:"p" help:"Effect preset (see --list-presets)" default:"energetic"`
	Snapshot   bool    `help:"Render a single PNG frame instead of a video"`
	At         float64 `help:"Timestamp in seconds for --snapshot" default:"1.0"`
	Thumbnail  bool    `help:"Also write a PNG thumbnail of the loudest frame next to the video"`
	Title      string  `help:"Title text drawn on the thumbnail (implies --thumbnail)"`
	TitleColor string  `name:"title-color" help:"Thumbnail title colour as RRGGBB" default:"F8B31D"`

	Workers int    `help:"Render goroutines, 0 for one per CPU" default:"0"`
	HWAccel string `name:"hwaccel" help:"H.264 encoder: none, auto, nvenc, amf or videotoolbox" default:"none"`
	CRF     int    `name:"crf" help:"Constant rate factor for libx264" default:"20"`
	FFmpeg  string `name:"ffmpeg" help:"Path to the ffmpeg binary" default:"ffmpeg"`

	NoPreview   bool `help:"Disable video preview during encoding"`
	Verbose     bool `short:"v" help:"Log pipeline stages to stderr instead of showing the progress UI"`
	ListPresets bool `name:"list-presets" help:"List the effect presets and exit"`
	Encoders    bool `help:"Show hardware encoder availability and exit"`
	Version     bool `help:"Show version information"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("jivepulse"),
		kong.Description(cli.Tagline),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	os.Exit(run())
}

func run() int {
	if CLI.Version {
		cli.PrintVersion(version)
		return 0
	}

	if CLI.ListPresets {
		printPresets()
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if CLI.Encoders {
		fmt.Print(encoder.GetEncoderStatus(ctx, CLI.FFmpeg))
		return 0
	}

	if CLI.Audio == "" || CLI.Image == "" || CLI.Output == "" {
		cli.PrintError("<audio>, <image> and <output> are required")
		return 1
	}

	if !preset.Exists(CLI.Preset) {
		cli.PrintError(fmt.Sprintf("unknown preset %q (available: %s)", CLI.Preset, strings.Join(preset.Names(), ", ")))
		return 1
	}

	useTUI := !CLI.Verbose && !CLI.Snapshot && isatty.IsTerminal(os.Stdout.Fd())
	configureLogging(CLI.Verbose, useTUI)

	if CLI.Snapshot {
		return runSnapshot(ctx)
	}

	opts, err := generateOptions()
	if err != nil {
		cli.PrintError(err.Error())
		return 1
	}

	if useTUI {
		return runWithTUI(ctx, opts)
	}
	return runPlain(ctx, opts)
}

// configureLogging routes logrus to stderr. The TUI owns the terminal, so
// logs are discarded while it runs.
func configureLogging(verbose, tui bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)

	switch {
	case verbose:
		log.SetLevel(log.DebugLevel)
	case tui:
		log.SetOutput(io.Discard)
	default:
		log.SetLevel(log.WarnLevel)
	}
}

func printPresets() {
	var entries []cli.PresetEntry
	for _, name := range preset.Names() {
		entries = append(entries, cli.PresetEntry{
			Name:        name,
			Description: preset.Describe(name),
			Default:     name == preset.Default,
		})
	}
	cli.PrintPresets(os.Stdout, entries)
}

func generateOptions() (pipeline.Options, error) {
	hw, err := encoder.ParseHWAccel(CLI.HWAccel)
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		AudioPath:  CLI.Audio,
		ImagePath:  CLI.Image,
		OutputPath: CLI.Output,
		Preset:     CLI.Preset,
		Workers:    CLI.Workers,
		FFmpegPath: CLI.FFmpeg,
		HWAccel:    hw,
		CRF:        CLI.CRF,
	}

	if CLI.Thumbnail || CLI.Title != "" {
		r, g, b, err := config.ParseHexColor(CLI.TitleColor)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.ThumbnailPath = thumbnailPath(CLI.Output)
		opts.ThumbnailTitle = CLI.Title
		opts.ThumbnailColor = color.RGBA{R: r, G: g, B: b, A: 255}
	}

	return opts, nil
}

// thumbnailPath puts the thumbnail next to the video with a .png extension
func thumbnailPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".png"
}

func runSnapshot(ctx context.Context) int {
	if !strings.EqualFold(filepath.Ext(CLI.Output), ".png") {
		cli.PrintError("snapshot output must be a .png file")
		return 1
	}

	frame, err := pipeline.Snapshot(ctx, pipeline.SnapshotOptions{
		AudioPath:  CLI.Audio,
		ImagePath:  CLI.Image,
		OutputPath: CLI.Output,
		Preset:     CLI.Preset,
		At:         CLI.At,
		FFmpegPath: CLI.FFmpeg,
	})
	if err != nil {
		return reportError(err)
	}

	cli.PrintSuccess(fmt.Sprintf("Snapshot of frame %d written to %s", frame, CLI.Output))
	return 0
}

// finalProgress keeps the last render update of a run for its summary
type finalProgress struct {
	last pipeline.Progress
}

func (f *finalProgress) observe(p pipeline.Progress) {
	if p.Phase == pipeline.PhaseRender && p.Done {
		f.last = p
	}
}

func runPlain(ctx context.Context, opts pipeline.Options) int {
	cli.PrintBanner()

	var final finalProgress
	opts.Progress = final.observe

	start := time.Now()
	out, err := pipeline.Generate(ctx, opts)
	if err != nil {
		return reportError(err)
	}

	cli.PrintRunSummary(cli.RunSummary{
		Output:    out,
		Preset:    opts.Preset,
		Frames:    final.last.Frame,
		Video:     time.Duration(final.last.Frame) * time.Second / config.FPS,
		Elapsed:   time.Since(start),
		FileSize:  final.last.FileSize,
		Codec:     final.last.VideoCodec,
		Thumbnail: opts.ThumbnailPath,
	})
	return 0
}

func runWithTUI(ctx context.Context, opts pipeline.Options) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel(opts.Preset, CLI.NoPreview)
	p := tea.NewProgram(model)

	var final finalProgress
	opts.Progress = func(pr pipeline.Progress) {
		final.observe(pr)
		p.Send(pr)
	}
	if !CLI.NoPreview {
		opts.PreviewEvery = previewEvery
	}

	var genErr error
	done := make(chan struct{})
	go func() {
		defer close(done)

		start := time.Now()
		out, err := pipeline.Generate(ctx, opts)
		if err != nil {
			genErr = err
			p.Quit()
			return
		}
		p.Send(ui.Complete{
			OutputFile:    out,
			Frames:        final.last.Frame,
			FileSize:      final.last.FileSize,
			VideoCodec:    final.last.VideoCodec,
			ThumbnailPath: opts.ThumbnailPath,
			TotalTime:     time.Since(start),
		})
	}()

	_, uiErr := p.Run()

	// The UI may exit first on ctrl+c; stop the run and wait for cleanup
	cancel()
	<-done

	if uiErr != nil {
		cli.PrintError(fmt.Sprintf("running UI: %v", uiErr))
		return 1
	}
	if genErr != nil {
		return reportError(genErr)
	}
	if model.Interrupted() {
		return reportError(jerrors.Cancelled(context.Canceled))
	}

	cli.PrintSuccess(fmt.Sprintf("Done! Output: %s", opts.OutputPath))
	return 0
}

// reportError prints err and returns the process exit code for it
func reportError(err error) int {
	switch {
	case errors.Is(err, jerrors.ErrCancelled):
		cli.PrintWarning("cancelled, no output written")
		return 130
	case jerrors.IsDefect(err):
		cli.PrintError(fmt.Sprintf("internal error: %v", err))
		return 70
	default:
		cli.PrintError(err.Error())
		return 1
	}
}
