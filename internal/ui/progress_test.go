package ui

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/jivepulse/internal/audio"
	"github.com/linuxmatters/jivepulse/internal/pipeline"
)

func TestModel_PhaseTransitions(t *testing.T) {
	m := NewModel("energetic", false)

	view := m.View()
	if !strings.Contains(view, "Pass 1: Analysing Audio") {
		t.Fatalf("initial view should show the analysis phase:\n%s", view)
	}
	if !strings.Contains(view, "Decoding audio") {
		t.Errorf("initial view should say audio is being decoded:\n%s", view)
	}

	m.Update(pipeline.Progress{
		Phase:       pipeline.PhaseAnalysis,
		Frame:       30,
		TotalFrames: 90,
		RMSLevel:    0.5,
		Spectrum:    []float64{0.1, 0.9, 0.4},
	})
	view = m.View()
	if !strings.Contains(view, "Frame 30 of 90") {
		t.Errorf("analysis view missing frame counter:\n%s", view)
	}
	if !strings.Contains(view, "Spectrum:") {
		t.Errorf("analysis view missing spectrum:\n%s", view)
	}

	m.Update(pipeline.Progress{
		Phase:       pipeline.PhaseAnalysis,
		Frame:       90,
		TotalFrames: 90,
		Elapsed:     250 * time.Millisecond,
		Done:        true,
	})
	view = m.View()
	if !strings.Contains(view, "Pass 2: Rendering & Encoding") {
		t.Fatalf("analysis Done should switch to the render phase:\n%s", view)
	}
	if !strings.Contains(view, "3.0s") {
		t.Errorf("audio profile should show the 3.0s track length:\n%s", view)
	}

	m.Update(pipeline.Progress{
		Phase:       pipeline.PhaseRender,
		Frame:       45,
		TotalFrames: 90,
		Elapsed:     time.Second,
		Levels:      audio.FrameEnergy{Bass: 0.8, Mid: 0.2, High: 0.1, Overall: 0.5},
		FileSize:    2048,
		VideoCodec:  "libx264",
	})
	view = m.View()
	for _, want := range []string{"50%", "Frame 45 of 90", "Bass", "0.80", "2.0 KB", "libx264"} {
		if !strings.Contains(view, want) {
			t.Errorf("render view missing %q:\n%s", want, view)
		}
	}

	if got := m.CompletionSummary(); got != "" {
		t.Errorf("CompletionSummary before completion = %q, want empty", got)
	}
}

func TestModel_Complete(t *testing.T) {
	m := NewModel("minimal", true)
	m.Update(pipeline.Progress{Phase: pipeline.PhaseAnalysis, TotalFrames: 60, Frame: 60, Done: true})

	_, cmd := m.Update(Complete{
		OutputFile:    "out.mp4",
		Frames:        60,
		FileSize:      3 * 1024 * 1024,
		VideoCodec:    "libx264",
		ThumbnailPath: "out.png",
		TotalTime:     4 * time.Second,
	})
	if cmd == nil {
		t.Fatal("Complete should schedule a delayed quit")
	}

	summary := m.CompletionSummary()
	for _, want := range []string{"Video Complete", "out.mp4", "minimal", "60 frames", "2.0s", "3.0 MB", "out.png"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if m.View() != summary {
		t.Error("View after completion should be the completion summary")
	}

	_, cmd = m.Update(quitMsg{})
	if cmd == nil {
		t.Fatal("quitMsg should return tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quitMsg command should produce tea.QuitMsg")
	}
	if m.Interrupted() {
		t.Error("a completed run is not interrupted")
	}
}

func TestModel_CtrlCInterrupts(t *testing.T) {
	m := NewModel("energetic", false)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if !m.Interrupted() {
		t.Error("ctrl+c before completion should mark the run interrupted")
	}
}

func TestModel_PreviewCaching(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 160, 90))
	for i := 3; i < len(frame.Pix); i += 4 {
		frame.Pix[i] = 255
	}

	m := NewModel("energetic", false)
	m.Update(pipeline.Progress{Phase: pipeline.PhaseRender, Frame: 3, TotalFrames: 9, Preview: frame})
	if !strings.Contains(m.View(), "Preview:") {
		t.Fatal("preview frame should be rendered")
	}

	// Updates without a frame keep the last preview
	m.Update(pipeline.Progress{Phase: pipeline.PhaseRender, Frame: 6, TotalFrames: 9})
	if !strings.Contains(m.View(), "Preview:") {
		t.Error("preview should persist between preview ticks")
	}

	quiet := NewModel("energetic", true)
	quiet.Update(pipeline.Progress{Phase: pipeline.PhaseRender, Frame: 3, TotalFrames: 9, Preview: frame})
	if strings.Contains(quiet.View(), "Preview:") {
		t.Error("noPreview should suppress the preview")
	}
}

func TestDownsampleFrame(t *testing.T) {
	// Left half red, right half blue
	frame := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			c := color.RGBA{R: 255, A: 255}
			if x >= 4 {
				c = color.RGBA{B: 255, A: 255}
			}
			frame.SetRGBA(x, y, c)
		}
	}

	grid := DownsampleFrame(frame, PreviewConfig{Width: 2, Height: 1})
	if len(grid) != 1 || len(grid[0]) != 2 {
		t.Fatalf("grid size = %dx%d, want 2x1", len(grid[0]), len(grid))
	}
	if grid[0][0] != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("left cell = %v, want red", grid[0][0])
	}
	if grid[0][1] != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("right cell = %v, want blue", grid[0][1])
	}

	// Averaging across the boundary
	mixed := DownsampleFrame(frame, PreviewConfig{Width: 1, Height: 1})
	if got := mixed[0][0]; got.R != 127 || got.B != 127 {
		t.Errorf("single cell = %v, want an even red/blue mix", got)
	}

	// Grids larger than the frame still fill every cell
	big := DownsampleFrame(frame, PreviewConfig{Width: 16, Height: 8})
	for y, row := range big {
		for x, c := range row {
			if c.A != 255 {
				t.Fatalf("cell (%d,%d) left empty", x, y)
			}
		}
	}

	if DownsampleFrame(nil, DefaultPreviewConfig()) != nil {
		t.Error("nil frame should give a nil grid")
	}
}

func TestFitPreview(t *testing.T) {
	tests := []struct {
		name   string
		bounds image.Rectangle
		want   PreviewConfig
	}{
		{"16:9", image.Rect(0, 0, 1280, 720), PreviewConfig{Width: 71, Height: 20}},
		{"square", image.Rect(0, 0, 512, 512), PreviewConfig{Width: 40, Height: 20}},
		{"very wide", image.Rect(0, 0, 4000, 100), PreviewConfig{Width: 72, Height: 1}},
		{"empty", image.Rectangle{}, DefaultPreviewConfig()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitPreview(tt.bounds, DefaultPreviewConfig()); got != tt.want {
				t.Errorf("FitPreview = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRenderPreview(t *testing.T) {
	grid := [][]color.RGBA{
		{{R: 1, G: 2, B: 3, A: 255}, {R: 4, G: 5, B: 6, A: 255}},
		{{R: 7, G: 8, B: 9, A: 255}, {R: 10, G: 11, B: 12, A: 255}},
	}
	out := RenderPreview(grid)

	if !strings.Contains(out, "\x1b[48;2;1;2;3m") || !strings.Contains(out, "\x1b[48;2;10;11;12m") {
		t.Errorf("preview missing true-colour cells:\n%q", out)
	}
	// Label, top border, two rows, bottom border
	if lines := strings.Count(out, "\n"); lines != 5 {
		t.Errorf("preview has %d lines, want 5", lines)
	}
	if RenderPreview(nil) != "" {
		t.Error("empty grid should render nothing")
	}
}

func TestFormatHelpers(t *testing.T) {
	bytes := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range bytes {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}

	durations := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
	}
	for _, tt := range durations {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := toDB(1); got != 0 {
		t.Errorf("toDB(1) = %v, want 0", got)
	}
	if got := toDB(0); got != -96 {
		t.Errorf("toDB(0) = %v, want -96", got)
	}
}

func TestRenderSpectrum(t *testing.T) {
	out := renderSpectrum([]float64{0, 0.25, 1}, 3)
	rows := strings.Split(out, "\n")
	if len(rows) != 2 {
		t.Fatalf("spectrum has %d rows, want 2", len(rows))
	}
	if !strings.Contains(rows[1], "█") {
		t.Errorf("full-scale bar should fill the bottom row: %q", rows[1])
	}
	if renderSpectrum(nil, 10) != "" {
		t.Error("empty spectrum should render nothing")
	}
}
