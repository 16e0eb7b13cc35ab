// Package ui is the Bubbletea progress display for a Generate run.
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/jivepulse/internal/cli"
	"github.com/linuxmatters/jivepulse/internal/config"
	"github.com/linuxmatters/jivepulse/internal/pipeline"
)

// Complete signals that the output file has been finalised
type Complete struct {
	OutputFile    string
	Frames        int
	FileSize      int64
	VideoCodec    string
	ThumbnailPath string
	TotalTime     time.Duration
}

// quitMsg is sent when it's time to quit after showing completion
type quitMsg struct{}

// audioStats accumulates what the analysis pass has seen
type audioStats struct {
	frames   int
	peakRMS  float64
	rmsSum   float64
	rmsCount int
	elapsed  time.Duration
	done     bool
}

func (a audioStats) duration() time.Duration {
	return time.Duration(a.frames) * time.Second / config.FPS
}

func (a audioStats) meanRMS() float64 {
	if a.rmsCount == 0 {
		return 0
	}
	return a.rmsSum / float64(a.rmsCount)
}

// Model is the progress UI for both passes
type Model struct {
	progressBar progress.Model
	meterBar    progress.Model
	summaryBar  progress.Model

	preset string
	phase  pipeline.Phase

	analysis pipeline.Progress
	audio    audioStats
	spectrum []float64

	render   pipeline.Progress
	complete *Complete

	width           int
	noPreview       bool
	cachedPreview   string
	completionDelay time.Duration
	interrupted     bool
}

// NewModel creates the progress model for a run using presetName
func NewModel(presetName string, noPreview bool) *Model {
	gradient := progress.WithGradient(string(cli.PulseViolet), string(cli.PulseGold))

	return &Model{
		progressBar:     progress.New(gradient, progress.WithWidth(40), progress.WithoutPercentage()),
		meterBar:        progress.New(gradient, progress.WithWidth(24), progress.WithoutPercentage()),
		summaryBar:      progress.New(gradient, progress.WithWidth(30), progress.WithoutPercentage()),
		preset:          presetName,
		phase:           pipeline.PhaseAnalysis,
		completionDelay: 2 * time.Second,
		noPreview:       noPreview,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = max(10, min(msg.Width-30, 50))
		return m, nil

	case pipeline.Progress:
		if msg.Phase == pipeline.PhaseAnalysis {
			m.updateAnalysis(msg)
		} else {
			m.updateRender(msg)
		}
		return m, nil

	case Complete:
		m.complete = &msg
		return m, tea.Tick(m.completionDelay, func(time.Time) tea.Msg {
			return quitMsg{}
		})

	case quitMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.complete != nil {
			return m, tea.Quit
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.interrupted = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *Model) updateAnalysis(p pipeline.Progress) {
	m.analysis = p
	if p.RMSLevel > 0 {
		m.audio.peakRMS = math.Max(m.audio.peakRMS, p.RMSLevel)
		m.audio.rmsSum += p.RMSLevel
		m.audio.rmsCount++
	}
	if len(p.Spectrum) > 0 {
		m.spectrum = p.Spectrum
	}
	if p.Done {
		m.audio.frames = p.TotalFrames
		m.audio.elapsed = p.Elapsed
		m.audio.done = true
		m.phase = pipeline.PhaseRender
	}
}

func (m *Model) updateRender(p pipeline.Progress) {
	m.phase = pipeline.PhaseRender
	m.render = p
	if !m.audio.done {
		m.audio.frames = p.TotalFrames
		m.audio.done = true
	}
	if !m.noPreview && p.Preview != nil {
		cfg := FitPreview(p.Preview.Bounds(), DefaultPreviewConfig())
		m.cachedPreview = RenderPreview(DownsampleFrame(p.Preview, cfg))
	}
}

// Interrupted reports whether the user asked to stop before completion
func (m *Model) Interrupted() bool {
	return m.interrupted
}

// View renders the UI
func (m *Model) View() string {
	if m.complete != nil {
		return m.renderComplete()
	}
	return m.renderProgress()
}

// CompletionSummary returns the final summary for printing after the
// program exits, or "" if the run never completed
func (m *Model) CompletionSummary() string {
	if m.complete == nil {
		return ""
	}
	return m.renderComplete()
}

func (m *Model) renderTitle(s *strings.Builder, label string) {
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(cli.PulseGold).Render(cli.AppTitle))
	s.WriteString("  ")
	s.WriteString(lipgloss.NewStyle().Faint(true).Render("preset: " + m.preset))
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Foreground(cli.PulseCoral).Render(label))
	s.WriteString("\n\n")
}

func (m *Model) renderProgress() string {
	var s strings.Builder

	if m.phase == pipeline.PhaseAnalysis {
		m.renderTitle(&s, "Pass 1: Analysing Audio")
		m.renderAnalysisProgress(&s)
	} else {
		m.renderTitle(&s, "Pass 2: Rendering & Encoding")
		m.renderRenderingProgress(&s)
	}

	s.WriteString("\n")
	m.renderAudioProfile(&s)

	if m.phase == pipeline.PhaseAnalysis && len(m.spectrum) > 0 {
		s.WriteString("\n\n")
		s.WriteString(lipgloss.NewStyle().Foreground(cli.PulseMagenta).Render("Spectrum:"))
		s.WriteString("\n")
		s.WriteString(renderSpectrum(m.spectrum, m.spectrumWidth()))
	}
	if m.phase == pipeline.PhaseRender && m.render.TotalFrames > 0 {
		s.WriteString("\n\n")
		m.renderLevelsAndStats(&s)
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(cli.PulseMagenta).
		Padding(1, 2).
		Render(s.String())
}

func (m *Model) spectrumWidth() int {
	if m.width > 10 {
		return min(m.width-10, 64)
	}
	return 64
}

func (m *Model) renderBar(s *strings.Builder, frame, total int) float64 {
	percent := float64(frame) / float64(total)
	percent = math.Max(0, math.Min(1, percent))

	s.WriteString("Progress: ")
	s.WriteString(m.progressBar.ViewAs(percent))
	s.WriteString(fmt.Sprintf("  %d%%", int(percent*100)))
	s.WriteString("\n\n")
	return percent
}

func (m *Model) renderAnalysisProgress(s *strings.Builder) {
	if m.analysis.TotalFrames == 0 {
		s.WriteString(lipgloss.NewStyle().Faint(true).Render("Decoding audio..."))
		s.WriteString("\n")
		return
	}

	m.renderBar(s, m.analysis.Frame, m.analysis.TotalFrames)
	s.WriteString(lipgloss.NewStyle().Faint(true).Render(
		fmt.Sprintf("Frame %d of %d  │  Elapsed: %s",
			m.analysis.Frame, m.analysis.TotalFrames, formatDuration(m.analysis.Elapsed))))
	s.WriteString("\n")
}

func (m *Model) renderRenderingProgress(s *strings.Builder) {
	if m.render.TotalFrames == 0 {
		s.WriteString(lipgloss.NewStyle().Faint(true).Render("Starting render..."))
		s.WriteString("\n")
		return
	}

	percent := m.renderBar(s, m.render.Frame, m.render.TotalFrames)

	elapsed := m.render.Elapsed
	var estimatedTotal, eta time.Duration
	var speed float64
	if percent > 0 {
		estimatedTotal = time.Duration(float64(elapsed) / percent)
		eta = estimatedTotal - elapsed
		if elapsed > 0 {
			speed = videoLength(m.render.Frame).Seconds() / elapsed.Seconds()
		}
	}

	s.WriteString(lipgloss.NewStyle().Faint(true).Render(
		fmt.Sprintf("Time: %s / %s  │  Speed: %.1fx realtime  │  ETA: %s",
			formatDuration(elapsed),
			formatDuration(estimatedTotal),
			speed,
			formatDuration(eta))))
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Faint(true).Italic(true).Render(
		fmt.Sprintf("Frame %d of %d", m.render.Frame, m.render.TotalFrames)))
}

func (m *Model) renderAudioProfile(s *strings.Builder) {
	labelStyle := lipgloss.NewStyle().Faint(true)
	headerStyle := lipgloss.NewStyle().Faint(true).Bold(true)

	s.WriteString(headerStyle.Render("Audio"))
	s.WriteString(" │ ")

	if m.audio.rmsCount == 0 && !m.audio.done {
		s.WriteString(lipgloss.NewStyle().Faint(true).Italic(true).Render("Analysing..."))
		return
	}

	if m.audio.done {
		s.WriteString(fmt.Sprintf("%.1fs  ", m.audio.duration().Seconds()))
	}
	s.WriteString(labelStyle.Render("Peak RMS:"))
	s.WriteString(fmt.Sprintf(" %.1f dB  ", toDB(m.audio.peakRMS)))
	s.WriteString(labelStyle.Render("Mean RMS:"))
	s.WriteString(fmt.Sprintf(" %.1f dB", toDB(m.audio.meanRMS())))
}

func (m *Model) renderLevelsAndStats(s *strings.Builder) {
	s.WriteString(lipgloss.NewStyle().Foreground(cli.PulseMagenta).Render("Envelope:"))
	s.WriteString("\n")

	levels := m.render.Levels
	var left strings.Builder
	for i, row := range []struct {
		name  string
		value float64
	}{
		{"Bass", levels.Bass},
		{"Mid", levels.Mid},
		{"High", levels.High},
		{"Overall", levels.Overall},
	} {
		if i > 0 {
			left.WriteString("\n")
		}
		left.WriteString(lipgloss.NewStyle().Foreground(cli.MutedLilac).Render(fmt.Sprintf("%-8s", row.name)))
		left.WriteString(m.meterBar.ViewAs(math.Max(0, math.Min(1, row.value))))
		left.WriteString(fmt.Sprintf(" %.2f", row.value))
	}

	labelStyle := lipgloss.NewStyle().Foreground(cli.MutedLilac)
	valueStyle := lipgloss.NewStyle().Bold(true)
	var right strings.Builder
	right.WriteString(labelStyle.Render("File:  "))
	right.WriteString(valueStyle.Render(formatBytes(m.render.FileSize)))
	if m.render.VideoCodec != "" {
		right.WriteString("\n")
		right.WriteString(labelStyle.Render("Video: "))
		right.WriteString(valueStyle.Render(m.render.VideoCodec))
	}

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left.String(), "    ", right.String()))

	if !m.noPreview && m.cachedPreview != "" {
		s.WriteString("\n\n")
		s.WriteString(m.cachedPreview)
	}
}

func (m *Model) renderComplete() string {
	var s strings.Builder

	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(cli.PulseGold).Render("✓ Video Complete!"))
	s.WriteString("\n\n")

	dimLabel := lipgloss.NewStyle().Faint(true)
	line := func(label, value string) {
		s.WriteString(fmt.Sprintf("%s%s\n", dimLabel.Render(fmt.Sprintf("%-10s", label)), value))
	}

	c := m.complete
	line("Output:", c.OutputFile)
	line("Preset:", m.preset)
	if c.VideoCodec != "" {
		line("Encoder:", c.VideoCodec)
	}
	line("Video:", fmt.Sprintf("%d frames, %.1fs at %d fps", c.Frames, videoLength(c.Frames).Seconds(), config.FPS))
	line("Size:", formatBytes(c.FileSize))
	if c.ThumbnailPath != "" {
		line("Thumbnail:", c.ThumbnailPath)
	}
	s.WriteString("\n")

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(cli.PulseCoral)
	labelStyle := lipgloss.NewStyle().Faint(true)
	highlight := lipgloss.NewStyle().Foreground(cli.PulseAmber)

	s.WriteString(headerStyle.Render("Pass 1: Audio Analysis"))
	s.WriteString("\n")
	stat := func(label, value string) {
		s.WriteString(fmt.Sprintf("  %s%s\n", labelStyle.Render(fmt.Sprintf("%-18s", label)), value))
	}
	stat("Duration:", fmt.Sprintf("%.1fs", m.audio.duration().Seconds()))
	stat("Peak RMS:", fmt.Sprintf("%.1f dB", toDB(m.audio.peakRMS)))
	stat("Mean RMS:", fmt.Sprintf("%.1f dB", toDB(m.audio.meanRMS())))
	s.WriteString("\n")

	s.WriteString(headerStyle.Render("Timing"))
	s.WriteString("\n")

	total := c.TotalTime
	if total <= 0 {
		total = 1
	}
	share := func(label string, d time.Duration) {
		ratio := math.Max(0, math.Min(1, float64(d)/float64(total)))
		s.WriteString(fmt.Sprintf("  %s%s (~%2d%%)  %s\n",
			labelStyle.Render(fmt.Sprintf("%-18s", label)),
			fmt.Sprintf("~%-6s", formatDuration(d)),
			int(ratio*100),
			m.summaryBar.ViewAs(ratio)))
	}
	share("Analysis:", m.audio.elapsed)
	share("Render & encode:", m.render.Elapsed)
	if other := c.TotalTime - m.audio.elapsed - m.render.Elapsed; other > 0 {
		share("Other:", other)
	}
	s.WriteString(fmt.Sprintf("  %s%s", labelStyle.Render(fmt.Sprintf("%-18s", "Total time:")), highlight.Render(formatDuration(c.TotalTime))))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(cli.PulseAmber).
		Padding(1, 1).
		Render(s.String()) + "\n"
}

// Helper functions

func videoLength(frames int) time.Duration {
	return time.Duration(frames) * time.Second / config.FPS
}

func toDB(v float64) float64 {
	if v <= 0 {
		return -96
	}
	return math.Max(-96, 20*math.Log10(v))
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatBytes(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	return cli.FormatBytes(bytes)
}

// renderSpectrum draws values in [0, 1] as a two-row block chart. Values
// above 1 rescale the whole chart.
func renderSpectrum(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	stride := max(1, len(values)/width)
	peak := 1.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}

	heights := make([]float64, 0, width)
	for i := 0; i < len(values) && len(heights) < width; i += stride {
		heights = append(heights, math.Max(0, values[i]/peak))
	}

	block := func(level float64) int {
		return max(0, min(len(blocks)-1, int(level*float64(len(blocks)-1))))
	}

	var sb strings.Builder

	// Top row: the part of each bar above half height
	for _, h := range heights {
		if h <= 0.5 {
			sb.WriteString(" ")
			continue
		}
		sb.WriteString(lipgloss.NewStyle().
			Foreground(cli.GradientColor(h)).
			Render(string(blocks[block((h-0.5)*2)])))
	}
	sb.WriteString("\n")

	for _, h := range heights {
		idx := len(blocks) - 1
		if h < 0.5 {
			idx = block(h * 2)
		}
		sb.WriteString(lipgloss.NewStyle().
			Foreground(cli.GradientColor(h)).
			Render(string(blocks[idx])))
	}

	return sb.String()
}
