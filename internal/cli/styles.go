package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// AppTitle is the branded application name
const AppTitle = "Jivepulse 💓"

// Color palette
var (
	primaryColor   = PulseMagenta
	accentColor    = PulseAmber
	successColor   = lipgloss.Color("#00AA00") // Green
	mutedColor     = lipgloss.Color("#888888") // Gray
	highlightColor = PulseGold
	textColor      = lipgloss.Color("#FFFFFF") // White
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// Highlight style for important values
	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlightColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)
)

// PrintBanner prints the application banner
func PrintBanner() {
	fmt.Println(TitleStyle.Render(AppTitle))
	fmt.Println(SubtitleStyle.Render(Tagline))
	fmt.Println()
}

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render(AppTitle))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", HighlightStyle.Render("Warning:"), message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", SuccessStyle.Render("✓"), message)
}

// PrintInfo prints an informational message
func PrintInfo(key, value string) {
	fmt.Printf("%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

// PrintSection prints a section header
func PrintSection(title string) {
	fmt.Println(HeaderStyle.Render(title))
}

// PresetEntry is one row of the preset listing
type PresetEntry struct {
	Name        string
	Description string
	Default     bool
}

// PrintPresets writes the preset listing to w
func PrintPresets(w io.Writer, presets []PresetEntry) {
	width := 0
	for _, p := range presets {
		width = max(width, len(p.Name))
	}

	fmt.Fprintln(w, HeaderStyle.Render("Presets:"))
	for _, p := range presets {
		name := HighlightStyle.Render(fmt.Sprintf("%-*s", width, p.Name))
		desc := p.Description
		if p.Default {
			desc += " " + SubtitleStyle.Render("(default)")
		}
		fmt.Fprintf(w, "  %s  %s\n", name, desc)
	}
}

// FormatDuration formats a duration nicely
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatSpeed formats encoding speed
func FormatSpeed(speed float64) string {
	return fmt.Sprintf("%.1fx realtime", speed)
}

// FormatBytes formats bytes into human-readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// PrintBox prints content in a styled box
func PrintBox(content string) {
	fmt.Println(BoxStyle.Render(content))
}

// RunSummary describes a finished run for the plain-text summary box
type RunSummary struct {
	Output    string
	Preset    string
	Frames    int
	Video     time.Duration // length of the rendered video
	Elapsed   time.Duration
	FileSize  int64
	Codec     string
	Thumbnail string
}

// PrintRunSummary prints a summary box for runs without the TUI
func PrintRunSummary(s RunSummary) {
	var b strings.Builder

	b.WriteString(SuccessStyle.Render("✓ Video Complete!"))
	b.WriteString("\n\n")

	row := func(key, value string) {
		b.WriteString(KeyStyle.Render(fmt.Sprintf("%-11s", key)))
		b.WriteString(ValueStyle.Render(value))
		b.WriteString("\n")
	}

	row("Output:", s.Output)
	row("Preset:", s.Preset)
	row("Frames:", fmt.Sprintf("%d (%.1fs)", s.Frames, s.Video.Seconds()))
	if s.Codec != "" {
		row("Encoder:", s.Codec)
	}
	row("File Size:", FormatBytes(s.FileSize))
	speed := 0.0
	if s.Elapsed > 0 {
		speed = s.Video.Seconds() / s.Elapsed.Seconds()
	}
	row("Time:", fmt.Sprintf("%s (%s)", FormatDuration(s.Elapsed), FormatSpeed(speed)))
	if s.Thumbnail != "" {
		row("Thumbnail:", s.Thumbnail)
	}

	PrintBox(strings.TrimRight(b.String(), "\n"))
}
