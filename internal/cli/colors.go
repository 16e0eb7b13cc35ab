package cli

import "github.com/charmbracelet/lipgloss"

// Pulse colour palette, shared by the CLI output and the TUI
var (
	// Low to high intensity
	PulseIndigo  = lipgloss.Color("#3B1E8C") // Deep indigo
	PulseViolet  = lipgloss.Color("#8A2BE2") // Blue violet
	PulseMagenta = lipgloss.Color("#E0218A") // Hot magenta
	PulseCoral   = lipgloss.Color("#FF6F61") // Coral
	PulseAmber   = lipgloss.Color("#FFB000") // Amber
	PulseGold    = lipgloss.Color("#FFD700") // Bright gold

	// Accent colours
	MutedLilac = lipgloss.Color("#9A8FB5") // Subtle labels
	TrackGray  = lipgloss.Color("#3A3A3A") // Empty meter track
)

// PulseGradient runs from quiet to loud, for meters and spectra
var PulseGradient = []lipgloss.Color{
	PulseIndigo,
	lipgloss.Color("#5B2BB5"),
	PulseViolet,
	lipgloss.Color("#B026C0"),
	PulseMagenta,
	PulseCoral,
	PulseAmber,
	PulseGold,
}

// GradientColor picks the PulseGradient colour for a level in [0, 1]
func GradientColor(level float64) lipgloss.Color {
	idx := int(level * float64(len(PulseGradient)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(PulseGradient) {
		idx = len(PulseGradient) - 1
	}
	return PulseGradient[idx]
}
