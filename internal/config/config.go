package config

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// Video settings
const (
	FPS = 30 // Output frame rate, fixed regardless of source media
)

// Audio analysis settings
const (
	FFTSize = 2048 // Minimum analysis window; grown to cover the frame period at high sample rates

	BassCutoffHz = 250.0  // Bass: 0-250 Hz
	MidCutoffHz  = 2000.0 // Mid: 250-2000 Hz, High: 2000 Hz and up

	// Per-track normalisation ceiling (nearest-rank percentile of raw band energy)
	NormalizePercentile = 99.0
	NormalizeEpsilon    = 1e-8

	EnvelopeSmoothingTaps = 3   // Centred moving-average width applied to every band
	EnvelopeCurve         = 0.8 // Exponent applied after smoothing for a livelier response
)

// Effect engine settings
const (
	SmoothingLookback = 8 // Frames of history read by per-effect secondary smoothing
)

// Renderer settings
const (
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114

	DistortionSpatialFreq = 0.02 // Radians per pixel for the sinusoidal warp
	DistortionPhaseStep   = 0.1  // Radians of phase advance per frame
	DistortionPhaseJitter = 0.05 // Max seeded phase jitter per frame (radians)
)

// Encoder settings
const (
	DefaultFFmpeg     = "ffmpeg"
	DecodeSampleRate  = 44100 // Rate requested from ffmpeg when decoding non-native containers
	VideoCRF          = 20
	VideoPreset       = "medium"
	AudioBitrate      = "192k"
	PartialFileSuffix = ".partial"
)

// Thumbnail settings, in pixels at a 720-line reference height
const (
	ThumbnailMaxFontSize         = 150.0
	ThumbnailMargin              = 30
	ThumbnailTextRotationDegrees = 3.0
	ThumbnailReferenceHeight     = 720
	TextColorR                   = 248
	TextColorG                   = 179
	TextColorB                   = 29
)

// Supported input formats
var (
	AudioExtensions = []string{".mp3", ".wav", ".flac", ".ogg", ".m4a", ".aac", ".wma", ".aiff", ".aif", ".mp4", ".webm"}
	ImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tiff", ".tif", ".gif"}
)

// IsAudioFile reports whether path has a supported audio extension
func IsAudioFile(path string) bool {
	return hasExtension(path, AudioExtensions)
}

// IsImageFile reports whether path has a supported image extension
func IsImageFile(path string) bool {
	return hasExtension(path, ImageExtensions)
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// ParseHexColor parses "RRGGBB" or "#RRGGBB" into its components
func ParseHexColor(s string) (r, g, b uint8, err error) {
	hexStr := strings.TrimPrefix(s, "#")
	if len(hexStr) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex colour %q: expected 6 hex digits", s)
	}

	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}

	return raw[0], raw[1], raw[2], nil
}
