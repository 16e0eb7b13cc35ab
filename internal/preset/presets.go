package preset

import (
	"strings"

	"github.com/linuxmatters/jivepulse/internal/audio"
	"github.com/linuxmatters/jivepulse/internal/effects"
	jerrors "github.com/linuxmatters/jivepulse/internal/errors"
)

// Config is a preset's effect configuration
type Config = effects.Config

// Default is the preset used when none is requested
const Default = "energetic"

// names is the canonical listing order
var names = []string{
	"subtle", "energetic", "aggressive", "cinematic", "dreamy",
	"retro", "minimal", "psychedelic", "bass", "noir",
}

// Resolve returns the named preset. Surrounding whitespace is ignored; the
// name itself is case-sensitive.
func Resolve(name string) (Config, error) {
	cfg, ok := table[strings.TrimSpace(name)]
	if !ok {
		return Config{}, jerrors.UnknownPreset(name)
	}
	return cfg, nil
}

// Names returns the preset names in listing order
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Describe returns the one-line description of a preset, or "" if unknown
func Describe(name string) string {
	return table[strings.TrimSpace(name)].Description
}

// Exists reports whether name is a preset
func Exists(name string) bool {
	_, ok := table[strings.TrimSpace(name)]
	return ok
}

// table holds the built-in presets. Responses are offsets from each effect's
// neutral value (scale and factors 1.0, everything else 0). Colour effects
// follow the mid band by default, motion and light follow the whole spectrum.
var table = map[string]Config{
	"subtle": {
		Name:        "subtle",
		Description: "Gentle, understated effects",
		Settings: [effects.NumKinds]effects.Setting{
			effects.KindZoom:       {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.012, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 0.04},
			effects.KindShake:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 1.6, Baseline: 0, Smoothing: 0.5, Min: 0, Max: 8},
			effects.KindSaturation: {Enabled: true, Band: audio.BandMid, Sensitivity: 0.09, Baseline: 1.111111, Smoothing: 0.65, Min: -0.1, Max: 0.2},
			effects.KindContrast:   {Enabled: true, Band: audio.BandMid, Sensitivity: 0.03, Baseline: 1.666667, Smoothing: 0.65, Min: -0.05, Max: 0.1},
			effects.KindBrightness: {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.026, Baseline: 1.923077, Smoothing: 0.65, Min: -0.05, Max: 0.08},
			effects.KindHueShift:   {Enabled: false, Band: audio.BandMid, Sensitivity: 4.5, Baseline: 0, Smoothing: 0.7, Min: 0, Max: 15},
			effects.KindBloom:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 1.2, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 4},
			effects.KindVignette:   {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.075, Baseline: 0, Smoothing: 0.7, Min: 0, Max: 0.25},
			effects.KindColorSplit: {Enabled: false, Band: audio.BandComposite, Sensitivity: 3.2, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 8},
			effects.KindMotionBlur: {Enabled: false, Band: audio.BandComposite, Sensitivity: 2.25, Baseline: 0.6, Smoothing: 0, Min: 0, Max: 3},
			effects.KindDistortion: {Enabled: false, Band: audio.BandComposite, Sensitivity: 0.006, Baseline: 0, Smoothing: 0, Min: 0, Max: 0.02},
		},
	},
	"energetic": {
		Name:        "energetic",
		Description: "Balanced, dynamic response",
		Settings: [effects.NumKinds]effects.Setting{
			effects.KindZoom:       {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.06, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 0.1},
			effects.KindShake:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 9, Baseline: 0, Smoothing: 0.5, Min: 0, Max: 18},
			effects.KindSaturation: {Enabled: true, Band: audio.BandMid, Sensitivity: 0.36, Baseline: 0.277778, Smoothing: 0.65, Min: -0.1, Max: 0.5},
			effects.KindContrast:   {Enabled: true, Band: audio.BandMid, Sensitivity: 0.15, Baseline: 0.333333, Smoothing: 0.65, Min: -0.05, Max: 0.25},
			effects.KindBrightness: {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.1, Baseline: 0.5, Smoothing: 0.65, Min: -0.05, Max: 0.2},
			effects.KindHueShift:   {Enabled: true, Band: audio.BandMid, Sensitivity: 4.5, Baseline: 0, Smoothing: 0.7, Min: 0, Max: 15},
			effects.KindBloom:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 6, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 10},
			effects.KindVignette:   {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.27, Baseline: 0, Smoothing: 0.7, Min: 0, Max: 0.45},
			effects.KindColorSplit: {Enabled: true, Band: audio.BandComposite, Sensitivity: 4, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 8},
			effects.KindMotionBlur: {Enabled: false, Band: audio.BandComposite, Sensitivity: 2.25, Baseline: 0.6, Smoothing: 0, Min: 0, Max: 3},
			effects.KindDistortion: {Enabled: false, Band: audio.BandComposite, Sensitivity: 0.006, Baseline: 0, Smoothing: 0, Min: 0, Max: 0.02},
		},
	},
	"aggressive": {
		Name:        "aggressive",
		Description: "Bold, intense visuals",
		Settings: [effects.NumKinds]effects.Setting{
			effects.KindZoom:       {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.12, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 0.15},
			effects.KindShake:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 17.5, Baseline: 0, Smoothing: 0.5, Min: 0, Max: 25},
			effects.KindSaturation: {Enabled: true, Band: audio.BandMid, Sensitivity: 0.64, Baseline: 0.15625, Smoothing: 0.65, Min: -0.1, Max: 0.7},
			effects.KindContrast:   {Enabled: true, Band: audio.BandMid, Sensitivity: 0.315, Baseline: 0.15873, Smoothing: 0.65, Min: -0.05, Max: 0.4},
			effects.KindBrightness: {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.21, Baseline: 0.238095, Smoothing: 0.65, Min: -0.05, Max: 0.3},
			effects.KindHueShift:   {Enabled: true, Band: audio.BandMid, Sensitivity: 12.5, Baseline: 0, Smoothing: 0.7, Min: 0, Max: 25},
			effects.KindBloom:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 12, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 15},
			effects.KindVignette:   {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.48, Baseline: 0, Smoothing: 0.7, Min: 0, Max: 0.6},
			effects.KindColorSplit: {Enabled: true, Band: audio.BandHigh, Sensitivity: 8.4, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 12},
			effects.KindMotionBlur: {Enabled: true, Band: audio.BandComposite, Sensitivity: 3.75, Baseline: 0.6, Smoothing: 0, Min: 0, Max: 3},
			effects.KindDistortion: {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.008, Baseline: 0, Smoothing: 0, Min: 0, Max: 0.02},
		},
	},
	"cinematic": {
		Name:        "cinematic",
		Description: "Film-like atmosphere",
		Settings: [effects.NumKinds]effects.Setting{
			effects.KindZoom:       {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.024, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 0.06},
			effects.KindShake:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 2.5, Baseline: 0, Smoothing: 0.5, Min: 0, Max: 10},
			effects.KindSaturation: {Enabled: true, Band: audio.BandMid, Sensitivity: 0.12, Baseline: 1.25, Smoothing: 0.65, Min: -0.15, Max: 0.15},
			effects.KindContrast:   {Enabled: true, Band: audio.BandMid, Sensitivity: 0.2, Baseline: 0.5, Smoothing: 0.65, Min: -0.1, Max: 0.3},
			effects.KindBrightness: {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.07, Baseline: 1.428571, Smoothing: 0.65, Min: -0.1, Max: 0.1},
			effects.KindHueShift:   {Enabled: false, Band: audio.BandMid, Sensitivity: 4.5, Baseline: 0, Smoothing: 0.7, Min: 0, Max: 15},
			effects.KindBloom:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 3, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 6},
			effects.KindVignette:   {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.245, Baseline: -0.612245, Smoothing: 0.7, Min: 0.15, Max: 0.5},
			effects.KindColorSplit: {Enabled: true, Band: audio.BandComposite, Sensitivity: 1.5, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 5},
			effects.KindMotionBlur: {Enabled: false, Band: audio.BandComposite, Sensitivity: 2.25, Baseline: 0.6, Smoothing: 0, Min: 0, Max: 3},
			effects.KindDistortion: {Enabled: false, Band: audio.BandComposite, Sensitivity: 0.006, Baseline: 0, Smoothing: 0, Min: 0, Max: 0.02},
		},
	},
	"dreamy": {
		Name:        "dreamy",
		Description: "Soft, ethereal glow",
		Settings: [effects.NumKinds]effects.Setting{
			effects.KindZoom:       {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.0175, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 0.05},
			effects.KindShake:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.9, Baseline: 0, Smoothing: 0.5, Min: 0, Max: 6},
			effects.KindSaturation: {Enabled: true, Band: audio.BandMid, Sensitivity: 0.25, Baseline: 0.8, Smoothing: 0.65, Min: -0.2, Max: 0.3},
			effects.KindContrast:   {Enabled: true, Band: audio.BandMid, Sensitivity: 0.075, Baseline: 1.333333, Smoothing: 0.65, Min: -0.1, Max: 0.15},
			effects.KindBrightness: {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.08, Baseline: 0.625, Smoothing: 0.65, Min: -0.05, Max: 0.15},
			effects.KindHueShift:   {Enabled: true, Band: audio.BandMid, Sensitivity: 3, Baseline: 0, Smoothing: 0.7, Min: 0, Max: 12},
			effects.KindBloom:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 9, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 12},
			effects.KindVignette:   {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.125, Baseline: -0.8, Smoothing: 0.7, Min: 0.1, Max: 0.35},
			effects.KindColorSplit: {Enabled: true, Band: audio.BandComposite, Sensitivity: 2.1, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 6},
			effects.KindMotionBlur: {Enabled: true, Band: audio.BandComposite, Sensitivity: 1, Baseline: 0.6, Smoothing: 0, Min: 0, Max: 2},
			effects.KindDistortion: {Enabled: false, Band: audio.BandComposite, Sensitivity: 0.006, Baseline: 0, Smoothing: 0, Min: 0, Max: 0.02},
		},
	},
	"retro": {
		Name:        "retro",
		Description: "VHS / synthwave style",
		Settings: [effects.NumKinds]effects.Setting{
			effects.KindZoom:       {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.024, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 0.06},
			effects.KindShake:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 4.2, Baseline: 0, Smoothing: 0.5, Min: 0, Max: 12},
			effects.KindSaturation: {Enabled: true, Band: audio.BandMid, Sensitivity: 0.36, Baseline: 0, Smoothing: 0.65, Min: 0, Max: 0.6},
			effects.KindContrast:   {Enabled: true, Band: audio.BandMid, Sensitivity: 0.22, Baseline: 0.227273, Smoothing: 0.65, Min: -0.05, Max: 0.35},
			effects.KindBrightness: {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.07, Baseline: 0.714286, Smoothing: 0.65, Min: -0.05, Max: 0.15},
			effects.KindHueShift:   {Enabled: true, Band: audio.BandMid, Sensitivity: 7.2, Baseline: 0, Smoothing: 0.7, Min: 0, Max: 18},
			effects.KindBloom:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 4, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 8},
			effects.KindVignette:   {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.2145, Baseline: -0.559441, Smoothing: 0.7, Min: 0.12, Max: 0.45},
			effects.KindColorSplit: {Enabled: true, Band: audio.BandHigh, Sensitivity: 6, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 10},
			effects.KindMotionBlur: {Enabled: false, Band: audio.BandComposite, Sensitivity: 2.25, Baseline: 0.6, Smoothing: 0, Min: 0, Max: 3},
			effects.KindDistortion: {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.00375, Baseline: 0, Smoothing: 0, Min: 0, Max: 0.015},
		},
	},
	"minimal": {
		Name:        "minimal",
		Description: "Clean, subtle pulse",
		Settings: [effects.NumKinds]effects.Setting{
			effects.KindZoom:       {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.0075, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 0.03},
			effects.KindShake:      {Enabled: false, Band: audio.BandComposite, Sensitivity: 6, Baseline: 0, Smoothing: 0.5, Min: 0, Max: 15},
			effects.KindSaturation: {Enabled: false, Band: audio.BandComposite, Sensitivity: 0.25, Baseline: 0.4, Smoothing: 0.65, Min: -0.1, Max: 0.4},
			effects.KindContrast:   {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.012, Baseline: 0, Smoothing: 0.65, Min: 0, Max: 0.08},
			effects.KindBrightness: {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.012, Baseline: 0, Smoothing: 0.65, Min: 0, Max: 0.06},
			effects.KindHueShift:   {Enabled: false, Band: audio.BandComposite, Sensitivity: 4.5, Baseline: 0, Smoothing: 0.7, Min: 0, Max: 15},
			effects.KindBloom:      {Enabled: false, Band: audio.BandComposite, Sensitivity: 4, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 8},
			effects.KindVignette:   {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.05, Baseline: 0, Smoothing: 0.7, Min: 0, Max: 0.2},
			effects.KindColorSplit: {Enabled: false, Band: audio.BandComposite, Sensitivity: 3.2, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 8},
			effects.KindMotionBlur: {Enabled: false, Band: audio.BandComposite, Sensitivity: 2.25, Baseline: 0.6, Smoothing: 0, Min: 0, Max: 3},
			effects.KindDistortion: {Enabled: false, Band: audio.BandComposite, Sensitivity: 0.006, Baseline: 0, Smoothing: 0, Min: 0, Max: 0.02},
		},
	},
	"psychedelic": {
		Name:        "psychedelic",
		Description: "Trippy, experimental",
		Settings: [effects.NumKinds]effects.Setting{
			effects.KindZoom:       {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.084, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 0.12},
			effects.KindShake:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 10, Baseline: 0, Smoothing: 0.5, Min: 0, Max: 20},
			effects.KindSaturation: {Enabled: true, Band: audio.BandMid, Sensitivity: 0.85, Baseline: 0.117647, Smoothing: 0.65, Min: -0.1, Max: 0.9},
			effects.KindContrast:   {Enabled: true, Band: audio.BandMid, Sensitivity: 0.24, Baseline: 0.208333, Smoothing: 0.65, Min: -0.05, Max: 0.35},
			effects.KindBrightness: {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.15, Baseline: 0.333333, Smoothing: 0.65, Min: -0.05, Max: 0.25},
			effects.KindHueShift:   {Enabled: true, Band: audio.BandMid, Sensitivity: 28, Baseline: 0, Smoothing: 0.7, Min: 0, Max: 35},
			effects.KindBloom:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 9.8, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 14},
			effects.KindVignette:   {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.22, Baseline: 0, Smoothing: 0.7, Min: 0, Max: 0.4},
			effects.KindColorSplit: {Enabled: true, Band: audio.BandHigh, Sensitivity: 10.5, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 14},
			effects.KindMotionBlur: {Enabled: true, Band: audio.BandComposite, Sensitivity: 2.625, Baseline: 0.6, Smoothing: 0, Min: 0, Max: 3},
			effects.KindDistortion: {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.01375, Baseline: 0, Smoothing: 0, Min: 0, Max: 0.025},
		},
	},
	"bass": {
		Name:        "bass",
		Description: "Punchy bass response",
		Settings: [effects.NumKinds]effects.Setting{
			effects.KindZoom:       {Enabled: true, Band: audio.BandBass, Sensitivity: 0.09, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 0.12},
			effects.KindShake:      {Enabled: true, Band: audio.BandBass, Sensitivity: 14.3, Baseline: 0, Smoothing: 0.5, Min: 0, Max: 22},
			effects.KindSaturation: {Enabled: true, Band: audio.BandMid, Sensitivity: 0.25, Baseline: 0.4, Smoothing: 0.65, Min: -0.1, Max: 0.4},
			effects.KindContrast:   {Enabled: true, Band: audio.BandMid, Sensitivity: 0.2795, Baseline: 0.286225, Smoothing: 0.65, Min: -0.08, Max: 0.35},
			effects.KindBrightness: {Enabled: true, Band: audio.BandBass, Sensitivity: 0.1485, Baseline: 0.3367, Smoothing: 0.65, Min: -0.05, Max: 0.22},
			effects.KindHueShift:   {Enabled: false, Band: audio.BandMid, Sensitivity: 4.5, Baseline: 0, Smoothing: 0.7, Min: 0, Max: 15},
			effects.KindBloom:      {Enabled: true, Band: audio.BandBass, Sensitivity: 5.5, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 10},
			effects.KindVignette:   {Enabled: true, Band: audio.BandBass, Sensitivity: 0.294, Baseline: -0.272109, Smoothing: 0.7, Min: 0.08, Max: 0.5},
			effects.KindColorSplit: {Enabled: true, Band: audio.BandComposite, Sensitivity: 4.95, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 9},
			effects.KindMotionBlur: {Enabled: true, Band: audio.BandComposite, Sensitivity: 3, Baseline: 0.6, Smoothing: 0, Min: 0, Max: 3},
			effects.KindDistortion: {Enabled: false, Band: audio.BandComposite, Sensitivity: 0.006, Baseline: 0, Smoothing: 0, Min: 0, Max: 0.02},
		},
	},
	"noir": {
		Name:        "noir",
		Description: "Dark, moody contrast",
		Settings: [effects.NumKinds]effects.Setting{
			effects.KindZoom:       {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.012, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 0.04},
			effects.KindShake:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 1.6, Baseline: 0, Smoothing: 0.5, Min: 0, Max: 8},
			effects.KindSaturation: {Enabled: true, Band: audio.BandMid, Sensitivity: 0.175, Baseline: 2.285714, Smoothing: 0.65, Min: -0.4, Max: -0.05},
			effects.KindContrast:   {Enabled: true, Band: audio.BandMid, Sensitivity: 0.33, Baseline: 0.454545, Smoothing: 0.65, Min: -0.15, Max: 0.4},
			effects.KindBrightness: {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.07, Baseline: 2.142857, Smoothing: 0.65, Min: -0.15, Max: 0.05},
			effects.KindHueShift:   {Enabled: false, Band: audio.BandMid, Sensitivity: 4.5, Baseline: 0, Smoothing: 0.7, Min: 0, Max: 15},
			effects.KindBloom:      {Enabled: true, Band: audio.BandComposite, Sensitivity: 2, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 5},
			effects.KindVignette:   {Enabled: true, Band: audio.BandComposite, Sensitivity: 0.3825, Baseline: -0.522876, Smoothing: 0.7, Min: 0.2, Max: 0.65},
			effects.KindColorSplit: {Enabled: false, Band: audio.BandComposite, Sensitivity: 3.2, Baseline: 0, Smoothing: 0.6, Min: 0, Max: 8},
			effects.KindMotionBlur: {Enabled: false, Band: audio.BandComposite, Sensitivity: 2.25, Baseline: 0.6, Smoothing: 0, Min: 0, Max: 3},
			effects.KindDistortion: {Enabled: false, Band: audio.BandComposite, Sensitivity: 0.006, Baseline: 0, Smoothing: 0, Min: 0, Max: 0.02},
		},
	},
}
