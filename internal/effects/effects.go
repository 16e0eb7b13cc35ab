package effects

import (
	"fmt"

	"github.com/linuxmatters/jivepulse/internal/audio"
)

// Kind identifies one of the eleven visual effects
type Kind int

const (
	KindZoom Kind = iota
	KindShake
	KindSaturation
	KindContrast
	KindBrightness
	KindHueShift
	KindBloom
	KindVignette
	KindColorSplit
	KindMotionBlur
	KindDistortion

	NumKinds = iota
)

var kindNames = [NumKinds]string{
	"zoom", "shake", "saturation", "contrast", "brightness", "hue-shift",
	"bloom", "vignette", "color-split", "motion-blur", "distortion",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= NumKinds {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// compositionOrder is the frozen order in which effects are applied to a
// frame: geometry, colour, light, then artefacts. The transforms do not
// commute, so changing this changes the output.
var compositionOrder = [NumKinds]Kind{
	KindZoom, KindShake,
	KindSaturation, KindContrast, KindBrightness, KindHueShift,
	KindBloom, KindVignette,
	KindColorSplit, KindMotionBlur, KindDistortion,
}

// CompositionOrder returns a copy of the frozen effect order
func CompositionOrder() []Kind {
	order := make([]Kind, NumKinds)
	copy(order, compositionOrder[:])
	return order
}

// Setting configures how one effect responds to the envelope
type Setting struct {
	Enabled bool
	Band    audio.Band

	// Response: clamp(Sensitivity*(value-Baseline), Min, Max), expressed as
	// an offset from the effect's neutral value
	Sensitivity float64
	Baseline    float64
	Min         float64
	Max         float64

	// Fraction of the previous smoothed value retained each frame; 0 disables
	Smoothing float64
}

// Config is a complete, immutable effect configuration. Presets are Configs.
type Config struct {
	Name        string
	Description string
	Settings    [NumKinds]Setting
}

// Setting returns the configuration for effect k
func (c Config) Setting(k Kind) Setting {
	return c.Settings[k]
}

// Enabled lists the enabled effects in composition order
func (c Config) Enabled() []Kind {
	var kinds []Kind
	for _, k := range compositionOrder {
		if c.Settings[k].Enabled {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Validate checks that every setting describes a usable response
func (c Config) Validate() error {
	for k, s := range c.Settings {
		switch {
		case s.Sensitivity < 0:
			return fmt.Errorf("%s: %s sensitivity is negative", c.Name, Kind(k))
		case s.Min > s.Max:
			return fmt.Errorf("%s: %s min %.4g exceeds max %.4g", c.Name, Kind(k), s.Min, s.Max)
		case s.Smoothing < 0 || s.Smoothing >= 1:
			return fmt.Errorf("%s: %s smoothing %.4g outside [0, 1)", c.Name, Kind(k), s.Smoothing)
		case s.Band < audio.BandBass || s.Band > audio.BandComposite:
			return fmt.Errorf("%s: %s has invalid band %d", c.Name, Kind(k), int(s.Band))
		}
	}
	return nil
}

// Param is one resolved effect parameter. The concrete types below are the
// only implementations.
type Param interface {
	Kind() Kind
	isParam()
}

// Zoom scales the frame about its centre
type Zoom struct{ Scale float64 }

// Shake translates the frame by whole pixels
type Shake struct{ DX, DY int }

// Saturation scales distance from the pixel's luma
type Saturation struct{ Factor float64 }

// Contrast scales distance from the frame's mean luma
type Contrast struct{ Factor float64 }

// Brightness multiplies every channel
type Brightness struct{ Factor float64 }

// HueShift rotates hue while preserving luminance
type HueShift struct{ Degrees float64 }

// Bloom blends a Gaussian-blurred copy over the frame
type Bloom struct {
	Radius float64
	Mix    float64 // 0..1 share of the blurred copy
}

// Vignette darkens toward the corners
type Vignette struct{ Strength float64 }

// ColorSplit shifts red right and blue left by Offset pixels
type ColorSplit struct{ Offset int }

// MotionBlur applies a box blur of the given radius
type MotionBlur struct{ Radius int }

// Distortion displaces pixels along sinusoids. Amplitude is a fraction of
// the frame dimension.
type Distortion struct {
	Amplitude float64
	Phase     float64
}

func (Zoom) Kind() Kind       { return KindZoom }
func (Shake) Kind() Kind      { return KindShake }
func (Saturation) Kind() Kind { return KindSaturation }
func (Contrast) Kind() Kind   { return KindContrast }
func (Brightness) Kind() Kind { return KindBrightness }
func (HueShift) Kind() Kind   { return KindHueShift }
func (Bloom) Kind() Kind      { return KindBloom }
func (Vignette) Kind() Kind   { return KindVignette }
func (ColorSplit) Kind() Kind { return KindColorSplit }
func (MotionBlur) Kind() Kind { return KindMotionBlur }
func (Distortion) Kind() Kind { return KindDistortion }

func (Zoom) isParam()       {}
func (Shake) isParam()      {}
func (Saturation) isParam() {}
func (Contrast) isParam()   {}
func (Brightness) isParam() {}
func (HueShift) isParam()   {}
func (Bloom) isParam()      {}
func (Vignette) isParam()   {}
func (ColorSplit) isParam() {}
func (MotionBlur) isParam() {}
func (Distortion) isParam() {}

// FrameParams holds the resolved parameters for one frame, in composition
// order. Disabled effects are absent.
type FrameParams struct {
	Index  int
	Params []Param
}

// Get returns the parameter for kind k if present
func (fp FrameParams) Get(k Kind) (Param, bool) {
	for _, p := range fp.Params {
		if p.Kind() == k {
			return p, true
		}
	}
	return nil, false
}

// Has reports whether effect k is present
func (fp FrameParams) Has(k Kind) bool {
	_, ok := fp.Get(k)
	return ok
}

// Kinds lists the effects present, in order
func (fp FrameParams) Kinds() []Kind {
	kinds := make([]Kind, len(fp.Params))
	for i, p := range fp.Params {
		kinds[i] = p.Kind()
	}
	return kinds
}

// Without returns a copy of fp with effect k removed
func (fp FrameParams) Without(k Kind) FrameParams {
	out := FrameParams{Index: fp.Index, Params: make([]Param, 0, len(fp.Params))}
	for _, p := range fp.Params {
		if p.Kind() != k {
			out.Params = append(out.Params, p)
		}
	}
	return out
}
