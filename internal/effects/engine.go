package effects

import (
	"math"

	"github.com/linuxmatters/jivepulse/internal/audio"
	"github.com/linuxmatters/jivepulse/internal/config"
	jerrors "github.com/linuxmatters/jivepulse/internal/errors"
)

// Noise salts, one per random stream
const (
	saltShakeX uint64 = 0x9e3779b97f4a7c15
	saltShakeY uint64 = 0xbf58476d1ce4e5b9
	saltPhase  uint64 = 0x94d049bb133111eb
)

// bloomMixScale is the blend share of the blurred copy at full bloom radius
const bloomMixScale = 0.3

// ComputeFrame resolves every enabled effect for frameIndex. It reads only
// env, frameIndex and cfg, and looks back at most config.SmoothingLookback
// frames, so any frame can be computed independently of the others.
func ComputeFrame(env *audio.Envelope, frameIndex int, cfg Config) (FrameParams, error) {
	if frameIndex < 0 || frameIndex >= env.Len() {
		return FrameParams{}, jerrors.FrameIndexOutOfRange(frameIndex, env.Len())
	}

	fp := FrameParams{
		Index:  frameIndex,
		Params: make([]Param, 0, NumKinds),
	}

	for _, k := range compositionOrder {
		s := cfg.Settings[k]
		if !s.Enabled {
			continue
		}
		r := resolve(env, frameIndex, s)
		fp.Params = append(fp.Params, buildParam(k, r, s, frameIndex))
	}

	return fp, nil
}

// ComputeAll resolves parameters for every frame of env
func ComputeAll(env *audio.Envelope, cfg Config) ([]FrameParams, error) {
	out := make([]FrameParams, env.Len())
	for i := range out {
		fp, err := ComputeFrame(env, i, cfg)
		if err != nil {
			return nil, err
		}
		out[i] = fp
	}
	return out, nil
}

// response maps a band value to a clamped offset from the effect's neutral value
func response(v float64, s Setting) float64 {
	r := s.Sensitivity * (v - s.Baseline)
	return math.Max(s.Min, math.Min(s.Max, r))
}

// resolve applies the response curve across the look-back window and smooths
// the result with a causal exponential moving average. Every step is a convex
// combination of clamped values, so the result stays inside [Min, Max].
func resolve(env *audio.Envelope, frameIndex int, s Setting) float64 {
	current := response(env.Frames[frameIndex].Value(s.Band), s)
	if s.Smoothing <= 0 {
		return current
	}

	start := max(0, frameIndex-config.SmoothingLookback)
	y := response(env.Frames[start].Value(s.Band), s)
	for j := start + 1; j <= frameIndex; j++ {
		y = s.Smoothing*y + (1-s.Smoothing)*response(env.Frames[j].Value(s.Band), s)
	}
	return math.Max(s.Min, math.Min(s.Max, y))
}

func buildParam(k Kind, r float64, s Setting, frameIndex int) Param {
	switch k {
	case KindZoom:
		return Zoom{Scale: 1 + r}
	case KindShake:
		return Shake{
			DX: int(math.Round(r * Noise(frameIndex, saltShakeX))),
			DY: int(math.Round(r * Noise(frameIndex, saltShakeY))),
		}
	case KindSaturation:
		return Saturation{Factor: 1 + r}
	case KindContrast:
		return Contrast{Factor: 1 + r}
	case KindBrightness:
		return Brightness{Factor: 1 + r}
	case KindHueShift:
		return HueShift{Degrees: r}
	case KindBloom:
		var mix float64
		if s.Max > 0 {
			mix = bloomMixScale * r / s.Max
		}
		return Bloom{Radius: r, Mix: mix}
	case KindVignette:
		return Vignette{Strength: r}
	case KindColorSplit:
		return ColorSplit{Offset: int(math.Round(r))}
	case KindMotionBlur:
		return MotionBlur{Radius: int(math.Round(r))}
	case KindDistortion:
		phase := float64(frameIndex)*config.DistortionPhaseStep +
			config.DistortionPhaseJitter*Noise(frameIndex, saltPhase)
		return Distortion{Amplitude: r, Phase: phase}
	}
	panic("effects: unknown kind " + k.String())
}

// Noise returns a deterministic pseudo-random value in [-1, 1) for a frame
// index and stream salt (splitmix64 finaliser).
func Noise(frameIndex int, salt uint64) float64 {
	z := uint64(frameIndex)*0x9e3779b97f4a7c15 + salt
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return float64(z>>11)/(1<<53)*2 - 1
}
