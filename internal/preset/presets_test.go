package preset

import (
	"errors"
	"testing"

	"github.com/linuxmatters/jivepulse/internal/effects"
	jerrors "github.com/linuxmatters/jivepulse/internal/errors"
)

func TestResolve_AllPresets(t *testing.T) {
	if len(Names()) != 10 {
		t.Fatalf("Expected 10 presets, got %d", len(Names()))
	}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			cfg, err := Resolve(name)
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", name, err)
			}
			if cfg.Name != name {
				t.Errorf("Expected name %q, got %q", name, cfg.Name)
			}
			if cfg.Description == "" {
				t.Error("Missing description")
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Invalid preset: %v", err)
			}
			if len(cfg.Enabled()) == 0 {
				t.Error("Preset enables no effects")
			}
		})
	}
}

func TestResolve_Unknown(t *testing.T) {
	testCases := []string{"loud", "", "Subtle", "ENERGETIC", "bass-boost"}

	for _, name := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := Resolve(name)
			if !errors.Is(err, jerrors.ErrUnknownPreset) {
				t.Errorf("Resolve(%q): expected unknown preset error, got %v", name, err)
			}
		})
	}
}

func TestResolve_TrimsWhitespace(t *testing.T) {
	cfg, err := Resolve("  noir\n")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.Name != "noir" {
		t.Errorf("Expected noir, got %q", cfg.Name)
	}
}

func TestResolve_ReturnsCopy(t *testing.T) {
	a, _ := Resolve("retro")
	a.Settings[effects.KindZoom].Max = 99

	b, _ := Resolve("retro")
	if b.Settings[effects.KindZoom].Max == 99 {
		t.Error("Mutating a resolved preset changed the table")
	}
}

func TestNames_IsCopy(t *testing.T) {
	n := Names()
	n[0] = "changed"
	if Names()[0] != "subtle" {
		t.Error("Names exposed the internal slice")
	}
}

func TestDefaultExists(t *testing.T) {
	if !Exists(Default) {
		t.Errorf("Default preset %q is not in the table", Default)
	}
	if Describe(Default) != "Balanced, dynamic response" {
		t.Errorf("Unexpected description for %q: %q", Default, Describe(Default))
	}
	if Describe("loud") != "" {
		t.Error("Unknown preset should have an empty description")
	}
}

// Silence through the minimal preset must leave the image untouched, which
// needs every enabled response to sit at its neutral value at zero energy.
func TestMinimal_NeutralAtSilence(t *testing.T) {
	cfg, _ := Resolve("minimal")

	for _, k := range cfg.Enabled() {
		s := cfg.Setting(k)
		r := max(s.Min, min(s.Max, s.Sensitivity*(0-s.Baseline)))
		if r != 0 {
			t.Errorf("%s responds %.4f at silence, expected 0", k, r)
		}
	}
}

func TestPresets_DisabledEffects(t *testing.T) {
	testCases := []struct {
		preset   string
		disabled []effects.Kind
	}{
		{"minimal", []effects.Kind{effects.KindShake, effects.KindBloom, effects.KindSaturation, effects.KindColorSplit, effects.KindDistortion}},
		{"subtle", []effects.Kind{effects.KindHueShift, effects.KindColorSplit, effects.KindMotionBlur}},
		{"noir", []effects.Kind{effects.KindColorSplit, effects.KindDistortion}},
	}

	for _, tc := range testCases {
		cfg, _ := Resolve(tc.preset)
		for _, k := range tc.disabled {
			if cfg.Setting(k).Enabled {
				t.Errorf("%s: expected %s disabled", tc.preset, k)
			}
		}
	}

	// Everything is on for the loudest presets
	for _, name := range []string{"aggressive", "psychedelic"} {
		cfg, _ := Resolve(name)
		if got := len(cfg.Enabled()); got != effects.NumKinds {
			t.Errorf("%s: expected all %d effects enabled, got %d", name, effects.NumKinds, got)
		}
	}
}
