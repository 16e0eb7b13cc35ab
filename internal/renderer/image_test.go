package renderer

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	jerrors "github.com/linuxmatters/jivepulse/internal/errors"
)

func TestNewBaseImage(t *testing.T) {
	t.Run("flattens transparency onto black", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
		src.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

		base, err := NewBaseImage(src)
		if err != nil {
			t.Fatalf("NewBaseImage: %v", err)
		}
		if got := base.img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 0, 255}) {
			t.Errorf("transparent pixel = %v, want opaque black", got)
		}
		if got := base.img.RGBAAt(1, 1); got != (color.RGBA{255, 255, 255, 255}) {
			t.Errorf("opaque pixel = %v, want white", got)
		}
	})

	t.Run("re-anchors offset images", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(10, 20, 30, 35))
		base, err := NewBaseImage(src)
		if err != nil {
			t.Fatalf("NewBaseImage: %v", err)
		}
		if base.Bounds() != image.Rect(0, 0, 20, 15) {
			t.Errorf("bounds = %v, want 20x15 at origin", base.Bounds())
		}
		if base.Width() != 20 || base.Height() != 15 {
			t.Errorf("size = %dx%d, want 20x15", base.Width(), base.Height())
		}
	})

	t.Run("rejects nil and empty", func(t *testing.T) {
		if _, err := NewBaseImage(nil); !errors.Is(err, jerrors.ErrRender) {
			t.Errorf("nil image error = %v, want render error", err)
		}
		if _, err := NewBaseImage(image.NewRGBA(image.Rectangle{})); !errors.Is(err, jerrors.ErrRender) {
			t.Errorf("empty image error = %v, want render error", err)
		}
	})
}

func TestBaseImage_CloneIsPrivate(t *testing.T) {
	base, err := NewBaseImage(patternImage(8, 8))
	if err != nil {
		t.Fatalf("NewBaseImage: %v", err)
	}

	c := base.Clone()
	c.Pix[0] = ^c.Pix[0]

	if base.img.Pix[0] == c.Pix[0] {
		t.Error("Clone shares pixels with the base image")
	}
}

func TestLoadBaseImage(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "cover.png")
	if err := WritePNG(patternImage(24, 16), pngPath); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	base, err := LoadBaseImage(pngPath)
	if err != nil {
		t.Fatalf("LoadBaseImage: %v", err)
	}
	if base.Width() != 24 || base.Height() != 16 {
		t.Errorf("size = %dx%d, want 24x16", base.Width(), base.Height())
	}
	if got, want := base.img.RGBAAt(5, 3), patternImage(24, 16).RGBAAt(5, 3); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}

	corrupt := filepath.Join(dir, "corrupt.jpg")
	if err := os.WriteFile(corrupt, []byte("not a jpeg"), 0644); err != nil {
		t.Fatal(err)
	}

	errCases := []struct {
		name string
		path string
	}{
		{"unsupported extension", filepath.Join(dir, "cover.svg")},
		{"missing file", filepath.Join(dir, "missing.png")},
		{"corrupt data", corrupt},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadBaseImage(tc.path)
			if !errors.Is(err, jerrors.ErrDecode) {
				t.Errorf("error = %v, want decode error", err)
			}
		})
	}
}
