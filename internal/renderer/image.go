package renderer

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // first frame only
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/linuxmatters/jivepulse/internal/config"
	jerrors "github.com/linuxmatters/jivepulse/internal/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// BaseImage is the decoded source picture. It is never modified after
// construction and may be shared by any number of concurrent renders.
type BaseImage struct {
	img *image.RGBA
}

// NewBaseImage copies img into an opaque RGBA buffer anchored at the origin.
// Transparent areas become black.
func NewBaseImage(img image.Image) (*BaseImage, error) {
	if img == nil {
		return nil, jerrors.Render("no image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, jerrors.Render(fmt.Sprintf("image has zero dimensions %dx%d", b.Dx(), b.Dy()))
	}

	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Over)

	return &BaseImage{img: rgba}, nil
}

// LoadBaseImage decodes an image file (png, jpeg, gif, webp, bmp, tiff)
func LoadBaseImage(path string) (*BaseImage, error) {
	if !config.IsImageFile(path) {
		return nil, jerrors.Decodef(path, "unsupported image format %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, jerrors.Decode(path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, jerrors.Decode(path, err)
	}

	base, err := NewBaseImage(img)
	if err != nil {
		return nil, jerrors.Decode(path, err)
	}
	return base, nil
}

// Bounds returns the image rectangle, always anchored at (0, 0)
func (b *BaseImage) Bounds() image.Rectangle {
	return b.img.Rect
}

// Width returns the width in pixels
func (b *BaseImage) Width() int {
	return b.img.Rect.Dx()
}

// Height returns the height in pixels
func (b *BaseImage) Height() int {
	return b.img.Rect.Dy()
}

// Clone returns a private copy of the pixels
func (b *BaseImage) Clone() *image.RGBA {
	dst := image.NewRGBA(b.img.Rect)
	copy(dst.Pix, b.img.Pix)
	return dst
}

// validate checks the pixel layout before rendering from it
func (b *BaseImage) validate() error {
	if b == nil || b.img == nil {
		return jerrors.Render("no base image")
	}
	w, h := b.img.Rect.Dx(), b.img.Rect.Dy()
	if w <= 0 || h <= 0 {
		return jerrors.Render(fmt.Sprintf("base image has zero dimensions %dx%d", w, h))
	}
	if b.img.Rect.Min != (image.Point{}) {
		return jerrors.Render("base image is not anchored at the origin")
	}
	if b.img.Stride != 4*w || len(b.img.Pix) < b.img.Stride*h {
		return jerrors.Render(fmt.Sprintf("unsupported pixel layout: stride %d, %d bytes for %dx%d", b.img.Stride, len(b.img.Pix), w, h))
	}
	return nil
}

// WritePNG encodes img to path
func WritePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
