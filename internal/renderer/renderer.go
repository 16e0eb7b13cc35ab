package renderer

import (
	"image"
	"math"
	"sync"

	"github.com/linuxmatters/jivepulse/internal/effects"
)

// Renderer applies effect stacks to one BaseImage. It holds only read-only
// precomputed tables and a buffer pool, so RenderFrame may be called from
// many goroutines at once.
type Renderer struct {
	base          *BaseImage
	width, height int
	vignette      []float32
	framePool     sync.Pool
}

// NewRenderer validates base and precomputes per-size tables
func NewRenderer(base *BaseImage) (*Renderer, error) {
	if err := base.validate(); err != nil {
		return nil, err
	}

	w, h := base.Width(), base.Height()
	r := &Renderer{
		base:     base,
		width:    w,
		height:   h,
		vignette: vignetteShape(w, h),
	}
	r.framePool.New = func() interface{} {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return r, nil
}

// RenderFrame renders one frame in a one-off Renderer
func RenderFrame(base *BaseImage, params effects.FrameParams) (*image.RGBA, error) {
	r, err := NewRenderer(base)
	if err != nil {
		return nil, err
	}
	return r.RenderFrame(params), nil
}

// Bounds returns the frame rectangle
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// RenderFrame applies params to a fresh copy of the base image in the fixed
// composition order. The returned frame belongs to the caller, who may hand
// it back with Release once it has been consumed.
func (r *Renderer) RenderFrame(params effects.FrameParams) *image.RGBA {
	return r.render(params, effects.CompositionOrder())
}

// Release returns a frame to the pool for reuse
func (r *Renderer) Release(img *image.RGBA) {
	if img == nil || img.Rect != r.Bounds() {
		return
	}
	r.framePool.Put(img)
}

func (r *Renderer) getBuffer() *image.RGBA {
	return r.framePool.Get().(*image.RGBA)
}

// render applies params in the given order. Every frame starts from the
// pristine base so nothing carries over between frames.
func (r *Renderer) render(params effects.FrameParams, order []effects.Kind) *image.RGBA {
	work := r.getBuffer()
	copy(work.Pix, r.base.img.Pix)
	scratch := r.getBuffer()

	for _, kind := range order {
		p, ok := params.Get(kind)
		if !ok {
			continue
		}
		if r.apply(work, scratch, p) {
			work, scratch = scratch, work
		}
	}

	r.framePool.Put(scratch)
	return work
}

// apply runs one transform. It reports true when the result landed in
// scratch rather than work.
func (r *Renderer) apply(work, scratch *image.RGBA, p effects.Param) bool {
	switch v := p.(type) {
	case effects.Zoom:
		if math.Abs(v.Scale-1) < 1e-9 {
			return false
		}
		zoomInto(scratch, work, v.Scale)
		return true

	case effects.Shake:
		if v.DX == 0 && v.DY == 0 {
			return false
		}
		shakeInto(scratch, work, v.DX, v.DY)
		return true

	case effects.Saturation:
		if v.Factor != 1 {
			saturate(work, v.Factor)
		}

	case effects.Contrast:
		if v.Factor != 1 {
			contrast(work, v.Factor)
		}

	case effects.Brightness:
		if v.Factor != 1 {
			brighten(work, v.Factor)
		}

	case effects.HueShift:
		if v.Degrees != 0 {
			hueRotate(work, v.Degrees)
		}

	case effects.Bloom:
		if v.Radius >= 0.5 && v.Mix > 0 {
			bloom(work, scratch, v.Radius, math.Min(v.Mix, 1))
		}

	case effects.Vignette:
		if v.Strength > 0 {
			vignette(work, r.vignette, math.Min(v.Strength, 1))
		}

	case effects.ColorSplit:
		if v.Offset == 0 {
			return false
		}
		colorSplitInto(scratch, work, v.Offset)
		return true

	case effects.MotionBlur:
		if v.Radius > 0 {
			motionBlur(work, scratch, v.Radius)
		}

	case effects.Distortion:
		if v.Amplitude == 0 {
			return false
		}
		distortInto(scratch, work, v.Amplitude, v.Phase)
		return true
	}

	return false
}
