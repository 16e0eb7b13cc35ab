package renderer

import (
	"image"
	"math"

	"github.com/linuxmatters/jivepulse/internal/config"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Every transform writes alpha 255 and rounds and clamps colour channels to
// 0-255. Transforms named "...Into" read src and write dst (which must be a
// different buffer of the same size); the rest work in place.

func clampByte(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func luma(r, g, b float64) float64 {
	return config.LumaR*r + config.LumaG*g + config.LumaB*b
}

func fillBlack(img *image.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0
		img.Pix[i+1] = 0
		img.Pix[i+2] = 0
		img.Pix[i+3] = 255
	}
}

// zoomInto scales src about its centre with bilinear sampling
func zoomInto(dst, src *image.RGBA, scale float64) {
	w, h := float64(src.Rect.Dx()), float64(src.Rect.Dy())
	cx, cy := w/2, h/2

	fillBlack(dst)
	m := f64.Aff3{
		scale, 0, cx * (1 - scale),
		0, scale, cy * (1 - scale),
	}
	draw.BiLinear.Transform(dst, m, src, src.Rect, draw.Src, nil)
}

// shakeInto translates src by whole pixels; uncovered area is black
func shakeInto(dst, src *image.RGBA, dx, dy int) {
	fillBlack(dst)
	r := src.Rect.Add(image.Pt(dx, dy)).Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, src, r.Min.Sub(image.Pt(dx, dy)), draw.Src)
}

// saturate blends each pixel with its own luma: l + f*(c-l)
func saturate(img *image.RGBA, factor float64) {
	p := img.Pix
	for i := 0; i < len(p); i += 4 {
		r, g, b := float64(p[i]), float64(p[i+1]), float64(p[i+2])
		l := luma(r, g, b)
		p[i] = clampByte(l + factor*(r-l))
		p[i+1] = clampByte(l + factor*(g-l))
		p[i+2] = clampByte(l + factor*(b-l))
		p[i+3] = 255
	}
}

// contrast blends each channel with the frame's mean luma: m + f*(c-m)
func contrast(img *image.RGBA, factor float64) {
	p := img.Pix
	var sum float64
	for i := 0; i < len(p); i += 4 {
		sum += luma(float64(p[i]), float64(p[i+1]), float64(p[i+2]))
	}
	mean := math.Round(sum / float64(len(p)/4))

	for i := 0; i < len(p); i += 4 {
		p[i] = clampByte(mean + factor*(float64(p[i])-mean))
		p[i+1] = clampByte(mean + factor*(float64(p[i+1])-mean))
		p[i+2] = clampByte(mean + factor*(float64(p[i+2])-mean))
		p[i+3] = 255
	}
}

// brighten multiplies every channel by factor
func brighten(img *image.RGBA, factor float64) {
	var lut [256]uint8
	for v := range lut {
		lut[v] = clampByte(float64(v) * factor)
	}
	p := img.Pix
	for i := 0; i < len(p); i += 4 {
		p[i] = lut[p[i]]
		p[i+1] = lut[p[i+1]]
		p[i+2] = lut[p[i+2]]
		p[i+3] = 255
	}
}

// hueRotate applies a luminance-preserving hue rotation matrix
func hueRotate(img *image.RGBA, degrees float64) {
	a := degrees * math.Pi / 180
	c, s := math.Cos(a), math.Sin(a)
	m := [3][3]float64{
		{0.213 + 0.787*c - 0.213*s, 0.715 - 0.715*c - 0.715*s, 0.072 - 0.072*c + 0.928*s},
		{0.213 - 0.213*c + 0.143*s, 0.715 + 0.285*c + 0.140*s, 0.072 - 0.072*c - 0.283*s},
		{0.213 - 0.213*c - 0.787*s, 0.715 - 0.715*c + 0.715*s, 0.072 + 0.928*c + 0.072*s},
	}

	p := img.Pix
	for i := 0; i < len(p); i += 4 {
		r, g, b := float64(p[i]), float64(p[i+1]), float64(p[i+2])
		p[i] = clampByte(m[0][0]*r + m[0][1]*g + m[0][2]*b)
		p[i+1] = clampByte(m[1][0]*r + m[1][1]*g + m[1][2]*b)
		p[i+2] = clampByte(m[2][0]*r + m[2][1]*g + m[2][2]*b)
		p[i+3] = 255
	}
}

// gaussianKernel returns normalised weights for offsets -n..n
func gaussianKernel(sigma float64) []float64 {
	n := int(math.Ceil(3 * sigma))
	k := make([]float64, 2*n+1)
	var sum float64
	for i := -n; i <= n; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		k[i+n] = w
		sum += w
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

func boxKernel(radius int) []float64 {
	k := make([]float64, 2*radius+1)
	for i := range k {
		k[i] = 1 / float64(len(k))
	}
	return k
}

// convolveH convolves rows of src with kernel into dst, clamping at the edges
func convolveH(dst, src *image.RGBA, kernel []float64) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	n := len(kernel) / 2
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+4*w]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+4*w]
		for x := 0; x < w; x++ {
			var r, g, b float64
			for j, kw := range kernel {
				sx := min(max(x+j-n, 0), w-1) * 4
				r += kw * float64(row[sx])
				g += kw * float64(row[sx+1])
				b += kw * float64(row[sx+2])
			}
			out[x*4] = clampByte(r)
			out[x*4+1] = clampByte(g)
			out[x*4+2] = clampByte(b)
			out[x*4+3] = 255
		}
	}
}

// convolveV convolves columns of src with kernel and blends the result into
// dst: dst = (1-mix)*dst + mix*blurred. mix of 1 replaces dst outright.
func convolveV(dst, src *image.RGBA, kernel []float64, mix float64) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	n := len(kernel) / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b float64
			for j, kw := range kernel {
				sy := min(max(y+j-n, 0), h-1)
				o := sy*src.Stride + x*4
				r += kw * float64(src.Pix[o])
				g += kw * float64(src.Pix[o+1])
				b += kw * float64(src.Pix[o+2])
			}
			d := y*dst.Stride + x*4
			dst.Pix[d] = clampByte((1-mix)*float64(dst.Pix[d]) + mix*r)
			dst.Pix[d+1] = clampByte((1-mix)*float64(dst.Pix[d+1]) + mix*g)
			dst.Pix[d+2] = clampByte((1-mix)*float64(dst.Pix[d+2]) + mix*b)
			dst.Pix[d+3] = 255
		}
	}
}

// bloom blends a Gaussian blur of img (sigma = radius) back over it. scratch
// receives the intermediate horizontal pass.
func bloom(img, scratch *image.RGBA, radius, mix float64) {
	k := gaussianKernel(radius)
	convolveH(scratch, img, k)
	convolveV(img, scratch, k, mix)
}

// motionBlur applies a (2r+1)-wide separable box blur in place
func motionBlur(img, scratch *image.RGBA, radius int) {
	k := boxKernel(radius)
	convolveH(scratch, img, k)
	convolveV(img, scratch, k, 1)
}

// vignetteShape precomputes the falloff for a w x h frame: 0 inside half the
// elliptical radius rising to 1 at the corners
func vignetteShape(w, h int) []float32 {
	shape := make([]float32, w*h)
	cx, cy := float64(w/2), float64(h/2)
	maxRadius := math.Hypot(cx, cy)
	if maxRadius == 0 {
		return shape
	}
	aspect := float64(w) / float64(h)

	for y := 0; y < h; y++ {
		dy := (float64(y) - cy) * aspect
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			ratio := math.Min(1, math.Hypot(dx, dy)/maxRadius)
			if ratio > 0.5 {
				shape[y*w+x] = float32(math.Pow((ratio-0.5)/0.5, 1.5))
			}
		}
	}
	return shape
}

// vignette darkens img by 1 - strength*shape
func vignette(img *image.RGBA, shape []float32, strength float64) {
	p := img.Pix
	for i, s := range shape {
		a := 1 - strength*float64(s)
		o := i * 4
		p[o] = clampByte(float64(p[o]) * a)
		p[o+1] = clampByte(float64(p[o+1]) * a)
		p[o+2] = clampByte(float64(p[o+2]) * a)
		p[o+3] = 255
	}
}

// colorSplitInto shifts red right and blue left by offset; samples shifted
// in from outside the frame are zero
func colorSplitInto(dst, src *image.RGBA, offset int) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+4*w]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+4*w]
		for x := 0; x < w; x++ {
			o := x * 4
			out[o], out[o+2] = 0, 0
			if rx := x - offset; rx >= 0 && rx < w {
				out[o] = row[rx*4]
			}
			out[o+1] = row[o+1]
			if bx := x + offset; bx >= 0 && bx < w {
				out[o+2] = row[bx*4+2]
			}
			out[o+3] = 255
		}
	}
}

// distortInto displaces pixels sinusoidally. amplitude is a fraction of the
// frame size; sampling is nearest-neighbour with clamped coordinates.
func distortInto(dst, src *image.RGBA, amplitude, phase float64) {
	w, h := src.Rect.Dx(), src.Rect.Dy()

	// x shift depends only on the row and y shift only on the column
	xShift := make([]float64, h)
	for y := range xShift {
		xShift[y] = math.Sin(float64(y)*config.DistortionSpatialFreq+phase) * amplitude * float64(w)
	}
	yShift := make([]float64, w)
	for x := range yShift {
		yShift[x] = math.Cos(float64(x)*config.DistortionSpatialFreq+phase) * amplitude * float64(h)
	}

	for y := 0; y < h; y++ {
		out := dst.Pix[y*dst.Stride : y*dst.Stride+4*w]
		for x := 0; x < w; x++ {
			sx := int(math.Min(math.Max(float64(x)+xShift[y], 0), float64(w-1)))
			sy := int(math.Min(math.Max(float64(y)+yShift[x], 0), float64(h-1)))
			s := sy*src.Stride + sx*4
			copy(out[x*4:x*4+3], src.Pix[s:s+3])
			out[x*4+3] = 255
		}
	}
}
