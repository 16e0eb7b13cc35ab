package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/linuxmatters/jivepulse/internal/config"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// DefaultTextColor returns the default thumbnail title colour
func DefaultTextColor() color.RGBA {
	return color.RGBA{R: config.TextColorR, G: config.TextColorG, B: config.TextColorB, A: 255}
}

// GenerateThumbnail writes a poster image for the video: frame with the
// title drawn across its upper half. An empty title writes the frame as is.
func GenerateThumbnail(outputPath string, frame *image.RGBA, title string, textColor color.RGBA) error {
	thumb := image.NewRGBA(image.Rect(0, 0, frame.Rect.Dx(), frame.Rect.Dy()))
	draw.Draw(thumb, thumb.Bounds(), frame, frame.Rect.Min, draw.Src)

	if strings.TrimSpace(title) != "" {
		parsedFont, err := truetype.Parse(gobold.TTF)
		if err != nil {
			return fmt.Errorf("failed to parse font: %w", err)
		}

		// Split title into 2 lines
		line1, line2 := splitTitle(title)

		l := newThumbLayout(thumb.Rect.Dx(), thumb.Rect.Dy())
		fontSize := l.optimalFontSize(parsedFont, line1, line2)

		face := truetype.NewFace(parsedFont, &truetype.Options{
			Size: fontSize,
			DPI:  72,
		})
		defer face.Close()

		l.drawText(thumb, face, line1, line2, textColor)
	}

	if err := WritePNG(thumb, outputPath); err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return nil
}

// splitTitle splits the title into 2 roughly equal lines
func splitTitle(title string) (string, string) {
	words := strings.Fields(title)
	if len(words) == 0 {
		return "", ""
	}
	if len(words) == 1 {
		return words[0], ""
	}

	mid := len(words) / 2
	return strings.Join(words[:mid], " "), strings.Join(words[mid:], " ")
}

// thumbLayout scales the reference 720-line layout to the frame size
type thumbLayout struct {
	width, height int
	margin        int
	maxFontSize   float64
}

func newThumbLayout(width, height int) thumbLayout {
	scale := float64(height) / config.ThumbnailReferenceHeight
	return thumbLayout{
		width:       width,
		height:      height,
		margin:      max(1, int(math.Round(config.ThumbnailMargin*scale))),
		maxFontSize: math.Max(12, config.ThumbnailMaxFontSize*scale),
	}
}

// optimalFontSize finds the largest font size where both lines fit between
// the side margins and line 2 ends above the horizontal centre line
func (l thumbLayout) optimalFontSize(parsedFont *truetype.Font, line1, line2 string) float64 {
	centerY := l.height / 2
	maxWidth := l.width - 2*l.margin

	for size := l.maxFontSize; size > 10.0; size -= 2.0 {
		face := truetype.NewFace(parsedFont, &truetype.Options{
			Size: size,
			DPI:  72,
		})

		width1, bounds1 := measureText(face, line1)
		width2, bounds2 := measureText(face, line2)

		face.Close()

		if width1 > maxWidth || width2 > maxWidth {
			continue
		}

		lineSpacing := int(size * 0.5)
		height1 := (bounds1.Max.Y - bounds1.Min.Y).Ceil()
		height2 := (bounds2.Max.Y - bounds2.Min.Y).Ceil()

		if l.margin+height1+lineSpacing+height2 <= centerY {
			return size
		}
	}

	return 10.0
}

// measureText returns the width and bounds of rendered text. Min.Y is
// negative (ascent), Max.Y positive (descent).
func measureText(face font.Face, text string) (int, fixed.Rectangle26_6) {
	d := &font.Drawer{Face: face}
	bounds, _ := d.BoundString(text)
	width := (bounds.Max.X - bounds.Min.X).Ceil()
	return width, bounds
}

// drawText draws both lines onto a scratch canvas, rotates it slightly
// clockwise and composites it so the highest rotated point sits at the top
// margin
func (l thumbLayout) drawText(img *image.RGBA, face font.Face, line1, line2 string, textColor color.RGBA) {
	width1, bounds1 := measureText(face, line1)
	width2, bounds2 := measureText(face, line2)

	metrics := face.Metrics()
	fontSize := float64(metrics.Height) / 64.0
	lineSpacing := int(fontSize * 0.5)

	height1 := (bounds1.Max.Y - bounds1.Min.Y).Ceil()
	height2 := (bounds2.Max.Y - bounds2.Min.Y).Ceil()
	totalHeight := height1 + lineSpacing + height2

	// 1.5x leaves room for the rotation without clipping
	tempSize := int(float64(max(width1, width2)+totalHeight) * 1.5)
	tempImg := image.NewRGBA(image.Rect(0, 0, tempSize, tempSize))
	tempCenterY := tempSize / 2

	line1VisualTop := tempCenterY - totalHeight/2
	line1BaselineY := line1VisualTop - bounds1.Min.Y.Ceil()
	line2VisualTop := line1VisualTop + height1 + lineSpacing
	line2BaselineY := line2VisualTop - bounds2.Min.Y.Ceil()

	src := image.NewUniform(textColor)
	drawCenteredLine(tempImg, face, src, line1, tempSize, line1BaselineY)
	drawCenteredLine(tempImg, face, src, line2, tempSize, line2BaselineY)

	angle := -config.ThumbnailTextRotationDegrees * math.Pi / 180.0
	cos, sin := math.Cos(angle), math.Sin(angle)
	cx, cy := float64(tempSize)/2.0, float64(tempSize)/2.0

	m := f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	}
	rotatedImg := image.NewRGBA(tempImg.Bounds())
	draw.BiLinear.Transform(rotatedImg, m, tempImg, tempImg.Bounds(), draw.Over, nil)

	// The top-right corner of line 1 is highest after a clockwise turn
	topRightX := cx + float64(width1)/2.0 - cx
	topRightY := float64(line1VisualTop) - cy
	highestPointY := sin*topRightX + cos*topRightY + cy

	destX := (l.width - tempSize) / 2
	destY := int(float64(l.margin) - highestPointY)

	destRect := image.Rect(destX, destY, destX+tempSize, destY+tempSize)
	draw.Draw(img, destRect, rotatedImg, image.Point{}, draw.Over)
}

// drawCenteredLine draws a line of text centred horizontally on img
func drawCenteredLine(img *image.RGBA, face font.Face, src image.Image, text string, imgWidth, baselineY int) {
	if text == "" {
		return
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  src,
		Face: face,
	}

	bounds, _ := d.BoundString(text)
	textWidth := (bounds.Max.X - bounds.Min.X).Ceil()

	d.Dot = freetype.Pt((imgWidth-textWidth)/2, baselineY)
	d.DrawString(text)
}
