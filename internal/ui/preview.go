package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// PreviewConfig holds configuration for the video preview
type PreviewConfig struct {
	Width  int // Width in terminal cells
	Height int // Height in terminal cells
}

// DefaultPreviewConfig returns a 72x20 preview, close to 16:9 once the
// terminal's tall cells are accounted for
func DefaultPreviewConfig() PreviewConfig {
	return PreviewConfig{
		Width:  72,
		Height: 20,
	}
}

// FitPreview shrinks config so a frame of the given size keeps its aspect
// ratio. Terminal cells are roughly twice as tall as they are wide.
func FitPreview(bounds image.Rectangle, config PreviewConfig) PreviewConfig {
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || config.Width <= 0 || config.Height <= 0 {
		return config
	}

	aspect := float64(w) / float64(h) * 2
	fit := config
	if float64(config.Width)/float64(config.Height) > aspect {
		fit.Width = max(1, int(float64(config.Height)*aspect+0.5))
	} else {
		fit.Height = max(1, int(float64(config.Width)/aspect+0.5))
	}
	return fit
}

// DownsampleFrame averages the frame into a grid of config.Width by
// config.Height cells. Every source pixel lands in exactly one cell, so
// frames smaller than the grid still fill it.
func DownsampleFrame(frame *image.RGBA, config PreviewConfig) [][]color.RGBA {
	if frame == nil || config.Width <= 0 || config.Height <= 0 {
		return nil
	}
	b := frame.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 {
		return nil
	}

	preview := make([][]color.RGBA, config.Height)
	for row := range preview {
		preview[row] = make([]color.RGBA, config.Width)

		y0 := row * srcH / config.Height
		y1 := max(y0+1, (row+1)*srcH/config.Height)

		for col := range preview[row] {
			x0 := col * srcW / config.Width
			x1 := max(x0+1, (col+1)*srcW/config.Width)

			var sumR, sumG, sumB, n uint32
			for y := y0; y < y1 && y < srcH; y++ {
				off := frame.PixOffset(b.Min.X+x0, b.Min.Y+y)
				for x := x0; x < x1 && x < srcW; x++ {
					sumR += uint32(frame.Pix[off])
					sumG += uint32(frame.Pix[off+1])
					sumB += uint32(frame.Pix[off+2])
					off += 4
					n++
				}
			}
			if n > 0 {
				preview[row][col] = color.RGBA{
					R: uint8(sumR / n),
					G: uint8(sumG / n),
					B: uint8(sumB / n),
					A: 255,
				}
			}
		}
	}

	return preview
}

// RenderPreview draws the grid as ANSI 24-bit background-coloured cells
// inside a box
func RenderPreview(preview [][]color.RGBA) string {
	if len(preview) == 0 || len(preview[0]) == 0 {
		return ""
	}

	border := strings.Repeat("─", len(preview[0]))

	var sb strings.Builder
	sb.WriteString("  Preview:\n")
	sb.WriteString("  ┌" + border + "┐\n")
	for _, row := range preview {
		sb.WriteString("  │")
		for _, px := range row {
			fmt.Fprintf(&sb, "\x1b[48;2;%d;%d;%dm \x1b[0m", px.R, px.G, px.B)
		}
		sb.WriteString("│\n")
	}
	sb.WriteString("  └" + border + "┘\n")

	return sb.String()
}
