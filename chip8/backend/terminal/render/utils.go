package render

import "github.com/valerio/go-chip8/chip8/video"

// Half-block glyphs used to pack two framebuffer rows into one terminal row.
const (
	Empty       = ' '
	Full        = '█'
	UpperHalf   = '▀'
	LowerHalf   = '▄'
	RowsPerCell = 2
)

// HalfBlock returns the glyph for a cell whose top and bottom pixels are given.
func HalfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return Full
	case top:
		return UpperHalf
	case bottom:
		return LowerHalf
	default:
		return Empty
	}
}

// FrameLines renders the framebuffer as text, two pixel rows per line and
// each pixel repeated scaleX times horizontally.
func FrameLines(frame *video.FrameBuffer, scaleX int) []string {
	if scaleX < 1 {
		scaleX = 1
	}

	lines := make([]string, 0, video.FramebufferHeight/RowsPerCell)
	for y := 0; y < video.FramebufferHeight; y += RowsPerCell {
		row := make([]rune, 0, video.FramebufferWidth*scaleX)
		for x := 0; x < video.FramebufferWidth; x++ {
			top := frame.GetPixel(uint(x), uint(y)) != 0
			bottom := frame.GetPixel(uint(x), uint(y+1)) != 0
			glyph := HalfBlock(top, bottom)
			for i := 0; i < scaleX; i++ {
				row = append(row, glyph)
			}
		}
		lines = append(lines, string(row))
	}
	return lines
}
