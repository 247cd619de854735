package video

const (
	// FramebufferWidth is the horizontal resolution in pixels.
	FramebufferWidth = 64
	// FramebufferHeight is the vertical resolution in pixels.
	FramebufferHeight = 32
	// FramebufferSize is the number of cells in the framebuffer.
	FramebufferSize = FramebufferWidth * FramebufferHeight

	// SpriteWidth is the fixed width of every sprite row.
	SpriteWidth = 8
)

// Color is a 32 bit RGBA value used by renderers.
type Color uint32

const (
	OnColor  Color = 0xFFFFFFFF
	OffColor Color = 0x000000FF
)

// FrameBuffer is the 64x32 monochrome display. Each cell is 0 or 1.
// Only the interpreter mutates pixels; renderers read them and clear the dirty flag.
type FrameBuffer struct {
	pixels [FramebufferSize]uint8
	dirty  bool
}

// NewFrameBuffer returns a cleared framebuffer marked dirty, so the first frame gets drawn.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{dirty: true}
}

// Clear turns off every pixel.
func (fb *FrameBuffer) Clear() {
	fb.pixels = [FramebufferSize]uint8{}
	fb.dirty = true
}

// DrawSprite XORs the given rows onto the framebuffer with the top-left corner at (x, y).
// Pixel coordinates wrap around both edges of the screen.
// Returns true if any pixel was turned off.
func (fb *FrameBuffer) DrawSprite(x, y uint8, rows []byte) bool {
	collision := false

	for row, line := range rows {
		py := (int(y) + row) % FramebufferHeight
		for col := 0; col < SpriteWidth; col++ {
			if line&(0x80>>col) == 0 {
				continue
			}

			px := (int(x) + col) % FramebufferWidth
			idx := py*FramebufferWidth + px
			if fb.pixels[idx] == 1 {
				collision = true
			}
			fb.pixels[idx] ^= 1
		}
	}

	fb.dirty = true
	return collision
}

// GetPixel returns the cell at (x, y), wrapping coordinates.
func (fb *FrameBuffer) GetPixel(x, y uint) uint8 {
	return fb.pixels[(y%FramebufferHeight)*FramebufferWidth+x%FramebufferWidth]
}

// SetPixel sets the cell at (x, y). Used by test patterns, the interpreter only draws sprites.
func (fb *FrameBuffer) SetPixel(x, y uint, on bool) {
	var v uint8
	if on {
		v = 1
	}
	fb.pixels[(y%FramebufferHeight)*FramebufferWidth+x%FramebufferWidth] = v
	fb.dirty = true
}

// Pixels returns a copy of all cells, row-major.
func (fb *FrameBuffer) Pixels() [FramebufferSize]uint8 {
	return fb.pixels
}

// IsDirty reports whether the framebuffer changed since the last ClearDirty.
func (fb *FrameBuffer) IsDirty() bool {
	return fb.dirty
}

// SetDirty forces a redraw on the next render pass.
func (fb *FrameBuffer) SetDirty() {
	fb.dirty = true
}

// ClearDirty is called by the host after rendering.
func (fb *FrameBuffer) ClearDirty() {
	fb.dirty = false
}

// ToRGBA expands the cells into RGBA colors, row-major.
func (fb *FrameBuffer) ToRGBA(on, off Color) []uint32 {
	out := make([]uint32, FramebufferSize)
	for i, p := range fb.pixels {
		if p != 0 {
			out[i] = uint32(on)
		} else {
			out[i] = uint32(off)
		}
	}
	return out
}
