package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func countLit(fb *FrameBuffer) int {
	n := 0
	for _, p := range fb.Pixels() {
		n += int(p)
	}
	return n
}

func TestNewFrameBuffer(t *testing.T) {
	fb := NewFrameBuffer()

	assert.True(t, fb.IsDirty(), "a new framebuffer must be drawn once")
	assert.Equal(t, 0, countLit(fb))
}

func TestDrawSprite(t *testing.T) {
	tests := []struct {
		name string
		x, y uint8
		rows []byte
		lit  [][2]uint
	}{
		{
			name: "single pixel",
			x:    0, y: 0,
			rows: []byte{0x80},
			lit:  [][2]uint{{0, 0}},
		},
		{
			name: "two rows",
			x:    10, y: 5,
			rows: []byte{0x81, 0x40},
			lit:  [][2]uint{{10, 5}, {17, 5}, {11, 6}},
		},
		{
			name: "wraps horizontally",
			x:    62, y: 0,
			rows: []byte{0xF0},
			lit:  [][2]uint{{62, 0}, {63, 0}, {0, 0}, {1, 0}},
		},
		{
			name: "wraps vertically",
			x:    0, y: 31,
			rows: []byte{0x80, 0x80},
			lit:  [][2]uint{{0, 31}, {0, 0}},
		},
		{
			name: "coordinates beyond the screen wrap",
			x:    64 + 3, y: 32 + 2,
			rows: []byte{0x80},
			lit:  [][2]uint{{3, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFrameBuffer()
			fb.ClearDirty()

			collision := fb.DrawSprite(tt.x, tt.y, tt.rows)

			assert.False(t, collision)
			assert.True(t, fb.IsDirty())
			assert.Equal(t, len(tt.lit), countLit(fb))
			for _, p := range tt.lit {
				assert.Equal(t, uint8(1), fb.GetPixel(p[0], p[1]), "pixel (%d,%d)", p[0], p[1])
			}
		})
	}
}

func TestDrawSprite_XORRoundTrip(t *testing.T) {
	fb := NewFrameBuffer()
	rows := []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}

	assert.False(t, fb.DrawSprite(20, 10, rows))
	assert.True(t, fb.DrawSprite(20, 10, rows), "redrawing must report a collision")
	assert.Equal(t, 0, countLit(fb))
}

func TestDrawSprite_PartialCollision(t *testing.T) {
	fb := NewFrameBuffer()

	fb.DrawSprite(0, 0, []byte{0x80})
	collision := fb.DrawSprite(0, 0, []byte{0xC0})

	assert.True(t, collision)
	assert.Equal(t, uint8(0), fb.GetPixel(0, 0))
	assert.Equal(t, uint8(1), fb.GetPixel(1, 0))
}

func TestClear(t *testing.T) {
	fb := NewFrameBuffer()
	fb.DrawSprite(0, 0, []byte{0xFF, 0xFF})
	fb.ClearDirty()

	fb.Clear()

	assert.True(t, fb.IsDirty())
	assert.Equal(t, 0, countLit(fb))
}

func TestToRGBA(t *testing.T) {
	fb := NewFrameBuffer()
	fb.SetPixel(1, 0, true)

	rgba := fb.ToRGBA(OnColor, OffColor)

	assert.Len(t, rgba, FramebufferSize)
	assert.Equal(t, uint32(OffColor), rgba[0])
	assert.Equal(t, uint32(OnColor), rgba[1])
}
