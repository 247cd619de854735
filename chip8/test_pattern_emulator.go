package chip8

import (
	"log/slog"

	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/video"
)

// Test pattern parameters, in framebuffer pixels and frames.
const (
	testPatternCount           = 4
	testPatternTileSize        = 4
	testPatternStripeWidth     = 2
	testPatternAnimationFrames = 8
)

var testPatternNames = [testPatternCount]string{"Checkerboard", "Stripes", "Border", "Diagonal"}

// TestPatternEmulator displays test patterns without running a program.
// Useful for checking a backend's rendering and input.
type TestPatternEmulator struct {
	frameBuffer      *video.FrameBuffer
	patternType      int
	animationCounter int
}

func NewTestPatternEmulator() *TestPatternEmulator {
	e := &TestPatternEmulator{frameBuffer: video.NewFrameBuffer()}
	e.draw(0)
	return e
}

func (e *TestPatternEmulator) RunUntilFrame() error {
	e.animationCounter++
	if e.animationCounter%testPatternAnimationFrames == 0 {
		e.draw(e.animationCounter / testPatternAnimationFrames)
	}
	return nil
}

func (e *TestPatternEmulator) GetCurrentFrame() *video.FrameBuffer {
	return e.frameBuffer
}

func (e *TestPatternEmulator) HandleAction(act action.Action, pressed bool) {
	if act == action.EmulatorTestPatternCycle && pressed {
		e.CycleTestPattern()
	}
}

// ShouldBeep is always false: test patterns make no sound.
func (e *TestPatternEmulator) ShouldBeep() bool { return false }

// CycleTestPattern switches to the next pattern.
func (e *TestPatternEmulator) CycleTestPattern() {
	e.patternType = (e.patternType + 1) % testPatternCount
	e.animationCounter = 0
	e.draw(0)
	slog.Info("Switched to test pattern", "pattern", e.PatternName())
}

// PatternName returns the name of the pattern on screen.
func (e *TestPatternEmulator) PatternName() string {
	return testPatternNames[e.patternType]
}

// draw renders the current pattern shifted by offset pixels. Only the
// stripes and diagonal patterns move.
func (e *TestPatternEmulator) draw(offset int) {
	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			e.frameBuffer.SetPixel(uint(x), uint(y), e.pixel(x, y, offset))
		}
	}
}

func (e *TestPatternEmulator) pixel(x, y, offset int) bool {
	switch e.patternType {
	case 0:
		return (x/testPatternTileSize+y/testPatternTileSize)%2 == 0
	case 1:
		return ((x+offset)/testPatternStripeWidth)%2 == 0
	case 2:
		return x == 0 || y == 0 || x == video.FramebufferWidth-1 || y == video.FramebufferHeight-1
	default:
		return ((x+y+offset)/testPatternTileSize)%2 == 0
	}
}
