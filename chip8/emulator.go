package chip8

import (
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/video"
)

// Emulator is the interface for everything the host loop can drive
type Emulator interface {
	// RunUntilFrame advances emulation by one 60Hz frame.
	RunUntilFrame() error
	GetCurrentFrame() *video.FrameBuffer
	HandleAction(act action.Action, pressed bool)
	// ShouldBeep reports whether the buzzer is on for the current frame.
	ShouldBeep() bool
}

var (
	_ Emulator = (*Machine)(nil)
	_ Emulator = (*TestPatternEmulator)(nil)
)
