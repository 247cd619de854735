package backend

import (
	"log/slog"

	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend is a host platform: it renders frames and reports input.
// Backends are responsible for:
// - Rendering the 64x32 framebuffer to their output (terminal, window, PNG files)
// - Translating platform input into InputEvents
// - Backend-specific extras such as snapshots or a log panel
type Backend interface {
	// Init configures the backend. Must be called before Update.
	Init(config BackendConfig) error

	// Update renders frame and returns the input events gathered since the
	// previous call. Backends may skip rendering when the frame is not dirty.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup releases resources on shutdown.
	Cleanup() error
}

// InputEvent is a host input translated to an emulator action.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// Beeper is implemented by backends able to produce the buzzer tone.
// Beep is called once per frame while the sound timer is active.
type Beeper interface {
	Beep()
}

// ActionHandler is implemented by backends that react to emulator actions
// themselves (snapshots, log level changes).
type ActionHandler interface {
	HandleAction(act action.Action)
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title       string
	Scale       int
	TestPattern bool             // Emulator is a test pattern generator, not a ROM
	LogLevel    slog.Level       // Minimum level for the backend's log output
	Callbacks   BackendCallbacks // Callbacks for backend communication
}

// BackendCallbacks allows backends to communicate with the emulator
type BackendCallbacks struct {
	// OnQuit is called when the backend requests shutdown (e.g., window close)
	OnQuit func()
}

// DefaultScale is the window scale used when BackendConfig.Scale is unset.
const DefaultScale = 10

// ScaleOrDefault returns c.Scale, or DefaultScale when it is not positive.
func (c BackendConfig) ScaleOrDefault() int {
	if c.Scale <= 0 {
		return DefaultScale
	}
	return c.Scale
}
