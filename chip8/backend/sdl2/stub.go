//go:build !sdl2

package sdl2

import (
	"errors"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/video"
)

// ErrUnavailable is returned by the stub backend in builds without SDL2.
var ErrUnavailable = errors.New("SDL2 backend not available: build with -tags sdl2 and install the SDL2 development libraries")

// Backend stub for when SDL2 is not available
type Backend struct{}

func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(config backend.BackendConfig) error {
	return ErrUnavailable
}

func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	return nil, ErrUnavailable
}

func (s *Backend) Cleanup() error {
	return nil
}
