//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/snapshot"
	"github.com/valerio/go-chip8/chip8/video"
	"github.com/veandco/go-sdl2/sdl"
)

// Backend renders to an SDL2 window and plays the buzzer on an SDL2 audio device.
// Note: building this requires SDL2 development libraries installed.
// Default builds use the stub, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	audio    sdl.AudioDeviceID
	wave     *squareWave
	samples  []byte
	config   backend.BackendConfig
	events   []backend.InputEvent

	currentFrame *video.FrameBuffer
}

func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config
	scale := int32(config.ScaleOrDefault())

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		video.FramebufferWidth*scale,
		video.FramebufferHeight*scale,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		s.Cleanup()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		s.Cleanup()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture

	// a missing audio device only costs the buzzer
	if err := s.openAudio(); err != nil {
		slog.Warn("Audio unavailable, beep disabled", "error", err)
	}

	slog.Info("SDL2 backend initialized", "scale", scale, "audio", s.audio != 0)
	return nil
}

func (s *Backend) openAudio() error {
	spec := sdl.AudioSpec{
		Freq:     SampleRate,
		Format:   sdl.AUDIO_S8,
		Channels: 1,
		Samples:  512,
	}
	dev, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		return err
	}
	s.audio = dev
	s.wave = newSquareWave(SampleRate, ToneFrequency, toneAmplitude)
	s.samples = make([]byte, beepSamples)
	sdl.PauseAudioDevice(dev, false)
	return nil
}

// Update polls SDL events and presents the frame.
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	events := s.events
	s.events = nil

	if frame == nil {
		return events, nil
	}
	s.currentFrame = frame
	if frame.IsDirty() {
		if err := s.renderFrame(frame); err != nil {
			return events, err
		}
	}
	return events, nil
}

// Beep queues a short buzzer tone unless one is still playing.
func (s *Backend) Beep() {
	if s.audio == 0 {
		return
	}
	if sdl.GetQueuedAudioSize(s.audio) > samplesPerFrame {
		return
	}
	s.wave.Fill(s.samples)
	if err := sdl.QueueAudio(s.audio, s.samples); err != nil {
		slog.Debug("Failed to queue audio", "error", err)
	}
}

// HandleAction processes backend-specific actions
func (s *Backend) HandleAction(act action.Action) {
	if act != action.EmulatorSnapshot {
		return
	}
	if s.currentFrame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}
	if _, err := snapshot.SaveFramePNGToDir(s.currentFrame, "chip8_snapshot", "", s.config.ScaleOrDefault()); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.audio != 0 {
		sdl.CloseAudioDevice(s.audio)
		s.audio = 0
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

func (s *Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		if s.config.Callbacks.OnQuit != nil {
			s.config.Callbacks.OnQuit()
		}
		s.events = append(s.events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})

	case *sdl.KeyboardEvent:
		act, ok := mapKey(e.Keysym.Sym)
		if !ok {
			return
		}
		switch {
		case e.Type == sdl.KEYDOWN && e.Repeat != 0:
			if action.GetInfo(act).Category == action.CategoryGameInput {
				s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Hold})
			}
		case e.Type == sdl.KEYDOWN:
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Press})
		case e.Type == sdl.KEYUP:
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
}

// sdlKeyNames converts SDL keycodes to the names used in input.DefaultKeyMap
var sdlKeyNames = map[sdl.Keycode]string{
	sdl.K_1: "1", sdl.K_2: "2", sdl.K_3: "3", sdl.K_4: "4",
	sdl.K_q: "q", sdl.K_w: "w", sdl.K_e: "e", sdl.K_r: "r",
	sdl.K_a: "a", sdl.K_s: "s", sdl.K_d: "d", sdl.K_f: "f",
	sdl.K_z: "z", sdl.K_x: "x", sdl.K_c: "c", sdl.K_v: "v",

	sdl.K_SPACE:  "Space",
	sdl.K_p:      "p",
	sdl.K_t:      "t",
	sdl.K_F5:     "F5",
	sdl.K_F12:    "F12",
	sdl.K_ESCAPE: "Escape",
	sdl.K_EQUALS: "=",
	sdl.K_PLUS:   "+",
	sdl.K_MINUS:  "-",
}

func mapKey(key sdl.Keycode) (action.Action, bool) {
	name, ok := sdlKeyNames[key]
	if !ok {
		return 0, false
	}
	return input.GetDefaultMapping(name)
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) error {
	pixels := frame.ToRGBA(video.OnColor, video.OffColor)

	// RGBA8888 is a packed 32-bit format, matching the uint32 layout of ToRGBA
	if err := s.texture.Update(nil, unsafe.Pointer(&pixels[0]), video.FramebufferWidth*4); err != nil {
		return fmt.Errorf("failed to update texture: %w", err)
	}

	s.renderer.SetDrawColor(0, 0, 0, 0xFF)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
	return nil
}
