package chip8

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
)

// Run initializes b and drives emu one frame at a time until the backend
// reports EmulatorQuit or an error occurs. Each iteration:
// - runs a frame unless paused
// - forwards the buzzer to backends implementing backend.Beeper
// - hands the frame to the backend and clears its dirty flag
// - dispatches the returned input events
// - waits on limiter (nil means no limit)
func Run(emu Emulator, b backend.Backend, config backend.BackendConfig, limiter timing.Limiter) (err error) {
	if limiter == nil {
		limiter = timing.NewNoOpLimiter()
	}

	if err := b.Init(config); err != nil {
		return fmt.Errorf("failed to initialize backend: %w", err)
	}
	defer func() {
		if cerr := b.Cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	beeper, _ := b.(backend.Beeper)
	actionHandler, _ := b.(backend.ActionHandler)
	handler := input.NewHandler()
	paused := false

	for {
		if !paused {
			if err := emu.RunUntilFrame(); err != nil {
				return err
			}
			if beeper != nil && emu.ShouldBeep() {
				beeper.Beep()
			}
		}

		frame := emu.GetCurrentFrame()
		events, err := b.Update(frame)
		if err != nil {
			return fmt.Errorf("backend update failed: %w", err)
		}
		frame.ClearDirty()

		for _, evt := range events {
			if !handler.ProcessEvent(evt) {
				continue
			}

			switch evt.Action {
			case action.EmulatorQuit:
				if evt.Type == event.Press {
					slog.Info("Quit requested")
					return nil
				}
			case action.EmulatorPauseToggle:
				if evt.Type == event.Press {
					paused = !paused
					limiter.Reset()
					slog.Info("Pause toggled", "paused", paused)
				}
			case action.EmulatorSnapshot, action.DebugLogLevelIncrease, action.DebugLogLevelDecrease:
				if evt.Type == event.Press && actionHandler != nil {
					actionHandler.HandleAction(evt.Action)
				}
			default:
				emu.HandleAction(evt.Action, evt.Type != event.Release)
			}
		}

		limiter.WaitForNextFrame()
	}
}
