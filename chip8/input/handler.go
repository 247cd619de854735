package input

import (
	"time"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

// Handler filters backend events, debouncing UI actions.
type Handler struct {
	lastActionTime map[action.Action]time.Time
	debounceDelay  time.Duration
}

func NewHandler() *Handler {
	return &Handler{
		lastActionTime: make(map[action.Action]time.Time),
		debounceDelay:  debounceDuration,
	}
}

// ProcessEvent reports whether evt should be handled. Press/Release of
// non-keypad actions within the debounce window are dropped.
func (h *Handler) ProcessEvent(evt backend.InputEvent) bool {
	if action.GetInfo(evt.Action).Category == action.CategoryGameInput {
		return true
	}
	if evt.Type != event.Press && evt.Type != event.Release {
		return true
	}

	now := time.Now()
	if last, ok := h.lastActionTime[evt.Action]; ok && now.Sub(last) < h.debounceDelay {
		return false
	}
	h.lastActionTime[evt.Action] = now
	return true
}
