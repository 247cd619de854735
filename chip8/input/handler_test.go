package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

func TestHandler_ProcessEvent(t *testing.T) {
	tests := []struct {
		name   string
		events []backend.InputEvent
		want   []bool
	}{
		{
			name: "game input is never filtered",
			events: []backend.InputEvent{
				{Action: action.Key5, Type: event.Press},
				{Action: action.Key5, Type: event.Press},
				{Action: action.Key5, Type: event.Release},
			},
			want: []bool{true, true, true},
		},
		{
			name: "repeated UI press is dropped",
			events: []backend.InputEvent{
				{Action: action.EmulatorPauseToggle, Type: event.Press},
				{Action: action.EmulatorPauseToggle, Type: event.Press},
			},
			want: []bool{true, false},
		},
		{
			name: "different actions are debounced separately",
			events: []backend.InputEvent{
				{Action: action.EmulatorSnapshot, Type: event.Press},
				{Action: action.EmulatorQuit, Type: event.Press},
			},
			want: []bool{true, true},
		},
		{
			name: "hold passes through",
			events: []backend.InputEvent{
				{Action: action.EmulatorSnapshot, Type: event.Press},
				{Action: action.EmulatorSnapshot, Type: event.Hold},
				{Action: action.EmulatorSnapshot, Type: event.Hold},
			},
			want: []bool{true, true, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler()
			for i, evt := range tt.events {
				assert.Equal(t, tt.want[i], h.ProcessEvent(evt), "event %d", i)
			}
		})
	}
}

func TestHandler_WindowExpires(t *testing.T) {
	h := NewHandler()
	h.debounceDelay = 0

	evt := backend.InputEvent{Action: action.EmulatorReset, Type: event.Press}
	assert.True(t, h.ProcessEvent(evt))
	assert.True(t, h.ProcessEvent(evt))
}

func TestDefaultKeyMap_CoversKeypad(t *testing.T) {
	seen := map[uint8]bool{}
	for _, act := range DefaultKeyMap {
		if key, ok := action.KeypadIndex(act); ok {
			seen[key] = true
		}
	}
	assert.Len(t, seen, 16)
}
