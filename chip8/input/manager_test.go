package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/memory"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestManager() (*Manager, *memory.Keypad, *fakeClock) {
	keypad := memory.NewKeypad()
	clock := &fakeClock{t: time.Unix(1000, 0)}
	m := NewManager(keypad)
	m.now = clock.now
	return m, keypad, clock
}

func TestManager_KeypadRouting(t *testing.T) {
	tests := []struct {
		name        string
		events      []event.Type
		wantPressed bool
	}{
		{"press", []event.Type{event.Press}, true},
		{"hold keeps key down", []event.Type{event.Press, event.Hold}, true},
		{"hold alone presses", []event.Type{event.Hold}, true},
		{"release", []event.Type{event.Press, event.Release}, false},
		{"repeated press is not debounced", []event.Type{event.Press, event.Release, event.Press}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, keypad, _ := newTestManager()
			for _, evt := range tt.events {
				m.Trigger(action.KeyA, evt)
			}
			assert.Equal(t, tt.wantPressed, keypad.IsPressed(0xA))
		})
	}
}

func TestManager_CallbacksAreDebounced(t *testing.T) {
	m, _, clock := newTestManager()
	calls := 0
	m.On(action.EmulatorReset, event.Press, func() { calls++ })

	m.Trigger(action.EmulatorReset, event.Press)
	m.Trigger(action.EmulatorReset, event.Press)
	assert.Equal(t, 1, calls)

	clock.advance(debounceDuration)
	m.Trigger(action.EmulatorReset, event.Press)
	assert.Equal(t, 2, calls)

	// no callback registered for release
	m.Trigger(action.EmulatorReset, event.Release)
	assert.Equal(t, 2, calls)
}

func TestManager_HoldIsNotDebounced(t *testing.T) {
	m, _, _ := newTestManager()
	calls := 0
	m.On(action.EmulatorPauseToggle, event.Hold, func() { calls++ })

	for i := 0; i < 3; i++ {
		m.Trigger(action.EmulatorPauseToggle, event.Hold)
	}
	assert.Equal(t, 3, calls)
}

func TestManager_MultipleCallbacks(t *testing.T) {
	m, _, _ := newTestManager()
	var order []int
	m.On(action.EmulatorSnapshot, event.Press, func() { order = append(order, 1) })
	m.On(action.EmulatorSnapshot, event.Press, func() { order = append(order, 2) })

	m.Trigger(action.EmulatorSnapshot, event.Press)
	assert.Equal(t, []int{1, 2}, order)
}

func TestManager_NilKeypadFallsThroughToCallbacks(t *testing.T) {
	m := NewManager(nil)
	called := false
	m.On(action.Key1, event.Press, func() { called = true })

	m.Trigger(action.Key1, event.Press)
	assert.True(t, called)
}
