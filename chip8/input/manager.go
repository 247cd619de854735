package input

import (
	"time"

	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/memory"
)

const (
	// debounceDuration is the minimum time between debounced events
	debounceDuration = 300 * time.Millisecond
)

// Manager routes actions either to the hex keypad or to registered callbacks.
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]map[event.Type]time.Time
	keypad        *memory.Keypad
	now           func() time.Time
}

func NewManager(k *memory.Keypad) *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]map[event.Type]time.Time),
		keypad:        k,
		now:           time.Now,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
// Keypad actions update the keypad immediately. Everything else is debounced
// on Press/Release and then dispatched to callbacks.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if key, ok := action.KeypadIndex(act); ok && m.keypad != nil {
		switch evt {
		case event.Press, event.Hold:
			m.keypad.Press(memory.Key(key))
		case event.Release:
			m.keypad.Release(memory.Key(key))
		}
		return
	}

	if evt == event.Press || evt == event.Release {
		if m.lastTriggered[act] == nil {
			m.lastTriggered[act] = make(map[event.Type]time.Time)
		}
		now := m.now()
		if last, ok := m.lastTriggered[act][evt]; ok && now.Sub(last) < debounceDuration {
			return
		}
		m.lastTriggered[act][evt] = now
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}
