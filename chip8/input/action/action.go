package action

import "fmt"

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// Hex keypad, in key order so that Key0+n is key n
	Key0 Action = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF

	// Emulator features
	EmulatorPauseToggle
	EmulatorReset
	EmulatorSnapshot
	EmulatorTestPatternCycle
	EmulatorQuit

	// Debug
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions by who consumes them.
type Category int

const (
	CategoryGameInput Category = iota
	CategoryEmulator
	CategoryDebug
)

// Info describes an action for help screens and logs.
type Info struct {
	Description string
	Category    Category
}

var infos = map[Action]Info{
	EmulatorPauseToggle:      {"Pause/resume", CategoryEmulator},
	EmulatorReset:            {"Reset and reload ROM", CategoryEmulator},
	EmulatorSnapshot:         {"Save framebuffer snapshot", CategoryEmulator},
	EmulatorTestPatternCycle: {"Cycle test pattern", CategoryEmulator},
	EmulatorQuit:             {"Quit", CategoryEmulator},
	DebugLogLevelIncrease:    {"More verbose logging", CategoryDebug},
	DebugLogLevelDecrease:    {"Less verbose logging", CategoryDebug},
}

// GetInfo returns the description and category of an action.
func GetInfo(act Action) Info {
	if key, ok := KeypadIndex(act); ok {
		return Info{Description: fmt.Sprintf("Keypad %X", key), Category: CategoryGameInput}
	}
	if info, ok := infos[act]; ok {
		return info
	}
	return Info{Description: "Unknown", Category: CategoryEmulator}
}

// KeypadIndex returns the hex keypad index for a keypad action.
func KeypadIndex(act Action) (uint8, bool) {
	if act < Key0 || act > KeyF {
		return 0, false
	}
	return uint8(act - Key0), true
}

// ForKey returns the keypad action for key index n (0x0-0xF).
func ForKey(n uint8) Action {
	return Key0 + Action(n&0x0F)
}

func (a Action) String() string {
	return GetInfo(a).Description
}
