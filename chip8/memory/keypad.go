package memory

// Key is one of the 16 hexadecimal keys of the keypad.
type Key uint8

const (
	Key0 Key = iota
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

	// KeyCount is the number of keys on the keypad.
	KeyCount = 16
)

// Keypad holds the pressed state of the 16 keys.
// It is written by the host and read by the interpreter.
type Keypad struct {
	keys [KeyCount]bool
}

// NewKeypad creates a new Keypad instance with all keys released
func NewKeypad() *Keypad {
	return &Keypad{}
}

// Press marks the key as held down
func (k *Keypad) Press(key Key) {
	k.Set(key, true)
}

// Release marks the key as released
func (k *Keypad) Release(key Key) {
	k.Set(key, false)
}

// Set updates a key state. Only the low nibble of the key is used.
func (k *Keypad) Set(key Key, pressed bool) {
	k.keys[key&0x0F] = pressed
}

// IsPressed reports whether the key is held down. Only the low nibble of the key is used.
func (k *Keypad) IsPressed(key Key) bool {
	return k.keys[key&0x0F]
}

// LastPressed returns the highest-numbered key currently held down.
func (k *Keypad) LastPressed() (Key, bool) {
	for i := KeyCount - 1; i >= 0; i-- {
		if k.keys[i] {
			return Key(i), true
		}
	}
	return 0, false
}

// Reset releases all keys
func (k *Keypad) Reset() {
	k.keys = [KeyCount]bool{}
}
