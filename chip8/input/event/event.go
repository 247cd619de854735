package event

// Type represents the type of input event
type Type int

const (
	Press   Type = iota // Key went down (debounced for UI actions)
	Release             // Key went up (debounced for UI actions)
	Hold                // Repeated while the key stays down, never debounced
)

func (t Type) String() string {
	switch t {
	case Press:
		return "press"
	case Release:
		return "release"
	case Hold:
		return "hold"
	default:
		return "unknown"
	}
}
