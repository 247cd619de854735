package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// CheckedAdd adds two 8 bit unsigned values and detects if an overflow happened.
func CheckedAdd(a, b uint8) (result uint8, overflow bool) {
	sum := uint16(a) + uint16(b)
	return uint8(sum), sum > 0xFF
}

// CheckedSub subtracts b from a and reports whether the subtraction did NOT borrow,
// i.e. whether a >= b.
func CheckedSub(a, b uint8) (result uint8, noBorrow bool) {
	return a - b, a >= b
}

// IsSet will check if the bit at the specified index is Set to 1 or not.
func IsSet(index, byte uint8) bool {
	return ((byte >> index) & 1) == 1
}

// GetBitValue returns a byte set to the value of the bit at the specified index.
func GetBitValue(index, byte uint8) uint8 {
	if IsSet(index, byte) {
		return 1
	}

	return 0
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// Nibble returns the 4 bit group at the given index of a 16 bit word,
// index 0 being the least significant one.
func Nibble(value uint16, index uint8) uint8 {
	return uint8(value>>(index*4)) & 0x0F
}

// Address returns the low 12 bits of a word (NNN in opcode mnemonics).
func Address(value uint16) uint16 {
	return value & 0x0FFF
}

// BoolToByte returns 1 for true and 0 for false.
func BoolToByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
