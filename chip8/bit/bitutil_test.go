package bit

import (
	"testing"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		high, low uint8
		expected  uint16
	}{
		{0xAB, 0xCD, 0xABCD},
		{0x00, 0x00, 0x0000},
		{0xFF, 0xFF, 0xFFFF},
		{0x12, 0x34, 0x1234},
	}

	for _, tt := range tests {
		result := Combine(tt.high, tt.low)
		if result != tt.expected {
			t.Errorf("Combine(%X, %X) = %X; want %X", tt.high, tt.low, result, tt.expected)
		}
	}
}

func TestCheckedAdd(t *testing.T) {
	tests := []struct {
		a, b             uint8
		expectedResult   uint8
		expectedOverflow bool
	}{
		{0b11111111, 0b00000001, 0, true},
		{0b11111111, 0b11111111, 254, true},
		{0b00000001, 0b00000001, 2, false},
		{0b10000000, 0b01111111, 255, false},
	}

	for _, tt := range tests {
		result, overflow := CheckedAdd(tt.a, tt.b)
		if result != tt.expectedResult || overflow != tt.expectedOverflow {
			t.Errorf("CheckedAdd(%d, %d) = (%d, %v); want (%d, %v)", tt.a, tt.b, result, overflow, tt.expectedResult, tt.expectedOverflow)
		}
	}
}

func TestCheckedSub(t *testing.T) {
	tests := []struct {
		a, b             uint8
		expectedResult   uint8
		expectedNoBorrow bool
	}{
		{0b00000000, 0b00000001, 255, false},
		{0b00000001, 0b00000001, 0, true},
		{0b10000000, 0b00000000, 128, true},
		{0x05, 0x0A, 0xFB, false},
	}

	for _, tt := range tests {
		result, noBorrow := CheckedSub(tt.a, tt.b)
		if result != tt.expectedResult || noBorrow != tt.expectedNoBorrow {
			t.Errorf("CheckedSub(%d, %d) = (%d, %v); want (%d, %v)", tt.a, tt.b, result, noBorrow, tt.expectedResult, tt.expectedNoBorrow)
		}
	}
}

func TestNibble(t *testing.T) {
	word := uint16(0xD123)
	expected := []uint8{0x3, 0x2, 0x1, 0xD}

	for i, want := range expected {
		if got := Nibble(word, uint8(i)); got != want {
			t.Errorf("Nibble(%X, %d) = %X; want %X", word, i, got, want)
		}
	}
}

func TestAddress(t *testing.T) {
	if got := Address(0x2ABC); got != 0x0ABC {
		t.Errorf("Address(0x2ABC) = %X; want ABC", got)
	}
}

func TestHighLow(t *testing.T) {
	if High(0x1234) != 0x12 || Low(0x1234) != 0x34 {
		t.Errorf("High/Low(0x1234) = %X/%X; want 12/34", High(0x1234), Low(0x1234))
	}
}

func TestGetBitValue(t *testing.T) {
	if GetBitValue(7, 0x80) != 1 || GetBitValue(0, 0x80) != 0 {
		t.Error("GetBitValue did not extract bits of 0x80 correctly")
	}
	if BoolToByte(true) != 1 || BoolToByte(false) != 0 {
		t.Error("BoolToByte mismatch")
	}
}
