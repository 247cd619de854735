package memory

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/bit"
)

const (
	// Size is the whole addressable space, 4KB.
	Size = 0x1000
	// AddressMask keeps addresses inside the 12 bit address space.
	AddressMask = Size - 1
	// ProgramStart is where programs are loaded and where execution begins.
	ProgramStart = 0x200
	// MaxProgramSize is the largest program that fits in [ProgramStart, Size).
	MaxProgramSize = Size - ProgramStart

	// FontStart is the address of the first glyph of the built-in font.
	FontStart = 0x000
	// GlyphSize is the number of bytes (rows) of a single font glyph.
	GlyphSize = 5
)

// ErrROMTooLarge is returned when a program does not fit in program memory.
var ErrROMTooLarge = errors.New("rom too large")

// Font holds the 16 hexadecimal glyphs (0-F), 4x5 pixels each.
var Font = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the 4KB address space of the machine.
// The area below ProgramStart is read-only once the font has been loaded.
type Memory struct {
	data [Size]byte
}

// New returns memory initialized with the font and nothing else.
func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset zeroes the whole address space and writes the font glyph table.
func (m *Memory) Reset() {
	m.data = [Size]byte{}
	copy(m.data[FontStart:], Font[:])
}

// Read returns the byte at the given address, wrapped to 12 bits.
func (m *Memory) Read(address uint16) byte {
	return m.data[address&AddressMask]
}

// ReadWord returns the big-endian word at address and address+1.
func (m *Memory) ReadWord(address uint16) uint16 {
	return bit.Combine(m.Read(address), m.Read(address+1))
}

// Write stores a byte at the given address, wrapped to 12 bits.
// Writes into the interpreter area (below ProgramStart) are dropped.
func (m *Memory) Write(address uint16, value byte) {
	address &= AddressMask
	if address < ProgramStart {
		slog.Debug("Dropped write to reserved memory", "address", fmt.Sprintf("0x%03X", address), "value", value)
		return
	}
	m.data[address] = value
}

// LoadProgram copies the program into memory starting at ProgramStart.
// Memory is left untouched if the program does not fit.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrROMTooLarge, len(program), MaxProgramSize)
	}
	copy(m.data[ProgramStart:], program)
	return nil
}

// GlyphAddress returns the address of the font glyph for the low nibble of digit.
func GlyphAddress(digit uint8) uint16 {
	return FontStart + uint16(digit&0x0F)*GlyphSize
}

// Bytes returns a copy of the whole address space.
func (m *Memory) Bytes() [Size]byte {
	return m.data
}
