package chip8

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/input/action"
)

// assemble encodes opcodes big-endian, as stored in a ROM.
func assemble(words ...uint16) []byte {
	rom := make([]byte, 0, len(words)*2)
	for _, w := range words {
		rom = append(rom, byte(w>>8), byte(w))
	}
	return rom
}

func newMachine(t *testing.T, opts []Option, words ...uint16) *Machine {
	t.Helper()
	opts = append(opts, WithCPUOptions(cpu.WithRand(rand.NewPCG(7, 7))))
	m, err := NewWithROM(assemble(words...), opts...)
	require.NoError(t, err)
	return m
}

func TestMachine_RunUntilFrame(t *testing.T) {
	m := newMachine(t, nil,
		0x6005, // V0 = 5
		0x6103, // V1 = 3
		0x8014, // V0 += V1
		0x00E0, // CLS
		0x1208, // JP 0x208
	)

	require.NoError(t, m.RunUntilFrame())

	c := m.CPU()
	assert.Equal(t, uint8(8), c.V(0))
	assert.Equal(t, uint8(0), c.V(0xF))
	assert.Equal(t, uint16(0x208), c.PC())
	assert.Equal(t, uint64(1), m.GetFrameCount())
	assert.Equal(t, uint64(DefaultInstructionsPerFrame), m.GetInstructionCount())
}

func TestMachine_InstructionsPerFrame(t *testing.T) {
	m := newMachine(t, []Option{WithInstructionsPerFrame(3)}, 0x7001, 0x1200)

	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint8(2), m.CPU().V(0), "ADD, JP, ADD")
	assert.Equal(t, uint64(3), m.GetInstructionCount())

	ignored := New(WithInstructionsPerFrame(0))
	assert.Equal(t, DefaultInstructionsPerFrame, ignored.instructionsPerFrame)
}

func TestMachine_TimersTickOncePerFrame(t *testing.T) {
	m := newMachine(t, []Option{WithInstructionsPerFrame(1)},
		0x6002, // V0 = 2
		0xF018, // ST = V0
		0xF015, // DT = V0
		0x1206, // JP 0x206
	)

	// frame 1: V0 = 2, frame 2: ST = 2 then tick to 1
	require.NoError(t, m.RunUntilFrame())
	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint8(1), m.CPU().SoundTimer())
	assert.False(t, m.ShouldBeep())

	// frame 3: DT = 2 then tick, ST was 1 so the buzzer sounds
	require.NoError(t, m.RunUntilFrame())
	assert.True(t, m.ShouldBeep())
	assert.Equal(t, uint8(0), m.CPU().SoundTimer())
	assert.Equal(t, uint8(1), m.CPU().DelayTimer())

	require.NoError(t, m.RunUntilFrame())
	assert.False(t, m.ShouldBeep())
}

func TestMachine_UnknownOpcodeIsSkipped(t *testing.T) {
	m := newMachine(t, []Option{WithInstructionsPerFrame(4)},
		0x5121, // unknown
		0x5121, // unknown, reported once
		0x6A07,
		0x1206,
	)

	require.NoError(t, m.RunUntilFrame())

	assert.Equal(t, uint8(7), m.CPU().V(0xA))
	assert.Len(t, m.reportedOpcodes, 1)
	assert.Equal(t, uint64(4), m.GetInstructionCount())
}

func TestMachine_StackFaultHalts(t *testing.T) {
	m := newMachine(t, nil, 0x00EE)

	err := m.RunUntilFrame()
	assert.ErrorIs(t, err, cpu.ErrStackUnderflow)
	assert.True(t, cpu.IsFatal(err))
	assert.Equal(t, uint64(0), m.GetFrameCount())

	// stays halted
	assert.ErrorIs(t, m.RunUntilFrame(), cpu.ErrStackUnderflow)

	require.NoError(t, m.Restart())
	assert.False(t, m.CPU().Halted())
	assert.Equal(t, uint16(0x200), m.CPU().PC())
}

func TestMachine_ROMTooLarge(t *testing.T) {
	_, err := NewWithROM(make([]byte, 3585))
	assert.ErrorIs(t, err, cpu.ErrROMTooLarge)
}

func TestMachine_HandleActionKeypad(t *testing.T) {
	m := newMachine(t, []Option{WithInstructionsPerFrame(1)}, 0xF50A, 0x1202)

	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint16(0x200), m.CPU().PC(), "waiting for a key")

	m.HandleAction(action.KeyB, true)
	assert.True(t, m.CPU().Keypad().IsPressed(0xB))

	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint8(0xB), m.CPU().V(5))
	assert.Equal(t, uint16(0x202), m.CPU().PC())

	m.HandleAction(action.KeyB, false)
	assert.False(t, m.CPU().Keypad().IsPressed(0xB))
}

func TestMachine_HandleActionReset(t *testing.T) {
	m := newMachine(t, nil, 0x7001, 0x1200)

	require.NoError(t, m.RunUntilFrame())
	require.NotZero(t, m.CPU().V(0))

	m.HandleAction(action.EmulatorReset, true)

	assert.Equal(t, uint8(0), m.CPU().V(0))
	assert.Equal(t, uint16(0x200), m.CPU().PC())
	assert.Equal(t, uint64(0), m.GetFrameCount())
	assert.Equal(t, byte(0x70), m.CPU().ReadMemory(0x200), "ROM is reloaded")
}

func TestMachine_ResetKeepsROMOutOfMemory(t *testing.T) {
	m := newMachine(t, nil, 0x7001, 0x1200)

	m.Reset()
	assert.Equal(t, byte(0), m.CPU().ReadMemory(0x200))

	require.NoError(t, m.Restart())
	assert.Equal(t, byte(0x70), m.CPU().ReadMemory(0x200))
}

func TestMachine_RestartWithoutROM(t *testing.T) {
	m := New()
	assert.NoError(t, m.Restart())
	assert.Equal(t, uint16(0x200), m.CPU().PC())
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "add.ch8")
	require.NoError(t, os.WriteFile(path, assemble(0x6042, 0x1202), 0644))

	m, err := NewWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "add.ch8", m.ROMName())

	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint8(0x42), m.CPU().V(0))
}

func TestNewWithFile_Errors(t *testing.T) {
	_, err := NewWithFile(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "big.ch8")
	require.NoError(t, os.WriteFile(path, make([]byte, 4000), 0644))
	_, err = NewWithFile(path)
	assert.ErrorIs(t, err, cpu.ErrROMTooLarge)
}
