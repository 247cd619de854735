package chip8

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/romloader"
	"github.com/valerio/go-chip8/chip8/video"
)

// DefaultInstructionsPerFrame gives 600 instructions per second at 60 frames per second.
const DefaultInstructionsPerFrame = 10

// Machine runs a CHIP-8 program frame by frame: a fixed number of
// instructions followed by one timer tick.
type Machine struct {
	cpu   *cpu.CPU
	input *input.Manager

	rom     []byte
	romName string

	instructionsPerFrame int
	cpuOptions           []cpu.Option

	frameCount       uint64
	instructionCount uint64
	reportedOpcodes  map[uint16]struct{}
	haltReported     bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithInstructionsPerFrame sets how many instructions run per 60Hz frame.
// Values below 1 are ignored.
func WithInstructionsPerFrame(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.instructionsPerFrame = n
		}
	}
}

// WithCPUOptions passes options through to the interpreter, e.g. cpu.WithRand.
func WithCPUOptions(opts ...cpu.Option) Option {
	return func(m *Machine) {
		m.cpuOptions = append(m.cpuOptions, opts...)
	}
}

// New creates a machine with nothing loaded.
func New(opts ...Option) *Machine {
	m := &Machine{
		instructionsPerFrame: DefaultInstructionsPerFrame,
		reportedOpcodes:      make(map[uint16]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.cpu = cpu.New(m.cpuOptions...)
	m.input = input.NewManager(m.cpu.Keypad())
	m.input.On(action.EmulatorReset, event.Press, func() {
		if err := m.Restart(); err != nil {
			slog.Error("Failed to restart", "error", err)
		}
	})

	return m
}

// NewWithROM creates a machine with data loaded at 0x200.
func NewWithROM(data []byte, opts ...Option) (*Machine, error) {
	m := New(opts...)
	if err := m.LoadROM(data); err != nil {
		return nil, err
	}
	return m, nil
}

// NewWithFile creates a machine and loads the program at path, which may be
// a plain file or an archive containing one.
func NewWithFile(path string, opts ...Option) (*Machine, error) {
	data, name, err := romloader.LoadROM(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	m, err := NewWithROM(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	m.romName = name

	slog.Info("Loaded ROM", "name", name, "size", len(data))
	return m, nil
}

// LoadROM resets the machine and loads data. On error the machine is left
// reset with nothing loaded.
func (m *Machine) LoadROM(data []byte) error {
	m.Reset()
	if err := m.cpu.Load(data); err != nil {
		m.rom = nil
		return err
	}
	m.rom = append([]byte(nil), data...)
	return nil
}

// Reset clears all interpreter state and counters. The loaded ROM is kept
// but not copied back into memory, see Restart.
func (m *Machine) Reset() {
	m.cpu.Reset()
	m.frameCount = 0
	m.instructionCount = 0
	m.haltReported = false
	clear(m.reportedOpcodes)
}

// Restart resets the machine and reloads the last loaded ROM.
func (m *Machine) Restart() error {
	if m.rom == nil {
		m.Reset()
		return nil
	}
	slog.Info("Restarting", "rom", m.romName)
	return m.LoadROM(m.rom)
}

// RunUntilFrame executes one frame worth of instructions and ticks the
// timers once. Unknown opcodes are logged and skipped. A stack fault halts
// the interpreter and is returned, now and on every later call until Reset.
func (m *Machine) RunUntilFrame() error {
	for i := 0; i < m.instructionsPerFrame; i++ {
		err := m.cpu.Step()
		if err == nil {
			m.instructionCount++
			continue
		}
		if cpu.IsFatal(err) {
			if !m.haltReported {
				m.haltReported = true
				slog.Error("Interpreter halted", "error", err, "frame", m.frameCount)
			}
			return err
		}
		m.instructionCount++
		m.reportUnknown(err)
	}

	m.cpu.TickTimers()
	m.frameCount++
	return nil
}

// reportUnknown logs each distinct unknown opcode once.
func (m *Machine) reportUnknown(err error) {
	var unknown *cpu.UnknownOpcodeError
	if !errors.As(err, &unknown) {
		slog.Warn("Instruction failed", "error", err)
		return
	}
	if _, seen := m.reportedOpcodes[unknown.Opcode]; seen {
		return
	}
	m.reportedOpcodes[unknown.Opcode] = struct{}{}
	slog.Warn("Skipping unknown opcode", "opcode", fmt.Sprintf("0x%04X", unknown.Opcode), "address", fmt.Sprintf("0x%03X", unknown.Address))
}

// HandleAction routes keypad actions to the keypad and EmulatorReset to Restart.
func (m *Machine) HandleAction(act action.Action, pressed bool) {
	evt := event.Release
	if pressed {
		evt = event.Press
	}
	m.input.Trigger(act, evt)
}

func (m *Machine) GetCurrentFrame() *video.FrameBuffer { return m.cpu.Framebuffer() }
func (m *Machine) ShouldBeep() bool                    { return m.cpu.ShouldBeep() }
func (m *Machine) CPU() *cpu.CPU                       { return m.cpu }
func (m *Machine) GetFrameCount() uint64               { return m.frameCount }
func (m *Machine) GetInstructionCount() uint64         { return m.instructionCount }
func (m *Machine) ROMName() string                     { return m.romName }
