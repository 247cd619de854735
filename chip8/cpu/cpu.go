package cpu

import (
	"math/rand/v2"

	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	// StackSize is the number of nested calls the stack can hold.
	StackSize = 16
	// RegisterCount is the number of general purpose registers, V0 to VF.
	RegisterCount = 16

	flagRegister = 0xF
)

// CPU holds the whole interpreter state: registers, memory, stack, timers,
// framebuffer and keypad. All of it is allocated once and reset in place.
type CPU struct {
	// registers
	v  [RegisterCount]uint8
	i  uint16
	pc uint16

	stack [StackSize]uint16
	sp    uint8

	delayTimer uint8
	soundTimer uint8

	// metadata
	currentOpcode uint16
	cycles        uint64
	beep          bool
	halted        bool
	lastErr       error

	mem    *memory.Memory
	keypad *memory.Keypad
	screen *video.FrameBuffer
	rng    *rand.Rand
}

// Option configures a CPU at construction time.
type Option func(*CPU)

// WithRand sets the random source used by CXNN.
func WithRand(src rand.Source) Option {
	return func(c *CPU) {
		c.rng = rand.New(src)
	}
}

// New returns a CPU in its reset state, ready for Load.
func New(opts ...Option) *CPU {
	c := &CPU{
		mem:    memory.New(),
		keypad: memory.NewKeypad(),
		screen: video.NewFrameBuffer(),
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	c.Reset()
	return c
}

// Reset re-initializes every piece of state: memory (with font), registers,
// stack, timers, framebuffer and keypad. The framebuffer is marked dirty.
func (c *CPU) Reset() {
	c.mem.Reset()
	c.keypad.Reset()
	c.screen.Clear()

	c.v = [RegisterCount]uint8{}
	c.i = 0
	c.pc = memory.ProgramStart
	c.stack = [StackSize]uint16{}
	c.sp = 0
	c.delayTimer = 0
	c.soundTimer = 0

	c.currentOpcode = 0
	c.cycles = 0
	c.beep = false
	c.halted = false
	c.lastErr = nil
}

// Load copies the program into memory at 0x200.
// On ErrROMTooLarge nothing is written.
func (c *CPU) Load(rom []byte) error {
	return c.mem.LoadProgram(rom)
}

// Step executes a single instruction.
//
// An *UnknownOpcodeError is returned for words that don't decode, the
// instruction is skipped and execution can continue. ErrStackOverflow and
// ErrStackUnderflow halt the CPU: the failing instruction has no effect and
// every following Step returns the same error until Reset.
func (c *CPU) Step() error {
	if c.halted {
		return c.lastErr
	}

	instruction := Decode(c)
	err := instruction(c)
	c.cycles++

	if err != nil {
		c.lastErr = err
		if IsFatal(err) {
			c.halted = true
		}
	}

	return err
}

// TickTimers decrements the delay and sound timers, stopping at zero.
// Meant to be called at 60Hz independently of Step.
// Returns true when the sound timer was exactly 1, meaning a beep should play.
func (c *CPU) TickTimers() bool {
	c.beep = c.soundTimer == 1

	if c.delayTimer > 0 {
		c.delayTimer--
	}
	if c.soundTimer > 0 {
		c.soundTimer--
	}

	return c.beep
}

// advance moves the PC to the next instruction.
func (c *CPU) advance() {
	c.pc += 2
}

// skipIf advances past the next instruction when cond holds, otherwise to it.
func (c *CPU) skipIf(cond bool) {
	if cond {
		c.pc += 4
		return
	}
	c.pc += 2
}

func (c *CPU) setFlag(value bool) {
	if value {
		c.v[flagRegister] = 1
	} else {
		c.v[flagRegister] = 0
	}
}

// Framebuffer returns the display. Renderers must only read from it.
func (c *CPU) Framebuffer() *video.FrameBuffer { return c.screen }

// IsDirty reports whether the display changed since the last ClearDirty.
func (c *CPU) IsDirty() bool { return c.screen.IsDirty() }

// ClearDirty is called by the host once the display has been rendered.
func (c *CPU) ClearDirty() { c.screen.ClearDirty() }

// SetKey updates the state of key index (0-F).
func (c *CPU) SetKey(index uint8, pressed bool) {
	c.keypad.Set(memory.Key(index), pressed)
}

// Keypad exposes the keypad for input managers.
func (c *CPU) Keypad() *memory.Keypad { return c.keypad }

// ShouldBeep returns the result of the last TickTimers call.
func (c *CPU) ShouldBeep() bool { return c.beep }

// LastError returns the most recent error produced by Step, or nil.
func (c *CPU) LastError() error { return c.lastErr }

// Halted reports whether a fatal error stopped execution.
func (c *CPU) Halted() bool { return c.halted }

// Getters for host and test inspection
func (c *CPU) PC() uint16            { return c.pc }
func (c *CPU) I() uint16             { return c.i }
func (c *CPU) SP() uint8             { return c.sp }
func (c *CPU) V(x uint8) uint8       { return c.v[x&0x0F] }
func (c *CPU) DelayTimer() uint8     { return c.delayTimer }
func (c *CPU) SoundTimer() uint8     { return c.soundTimer }
func (c *CPU) Cycles() uint64        { return c.cycles }
func (c *CPU) CurrentOpcode() uint16 { return c.currentOpcode }

// ReadMemory returns the byte at address a.
func (c *CPU) ReadMemory(a uint16) byte { return c.mem.Read(a) }
