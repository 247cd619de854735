package cpu

import (
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/memory"
)

// Opcode executes the instruction held in currentOpcode.
type Opcode func(*CPU) error

// Decode fetches the big-endian word at PC into currentOpcode and returns the
// handler for its instruction family (high nibble). PC is not modified.
func Decode(c *CPU) Opcode {
	c.currentOpcode = c.mem.ReadWord(c.pc)
	return opcodes[bit.Nibble(c.currentOpcode, 3)]
}

var opcodes = [16]Opcode{
	opcode0x0, opcode0x1, opcode0x2, opcode0x3, opcode0x4, opcode0x5, opcode0x6, opcode0x7,
	opcode0x8, opcode0x9, opcode0xA, opcode0xB, opcode0xC, opcode0xD, opcode0xE, opcode0xF,
}

// operand helpers, named after the usual mnemonic fields
func (c *CPU) x() uint8    { return bit.Nibble(c.currentOpcode, 2) }
func (c *CPU) y() uint8    { return bit.Nibble(c.currentOpcode, 1) }
func (c *CPU) n() uint8    { return bit.Nibble(c.currentOpcode, 0) }
func (c *CPU) nn() uint8   { return bit.Low(c.currentOpcode) }
func (c *CPU) nnn() uint16 { return bit.Address(c.currentOpcode) }

// unknown skips the instruction and reports it.
func unknown(c *CPU) error {
	err := &UnknownOpcodeError{Opcode: c.currentOpcode, Address: c.pc}
	c.advance()
	return err
}

func opcode0x0(c *CPU) error {
	switch c.currentOpcode {
	case 0x00E0:
		return opcode0x00E0(c)
	case 0x00EE:
		return opcode0x00EE(c)
	}
	// 0NNN (machine code routine) is not supported by any interpreter worth emulating.
	return unknown(c)
}

//CLS
//#0x00E0:
func opcode0x00E0(c *CPU) error {
	c.screen.Clear()
	c.advance()
	return nil
}

//RET
//#0x00EE:
func opcode0x00EE(c *CPU) error {
	if c.sp == 0 {
		return &StackError{Err: ErrStackUnderflow, Address: c.pc}
	}
	c.sp--
	c.pc = c.stack[c.sp]
	c.advance()
	return nil
}

//JP NNN
//#0x1NNN:
func opcode0x1(c *CPU) error {
	c.pc = c.nnn()
	return nil
}

//CALL NNN
//#0x2NNN:
func opcode0x2(c *CPU) error {
	if c.sp >= StackSize {
		return &StackError{Err: ErrStackOverflow, Address: c.pc}
	}
	c.stack[c.sp] = c.pc
	c.sp++
	c.pc = c.nnn()
	return nil
}

//SE VX, NN
//#0x3XNN:
func opcode0x3(c *CPU) error {
	c.skipIf(c.v[c.x()] == c.nn())
	return nil
}

//SNE VX, NN
//#0x4XNN:
func opcode0x4(c *CPU) error {
	c.skipIf(c.v[c.x()] != c.nn())
	return nil
}

//SE VX, VY
//#0x5XY0:
func opcode0x5(c *CPU) error {
	if c.n() != 0 {
		return unknown(c)
	}
	c.skipIf(c.v[c.x()] == c.v[c.y()])
	return nil
}

//LD VX, NN
//#0x6XNN:
func opcode0x6(c *CPU) error {
	c.v[c.x()] = c.nn()
	c.advance()
	return nil
}

//ADD VX, NN
//#0x7XNN:
func opcode0x7(c *CPU) error {
	c.v[c.x()] += c.nn()
	c.advance()
	return nil
}

// opcode0x8 covers the register-register ALU operations, selected by the low nibble.
// Results are computed from the operands as they were before the instruction;
// VX is written first and VF last, so VF as destination ends up holding the flag.
func opcode0x8(c *CPU) error {
	x, y := c.x(), c.y()
	vx, vy := c.v[x], c.v[y]

	switch c.n() {
	case 0x0: // LD VX, VY
		c.v[x] = vy
	case 0x1: // OR VX, VY
		c.v[x] = vx | vy
	case 0x2: // AND VX, VY
		c.v[x] = vx & vy
	case 0x3: // XOR VX, VY
		c.v[x] = vx ^ vy
	case 0x4: // ADD VX, VY
		result, carry := bit.CheckedAdd(vx, vy)
		c.v[x] = result
		c.setFlag(carry)
	case 0x5: // SUB VX, VY
		result, noBorrow := bit.CheckedSub(vx, vy)
		c.v[x] = result
		c.setFlag(noBorrow)
	case 0x6: // SHR VX
		c.v[x] = vx >> 1
		c.v[flagRegister] = bit.GetBitValue(0, vx)
	case 0x7: // SUBN VX, VY
		result, noBorrow := bit.CheckedSub(vy, vx)
		c.v[x] = result
		c.setFlag(noBorrow)
	case 0xE: // SHL VX
		c.v[x] = vx << 1
		c.v[flagRegister] = bit.GetBitValue(7, vx)
	default:
		return unknown(c)
	}

	c.advance()
	return nil
}

//SNE VX, VY
//#0x9XY0:
func opcode0x9(c *CPU) error {
	if c.n() != 0 {
		return unknown(c)
	}
	c.skipIf(c.v[c.x()] != c.v[c.y()])
	return nil
}

//LD I, NNN
//#0xANNN:
func opcode0xA(c *CPU) error {
	c.i = c.nnn()
	c.advance()
	return nil
}

//JP V0, NNN
//#0xBNNN:
func opcode0xB(c *CPU) error {
	c.pc = c.nnn() + uint16(c.v[0])
	return nil
}

//RND VX, NN
//#0xCXNN:
func opcode0xC(c *CPU) error {
	c.v[c.x()] = uint8(c.rng.Uint32()) & c.nn()
	c.advance()
	return nil
}

//DRW VX, VY, N
//#0xDXYN:
func opcode0xD(c *CPU) error {
	var rows [0x10]byte
	height := int(c.n())
	for row := 0; row < height; row++ {
		rows[row] = c.mem.Read(c.i + uint16(row))
	}

	collision := c.screen.DrawSprite(c.v[c.x()], c.v[c.y()], rows[:height])
	c.setFlag(collision)
	c.advance()
	return nil
}

func opcode0xE(c *CPU) error {
	key := memory.Key(c.v[c.x()])

	switch c.nn() {
	case 0x9E: // SKP VX
		c.skipIf(c.keypad.IsPressed(key))
	case 0xA1: // SKNP VX
		c.skipIf(!c.keypad.IsPressed(key))
	default:
		return unknown(c)
	}
	return nil
}

func opcode0xF(c *CPU) error {
	x := c.x()

	switch c.nn() {
	case 0x07: // LD VX, DT
		c.v[x] = c.delayTimer
	case 0x0A: // LD VX, K
		key, ok := c.keypad.LastPressed()
		if !ok {
			// no key yet: leave PC on this instruction so the next Step polls again
			return nil
		}
		c.v[x] = uint8(key)
	case 0x15: // LD DT, VX
		c.delayTimer = c.v[x]
	case 0x18: // LD ST, VX
		c.soundTimer = c.v[x]
	case 0x1E: // ADD I, VX
		sum := c.i + uint16(c.v[x])
		c.i = sum
		c.setFlag(sum > memory.AddressMask)
	case 0x29: // LD F, VX
		c.i = uint16(c.v[x]) * memory.GlyphSize
	case 0x33: // LD B, VX
		vx := c.v[x]
		c.mem.Write(c.i, vx/100)
		c.mem.Write(c.i+1, (vx/10)%10)
		c.mem.Write(c.i+2, vx%10)
	case 0x55: // LD [I], VX
		for r := uint16(0); r <= uint16(x); r++ {
			c.mem.Write(c.i+r, c.v[r])
		}
		c.i += uint16(x) + 1
	case 0x65: // LD VX, [I]
		for r := uint16(0); r <= uint16(x); r++ {
			c.v[r] = c.mem.Read(c.i + r)
		}
		c.i += uint16(x) + 1
	default:
		return unknown(c)
	}

	c.advance()
	return nil
}
