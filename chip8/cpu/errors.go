package cpu

import (
	"errors"
	"fmt"

	"github.com/valerio/go-chip8/chip8/memory"
)

var (
	// ErrROMTooLarge is returned by Load when the program does not fit in memory.
	ErrROMTooLarge = memory.ErrROMTooLarge

	// ErrUnknownOpcode matches every *UnknownOpcodeError. Not fatal.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrStackOverflow is returned when a call is made with all 16 stack slots in use. Fatal.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrStackUnderflow is returned on a return with an empty stack. Fatal.
	ErrStackUnderflow = errors.New("stack underflow")
)

// UnknownOpcodeError reports an instruction word that does not decode to any operation.
type UnknownOpcodeError struct {
	Opcode  uint16
	Address uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%04X at 0x%03X", e.Opcode, e.Address)
}

func (e *UnknownOpcodeError) Is(target error) bool {
	return target == ErrUnknownOpcode
}

// IsFatal reports whether err leaves the interpreter unable to continue.
func IsFatal(err error) bool {
	return errors.Is(err, ErrStackOverflow) || errors.Is(err, ErrStackUnderflow)
}

// StackError wraps ErrStackOverflow or ErrStackUnderflow with the address of
// the offending instruction.
type StackError struct {
	Err     error
	Address uint16
}

func (e *StackError) Error() string {
	return fmt.Sprintf("%v at 0x%03X", e.Err, e.Address)
}

func (e *StackError) Unwrap() error {
	return e.Err
}
