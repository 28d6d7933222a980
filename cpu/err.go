package cpu

import (
	"github.com/akvm/akvm/isa"
	"github.com/akvm/akvm/translate"
)

var f = translate.From

var (
	// Machine faults
	ErrStackOverflow  = isa.NewError(isa.ErrRuntime, "stack overflow")
	ErrStackUnderflow = isa.NewError(isa.ErrRuntime, "stack underflow")
	ErrMemoryBounds   = isa.NewError(isa.ErrRuntime, "memory access out of bounds")
	ErrRegisterBounds = isa.NewError(isa.ErrRuntime, "register not present")
	ErrPcBounds       = isa.NewError(isa.ErrRuntime, "pc outside of code")
	ErrDivideByZero   = isa.NewError(isa.ErrRuntime, "divide by zero")
	ErrStepLimit      = isa.NewError(isa.ErrRuntime, "step limit reached")
	ErrHalted         = isa.NewError(isa.ErrRuntime, "machine halted")
	ErrImageSize      = isa.NewError(isa.ErrRange, "image larger than memory")
)

// ErrAddress reports an out of bounds memory address.
type ErrAddress int

func (err ErrAddress) Error() string {
	return f("address 0x%04x out of bounds", int(err))
}

func (err ErrAddress) Unwrap() error {
	return ErrMemoryBounds
}

// ErrRegister reports a register that the machine does not have.
type ErrRegister int

func (err ErrRegister) Error() string {
	return f("register %d not present", int(err))
}

func (err ErrRegister) Unwrap() error {
	return ErrRegisterBounds
}

// ErrFault is a machine fault at an instruction.
type ErrFault struct {
	Pc          int
	Instruction isa.Instruction
	Err         error
}

func (err *ErrFault) Error() string {
	if len(err.Instruction.Mnemonic) == 0 {
		return f("pc 0x%04x: %v", err.Pc, err.Err)
	}
	return f("pc 0x%04x '%v': %v", err.Pc, err.Instruction, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
