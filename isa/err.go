package isa

import (
	"errors"

	"github.com/akvm/akvm/translate"
)

var f = translate.From

// Error classes. Every error produced by the toolchain unwraps to one of these.
var (
	ErrSyntax  = errors.New(f("syntax error"))
	ErrSymbol  = errors.New(f("symbol error"))
	ErrRange   = errors.New(f("range error"))
	ErrRuntime = errors.New(f("runtime fault"))
)

// ClassError is a sentinel error that belongs to an error class.
type ClassError struct {
	Class error
	Text  string
}

// NewError creates a sentinel error in the given class.
func NewError(class error, text string) *ClassError {
	return &ClassError{Class: class, Text: f(text)}
}

func (err *ClassError) Error() string {
	return err.Text
}

func (err *ClassError) Unwrap() error {
	return err.Class
}

var (
	ErrUnknownInstruction = NewError(ErrSyntax, "unknown instruction")
	ErrUnknownOpcode      = NewError(ErrSyntax, "unknown opcode")
	ErrOperandArity       = NewError(ErrSyntax, "wrong operand count")
	ErrTruncated          = NewError(ErrSyntax, "truncated instruction")
	ErrRegisterRange      = NewError(ErrRange, "register out of range")
	ErrImmediateRange     = NewError(ErrRange, "immediate out of range")
)

// ErrArity reports an operand count mismatch for a mnemonic.
type ErrArity struct {
	Mnemonic string
	Want     int
	Have     int
}

func (err ErrArity) Error() string {
	return f("%v takes %d operands, have %d", err.Mnemonic, err.Want, err.Have)
}

func (err ErrArity) Unwrap() error {
	return ErrOperandArity
}

// ErrRegister reports an out of range register index.
type ErrRegister int

func (err ErrRegister) Error() string {
	return f("register %d out of range", int(err))
}

func (err ErrRegister) Unwrap() error {
	return ErrRegisterRange
}

// ErrImmediate reports an immediate that does not fit in 16 bits.
type ErrImmediate int

func (err ErrImmediate) Error() string {
	return f("immediate %d does not fit in 16 bits", int(err))
}

func (err ErrImmediate) Unwrap() error {
	return ErrImmediateRange
}

// ErrOpcode reports an undefined opcode byte.
type ErrOpcode byte

func (err ErrOpcode) Error() string {
	return f("unknown opcode 0x%02x", byte(err))
}

func (err ErrOpcode) Unwrap() error {
	return ErrUnknownOpcode
}

// ErrMnemonic reports an undefined mnemonic.
type ErrMnemonic string

func (err ErrMnemonic) Error() string {
	return f("unknown instruction '%v'", string(err))
}

func (err ErrMnemonic) Unwrap() error {
	return ErrUnknownInstruction
}
