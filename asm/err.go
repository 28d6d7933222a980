package asm

import (
	"github.com/akvm/akvm/isa"
	"github.com/akvm/akvm/translate"
)

var f = translate.From

var (
	// Syntax errors
	ErrUnknownDirective = isa.NewError(isa.ErrSyntax, "unknown directive")
	ErrInvalidOperand   = isa.NewError(isa.ErrSyntax, "invalid operand")
	ErrLabelSyntax      = isa.NewError(isa.ErrSyntax, "label syntax")
	ErrMacroSyntax      = isa.NewError(isa.ErrSyntax, ".DEF syntax")
	ErrStringSyntax     = isa.NewError(isa.ErrSyntax, ".STR syntax")
	ErrDirectiveEmpty   = isa.NewError(isa.ErrSyntax, "directive without operands")
	ErrSizeMismatch     = isa.NewError(isa.ErrSyntax, "size changed by macro expansion")
	ErrExpression       = isa.NewError(isa.ErrSyntax, "invalid expression")

	// Symbol errors
	ErrLabelDuplicate  = isa.NewError(isa.ErrSymbol, "label duplicated")
	ErrMacroDuplicate  = isa.NewError(isa.ErrSymbol, ".DEF duplicated")
	ErrUndefinedSymbol = isa.NewError(isa.ErrSymbol, "undefined symbol")

	// Range errors
	ErrByteRange = isa.NewError(isa.ErrRange, "byte out of range")
)

// ErrLine locates an assembler error in the source.
type ErrLine struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrLine) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrLine) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

func (el ErrLabelMissing) Unwrap() error {
	return ErrUndefinedSymbol
}

type ErrDirective string

func (err ErrDirective) Error() string {
	return f("'%v' is not an instruction or directive", string(err))
}

func (err ErrDirective) Unwrap() error {
	return ErrUnknownDirective
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a label or literal", string(err))
}

func (err ErrParseValue) Unwrap() error {
	return ErrInvalidOperand
}

type ErrParseExpression struct {
	Expr string
	Err  error
}

func (err *ErrParseExpression) Error() string {
	if err.Err == nil {
		return f("$(%v) is not a valid expression", err.Expr)
	}
	return f("$(%v) is not a valid expression: %v", err.Expr, err.Err)
}

func (err *ErrParseExpression) Unwrap() []error {
	if err.Err == nil {
		return []error{ErrExpression}
	}
	return []error{ErrExpression, err.Err}
}

type ErrByte int

func (err ErrByte) Error() string {
	return f("%d does not fit in a byte", int(err))
}

func (err ErrByte) Unwrap() error {
	return ErrByteRange
}

type ErrSize struct {
	Want int
	Have int
}

func (err ErrSize) Error() string {
	return f("statement was %d bytes in pass 1, %d bytes in pass 2", err.Want, err.Have)
}

func (err ErrSize) Unwrap() error {
	return ErrSizeMismatch
}
