package textvm

import (
	"github.com/akvm/akvm/isa"
	"github.com/akvm/akvm/translate"
)

var f = translate.From

var (
	ErrEmptyInput = isa.NewError(isa.ErrRuntime, "empty input line")
	ErrEndOfInput = isa.NewError(isa.ErrRuntime, "end of input")
)

// ErrFault is a machine fault at an instruction.
type ErrFault struct {
	Pc     int    // Instruction index.
	LineNo int    // Source line, 0 if unknown.
	Text   string // Source text.
	Err    error
}

func (err *ErrFault) Error() string {
	if err.LineNo == 0 {
		return f("pc %d: %v", err.Pc, err.Err)
	}
	return f("pc %d line %d '%v': %v", err.Pc, err.LineNo, err.Text, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
