package emulator

import (
	"github.com/akvm/akvm/translate"
)

var f = translate.From

// ErrRuntime indicates the source location of a runtime fault.
// LineNo is 0 when the program was loaded without a listing.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return err.Err.Error()
	}
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
