package console

import (
	"errors"

	"github.com/akvm/akvm/translate"
)

var f = translate.From

var (
	ErrNotTerminal = errors.New(f("not a terminal"))
)
