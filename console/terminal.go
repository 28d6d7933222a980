package console

import (
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// Terminal is a terminal in raw mode.
type Terminal struct {
	fd    int
	state *term.State
}

// IsTerminal returns true if the file is a terminal.
func IsTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}

// MakeRaw puts a terminal into raw mode, disabling echo and line buffering.
func MakeRaw(file *os.File) (tty *Terminal, err error) {
	fd := int(file.Fd())
	if !term.IsTerminal(fd) {
		err = ErrNotTerminal
		return
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}

	tty = &Terminal{fd: fd, state: state}
	return
}

// Restore returns the terminal to the mode it had before MakeRaw.
// It is safe to call more than once.
func (tty *Terminal) Restore() (err error) {
	if tty == nil || tty.state == nil {
		return
	}

	err = term.Restore(tty.fd, tty.state)
	if err != nil {
		log.Warn("terminal restore failed", "err", err)
	}
	tty.state = nil
	return
}
