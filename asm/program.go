package asm

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Statement is a source line that emits bytes.
type Statement struct {
	LineNo   int      // Source line number.
	Address  int      // Byte address of the first emitted byte.
	Text     string   // Source text.
	Words    []string // Words after macro expansion.
	Mnemonic string   // Instruction mnemonic, or .DB / .STR.
	Operands []int    // Resolved operand values.
	Bytes    []byte   // Emitted bytes.
}

// Program is an assembled program with its listing.
type Program struct {
	Statements []Statement
	Label      map[string]int
}

// Debug locates an address within the statement that emitted it.
type Debug struct {
	*Statement
	Index int // Byte offset of the address within the statement.
}

// Debug returns the statement that emitted the byte at an address.
// The Statement is nil if no statement covers the address.
func (prog *Program) Debug(address int) (dbg Debug) {
	for n, stmt := range prog.Statements {
		if address >= stmt.Address && address < stmt.Address+len(stmt.Bytes) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     address - stmt.Address,
			}
			break
		}
	}

	return
}

// Bytes iterates over the program bytes and their addresses.
func (prog *Program) Bytes() iter.Seq2[int, byte] {
	return func(yield func(address int, data byte) bool) {
		for _, stmt := range prog.Statements {
			for n, data := range stmt.Bytes {
				if !yield(stmt.Address+n, data) {
					return
				}
			}
		}
	}
}

// Size returns the length of the program image.
func (prog *Program) Size() (size int) {
	if len(prog.Statements) == 0 {
		return
	}

	last := prog.Statements[len(prog.Statements)-1]
	size = last.Address + len(last.Bytes)
	return
}

// Image returns the program image.
func (prog *Program) Image() (image []byte) {
	image = make([]byte, prog.Size())
	for address, data := range prog.Bytes() {
		image[address] = data
	}

	return
}

// Listing writes one line per statement: address, bytes and source text.
// Data statements list at most four bytes.
func (prog *Program) Listing(w io.Writer) (err error) {
	for _, stmt := range prog.Statements {
		var hex []string
		for n, data := range stmt.Bytes {
			if n == 4 {
				hex = append(hex, "..")
				break
			}
			hex = append(hex, fmt.Sprintf("%02X", data))
		}

		_, err = fmt.Fprintf(w, "%04X: %-14s %v\n", stmt.Address, strings.Join(hex, " "), stmt.Text)
		if err != nil {
			return
		}
	}

	return
}
