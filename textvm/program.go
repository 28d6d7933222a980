package textvm

import (
	"io"
	"maps"
	"strconv"

	"github.com/akvm/akvm/asm"
	"github.com/akvm/akvm/isa"
)

const LABEL = "lbl" // lbl NAME

// Statement is a loaded instruction.
type Statement struct {
	LineNo int
	Text   string
	Op     *Op
	Args   []int // Arguments, with labels replaced by instruction indexes.
}

// Program is a loaded textual program.
type Program struct {
	Statements []Statement
	Label      map[string]int // Map of labels to instruction indexes.
}

// Load parses a textual program.
// Labels are bound first, so they may be used before they are defined.
func Load(input io.Reader) (prog *Program, err error) {
	lines, err := asm.Tokenize(input)
	if err != nil {
		return
	}

	label := make(map[string]int, 16)
	var code []asm.Line

	for _, ln := range lines {
		if ln.Words[0] != LABEL {
			code = append(code, ln)
			continue
		}

		if len(ln.Words) != 2 {
			err = &asm.ErrLine{LineNo: ln.LineNo, Line: ln.Text, Err: asm.ErrLabelSyntax}
			return
		}
		if _, dup := label[ln.Words[1]]; dup {
			err = &asm.ErrLine{LineNo: ln.LineNo, Line: ln.Text, Err: asm.ErrLabelDuplicate}
			return
		}
		label[ln.Words[1]] = len(code)
	}

	statements := make([]Statement, 0, len(code))
	for _, ln := range code {
		var stmt Statement
		stmt, err = parse(ln, label)
		if err != nil {
			err = &asm.ErrLine{LineNo: ln.LineNo, Line: ln.Text, Err: err}
			return
		}
		statements = append(statements, stmt)
	}

	prog = &Program{
		Statements: statements,
		Label:      maps.Clone(label),
	}
	return
}

func parse(ln asm.Line, label map[string]int) (stmt Statement, err error) {
	op, ok := ops[ln.Words[0]]
	if !ok {
		err = isa.ErrMnemonic(ln.Words[0])
		return
	}

	words := ln.Words[1:]
	if len(words) != len(op.Args) {
		err = isa.ErrArity{Mnemonic: op.Mnemonic, Want: len(op.Args), Have: len(words)}
		return
	}

	stmt = Statement{
		LineNo: ln.LineNo,
		Text:   ln.Text,
		Op:     op,
		Args:   make([]int, len(words)),
	}

	for n, word := range words {
		stmt.Args[n], err = value(word, label)
		if err != nil {
			stmt = Statement{}
			return
		}
	}

	return
}

func value(word string, label map[string]int) (value int, err error) {
	index, ok := label[word]
	if ok {
		value = index
		return
	}

	value, err = strconv.Atoi(word)
	if err == nil {
		return
	}

	if isLabel(word) {
		err = asm.ErrLabelMissing(word)
	} else {
		err = asm.ErrParseValue(word)
	}
	return
}

// isLabel returns true if word could name a label.
func isLabel(word string) bool {
	for n, r := range word {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case n > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return len(word) > 0
}
