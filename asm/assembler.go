// Copyright 2025, The akvm Authors

package asm

import (
	"bufio"
	"io"
	"maps"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/akvm/akvm/isa"
)

// Directives.
const (
	DIRECTIVE_DEF = ".DEF" // .DEF NAME text...
	DIRECTIVE_DB  = ".DB"  // .DB b0 b1 ...
	DIRECTIVE_STR = ".STR" // .STR "text"
)

// Line is a tokenized source line.
type Line struct {
	LineNo int      // Line number, starting at 1.
	Text   string   // Trimmed source text.
	Words  []string // Whitespace separated tokens.
}

// Assembler is a two pass assembler for the akvm instruction set.
// Each Parse() call starts from an empty symbol table, so an Assembler
// may be reused but not shared between goroutines.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine map[string]string // Predefined macros.
	Label     map[string]int    // Map of labels to byte addresses.
	Macro     map[string]string // Map of macro names to replacement text.
}

// Predefine defines a new macro, or redefines an existing one, that is
// visible to every following Parse().
func (asm *Assembler) Predefine(name string, text string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{name: text}
	} else {
		asm.predefine[name] = text
	}
}

// Tokenize splits the source into lines of words. Blank lines and lines
// starting with ';' are dropped.
func Tokenize(input io.Reader) (lines []Line, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	for scanner.Scan() {
		lineno++
		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 || strings.HasPrefix(text, ";") {
			continue
		}
		lines = append(lines, Line{
			LineNo: lineno,
			Text:   text,
			Words:  strings.Fields(text),
		})
	}

	err = scanner.Err()
	return
}

// Parse assembles an input stream into a Program.
// On any error no Program is returned.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	lines, err := Tokenize(input)
	if err != nil {
		return
	}

	asm.Label = make(map[string]int, 16)
	asm.Macro = maps.Clone(asm.predefine)
	if asm.Macro == nil {
		asm.Macro = make(map[string]string, 16)
	}

	sizes, err := asm.resolve(lines)
	if err != nil {
		return
	}

	statements, err := asm.encode(lines, sizes)
	if err != nil {
		return
	}

	prog = &Program{
		Statements: statements,
		Label:      maps.Clone(asm.Label),
	}

	return
}

// directive returns the canonical directive name for a word, if it is one.
func directive(word string) (name string, ok bool) {
	for _, name := range []string{DIRECTIVE_DEF, DIRECTIVE_DB, DIRECTIVE_STR} {
		if strings.EqualFold(word, name) {
			return name, true
		}
	}
	return
}

// labelOf returns the label defined by a line, if the line is a label.
func labelOf(ln Line) (label string, ok bool, err error) {
	if !strings.HasSuffix(ln.Text, ":") {
		return
	}

	ok = true
	words := strings.Fields(strings.TrimSuffix(ln.Text, ":"))
	if len(words) != 1 || !isIdentifier(words[0]) {
		err = ErrLabelSyntax
		return
	}

	label = words[0]
	return
}

// resolve is pass 1: it binds labels and macros, and computes the size of
// every line.
func (asm *Assembler) resolve(lines []Line) (sizes []int, err error) {
	sizes = make([]int, len(lines))

	var address int
	for n, ln := range lines {
		if asm.Verbose {
			log.Info("pass 1", "line", ln.LineNo, "address", address, "text", ln.Text)
		}

		sizes[n], err = asm.resolveLine(ln, address)
		if err != nil {
			err = &ErrLine{LineNo: ln.LineNo, Line: ln.Text, Err: err}
			return
		}

		address += sizes[n]
	}

	return
}

// resolveLine handles a single line for pass 1.
func (asm *Assembler) resolveLine(ln Line, address int) (size int, err error) {
	words := ln.Words

	if desc, ok := isa.Lookup(words[0]); ok {
		size = desc.Size()
		return
	}

	name, ok := directive(words[0])
	if ok {
		switch name {
		case DIRECTIVE_DEF:
			err = asm.define(words[1:])
		case DIRECTIVE_DB:
			size = len(words) - 1
			if size == 0 {
				err = ErrDirectiveEmpty
			}
		case DIRECTIVE_STR:
			var text string
			text, err = unquote(strings.Join(words[1:], " "))
			size = len(text)
		}
		return
	}

	label, ok, err := labelOf(ln)
	if err != nil {
		return
	}
	if ok {
		if _, dup := asm.Label[label]; dup {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = address
		return
	}

	err = ErrDirective(words[0])
	return
}

// define handles .DEF NAME text...
func (asm *Assembler) define(args []string) (err error) {
	if len(args) < 2 || !isIdentifier(args[0]) {
		err = ErrMacroSyntax
		return
	}

	name := args[0]
	if _, ok := asm.Macro[name]; ok {
		if _, predefined := asm.predefine[name]; !predefined {
			err = ErrMacroDuplicate
			return
		}
	}

	asm.Macro[name] = strings.Join(args[1:], " ")
	return
}

// expand substitutes macros, once, in a list of words.
func (asm *Assembler) expand(words []string) (expanded []string) {
	for _, word := range words {
		text, ok := asm.Macro[word]
		if ok {
			expanded = append(expanded, strings.Fields(text)...)
		} else {
			expanded = append(expanded, word)
		}
	}

	return
}

// encode is pass 2: it emits the bytes of every line.
func (asm *Assembler) encode(lines []Line, sizes []int) (statements []Statement, err error) {
	var address int
	for n, ln := range lines {
		var stmt *Statement
		stmt, err = asm.encodeLine(ln)
		if err == nil && stmt != nil && len(stmt.Bytes) != sizes[n] {
			err = ErrSize{Want: sizes[n], Have: len(stmt.Bytes)}
		}
		if err != nil {
			err = &ErrLine{LineNo: ln.LineNo, Line: ln.Text, Err: err}
			return
		}

		if stmt != nil {
			stmt.Address = address
			statements = append(statements, *stmt)
			if asm.Verbose {
				log.Info("pass 2", "line", ln.LineNo, "address", address, "bytes", stmt.Bytes)
			}
		}

		address += sizes[n]
	}

	return
}

// encodeLine handles a single line for pass 2.
// Label and .DEF lines return a nil Statement.
func (asm *Assembler) encodeLine(ln Line) (stmt *Statement, err error) {
	words := ln.Words

	if _, ok := isa.Lookup(words[0]); !ok {
		name, ok := directive(words[0])
		switch {
		case !ok:
			// Pass 1 accepted the line, so it is a label.
			return
		case name == DIRECTIVE_DEF:
			return
		case name == DIRECTIVE_STR:
			// String text is never macro expanded.
			var text string
			text, err = unquote(strings.Join(words[1:], " "))
			if err != nil {
				return
			}
			stmt = &Statement{
				LineNo:   ln.LineNo,
				Text:     ln.Text,
				Words:    words,
				Mnemonic: DIRECTIVE_STR,
				Bytes:    []byte(text),
			}
			return
		}
	}

	words = asm.expand(words)

	stmt = &Statement{
		LineNo:   ln.LineNo,
		Text:     ln.Text,
		Words:    words,
		Mnemonic: words[0],
	}

	for _, word := range words[1:] {
		var value int
		value, err = asm.valueOf(word)
		if err != nil {
			stmt = nil
			return
		}
		stmt.Operands = append(stmt.Operands, value)
	}

	if name, ok := directive(words[0]); ok && name == DIRECTIVE_DB {
		stmt.Mnemonic = DIRECTIVE_DB
		for _, value := range stmt.Operands {
			if value < -0x80 || value > 0xff {
				err = ErrByte(value)
				stmt = nil
				return
			}
			stmt.Bytes = append(stmt.Bytes, byte(value))
		}
		return
	}

	desc, ok := isa.Lookup(words[0])
	if !ok {
		err = ErrDirective(words[0])
		stmt = nil
		return
	}

	stmt.Bytes, err = desc.Encode(stmt.Operands...)
	if err != nil {
		stmt = nil
	}

	return
}
