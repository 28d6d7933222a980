package asm

import (
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// charEscape maps the escapes allowed in a quoted character.
var charEscape = map[string]byte{
	`\n`: '\n',
	`\r`: '\r',
	`\t`: '\t',
	`\0`: 0,
	`\s`: ' ',
	`\e`: 0x1b,
	`\\`: '\\',
	`\'`: '\'',
}

// isIdentifier returns true if word can name a label or macro.
func isIdentifier(word string) bool {
	if len(word) == 0 {
		return false
	}
	for n, r := range word {
		switch {
		case r == '_', unicode.IsLetter(r):
		case n > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// parseLiteral parses a hexadecimal, binary, character or decimal literal.
func parseLiteral(word string) (value int, ok bool) {
	lower := strings.ToLower(word)
	var v64 int64
	var err error

	switch {
	case (strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0b")) &&
		len(word) > 2 && (word[2] == '-' || word[2] == '+'):
		return
	case strings.HasPrefix(lower, "0x"):
		v64, err = strconv.ParseInt(word[2:], 16, 32)
	case strings.HasPrefix(lower, "0b"):
		v64, err = strconv.ParseInt(word[2:], 2, 32)
	case len(word) >= 3 && word[0] == '\'' && word[len(word)-1] == '\'':
		return parseChar(word[1 : len(word)-1])
	default:
		v64, err = strconv.ParseInt(word, 10, 32)
	}

	if err != nil {
		return
	}

	return int(v64), true
}

// parseChar returns the code of a single (possibly escaped) character.
func parseChar(str string) (value int, ok bool) {
	if len(str) == 1 {
		return int(str[0]), true
	}

	code, ok := charEscape[str]
	return int(code), ok
}

// isExpression returns true for $(...) words.
func isExpression(word string) bool {
	return strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")")
}

// valueOf resolves an operand word to an integer.
// Priority: label, hexadecimal, binary, character, decimal, $(expression).
func (asm *Assembler) valueOf(word string) (value int, err error) {
	address, ok := asm.Label[word]
	if ok {
		value = address
		return
	}

	value, ok = parseLiteral(word)
	if ok {
		return
	}

	if isExpression(word) {
		return asm.parenEval(word[2 : len(word)-1])
	}

	if isIdentifier(word) {
		err = ErrLabelMissing(word)
	} else {
		err = ErrParseValue(word)
	}

	return
}

// parenEval does compile-time $(...) evaluations.
// Labels and macros with literal values are visible to the expression.
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for name, text := range asm.Macro {
		v, ok := parseLiteral(text)
		if !ok || !isIdentifier(name) {
			// Not a number, may be a register list or other text.
			continue
		}
		pred[name] = starlark.MakeInt(v)
	}
	for name, address := range asm.Label {
		pred[name] = starlark.MakeInt(address)
	}

	prog := "rc=" + expr + "\n"
	dict, _err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if _err != nil {
		err = &ErrParseExpression{Expr: expr, Err: _err}
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = &ErrParseExpression{Expr: expr}
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 > 1<<31 || st_int64 < -(1<<31) {
		err = &ErrParseExpression{Expr: expr}
		return
	}

	value = int(st_int64)
	return
}

// unquote strips the quotes from a .STR argument. The argument words are
// rejoined with single spaces, so runs of spaces collapse.
func unquote(arg string) (text string, err error) {
	if len(arg) < 2 || arg[0] != '"' || arg[len(arg)-1] != '"' {
		err = ErrStringSyntax
		return
	}

	text = arg[1 : len(arg)-1]
	return
}
