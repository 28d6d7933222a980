// Copyright 2025, The akvm Authors

// Package console provides the guest console of the akvm machines.
package console

import (
	"bufio"
	"io"
	"iter"
	"maps"
	"strconv"
	"strings"
)

const (
	CONSOLE_EOF = 0xffff // Value read by INR at end of input.
	CONSOLE_NL  = '\n'   // Line terminator.
	CONSOLE_BS  = 0x08   // Backspace.
	CONSOLE_ESC = 0x1b   // Escape.
)

// Console provides byte and line I/O for a guest program.
// It wraps an io.Reader for input and io.Writer for output.
type Console struct {
	Input  io.Reader
	Output io.Writer
	Raw    bool // Input and output are a raw terminal.

	reader *bufio.Reader
}

// Defines returns an iter of defines for the console.
func (con *Console) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"CONSOLE_EOF": strconv.Itoa(CONSOLE_EOF),
		"CONSOLE_NL":  strconv.Itoa(CONSOLE_NL),
		"CONSOLE_BS":  strconv.Itoa(CONSOLE_BS),
		"CONSOLE_ESC": strconv.Itoa(CONSOLE_ESC),
	})
}

func (con *Console) input() *bufio.Reader {
	if con.reader == nil {
		input := con.Input
		if input == nil {
			input = strings.NewReader("")
		}
		con.reader = bufio.NewReader(input)
	}
	return con.reader
}

func (con *Console) output() io.Writer {
	if con.Output == nil {
		return io.Discard
	}
	return con.Output
}

// ReadByte blocks until one byte of input is available.
// In raw mode, CR is read as LF and DEL as backspace.
func (con *Console) ReadByte() (data byte, err error) {
	data, err = con.input().ReadByte()
	if err != nil {
		return
	}

	if con.Raw {
		switch data {
		case '\r':
			data = '\n'
		case 0x7f:
			data = CONSOLE_BS
		}
	}

	return
}

// ReadLine reads one line of input, without its terminator.
// io.EOF is only returned if no bytes were read.
func (con *Console) ReadLine() (line string, err error) {
	var buf []byte
	for {
		var data byte
		data, err = con.ReadByte()
		if err == io.EOF && len(buf) > 0 {
			err = nil
			break
		}
		if err != nil {
			return
		}
		if data == '\n' {
			break
		}
		buf = append(buf, data)
	}

	line = strings.TrimSuffix(string(buf), "\r")
	return
}

// Write writes p to the console output.
func (con *Console) Write(p []byte) (n int, err error) {
	if !con.Raw {
		return con.output().Write(p)
	}

	// Raw terminals do not map LF to CRLF.
	for _, data := range p {
		err = con.WriteByte(data)
		if err != nil {
			return
		}
		n++
	}

	return
}

// WriteByte writes a single character.
func (con *Console) WriteByte(data byte) (err error) {
	out := []byte{data}
	if con.Raw && data == '\n' {
		out = []byte{'\r', '\n'}
	}

	_, err = con.output().Write(out)
	return
}

// WriteNumber writes a decimal value and a newline.
func (con *Console) WriteNumber(value int) (err error) {
	_, err = con.Write([]byte(strconv.Itoa(value) + "\n"))
	return
}

var _ io.Writer = (*Console)(nil)
var _ io.ByteReader = (*Console)(nil)
var _ io.ByteWriter = (*Console)(nil)
