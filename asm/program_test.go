package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"MOVRI 0 10",
		"LOOP:",
		"DECR 0",
		"JNZ LOOP",
	)

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Statement)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(3)
	assert.NotNil(dbg.Statement)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(3, dbg.Index)

	dbg = prog.Debug(4)
	assert.NotNil(dbg.Statement)
	assert.Equal(3, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(7)
	assert.NotNil(dbg.Statement)
	assert.Equal(4, dbg.LineNo)
	assert.Equal(1, dbg.Index)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, "HLT")

	dbg := prog.Debug(10)
	assert.Nil(dbg.Statement)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(-1)
	assert.Nil(dbg.Statement)
}

func TestProgram_Bytes(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"NOP",
		".DB 1 2",
		"HLT",
	)

	var addresses []int
	var data []byte
	for address, b := range prog.Bytes() {
		addresses = append(addresses, address)
		data = append(data, b)
	}

	assert.Equal([]int{0, 1, 2, 3}, addresses)
	assert.Equal([]byte{0x00, 0x01, 0x02, 0x01}, data)
	assert.Equal(data, prog.Image())
	assert.Equal(4, prog.Size())
}

func TestProgram_Listing(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"MOVRI 0 10",
		"HLT",
		`.STR "abcdef"`,
	)

	var out strings.Builder
	err := prog.Listing(&out)
	assert.NoError(err)
	assert.Equal(strings.Join([]string{
		"0000: 0C 00 0A 00    MOVRI 0 10",
		"0004: 01             HLT",
		`0005: 61 62 63 64 .. .STR "abcdef"`,
		"",
	}, "\n"), out.String())
}
