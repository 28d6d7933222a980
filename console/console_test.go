package console

import (
	"bytes"
	"io"
	"maps"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole_ReadByte(t *testing.T) {
	assert := assert.New(t)

	con := &Console{Input: strings.NewReader("a\r\x7f")}

	for _, expected := range []byte{'a', '\r', 0x7f} {
		data, err := con.ReadByte()
		assert.NoError(err)
		assert.Equal(expected, data)
	}

	_, err := con.ReadByte()
	assert.ErrorIs(err, io.EOF)
}

func TestConsole_ReadByte_Raw(t *testing.T) {
	assert := assert.New(t)

	con := &Console{Input: strings.NewReader("a\r\x7f"), Raw: true}

	for _, expected := range []byte{'a', '\n', CONSOLE_BS} {
		data, err := con.ReadByte()
		assert.NoError(err)
		assert.Equal(expected, data)
	}
}

func TestConsole_ReadByte_NoInput(t *testing.T) {
	assert := assert.New(t)

	con := &Console{}
	_, err := con.ReadByte()
	assert.ErrorIs(err, io.EOF)
}

func TestConsole_ReadLine(t *testing.T) {
	assert := assert.New(t)

	con := &Console{Input: strings.NewReader("first\nsecond\r\n\nlast")}

	for _, expected := range []string{"first", "second", "", "last"} {
		line, err := con.ReadLine()
		assert.NoError(err)
		assert.Equal(expected, line)
	}

	_, err := con.ReadLine()
	assert.ErrorIs(err, io.EOF)
}

func TestConsole_Write(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer
	con := &Console{Output: &out}

	assert.NoError(con.WriteByte('A'))
	assert.NoError(con.WriteNumber(-15))
	n, err := con.Write([]byte("ok\n"))
	assert.NoError(err)
	assert.Equal(3, n)

	assert.Equal("A-15\nok\n", out.String())
}

func TestConsole_Write_Raw(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer
	con := &Console{Output: &out, Raw: true}

	assert.NoError(con.WriteNumber(42))
	n, err := con.Write([]byte("a\nb"))
	assert.NoError(err)
	assert.Equal(3, n)

	assert.Equal("42\r\na\r\nb", out.String())
}

func TestConsole_Write_NoOutput(t *testing.T) {
	assert := assert.New(t)

	con := &Console{}
	assert.NoError(con.WriteByte('x'))
}

func TestConsole_Defines(t *testing.T) {
	assert := assert.New(t)

	con := &Console{}
	defines := maps.Collect(con.Defines())
	assert.Equal("65535", defines["CONSOLE_EOF"])
	assert.Equal("10", defines["CONSOLE_NL"])
}

func TestMakeRaw_NotTerminal(t *testing.T) {
	assert := assert.New(t)

	file, err := os.CreateTemp(t.TempDir(), "console")
	assert.NoError(err)
	defer file.Close()

	assert.False(IsTerminal(file))

	tty, err := MakeRaw(file)
	assert.ErrorIs(err, ErrNotTerminal)
	assert.Nil(tty)
	assert.NoError(tty.Restore())
}
