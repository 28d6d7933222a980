package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := make(Memory, 4)

	assert.NoError(mem.SetWord(0, 0x1234))
	assert.Equal(Memory{0x34, 0x12, 0, 0}, mem)

	val, err := mem.Word(0)
	assert.NoError(err)
	assert.Equal(uint16(0x1234), val)

	assert.NoError(mem.SetByte(3, 0xAB))
	b, err := mem.Byte(3)
	assert.NoError(err)
	assert.Equal(byte(0xAB), b)

	val, err = mem.Word(2)
	assert.NoError(err)
	assert.Equal(uint16(0xAB00), val)
}

func TestMemory_Bounds(t *testing.T) {
	assert := assert.New(t)

	mem := make(Memory, 4)

	_, err := mem.Word(3)
	assert.ErrorIs(err, ErrMemoryBounds)
	assert.Equal(ErrAddress(3), err)

	err = mem.SetWord(3, 0xffff)
	assert.ErrorIs(err, ErrMemoryBounds)
	assert.Equal(Memory{0, 0, 0, 0}, mem)

	_, err = mem.Byte(4)
	assert.ErrorIs(err, ErrMemoryBounds)

	err = mem.SetByte(-1, 1)
	assert.ErrorIs(err, ErrMemoryBounds)
}
