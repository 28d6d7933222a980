package isa

import (
	"fmt"
	"strings"
)

const (
	REG_HI = 0b11110000 // First register of a packed pair.
	REG_LO = 0b00001111 // Second register of a packed pair.

	REG_MAX = 15 // Highest register index that fits in a nibble.

	IMM_MIN = -0x8000 // Lowest immediate, stored as two's complement.
	IMM_MAX = 0xffff  // Highest immediate.
)

// Instruction is a decoded instruction with its operand values.
type Instruction struct {
	Descriptor
	Operands []int
}

// String returns the assembly text of the instruction.
func (inst Instruction) String() string {
	words := []string{inst.Mnemonic}
	for _, op := range inst.Operands {
		words = append(words, fmt.Sprintf("%d", op))
	}
	return strings.Join(words, " ")
}

// Register returns the n-th register operand.
func (inst Instruction) Register(n int) int {
	return inst.Operands[n]
}

// Immediate returns the immediate operand as a 16-bit word.
func (inst Instruction) Immediate() uint16 {
	return uint16(inst.Operands[len(inst.Operands)-1])
}

// Encode encodes a mnemonic and its operands.
func Encode(mnemonic string, operands ...int) (code []byte, err error) {
	desc, ok := Lookup(mnemonic)
	if !ok {
		err = ErrMnemonic(mnemonic)
		return
	}

	return desc.Encode(operands...)
}

// Encode encodes the operands for this instruction.
func (desc Descriptor) Encode(operands ...int) (code []byte, err error) {
	fm := desc.Format
	if len(operands) != fm.Operands() {
		err = ErrArity{Mnemonic: desc.Mnemonic, Want: fm.Operands(), Have: len(operands)}
		return
	}

	for _, reg := range operands[:fm.Registers()] {
		if reg < 0 || reg > REG_MAX {
			err = ErrRegister(reg)
			return
		}
	}

	code = make([]byte, 0, fm.Size())
	code = append(code, desc.Opcode)

	switch fm {
	case FORMAT_NONE:
		// opcode only
	case FORMAT_REG:
		code = append(code, byte(operands[0]<<4))
	case FORMAT_REG_REG:
		code = append(code, byte(operands[0]<<4|operands[1]))
	case FORMAT_IMM:
		code, err = appendImmediate(code, operands[0])
	case FORMAT_REG_IMM:
		code = append(code, byte(operands[0]<<4))
		code, err = appendImmediate(code, operands[1])
	default:
		panic("unknown format")
	}

	if err != nil {
		code = nil
	}

	return
}

// appendImmediate appends a 16-bit little-endian immediate.
func appendImmediate(code []byte, value int) ([]byte, error) {
	if value < IMM_MIN || value > IMM_MAX {
		return code, ErrImmediate(value)
	}

	word := uint16(value)
	return append(code, byte(word&0xff), byte((word>>8)&0xff)), nil
}

// Decode decodes the instruction at the start of code.
// Immediates decode in their canonical unsigned form 0..0xffff, so a
// negative immediate given to Encode decodes as its two's complement.
func Decode(code []byte) (inst Instruction, err error) {
	if len(code) == 0 {
		err = ErrTruncated
		return
	}

	desc, ok := ByOpcode(code[0])
	if !ok {
		err = ErrOpcode(code[0])
		return
	}

	if len(code) < desc.Size() {
		err = ErrTruncated
		return
	}

	inst.Descriptor = desc

	switch desc.Format {
	case FORMAT_NONE:
		inst.Operands = []int{}
	case FORMAT_REG:
		inst.Operands = []int{int(code[1]&REG_HI) >> 4}
	case FORMAT_REG_REG:
		inst.Operands = []int{int(code[1]&REG_HI) >> 4, int(code[1] & REG_LO)}
	case FORMAT_IMM:
		inst.Operands = []int{immediate(code[1:3])}
	case FORMAT_REG_IMM:
		inst.Operands = []int{int(code[1]&REG_HI) >> 4, immediate(code[2:4])}
	default:
		panic("unknown format")
	}

	return
}

func immediate(code []byte) int {
	return int(code[0]) | int(code[1])<<8
}
