package isa

import (
	"iter"
)

// Opcode values.
const (
	OP_NOP     = byte(0x00)
	OP_HLT     = byte(0x01)
	OP_CMPRR   = byte(0x02)
	OP_CMPRI   = byte(0x03)
	OP_JMP     = byte(0x04)
	OP_JMZ     = byte(0x05)
	OP_JNZ     = byte(0x06)
	OP_JMC     = byte(0x07)
	OP_JMS     = byte(0x08)
	OP_CALL    = byte(0x09)
	OP_RET     = byte(0x0A)
	OP_MOVRR   = byte(0x0B)
	OP_MOVRI   = byte(0x0C)
	OP_STORDR  = byte(0x0D) // mem[imm] = reg
	OP_STORMI  = byte(0x0E) // mem[reg] = imm
	OP_STORMR  = byte(0x0F) // mem[reg_a] = reg_b
	OP_LOADRD  = byte(0x10) // reg = mem[imm]
	OP_LOADRM  = byte(0x11) // reg_a = mem[reg_b]
	OP_PUSHR   = byte(0x12)
	OP_POPR    = byte(0x13)
	OP_ADDRR   = byte(0x14)
	OP_ADDRI   = byte(0x15)
	OP_SUBRR   = byte(0x16)
	OP_SUBRI   = byte(0x17)
	OP_INCR    = byte(0x18)
	OP_DECR    = byte(0x19)
	OP_MULRR   = byte(0x1A)
	OP_MULRI   = byte(0x1B)
	OP_DIVRR   = byte(0x1C)
	OP_DIVRI   = byte(0x1D)
	OP_ANDRR   = byte(0x1E)
	OP_ANDRI   = byte(0x1F)
	OP_ORRR    = byte(0x20)
	OP_ORRI    = byte(0x21)
	OP_XORRR   = byte(0x22)
	OP_XORRI   = byte(0x23)
	OP_NOTR    = byte(0x24)
	OP_SHRR    = byte(0x25)
	OP_SHLR    = byte(0x26)
	OP_STORBDR = byte(0x27) // byte mem[imm] = reg
	OP_STORBMR = byte(0x28) // byte mem[reg_a] = reg_b
	OP_LOADBRD = byte(0x29) // reg = byte mem[imm]
	OP_LOADBRM = byte(0x2A) // reg_a = byte mem[reg_b]
	OP_OUTC    = byte(0x2B)
	OP_OUTN    = byte(0x2C)
	OP_INR     = byte(0x2D)
	OP_JMPR    = byte(0x2E)
	OP_MODRR   = byte(0x2F)
	OP_MODRI   = byte(0x30)
	OP_DUMP    = byte(0x31)
)

// Descriptor describes one instruction of the set.
type Descriptor struct {
	Mnemonic string
	Opcode   byte
	Format   Format
}

// Size returns the encoded length of the instruction.
func (desc Descriptor) Size() int {
	return desc.Format.Size()
}

var table = []Descriptor{
	// Control flow
	{"NOP", OP_NOP, FORMAT_NONE},
	{"HLT", OP_HLT, FORMAT_NONE},
	{"CMPRR", OP_CMPRR, FORMAT_REG_REG},
	{"CMPRI", OP_CMPRI, FORMAT_REG_IMM},
	{"JMP", OP_JMP, FORMAT_IMM},
	{"JMZ", OP_JMZ, FORMAT_IMM},
	{"JNZ", OP_JNZ, FORMAT_IMM},
	{"JMC", OP_JMC, FORMAT_IMM},
	{"JMS", OP_JMS, FORMAT_IMM},
	{"CALL", OP_CALL, FORMAT_IMM},
	{"RET", OP_RET, FORMAT_NONE},

	// Memory
	{"MOVRR", OP_MOVRR, FORMAT_REG_REG},
	{"MOVRI", OP_MOVRI, FORMAT_REG_IMM},
	{"STORDR", OP_STORDR, FORMAT_REG_IMM},
	{"STORMI", OP_STORMI, FORMAT_REG_IMM},
	{"STORMR", OP_STORMR, FORMAT_REG_REG},
	{"LOADRD", OP_LOADRD, FORMAT_REG_IMM},
	{"LOADRM", OP_LOADRM, FORMAT_REG_REG},
	{"PUSHR", OP_PUSHR, FORMAT_REG},
	{"POPR", OP_POPR, FORMAT_REG},

	// Arithmetic
	{"ADDRR", OP_ADDRR, FORMAT_REG_REG},
	{"ADDRI", OP_ADDRI, FORMAT_REG_IMM},
	{"SUBRR", OP_SUBRR, FORMAT_REG_REG},
	{"SUBRI", OP_SUBRI, FORMAT_REG_IMM},
	{"INCR", OP_INCR, FORMAT_REG},
	{"DECR", OP_DECR, FORMAT_REG},
	{"MULRR", OP_MULRR, FORMAT_REG_REG},
	{"MULRI", OP_MULRI, FORMAT_REG_IMM},
	{"DIVRR", OP_DIVRR, FORMAT_REG_REG},
	{"DIVRI", OP_DIVRI, FORMAT_REG_IMM},

	// Bit ops
	{"ANDRR", OP_ANDRR, FORMAT_REG_REG},
	{"ANDRI", OP_ANDRI, FORMAT_REG_IMM},
	{"ORRR", OP_ORRR, FORMAT_REG_REG},
	{"ORRI", OP_ORRI, FORMAT_REG_IMM},
	{"XORRR", OP_XORRR, FORMAT_REG_REG},
	{"XORRI", OP_XORRI, FORMAT_REG_IMM},
	{"NOTR", OP_NOTR, FORMAT_REG},
	{"SHRR", OP_SHRR, FORMAT_REG},
	{"SHLR", OP_SHLR, FORMAT_REG},

	// Byte memory
	{"STORBDR", OP_STORBDR, FORMAT_REG_IMM},
	{"STORBMR", OP_STORBMR, FORMAT_REG_REG},
	{"LOADBRD", OP_LOADBRD, FORMAT_REG_IMM},
	{"LOADBRM", OP_LOADBRM, FORMAT_REG_REG},

	// I/O
	{"OUTC", OP_OUTC, FORMAT_REG},
	{"OUTN", OP_OUTN, FORMAT_REG},
	{"INR", OP_INR, FORMAT_REG},

	{"JMPR", OP_JMPR, FORMAT_REG},
	{"MODRR", OP_MODRR, FORMAT_REG_REG},
	{"MODRI", OP_MODRI, FORMAT_REG_IMM},
	{"DUMP", OP_DUMP, FORMAT_NONE},
}

var (
	byMnemonic = make(map[string]*Descriptor, len(table))
	byOpcode   [256]*Descriptor
)

func init() {
	for n := range table {
		desc := &table[n]
		if _, ok := byMnemonic[desc.Mnemonic]; ok {
			panic("duplicate mnemonic " + desc.Mnemonic)
		}
		if byOpcode[desc.Opcode] != nil {
			panic("duplicate opcode for " + desc.Mnemonic)
		}
		byMnemonic[desc.Mnemonic] = desc
		byOpcode[desc.Opcode] = desc
	}
}

// Lookup finds the descriptor for a mnemonic.
func Lookup(mnemonic string) (desc Descriptor, ok bool) {
	ptr, ok := byMnemonic[mnemonic]
	if ok {
		desc = *ptr
	}
	return
}

// ByOpcode finds the descriptor for an opcode byte.
func ByOpcode(opcode byte) (desc Descriptor, ok bool) {
	ptr := byOpcode[opcode]
	if ptr != nil {
		desc = *ptr
		ok = true
	}
	return
}

// Table iterates over all descriptors in opcode order.
func Table() iter.Seq[Descriptor] {
	return func(yield func(Descriptor) bool) {
		for _, ptr := range byOpcode {
			if ptr == nil {
				continue
			}
			if !yield(*ptr) {
				return
			}
		}
	}
}
