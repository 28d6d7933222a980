package isa

// Format is the operand layout of an instruction.
type Format int

const (
	FORMAT_NONE    = Format(0) // none
	FORMAT_REG     = Format(1) // reg
	FORMAT_REG_REG = Format(2) // reg,reg
	FORMAT_IMM     = Format(3) // imm
	FORMAT_REG_IMM = Format(4) // reg,imm
)

var formatName = [...]string{"none", "reg", "reg,reg", "imm", "reg,imm"}

func (fm Format) String() string {
	if fm < 0 || int(fm) >= len(formatName) {
		return f("Format(%d)", int(fm))
	}
	return formatName[fm]
}

// Size returns the encoded length in bytes, including the opcode.
func (fm Format) Size() int {
	switch fm {
	case FORMAT_NONE:
		return 1
	case FORMAT_REG, FORMAT_REG_REG:
		return 2
	case FORMAT_IMM:
		return 3
	case FORMAT_REG_IMM:
		return 4
	}
	panic("unknown format")
}

// Operands returns the number of operands the format takes.
func (fm Format) Operands() int {
	switch fm {
	case FORMAT_NONE:
		return 0
	case FORMAT_REG, FORMAT_IMM:
		return 1
	case FORMAT_REG_REG, FORMAT_REG_IMM:
		return 2
	}
	panic("unknown format")
}

// Registers returns how many of the leading operands are registers.
func (fm Format) Registers() int {
	switch fm {
	case FORMAT_REG, FORMAT_REG_IMM:
		return 1
	case FORMAT_REG_REG:
		return 2
	}
	return 0
}

// Immediate returns true if the last operand is a 16-bit immediate.
func (fm Format) Immediate() bool {
	return fm == FORMAT_IMM || fm == FORMAT_REG_IMM
}
