package cpu

import (
	"errors"
	"io"

	"github.com/akvm/akvm/isa"
)

// handler executes one instruction. Operands are already range checked.
type handler func(cpu *Cpu, inst isa.Instruction) error

var handlers [256]handler

var handlerOf = map[byte]handler{
	isa.OP_NOP: func(cpu *Cpu, inst isa.Instruction) error { return nil },
	isa.OP_HLT: func(cpu *Cpu, inst isa.Instruction) error {
		cpu.Running = false
		return nil
	},
	isa.OP_DUMP: func(cpu *Cpu, inst isa.Instruction) error {
		return cpu.Dump(cpu.Console)
	},

	// Compare
	isa.OP_CMPRR: func(cpu *Cpu, inst isa.Instruction) error {
		cpu.compare(*cpu.reg(inst, 0), *cpu.reg(inst, 1))
		return nil
	},
	isa.OP_CMPRI: func(cpu *Cpu, inst isa.Instruction) error {
		cpu.compare(*cpu.reg(inst, 0), inst.Immediate())
		return nil
	},

	// Control flow
	isa.OP_JMP: jumpIf(func(Flag) bool { return true }),
	isa.OP_JMZ: jumpIf(func(fl Flag) bool { return fl&FLAG_ZERO != 0 }),
	isa.OP_JNZ: jumpIf(func(fl Flag) bool { return fl&FLAG_ZERO == 0 }),
	isa.OP_JMC: jumpIf(func(fl Flag) bool { return fl&FLAG_CARRY != 0 }),
	isa.OP_JMS: jumpIf(func(fl Flag) bool { return fl&FLAG_SIGN != 0 }),
	isa.OP_JMPR: func(cpu *Cpu, inst isa.Instruction) error {
		cpu.Pc = int(*cpu.reg(inst, 0))
		return nil
	},
	isa.OP_CALL: func(cpu *Cpu, inst isa.Instruction) (err error) {
		err = cpu.Stack.Push(uint16(cpu.Pc))
		if err != nil {
			return
		}
		cpu.Pc = int(inst.Immediate())
		return
	},
	isa.OP_RET: func(cpu *Cpu, inst isa.Instruction) (err error) {
		pc, err := cpu.Stack.Pop()
		if err != nil {
			return
		}
		cpu.Pc = int(pc)
		return
	},

	// Moves
	isa.OP_MOVRR: func(cpu *Cpu, inst isa.Instruction) error {
		*cpu.reg(inst, 0) = *cpu.reg(inst, 1)
		return nil
	},
	isa.OP_MOVRI: func(cpu *Cpu, inst isa.Instruction) error {
		*cpu.reg(inst, 0) = inst.Immediate()
		return nil
	},
	isa.OP_PUSHR: func(cpu *Cpu, inst isa.Instruction) error {
		return cpu.Stack.Push(*cpu.reg(inst, 0))
	},
	isa.OP_POPR: func(cpu *Cpu, inst isa.Instruction) (err error) {
		value, err := cpu.Stack.Pop()
		if err != nil {
			return
		}
		*cpu.reg(inst, 0) = value
		return
	},

	// Word memory
	isa.OP_STORDR: func(cpu *Cpu, inst isa.Instruction) error {
		return cpu.Memory.SetWord(int(inst.Immediate()), *cpu.reg(inst, 0))
	},
	isa.OP_STORMI: func(cpu *Cpu, inst isa.Instruction) error {
		return cpu.Memory.SetWord(int(*cpu.reg(inst, 0)), inst.Immediate())
	},
	isa.OP_STORMR: func(cpu *Cpu, inst isa.Instruction) error {
		return cpu.Memory.SetWord(int(*cpu.reg(inst, 0)), *cpu.reg(inst, 1))
	},
	isa.OP_LOADRD: func(cpu *Cpu, inst isa.Instruction) error {
		return cpu.loadWord(cpu.reg(inst, 0), int(inst.Immediate()))
	},
	isa.OP_LOADRM: func(cpu *Cpu, inst isa.Instruction) error {
		return cpu.loadWord(cpu.reg(inst, 0), int(*cpu.reg(inst, 1)))
	},

	// Byte memory
	isa.OP_STORBDR: func(cpu *Cpu, inst isa.Instruction) error {
		return cpu.Memory.SetByte(int(inst.Immediate()), byte(*cpu.reg(inst, 0)))
	},
	isa.OP_STORBMR: func(cpu *Cpu, inst isa.Instruction) error {
		return cpu.Memory.SetByte(int(*cpu.reg(inst, 0)), byte(*cpu.reg(inst, 1)))
	},
	isa.OP_LOADBRD: func(cpu *Cpu, inst isa.Instruction) error {
		return cpu.loadByte(cpu.reg(inst, 0), int(inst.Immediate()))
	},
	isa.OP_LOADBRM: func(cpu *Cpu, inst isa.Instruction) error {
		return cpu.loadByte(cpu.reg(inst, 0), int(*cpu.reg(inst, 1)))
	},

	// Arithmetic
	isa.OP_ADDRR: aluRR(carrying(add)),
	isa.OP_ADDRI: aluRI(carrying(add)),
	isa.OP_SUBRR: aluRR(carrying(sub)),
	isa.OP_SUBRI: aluRI(carrying(sub)),
	isa.OP_MULRR: aluRR(carrying(mul)),
	isa.OP_MULRI: aluRI(carrying(mul)),
	isa.OP_DIVRR: aluRR(div),
	isa.OP_DIVRI: aluRI(div),
	isa.OP_MODRR: aluRR(mod),
	isa.OP_MODRI: aluRI(mod),
	isa.OP_INCR:  aluR(func(a uint16) (uint16, bool) { return add(a, 1) }),
	isa.OP_DECR:  aluR(func(a uint16) (uint16, bool) { return sub(a, 1) }),

	// Bit ops
	isa.OP_ANDRR: aluRR(logic(func(a, b uint16) uint16 { return a & b })),
	isa.OP_ANDRI: aluRI(logic(func(a, b uint16) uint16 { return a & b })),
	isa.OP_ORRR:  aluRR(logic(func(a, b uint16) uint16 { return a | b })),
	isa.OP_ORRI:  aluRI(logic(func(a, b uint16) uint16 { return a | b })),
	isa.OP_XORRR: aluRR(logic(func(a, b uint16) uint16 { return a ^ b })),
	isa.OP_XORRI: aluRI(logic(func(a, b uint16) uint16 { return a ^ b })),
	isa.OP_NOTR:  aluR(func(a uint16) (uint16, bool) { return ^a, false }),
	isa.OP_SHRR:  aluR(func(a uint16) (uint16, bool) { return a >> 1, a&1 != 0 }),
	isa.OP_SHLR:  aluR(func(a uint16) (uint16, bool) { return a << 1, a&0x8000 != 0 }),

	// Console
	isa.OP_OUTC: func(cpu *Cpu, inst isa.Instruction) error {
		return cpu.Console.WriteByte(byte(*cpu.reg(inst, 0)))
	},
	isa.OP_OUTN: func(cpu *Cpu, inst isa.Instruction) error {
		return cpu.Console.WriteNumber(int(*cpu.reg(inst, 0)))
	},
	isa.OP_INR: func(cpu *Cpu, inst isa.Instruction) (err error) {
		data, err := cpu.Console.ReadByte()
		if errors.Is(err, io.EOF) {
			*cpu.reg(inst, 0) = 0xffff
			return nil
		}
		if err != nil {
			return
		}
		*cpu.reg(inst, 0) = uint16(data)
		return
	},
}

func init() {
	for desc := range isa.Table() {
		handler, ok := handlerOf[desc.Opcode]
		if !ok {
			panic("no handler for " + desc.Mnemonic)
		}
		handlers[desc.Opcode] = handler
	}
}

// reg returns the register named by the n-th operand.
func (cpu *Cpu) reg(inst isa.Instruction, n int) *uint16 {
	return &cpu.Register[inst.Register(n)]
}

// result sets the flags from an ALU result.
func (cpu *Cpu) result(value uint16, carry bool) uint16 {
	cpu.Flags = 0
	if value == 0 {
		cpu.Flags |= FLAG_ZERO
	}
	if value&0x8000 != 0 {
		cpu.Flags |= FLAG_SIGN
	}
	if carry {
		cpu.Flags |= FLAG_CARRY
	}
	return value
}

// compare sets ZERO on equality, CARRY if a < b unsigned, and SIGN from a - b.
func (cpu *Cpu) compare(a, b uint16) {
	cpu.result(a-b, a < b)
}

func (cpu *Cpu) loadWord(reg *uint16, address int) (err error) {
	value, err := cpu.Memory.Word(address)
	if err != nil {
		return
	}
	*reg = value
	return
}

func (cpu *Cpu) loadByte(reg *uint16, address int) (err error) {
	value, err := cpu.Memory.Byte(address)
	if err != nil {
		return
	}
	*reg = uint16(value)
	return
}

func jumpIf(cond func(Flag) bool) handler {
	return func(cpu *Cpu, inst isa.Instruction) error {
		if cond(cpu.Flags) {
			cpu.Pc = int(inst.Immediate())
		}
		return nil
	}
}

// aluOp computes a result and its carry, or fails.
type aluOp func(a, b uint16) (value uint16, carry bool, err error)

func aluRR(op aluOp) handler {
	return func(cpu *Cpu, inst isa.Instruction) (err error) {
		return cpu.alu(op, cpu.reg(inst, 0), *cpu.reg(inst, 1))
	}
}

func aluRI(op aluOp) handler {
	return func(cpu *Cpu, inst isa.Instruction) (err error) {
		return cpu.alu(op, cpu.reg(inst, 0), inst.Immediate())
	}
}

func aluR(op func(a uint16) (uint16, bool)) handler {
	return func(cpu *Cpu, inst isa.Instruction) error {
		reg := cpu.reg(inst, 0)
		*reg = cpu.result(op(*reg))
		return nil
	}
}

// alu leaves the register and flags unchanged on failure.
func (cpu *Cpu) alu(op aluOp, reg *uint16, b uint16) (err error) {
	value, carry, err := op(*reg, b)
	if err != nil {
		return
	}
	*reg = cpu.result(value, carry)
	return
}

func add(a, b uint16) (uint16, bool) {
	sum := uint32(a) + uint32(b)
	return uint16(sum), sum > 0xffff
}

func sub(a, b uint16) (uint16, bool) {
	return a - b, a < b
}

func mul(a, b uint16) (uint16, bool) {
	product := uint32(a) * uint32(b)
	return uint16(product), product > 0xffff
}

func div(a, b uint16) (value uint16, carry bool, err error) {
	if b == 0 {
		err = ErrDivideByZero
		return
	}
	value = a / b
	return
}

func mod(a, b uint16) (value uint16, carry bool, err error) {
	if b == 0 {
		err = ErrDivideByZero
		return
	}
	value = a % b
	return
}

// carrying adapts an operation that cannot fail.
func carrying(op func(a, b uint16) (uint16, bool)) aluOp {
	return func(a, b uint16) (uint16, bool, error) {
		value, carry := op(a, b)
		return value, carry, nil
	}
}

func logic(op func(a, b uint16) uint16) aluOp {
	return func(a, b uint16) (uint16, bool, error) {
		return op(a, b), false, nil
	}
}
