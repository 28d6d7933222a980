package textvm

import (
	"errors"
	"io"

	"github.com/akvm/akvm/cpu"
)

// Argument kinds.
const (
	ARG_REG     = iota // Register index.
	ARG_VALUE          // Integer value.
	ARG_ADDRESS        // Memory index.
	ARG_TARGET         // Instruction index.
)

// Op describes one instruction of the dialect.
type Op struct {
	Mnemonic string
	Args     []int // Argument kinds.

	exec func(m *Machine, args []int) error
}

var ops = map[string]*Op{}

func init() {
	for n := range opTable {
		op := &opTable[n]
		ops[op.Mnemonic] = op
	}
}

var opTable = []Op{
	{"hlt", nil, func(m *Machine, args []int) error {
		m.Running = false
		return nil
	}},
	{"dump", nil, func(m *Machine, args []int) error {
		return m.Dump(m.Console)
	}},

	// Registers and arithmetic
	{"set", []int{ARG_REG, ARG_VALUE}, func(m *Machine, args []int) error {
		m.Register[args[0]] = args[1]
		return nil
	}},
	{"add", []int{ARG_REG, ARG_REG}, func(m *Machine, args []int) error {
		m.Register[args[0]] += m.Register[args[1]]
		return nil
	}},
	{"sub", []int{ARG_REG, ARG_REG}, func(m *Machine, args []int) error {
		m.Register[args[0]] -= m.Register[args[1]]
		return nil
	}},

	// Memory
	{"load", []int{ARG_REG, ARG_ADDRESS}, func(m *Machine, args []int) (err error) {
		value, err := m.load(args[1])
		if err == nil {
			m.Register[args[0]] = value
		}
		return
	}},
	{"store", []int{ARG_ADDRESS, ARG_REG}, func(m *Machine, args []int) error {
		return m.store(args[0], m.Register[args[1]])
	}},
	{"loadi", []int{ARG_REG, ARG_REG}, func(m *Machine, args []int) (err error) {
		value, err := m.load(m.Register[args[1]])
		if err == nil {
			m.Register[args[0]] = value
		}
		return
	}},
	{"storei", []int{ARG_REG, ARG_REG}, func(m *Machine, args []int) error {
		return m.store(m.Register[args[0]], m.Register[args[1]])
	}},

	// Stack
	{"push", []int{ARG_REG}, func(m *Machine, args []int) error {
		return m.Stack.Push(m.Register[args[0]])
	}},
	{"pop", []int{ARG_REG}, func(m *Machine, args []int) (err error) {
		value, err := m.Stack.Pop()
		if err == nil {
			m.Register[args[0]] = value
		}
		return
	}},

	// Console
	{"print", []int{ARG_REG}, func(m *Machine, args []int) error {
		return m.Console.WriteNumber(m.Register[args[0]])
	}},
	{"out", []int{ARG_REG}, func(m *Machine, args []int) (err error) {
		_, err = m.Console.Write([]byte(string(rune(m.Register[args[0]]))))
		return
	}},
	{"input", []int{ARG_REG}, func(m *Machine, args []int) (err error) {
		line, err := m.Console.ReadLine()
		if errors.Is(err, io.EOF) {
			err = ErrEndOfInput
		}
		if err != nil {
			return
		}
		if len(line) == 0 {
			err = ErrEmptyInput
			return
		}
		m.Register[args[0]] = int([]rune(line)[0])
		return
	}},

	// Control flow
	{"jmp", []int{ARG_TARGET}, func(m *Machine, args []int) error {
		m.Pc = args[0]
		return nil
	}},
	{"jmpr", []int{ARG_REG}, func(m *Machine, args []int) error {
		m.Pc = m.Register[args[0]]
		return nil
	}},
	{"cmp", []int{ARG_REG, ARG_REG}, func(m *Machine, args []int) error {
		m.Flag = m.Register[args[0]] == m.Register[args[1]]
		return nil
	}},
	{"jmz", []int{ARG_TARGET}, jumpIfFlag},
	{"jmzv", []int{ARG_TARGET}, jumpIfFlag},
}

func jumpIfFlag(m *Machine, args []int) error {
	if m.Flag {
		m.Pc = args[0]
	}
	return nil
}

// check validates the register arguments against the machine.
func (op *Op) check(m *Machine, args []int) (err error) {
	for n, kind := range op.Args {
		if kind == ARG_REG && (args[n] < 0 || args[n] >= len(m.Register)) {
			err = cpu.ErrRegister(args[n])
			return
		}
	}
	return
}
