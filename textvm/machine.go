package textvm

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/akvm/akvm/config"
	"github.com/akvm/akvm/console"
	"github.com/akvm/akvm/cpu"
)

// Machine is the simulation context of the textual program machine.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Console *console.Console // Guest console.
	Program *Program         // Loaded program.

	Pc       int            // Index of the next instruction.
	Fp       int            // Frame pointer.
	Flag     bool           // Set by cmp on equality.
	Register []int          // Register bank.
	Stack    cpu.Stack[int] // Data stack.
	Memory   []int          // Data memory.
	Running  bool           // Cleared by hlt or a fault.

	Ticks int // Instructions executed.
}

// NewMachine creates a machine sized by the configuration.
func NewMachine(cfg config.Machine) (m *Machine) {
	m = &Machine{
		Console:  &console.Console{},
		Register: make([]int, cfg.Registers),
		Stack:    cpu.MakeStack[int](cfg.StackSize),
		Memory:   make([]int, cfg.MemorySize),
	}

	return
}

// Load installs a program and resets the machine.
func (m *Machine) Load(prog *Program) {
	m.Program = prog
	m.Reset()
}

// Reset clears the machine state and starts at the first instruction.
func (m *Machine) Reset() {
	clear(m.Register)
	clear(m.Memory)
	m.Stack.Reset()

	m.Pc = 0
	m.Fp = 0
	m.Flag = false
	m.Ticks = 0
	m.Running = true
}

// Step executes one instruction.
// Any fault stops the machine, and is returned as an *ErrFault.
func (m *Machine) Step() (err error) {
	if !m.Running {
		err = cpu.ErrHalted
		return
	}

	pc := m.Pc
	var stmt Statement
	if m.Program == nil || pc < 0 || pc >= len(m.Program.Statements) {
		err = cpu.ErrPcBounds
	} else {
		stmt = m.Program.Statements[pc]
		if m.Verbose {
			log.Infof("> %v", stmt.Text)
		}
		m.Pc++
		err = stmt.Op.check(m, stmt.Args)
		if err == nil {
			err = stmt.Op.exec(m, stmt.Args)
		}
	}

	if err != nil {
		m.Pc = pc
		m.Running = false
		err = &ErrFault{Pc: pc, LineNo: stmt.LineNo, Text: stmt.Text, Err: err}
		return
	}

	m.Ticks++
	return
}

// Run executes until hlt, a fault, cancellation of the context, or
// maxSteps instructions. A maxSteps of 0 is unlimited.
func (m *Machine) Run(ctx context.Context, maxSteps int) (err error) {
	for m.Running {
		err = ctx.Err()
		if err != nil {
			return
		}
		if maxSteps > 0 && m.Ticks >= maxSteps {
			err = cpu.ErrStepLimit
			return
		}
		err = m.Step()
		if err != nil {
			return
		}
	}

	return
}

func (m *Machine) load(address int) (value int, err error) {
	if address < 0 || address >= len(m.Memory) {
		err = cpu.ErrAddress(address)
		return
	}

	value = m.Memory[address]
	return
}

func (m *Machine) store(address int, value int) (err error) {
	if address < 0 || address >= len(m.Memory) {
		err = cpu.ErrAddress(address)
		return
	}

	m.Memory[address] = value
	return
}

func join(values []int) string {
	text := make([]string, len(values))
	for n, value := range values {
		text[n] = strconv.Itoa(value)
	}
	return strings.Join(text, " ")
}

// Dump writes the machine state, and every non-zero row of memory.
func (m *Machine) Dump(w io.Writer) (err error) {
	var stack []int
	for _, value := range m.Stack.All() {
		stack = append(stack, value)
	}

	_, err = fmt.Fprintf(w, "PC: %d, SP: %d, FP: %d, FLAG: %v\nReg: %v\nStack: %v\n",
		m.Pc, m.Stack.Sp, m.Fp, m.Flag, join(m.Register), join(stack))
	if err != nil {
		return
	}

	const row = 16
	for base := 0; base < len(m.Memory); base += row {
		cells := m.Memory[base:min(base+row, len(m.Memory))]
		if !nonZero(cells) {
			continue
		}
		_, err = fmt.Fprintf(w, "Mem %d: %v\n", base, join(cells))
		if err != nil {
			return
		}
	}

	return
}

func nonZero(cells []int) bool {
	for _, cell := range cells {
		if cell != 0 {
			return true
		}
	}
	return false
}
