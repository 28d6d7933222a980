// Copyright 2025, The akvm Authors

package cpu

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/akvm/akvm/config"
	"github.com/akvm/akvm/console"
	"github.com/akvm/akvm/isa"
)

// Flag is the machine condition flags.
type Flag uint8

const (
	FLAG_ZERO  = Flag(1 << 0) // Last compare was equal, or last result was zero.
	FLAG_CARRY = Flag(1 << 1) // Unsigned overflow, borrow, or bit shifted out.
	FLAG_SIGN  = Flag(1 << 2) // Bit 15 of the last result.
)

func (fl Flag) String() string {
	text := []byte("---")
	if fl&FLAG_ZERO != 0 {
		text[0] = 'Z'
	}
	if fl&FLAG_CARRY != 0 {
		text[1] = 'C'
	}
	if fl&FLAG_SIGN != 0 {
		text[2] = 'S'
	}
	return string(text)
}

// Cpu is the simulation context of the byte image machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Console *console.Console // Guest console.

	Pc       int           // Program counter, a byte offset into Code.
	Fp       int           // Frame pointer.
	Flags    Flag          // Condition flags.
	Register []uint16      // Register bank.
	Stack    Stack[uint16] // Return address and data stack.
	Memory   Memory        // Data memory.
	Code     []byte        // Loaded program image.
	Running  bool          // Cleared by HLT or a fault.

	Ticks int // Instructions executed.
}

// NewCpu creates a machine sized by the configuration.
func NewCpu(cfg config.Machine) (cpu *Cpu) {
	cpu = &Cpu{
		Console:  &console.Console{},
		Register: make([]uint16, cfg.Registers),
		Stack:    MakeStack[uint16](cfg.StackSize),
		Memory:   make(Memory, cfg.MemorySize),
	}

	return
}

// Defines returns the machine constants visible to programs.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"REGISTERS":   strconv.Itoa(len(cpu.Register)),
		"STACK_SIZE":  strconv.Itoa(cpu.Stack.Cap()),
		"MEMORY_SIZE": strconv.Itoa(len(cpu.Memory)),
	})
}

// Load installs a program image and resets the machine.
func (cpu *Cpu) Load(image []byte) (err error) {
	if len(image) > len(cpu.Memory) {
		err = ErrImageSize
		return
	}

	cpu.Code = append([]byte(nil), image...)
	cpu.Reset()

	if cpu.Verbose {
		log.Infof("cpu: loaded %d bytes", len(image))
	}

	return
}

// Reset the machine state.
// - Clears the registers, flags and stack.
// - Copies the image into data memory at address 0.
// - Zeros the tick counter.
// - Sets the machine running at address 0.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Infof("cpu: reset")
	}

	clear(cpu.Register)
	cpu.Stack.Reset()
	clear(cpu.Memory)
	copy(cpu.Memory, cpu.Code)

	cpu.Pc = 0
	cpu.Fp = 0
	cpu.Flags = 0
	cpu.Ticks = 0
	cpu.Running = true
}

// Fetch decodes the instruction at the program counter.
func (cpu *Cpu) Fetch() (inst isa.Instruction, err error) {
	if cpu.Pc < 0 || cpu.Pc >= len(cpu.Code) {
		err = ErrPcBounds
		return
	}

	inst, err = isa.Decode(cpu.Code[cpu.Pc:])
	return
}

// Tick executes a single instruction cycle.
// Any fault stops the machine, and is returned as an *ErrFault with the
// program counter left at the faulting instruction.
func (cpu *Cpu) Tick() (err error) {
	if !cpu.Running {
		err = ErrHalted
		return
	}

	pc := cpu.Pc
	inst, err := cpu.Fetch()
	if err == nil {
		cpu.Pc += inst.Size()
		err = cpu.Execute(inst)
	}

	if err != nil {
		cpu.Pc = pc
		cpu.Running = false
		err = &ErrFault{Pc: pc, Instruction: inst, Err: err}
		return
	}

	cpu.Ticks++
	return
}

// Execute executes a single decoded instruction.
// The program counter must already address the next instruction.
func (cpu *Cpu) Execute(inst isa.Instruction) (err error) {
	if cpu.Verbose {
		log.Infof("%04x: %v", cpu.Pc-inst.Size(), inst)
	}

	for _, reg := range inst.Operands[:inst.Format.Registers()] {
		if reg >= len(cpu.Register) {
			err = ErrRegister(reg)
			return
		}
	}

	handler := handlers[inst.Opcode]
	if handler == nil {
		err = isa.ErrOpcode(inst.Opcode)
		return
	}

	err = handler(cpu, inst)
	return
}

// String returns the current machine state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %04X\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %d\n", "sp", cpu.Stack.Sp)
	text += fmt.Sprintf("% 5s: %04X\n", "fp", cpu.Fp)
	text += fmt.Sprintf("% 5s: %v\n", "flags", cpu.Flags)
	for n, value := range cpu.Register {
		text += fmt.Sprintf("% 5s: %04X\n", fmt.Sprintf("r%d", n), value)
	}
	text += fmt.Sprintf("% 5s: %d\n", "ticks", cpu.Ticks)

	return
}

// Dump writes the machine state, the stack, and every non-zero row of
// data memory.
func (cpu *Cpu) Dump(w io.Writer) (err error) {
	_, err = io.WriteString(w, cpu.String())
	if err != nil {
		return
	}

	var stack []string
	for _, value := range cpu.Stack.All() {
		stack = append(stack, fmt.Sprintf("%04X", value))
	}
	_, err = fmt.Fprintf(w, "stack: [%v]\n", strings.Join(stack, " "))
	if err != nil {
		return
	}

	const row = 16
	for base := 0; base < len(cpu.Memory); base += row {
		data := cpu.Memory[base:min(base+row, len(cpu.Memory))]
		if !nonZero(data) {
			continue
		}
		_, err = fmt.Fprintf(w, "%04X: % X\n", base, data)
		if err != nil {
			return
		}
	}

	return
}

func nonZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return true
		}
	}
	return false
}
