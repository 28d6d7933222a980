// Copyright 2025, The akvm Authors

// Package emulator runs assembled programs on the byte image machine.
package emulator

import (
	"context"
	"io"
	"iter"
	"maps"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/akvm/akvm/asm"
	"github.com/akvm/akvm/config"
	"github.com/akvm/akvm/console"
	"github.com/akvm/akvm/cpu"
	"github.com/akvm/akvm/internal"
)

const (
	CODE_BASE = 0 // Load address of the program image.
)

var _emulator_defines = map[string]string{
	"CODE_BASE": strconv.Itoa(CODE_BASE),
}

// Emulator state. CPU + console + program listing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Reference to the currently running program listing.

	Console  console.Console // Guest console.
	MaxSteps int             // Instruction limit for Run, 0 is unlimited.
}

// NewEmulator creates a new emulator.
func NewEmulator(cfg config.Config) (emu *Emulator) {
	emu = &Emulator{
		Cpu:      cpu.NewCpu(cfg.Cpu),
		MaxSteps: cfg.MaxSteps,
	}

	emu.Cpu.Console = &emu.Console

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Console.Defines(),
	)
}

// Assembler returns an assembler with the emulator defines predefined.
func (emu *Emulator) Assembler() (as *asm.Assembler) {
	as = &asm.Assembler{Verbose: emu.Verbose}
	for name, value := range internal.SortedByKey(emu.Defines()) {
		if emu.Verbose {
			log.Infof("define %v = %v", name, value)
		}
		as.Predefine(name, value)
	}

	return
}

// Assemble parses a source program, and resets the emulator to run it.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	prog, err := emu.Assembler().Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	err = emu.Reset()
	return
}

// Reset loads the program image, and resets the machine.
func (emu *Emulator) Reset() (err error) {
	var image []byte
	if emu.Program != nil {
		image = emu.Program.Image()
	}

	emu.Cpu.Verbose = emu.Verbose
	err = emu.Cpu.Load(image)
	return
}

// LoadImage loads a raw program image, without a listing.
func (emu *Emulator) LoadImage(image []byte) (err error) {
	emu.Program = nil
	emu.Cpu.Verbose = emu.Verbose
	err = emu.Cpu.Load(image)
	return
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
// done is set once the program has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if !emu.Cpu.Running {
		done = true
		return
	}

	lineno := emu.LineNo()
	err = emu.Cpu.Tick()
	if err != nil {
		err = &ErrRuntime{LineNo: lineno, Err: err}
		return
	}

	done = !emu.Cpu.Running
	return
}

// Run ticks until the program halts, faults, or ctx is done.
// Stops with cpu.ErrStepLimit after MaxSteps instructions.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for {
		err = ctx.Err()
		if err != nil {
			return
		}

		if emu.MaxSteps > 0 && emu.Cpu.Ticks >= emu.MaxSteps {
			err = &ErrRuntime{LineNo: emu.LineNo(), Err: cpu.ErrStepLimit}
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
