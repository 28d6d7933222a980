package textvm

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akvm/akvm/asm"
	"github.com/akvm/akvm/config"
	"github.com/akvm/akvm/console"
	"github.com/akvm/akvm/cpu"
	"github.com/akvm/akvm/isa"
)

func newMachine(t *testing.T, cfg config.Machine, input string, program ...string) (m *Machine, out *bytes.Buffer) {
	prog, err := Load(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	out = &bytes.Buffer{}
	m = NewMachine(cfg)
	m.Console = &console.Console{Input: strings.NewReader(input), Output: out}
	m.Load(prog)
	return
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	prog, err := Load(strings.NewReader(strings.Join([]string{
		"; comment",
		"        jmp end",
		"lbl start",
		"        set 0 -5",
		"lbl end",
		"        jmz start",
		"lbl tail",
	}, "\n")))
	assert.NoError(err)

	assert.Equal(map[string]int{"start": 1, "end": 2, "tail": 3}, prog.Label)
	assert.Equal(3, len(prog.Statements))
	assert.Equal("jmp", prog.Statements[0].Op.Mnemonic)
	assert.Equal([]int{2}, prog.Statements[0].Args)
	assert.Equal(2, prog.Statements[0].LineNo)
	assert.Equal([]int{0, -5}, prog.Statements[1].Args)
	assert.Equal([]int{1}, prog.Statements[2].Args)
}

func TestLoad_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		program []string
		lineno  int
		err     error
	}{
		{[]string{"hlt", "foo 1"}, 2, isa.ErrUnknownInstruction},
		{[]string{"set 0"}, 1, isa.ErrOperandArity},
		{[]string{"hlt 1"}, 1, isa.ErrOperandArity},
		{[]string{"jmp nowhere"}, 1, asm.ErrUndefinedSymbol},
		{[]string{"set 0 1x"}, 1, asm.ErrInvalidOperand},
		{[]string{"lbl"}, 1, asm.ErrLabelSyntax},
		{[]string{"lbl a", "hlt", "lbl a"}, 3, asm.ErrLabelDuplicate},
	}

	for _, entry := range table {
		source := strings.Join(entry.program, "\n")
		prog, err := Load(strings.NewReader(source))
		assert.Nil(prog, source)
		assert.ErrorIs(err, entry.err, source)

		var line *asm.ErrLine
		if assert.True(errors.As(err, &line), source) {
			assert.Equal(entry.lineno, line.LineNo, source)
		}
	}
}

func TestMachine_Countdown(t *testing.T) {
	assert := assert.New(t)

	m, out := newMachine(t, config.Default().Script, "",
		"        set 0 3",
		"        set 1 1",
		"        set 2 0",
		"lbl loop",
		"        print 0",
		"        sub 0 1",
		"        cmp 0 2",
		"        jmz done",
		"        jmp loop",
		"lbl done",
		"        hlt",
	)

	err := m.Run(context.Background(), 0)
	assert.NoError(err)
	assert.Equal("3\n2\n1\n", out.String())
	assert.False(m.Running)
	assert.True(m.Flag)
}

func TestMachine_Arithmetic(t *testing.T) {
	assert := assert.New(t)

	m, _ := newMachine(t, config.Default().Script, "",
		"set 0 10",
		"set 1 5",
		"add 0 1",
		"set 2 20",
		"sub 1 2",
		"hlt",
	)

	assert.NoError(m.Run(context.Background(), 0))
	assert.Equal(15, m.Register[0])
	assert.Equal(-15, m.Register[1])
	assert.Equal(6, m.Ticks)
}

func TestMachine_Memory(t *testing.T) {
	assert := assert.New(t)

	m, _ := newMachine(t, config.Default().Script, "",
		"set 0 42",
		"store 5 0",
		"load 1 5",
		"set 2 6",
		"storei 2 0",
		"loadi 3 2",
		"hlt",
	)

	assert.NoError(m.Run(context.Background(), 0))
	assert.Equal(42, m.Register[1])
	assert.Equal(42, m.Register[3])
	assert.Equal(42, m.Memory[5])
	assert.Equal(42, m.Memory[6])
}

func TestMachine_Stack(t *testing.T) {
	assert := assert.New(t)

	m, out := newMachine(t, config.Default().Script, "",
		"set 0 1",
		"push 0",
		"set 0 2",
		"push 0",
		"pop 1",
		"pop 2",
		"print 1",
		"print 2",
		"hlt",
	)

	assert.NoError(m.Run(context.Background(), 0))
	assert.Equal("2\n1\n", out.String())
	assert.Equal(-1, m.Stack.Sp)
}

func TestMachine_Console(t *testing.T) {
	assert := assert.New(t)

	m, out := newMachine(t, config.Default().Script, "A\n\n",
		"set 0 72",
		"out 0",
		"set 0 105",
		"out 0",
		"input 1",
		"print 1",
		"input 2",
	)

	err := m.Run(context.Background(), 0)
	assert.ErrorIs(err, ErrEmptyInput)
	assert.Equal("Hi65\n", out.String())
	assert.Equal(65, m.Register[1])

	var fault *ErrFault
	if assert.True(errors.As(err, &fault)) {
		assert.Equal(6, fault.Pc)
		assert.Equal(7, fault.LineNo)
		assert.Equal("input 2", fault.Text)
	}

	m, _ = newMachine(t, config.Default().Script, "", "input 0")
	err = m.Run(context.Background(), 0)
	assert.ErrorIs(err, ErrEndOfInput)
}

func TestMachine_Jumps(t *testing.T) {
	assert := assert.New(t)

	m, _ := newMachine(t, config.Default().Script, "",
		"        set 0 there",
		"        jmpr 0",
		"        hlt",
		"lbl there",
		"        set 1 7",
		"        set 2 7",
		"        cmp 1 2",
		"        jmzv done",
		"        set 3 1",
		"lbl done",
		"        hlt",
	)

	assert.NoError(m.Run(context.Background(), 0))
	assert.Equal(7, m.Register[1])
	assert.Equal(0, m.Register[3])
}

func TestMachine_Faults(t *testing.T) {
	assert := assert.New(t)

	small := config.Machine{Registers: 8, StackSize: 2, MemorySize: 16}

	table := [...]struct {
		name    string
		program []string
		pc      int
		err     error
	}{
		{"register", []string{"set 8 1"}, 0, cpu.ErrRegisterBounds},
		{"load", []string{"load 0 16"}, 0, cpu.ErrMemoryBounds},
		{"store", []string{"store -1 0"}, 0, cpu.ErrMemoryBounds},
		{"loadi", []string{"set 1 99", "loadi 0 1"}, 1, cpu.ErrMemoryBounds},
		{"underflow", []string{"pop 0"}, 0, cpu.ErrStackUnderflow},
		{"overflow", []string{"push 0", "push 0", "push 0"}, 2, cpu.ErrStackOverflow},
		{"end", []string{"set 0 1"}, 1, cpu.ErrPcBounds},
		{"jmpr", []string{"set 0 -1", "jmpr 0"}, -1, cpu.ErrPcBounds},
	}

	for _, entry := range table {
		m, _ := newMachine(t, small, "", entry.program...)
		err := m.Run(context.Background(), 0)
		assert.ErrorIs(err, entry.err, entry.name)
		assert.ErrorIs(err, isa.ErrRuntime, entry.name)
		assert.False(m.Running, entry.name)
		assert.Equal(entry.pc, m.Pc, entry.name)
	}
}

func TestMachine_Run(t *testing.T) {
	assert := assert.New(t)

	m, _ := newMachine(t, config.Default().Script, "",
		"lbl spin",
		"        jmp spin",
	)

	err := m.Run(context.Background(), 100)
	assert.ErrorIs(err, cpu.ErrStepLimit)
	assert.Equal(100, m.Ticks)
	assert.True(m.Running)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = m.Run(ctx, 0)
	assert.ErrorIs(err, context.Canceled)

	m.Running = false
	err = m.Step()
	assert.ErrorIs(err, cpu.ErrHalted)
}

func TestMachine_Dump(t *testing.T) {
	assert := assert.New(t)

	m, out := newMachine(t, config.Machine{Registers: 2, StackSize: 4, MemorySize: 20}, "",
		"set 0 3",
		"push 0",
		"store 17 0",
		"dump",
		"hlt",
	)

	assert.NoError(m.Run(context.Background(), 0))
	assert.Equal(strings.Join([]string{
		"PC: 4, SP: 0, FP: 0, FLAG: false",
		"Reg: 3 0",
		"Stack: 3",
		"Mem 16: 0 3 0 0",
		"",
	}, "\n"), out.String())
}
