package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akvm/akvm/cpu"
	"github.com/akvm/akvm/isa"
)

func execute(t *testing.T, args ...string) (stdout string, err error) {
	root := NewRootCmd()

	var out, errs bytes.Buffer
	root.SetArgs(args)
	root.SetIn(strings.NewReader(""))
	root.SetOut(&out)
	root.SetErr(&errs)

	err = root.Execute()
	stdout = out.String()
	return
}

func writeSource(t *testing.T, name string, lines ...string) (path string) {
	path = filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return
}

func TestAssemble(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, "program.asm",
		"MOVRI 0 10",
		"HLT",
	)

	_, err := execute(t, "assemble", path)
	assert.NoError(err)

	image, err := os.ReadFile(path + ".bin")
	assert.NoError(err)
	assert.Equal([]byte{0x0C, 0x00, 0x0A, 0x00, 0x01}, image)
}

func TestAssemble_BinSource(t *testing.T) {
	assert := assert.New(t)

	source := strings.Join([]string{"MOVRI 0 1", "HLT"}, "\n")
	path := writeSource(t, "prog.bin", source)

	_, err := execute(t, "assemble", path)
	assert.NoError(err)

	// The source is never the default output.
	text, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Equal(source, string(text))

	image, err := os.ReadFile(path + ".bin")
	assert.NoError(err)
	assert.Equal([]byte{0x0C, 0x00, 0x01, 0x00, 0x01}, image)
}

func TestAssemble_Listing(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, "program.asm",
		"MOVRI 0 10",
		"HLT",
	)
	output := filepath.Join(t.TempDir(), "out.img")

	stdout, err := execute(t, "assemble", path, "-o", output, "-v")
	assert.NoError(err)
	assert.Equal("0000: 0C 00 0A 00    MOVRI 0 10\n0004: 01             HLT\n", stdout)

	image, err := os.ReadFile(output)
	assert.NoError(err)
	assert.Equal(5, len(image))
}

func TestAssemble_Error(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, "bad.asm",
		"MOVRI 0 10",
		"JMP NOWHERE",
	)

	_, err := execute(t, "assemble", path)
	assert.ErrorIs(err, isa.ErrSymbol)
	assert.Contains(err.Error(), "line 2")

	// Nothing but the source is left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	assert.NoError(err)
	assert.Equal(1, len(entries))
	assert.Equal("bad.asm", entries[0].Name())
}

func TestExec(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, "hi.asm",
		"MOVRI 0 'H'",
		"OUTC 0",
		"MOVRI 0 'i'",
		"OUTC 0",
		"HLT",
	)

	_, err := execute(t, "assemble", path)
	assert.NoError(err)

	image := path + ".bin"
	stdout, err := execute(t, "exec", image)
	assert.NoError(err)
	assert.Equal("Hi", stdout)

	stdout, err = execute(t, "exec", "--source", path)
	assert.NoError(err)
	assert.Equal("Hi", stdout)
}

func TestExec_Fault(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, "fault.asm",
		"MOVRI 0 1",
		"POPR 0",
	)

	stdout, err := execute(t, "exec", "--source", "--dump", path)
	assert.ErrorIs(err, cpu.ErrStackUnderflow)
	assert.Contains(err.Error(), "line 2")
	assert.Contains(stdout, "   r0: 0001\n")
}

func TestExec_Config(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, "spin.asm",
		"SPIN:",
		"        JMP SPIN",
	)
	cfg := writeSource(t, "akvm.json", `{"max_steps": 10}`)

	_, err := execute(t, "--config", cfg, "exec", "--source", path)
	assert.ErrorIs(err, cpu.ErrStepLimit)

	bad := writeSource(t, "bad.json", `{"cpu": {"registers": 0}}`)
	_, err = execute(t, "--config", bad, "exec", "--source", path)
	assert.Error(err)
}

func TestRun(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, "count.vm",
		"        set 0 2",
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

	stdout, err := execute(t, "run", path)
	assert.NoError(err)
	assert.Equal("2\n1\n", stdout)

	stdout, err = execute(t, "run", "--dump", path)
	assert.NoError(err)
	assert.Contains(stdout, "Reg: 0 1 0 0 0 0 0 0\n")
}

func TestDisasm(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, "image.bin")
	err := os.WriteFile(path, []byte{0x0C, 0x10, 0x05, 0x00, 0xFF, 0x01}, 0o644)
	assert.NoError(err)

	stdout, err := execute(t, "disasm", path)
	assert.NoError(err)
	assert.Equal(strings.Join([]string{
		"0000: 0C 10 05 00    MOVRI 1 5",
		"0004: FF             .DB 0xFF",
		"0005: 01             HLT",
		"",
	}, "\n"), stdout)
}

func TestSchema(t *testing.T) {
	assert := assert.New(t)

	stdout, err := execute(t, "schema")
	assert.NoError(err)
	assert.Contains(stdout, "max_steps")
}

func TestMissingFile(t *testing.T) {
	assert := assert.New(t)

	_, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.vm"))
	assert.ErrorIs(err, os.ErrNotExist)

	_, err = execute(t, "run")
	assert.Error(err)
}
