package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.NoError(cfg.Validate())
	assert.Equal(16, cfg.Cpu.Registers)
	assert.Equal(128, cfg.Cpu.StackSize)
	assert.Equal(65536, cfg.Cpu.MemorySize)
	assert.Equal(8, cfg.Script.Registers)
	assert.Equal(1024, cfg.Script.MemorySize)
	assert.Equal(0, cfg.MaxSteps)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load(strings.NewReader(`{"cpu": {"stack_size": 4}, "max_steps": 1000}`))
	assert.NoError(err)
	assert.Equal(4, cfg.Cpu.StackSize)
	assert.Equal(16, cfg.Cpu.Registers)
	assert.Equal(1000, cfg.MaxSteps)
	assert.Equal(Default().Script, cfg.Script)
}

func TestLoad_Errors(t *testing.T) {
	assert := assert.New(t)

	_, err := Load(strings.NewReader(`{"cpu": {"registers": 17}}`))
	assert.ErrorIs(err, ErrRegisters)

	_, err = Load(strings.NewReader(`{"script": {"stack_size": 0, "memory_size": 70000}}`))
	assert.ErrorIs(err, ErrStackSize)
	assert.ErrorIs(err, ErrMemorySize)

	_, err = Load(strings.NewReader(`{"max_steps": -1}`))
	assert.ErrorIs(err, ErrMaxSteps)

	_, err = Load(strings.NewReader(`{"bogus": true}`))
	assert.Error(err)

	_, err = Load(strings.NewReader(`{`))
	assert.Error(err)
}

func TestLoadFile(t *testing.T) {
	assert := assert.New(t)

	cfg, err := LoadFile("")
	assert.NoError(err)
	assert.Equal(Default(), cfg)

	path := filepath.Join(t.TempDir(), "akvm.json")
	assert.NoError(os.WriteFile(path, []byte(`{"raw": true}`), 0o644))

	cfg, err = LoadFile(path)
	assert.NoError(err)
	assert.True(cfg.Raw)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(err, os.ErrNotExist)
}

func TestSchema(t *testing.T) {
	assert := assert.New(t)

	schema, err := Schema()
	assert.NoError(err)

	var doc map[string]any
	assert.NoError(json.Unmarshal(schema, &doc))
	assert.Contains(string(schema), "max_steps")
	assert.Contains(string(schema), "stack_size")
}
