// Package config holds the machine configuration of the akvm tools.
package config

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/akvm/akvm/translate"
)

var f = translate.From

const (
	REGISTERS_MAX = 16 // Register operands are a nibble wide.

	CPU_REGISTERS   = 16    // Default byte machine registers.
	CPU_STACK_SIZE  = 128   // Default byte machine stack depth.
	CPU_MEMORY_SIZE = 65536 // Default byte machine memory, in bytes.

	SCRIPT_REGISTERS   = 8    // Default text machine registers.
	SCRIPT_STACK_SIZE  = 128  // Default text machine stack depth.
	SCRIPT_MEMORY_SIZE = 1024 // Default text machine memory, in cells.
)

var (
	ErrRegisters  = errors.New(f("registers must be 1 to 16"))
	ErrStackSize  = errors.New(f("stack size must be positive"))
	ErrMemorySize = errors.New(f("memory size must be 1 to 65536"))
	ErrMaxSteps   = errors.New(f("max steps must not be negative"))
)

// Machine sizes a virtual machine.
type Machine struct {
	Registers  int `json:"registers" jsonschema:"title=Registers,description=Number of general purpose registers,minimum=1,maximum=16"`
	StackSize  int `json:"stack_size" jsonschema:"title=Stack Size,description=Stack capacity in entries,minimum=1"`
	MemorySize int `json:"memory_size" jsonschema:"title=Memory Size,description=Data memory size,minimum=1,maximum=65536"`
}

// Config is the configuration of the akvm tools.
type Config struct {
	Cpu      Machine `json:"cpu" jsonschema:"title=Byte Machine,description=Sizes of the byte image machine"`
	Script   Machine `json:"script" jsonschema:"title=Text Machine,description=Sizes of the textual program machine"`
	MaxSteps int     `json:"max_steps" jsonschema:"title=Max Steps,description=Instruction limit per run; 0 is unlimited,minimum=0"`
	Raw      bool    `json:"raw" jsonschema:"title=Raw,description=Use a raw terminal for console input"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Cpu: Machine{
			Registers:  CPU_REGISTERS,
			StackSize:  CPU_STACK_SIZE,
			MemorySize: CPU_MEMORY_SIZE,
		},
		Script: Machine{
			Registers:  SCRIPT_REGISTERS,
			StackSize:  SCRIPT_STACK_SIZE,
			MemorySize: SCRIPT_MEMORY_SIZE,
		},
	}
}

// Validate checks a machine size.
func (m Machine) Validate() (err error) {
	var errs []error
	if m.Registers < 1 || m.Registers > REGISTERS_MAX {
		errs = append(errs, ErrRegisters)
	}
	if m.StackSize < 1 {
		errs = append(errs, ErrStackSize)
	}
	if m.MemorySize < 1 || m.MemorySize > CPU_MEMORY_SIZE {
		errs = append(errs, ErrMemorySize)
	}

	err = errors.Join(errs...)
	return
}

// Validate checks the configuration.
func (cfg Config) Validate() (err error) {
	var errs []error
	if err := cfg.Cpu.Validate(); err != nil {
		errs = append(errs, errors.Join(errors.New(f("cpu")), err))
	}
	if err := cfg.Script.Validate(); err != nil {
		errs = append(errs, errors.Join(errors.New(f("script")), err))
	}
	if cfg.MaxSteps < 0 {
		errs = append(errs, ErrMaxSteps)
	}

	err = errors.Join(errs...)
	return
}

// Load reads a JSON configuration over the defaults.
// Unknown fields are an error.
func Load(input io.Reader) (cfg Config, err error) {
	cfg = Default()

	decoder := json.NewDecoder(input)
	decoder.DisallowUnknownFields()
	err = decoder.Decode(&cfg)
	if err != nil {
		return
	}

	err = cfg.Validate()
	return
}

// LoadFile reads a JSON configuration file.
// An empty path returns the defaults.
func LoadFile(path string) (cfg Config, err error) {
	if len(path) == 0 {
		cfg = Default()
		return
	}

	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	return Load(file)
}

// Schema returns the JSON schema of the configuration.
func Schema() (schema []byte, err error) {
	reflector := new(jsonschema.Reflector)
	schema, err = json.MarshalIndent(reflector.Reflect(&Config{}), "", "  ")
	return
}
