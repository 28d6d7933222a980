package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akvm/akvm/isa"
)

func newDisasmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <image>",
		Short: "Decode a program image back to mnemonics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return
			}

			err = disassemble(cmd.OutOrStdout(), image)
			return
		},
	}
}

// disassemble writes one line per instruction. Bytes that do not decode
// are written as .DB data.
func disassemble(w io.Writer, image []byte) (err error) {
	for pc := 0; pc < len(image); {
		var size int
		var text string

		inst, derr := isa.Decode(image[pc:])
		if derr == nil {
			size = inst.Size()
			text = inst.String()
		} else {
			size = 1
			text = fmt.Sprintf(".DB 0x%02X", image[pc])
		}

		var hex []string
		for _, data := range image[pc : pc+size] {
			hex = append(hex, fmt.Sprintf("%02X", data))
		}

		_, err = fmt.Fprintf(w, "%04X: %-14s %v\n", pc, strings.Join(hex, " "), text)
		if err != nil {
			return
		}

		pc += size
	}

	return
}
