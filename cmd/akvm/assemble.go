package main

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/akvm/akvm/emulator"
)

func newAssembleCmd(opts *options) *cobra.Command {
	var output string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "assemble <input>",
		Short: "Assemble a source file into a program image",
		Long:  "Assemble a source file into a program image. The image is written to the input path with .bin appended unless -o is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			input := args[0]
			if len(output) == 0 {
				output = input + ".bin"
			}

			inf, err := os.Open(input)
			if err != nil {
				return
			}
			defer inf.Close()

			emu := emulator.NewEmulator(opts.cfg)
			emu.Verbose = opts.debug
			prog, err := emu.Assembler().Parse(inf)
			if err != nil {
				return
			}

			if verbose {
				err = prog.Listing(cmd.OutOrStdout())
				if err != nil {
					return
				}
			}

			err = writeFile(output, prog.Image())
			if err != nil {
				return
			}

			log.Debug("assembled", "file", input, "output", output, "bytes", prog.Size())
			return
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output image file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Write the listing to stdout")

	return cmd
}

// writeFile writes data through a temporary file in the same directory,
// so the output is either complete or absent.
func writeFile(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	_, err = tmp.Write(data)
	if err != nil {
		_ = tmp.Close()
		return
	}

	err = tmp.Close()
	if err != nil {
		return
	}

	err = os.Rename(tmp.Name(), path)
	return
}
