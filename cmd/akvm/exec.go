package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/akvm/akvm/emulator"
)

func newExecCmd(opts *options) *cobra.Command {
	var dump bool
	var verbose bool
	var source bool

	cmd := &cobra.Command{
		Use:   "exec <image>",
		Short: "Run a program image on the byte machine",
		Long:  "Run a program image on the byte machine. With --source the argument is assembled first, so faults report source lines.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			emu := emulator.NewEmulator(opts.cfg)
			emu.Verbose = verbose
			emu.Console.Input = cmd.InOrStdin()
			emu.Console.Output = cmd.OutOrStdout()

			if source {
				var inf *os.File
				inf, err = os.Open(args[0])
				if err != nil {
					return
				}
				defer inf.Close()
				err = emu.Assemble(inf)
			} else {
				var image []byte
				image, err = os.ReadFile(args[0])
				if err != nil {
					return
				}
				err = emu.LoadImage(image)
			}
			if err != nil {
				return
			}

			restore := rawConsole(opts, &emu.Console)
			defer restore()

			err = emu.Run(cmd.Context())

			if dump {
				if derr := emu.Cpu.Dump(&emu.Console); err == nil {
					err = derr
				}
			}

			return
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the machine state when the program stops")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Trace every instruction")
	cmd.Flags().BoolVar(&source, "source", false, "Argument is assembler source, not an image")

	return cmd
}
