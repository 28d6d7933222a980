package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/akvm/akvm/textvm"
)

func newRunCmd(opts *options) *cobra.Command {
	var dump bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run <code-file>",
		Short: "Run a program in the textual dialect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			inf, err := os.Open(args[0])
			if err != nil {
				return
			}
			defer inf.Close()

			prog, err := textvm.Load(inf)
			if err != nil {
				return
			}

			m := textvm.NewMachine(opts.cfg.Script)
			m.Verbose = verbose
			m.Console.Input = cmd.InOrStdin()
			m.Console.Output = cmd.OutOrStdout()
			m.Load(prog)

			restore := rawConsole(opts, m.Console)
			defer restore()

			err = m.Run(cmd.Context(), opts.cfg.MaxSteps)

			if dump {
				if derr := m.Dump(m.Console); err == nil {
					err = derr
				}
			}

			return
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the machine state when the program stops")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Trace every instruction")

	return cmd
}
