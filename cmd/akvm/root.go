package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/akvm/akvm/config"
	"github.com/akvm/akvm/console"
)

// options are the persistent flags.
type options struct {
	config string
	debug  bool
	raw    bool

	cfg config.Config
}

// NewRootCmd builds the akvm command tree.
func NewRootCmd() (root *cobra.Command) {
	opts := &options{}

	root = &cobra.Command{
		Use:           "akvm",
		Short:         "Assemble and run akvm programs",
		Long:          "akvm assembles mnemonic programs into byte images, and runs them on the akvm virtual machines.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			log.SetDefault(newLogger(cmd.ErrOrStderr(), opts.debug))

			opts.cfg, err = config.LoadFile(opts.config)
			if err != nil {
				return
			}
			if opts.raw {
				opts.cfg.Raw = true
			}

			log.Debug("configuration", "cpu", opts.cfg.Cpu, "script", opts.cfg.Script, "max_steps", opts.cfg.MaxSteps)
			return
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.config, "config", "", "JSON configuration file")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&opts.raw, "raw", false, "Raw terminal input for INR")

	root.AddCommand(
		newAssembleCmd(opts),
		newRunCmd(opts),
		newExecCmd(opts),
		newDisasmCmd(opts),
		newSchemaCmd(opts),
	)

	return
}

// rawConsole puts stdin in raw mode when requested and possible.
// The terminal is restored on return, and on atexit.Exit.
func rawConsole(opts *options, con *console.Console) (restore func()) {
	restore = func() {}
	if !opts.cfg.Raw {
		return
	}

	tty, err := console.MakeRaw(os.Stdin)
	if err != nil {
		log.Warn("raw console unavailable", "err", err)
		return
	}

	con.Raw = true
	atexit.Register(func() { _ = tty.Restore() })
	restore = func() { _ = tty.Restore() }
	return
}

// Execute runs the command line, and returns the process exit code.
func Execute() int {
	root := NewRootCmd()

	var err error
	if console.IsTerminal(os.Stdout) {
		err = fang.Execute(
			context.Background(),
			root,
			fang.WithNotifySignal(os.Interrupt),
		)
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = root.ExecuteContext(ctx)
		if err != nil {
			log.Error(err)
		}
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		return 1
	}

	return 0
}
