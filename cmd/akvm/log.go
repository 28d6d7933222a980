package main

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// newLogger creates the diagnostic logger.
// AKVM_LOG_LEVEL: debug, info, warn, error (default: info)
func newLogger(w io.Writer, debug bool) (logger *log.Logger) {
	logger = log.NewWithOptions(w, log.Options{
		Prefix: "akvm",
	})

	level := log.InfoLevel
	if env := os.Getenv("AKVM_LOG_LEVEL"); len(env) != 0 {
		parsed, err := log.ParseLevel(strings.ToLower(env))
		if err == nil {
			level = parsed
		} else {
			logger.Warn("unknown log level", "AKVM_LOG_LEVEL", env)
		}
	}
	if debug {
		level = log.DebugLevel
	}

	logger.SetLevel(level)
	return
}
