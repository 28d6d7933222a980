// Copyright 2025, The akvm Authors

// Command akvm assembles and runs akvm programs.
package main

import (
	"github.com/tebeka/atexit"
)

func main() {
	code := Execute()
	atexit.Exit(code)
}
