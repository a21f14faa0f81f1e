//go:build !js

package main

import (
	"os"

	"asm6502/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
