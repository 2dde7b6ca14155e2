package main

import (
	"os"

	"github.com/relspec/relspec/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
