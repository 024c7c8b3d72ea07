package main

import (
	"os"

	"github.com/splitbook-dev/splitbook/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
