package main

import (
	"os"

	"github.com/0x5457/textsim/cmd/textsim/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
