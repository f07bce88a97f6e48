package main

import (
	"os"

	"github.com/nolan-veed/divcast/cmd/divcast/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
