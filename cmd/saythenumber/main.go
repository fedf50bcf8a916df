package main

import (
	"os"

	"saythenumber/cmd/saythenumber/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
