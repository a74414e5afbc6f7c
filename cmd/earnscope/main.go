package main

import (
	"os"

	"earnscope/cmd/earnscope/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
