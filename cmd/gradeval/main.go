package main

import (
	"os"

	"gradeval/cmd/gradeval/commands"
)

func main() {
	root := commands.NewRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
