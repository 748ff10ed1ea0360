package main

import (
	"os"

	"github.com/leonschreuder/gnucsh/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
