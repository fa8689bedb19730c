package main

import (
	"os"

	"github.com/kakeibo-dev/kakeibo/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
