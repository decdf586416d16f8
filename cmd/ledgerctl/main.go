package main

import (
	"os"

	"github.com/jhoicas/Contabilidad-api/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
