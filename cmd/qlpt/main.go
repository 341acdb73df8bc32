package main

import (
	"os"

	"github.com/qlpt/rental-portal/cmd/qlpt/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
