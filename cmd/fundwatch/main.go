package main

import (
	"os"

	"github.com/wonny/fundwatch/cmd/fundwatch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
