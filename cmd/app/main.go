package main

import (
	"os"

	"github.com/LaibaFaraz/HealMind/cmd/app/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
