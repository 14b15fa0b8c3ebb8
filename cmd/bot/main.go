package main

import (
	"os"

	"github.com/ivanoskov/balance_bot/cmd/bot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
