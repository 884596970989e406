package main

import (
	"os"

	"github.com/rustyeddy/cryptosim/cmd/cryptosim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
