package main

import (
	"os"

	"github.com/conneroisu/routegen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
