package main

import (
	"os"

	"github.com/hpkotak/huh/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
