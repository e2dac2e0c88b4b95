package main

import (
	"os"

	"github.com/dmehra/lexassist/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
