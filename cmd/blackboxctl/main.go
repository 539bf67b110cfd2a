package main

import (
	"os"

	"github.com/aryorithm/blackbox/cmd/blackboxctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
