package main

import (
	"os"

	"github.com/fjglira/mdscene/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
