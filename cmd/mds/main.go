package main

import (
	"os"

	"github.com/msto63/mDS/cmd/mds/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
