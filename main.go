package main

import (
	"os"

	"github.com/netrixframework/kbandit/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
