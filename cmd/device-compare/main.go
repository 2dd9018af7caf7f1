// Package main is the entry point for the device-compare server.
package main

import (
	"os"

	"github.com/donaldgifford/device-compare/cmd/device-compare/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
