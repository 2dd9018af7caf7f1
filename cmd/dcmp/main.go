// Package main is the entry point for the dcmp CLI client.
package main

import (
	"github.com/donaldgifford/device-compare/cmd/dcmp/cmd"
)

func main() {
	cmd.Execute()
}
