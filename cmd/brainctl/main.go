// Package main provides brainctl, an operator CLI for inspecting a brain
// server's data directory.
package main

import (
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
